package main

import (
	"os"

	"spotlight/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
