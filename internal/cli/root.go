// Package cli implements the spotlight command line client.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"spotlight/internal/client"
)

const (
	defaultAPIURL = "http://localhost:8080"
	envAPIURL     = "SPOTLIGHT_API_URL"
	envTokenFile  = "SPOTLIGHT_TOKEN_FILE"
)

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		output, _ := rootCmd.PersistentFlags().GetString("output")
		printError(rootCmd.ErrOrStderr(), rootCmd.OutOrStdout(), output, err)
		return 1
	}
	return 0
}

type options struct {
	apiURL    string
	tokenFile string
	output    string
	verbose   bool
}

func (o *options) client() *client.Client {
	return client.NewClient(o.apiURL, "")
}

func (o *options) tokens() client.TokenFile {
	return client.TokenFile{Path: o.tokenFile}
}

func (o *options) backend(cmd *cobra.Command) *client.HTTPSessionBackend {
	return &client.HTTPSessionBackend{
		Client: o.client(),
		Tokens: o.tokens(),
		Logger: o.logger(cmd),
	}
}

func (o *options) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// authedClient returns a client carrying the saved access token.
func (o *options) authedClient() (*client.Client, error) {
	stored, ok, err := o.tokens().Load()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errNotSignedIn
	}
	return o.client().WithToken(stored.AccessToken), nil
}

var errNotSignedIn = errors.New("not signed in: run 'spotlight login' first")

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "spotlight",
		Short:         "Spotlight campaign platform CLI",
		Long:          "Command-line client for the Spotlight brand and influencer campaign API.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// flag > env > default
			if !cmd.Flags().Changed("api-url") {
				if v := strings.TrimSpace(os.Getenv(envAPIURL)); v != "" {
					opts.apiURL = v
				}
			}
			if !cmd.Flags().Changed("token-file") {
				if v := strings.TrimSpace(os.Getenv(envTokenFile)); v != "" {
					opts.tokenFile = v
				}
			}
			if opts.tokenFile == "" {
				opts.tokenFile = client.DefaultTokenPath()
			}
			return validateOutputFormat(opts.output)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.apiURL, "api-url", defaultAPIURL, "API base URL")
	rootCmd.PersistentFlags().StringVar(&opts.tokenFile, "token-file", "", "Session token file (default ~/.spotlight/session.yaml)")
	rootCmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "table", "Output format (table, json)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log client diagnostics to stderr")

	rootCmd.AddCommand(newLoginCmd(opts))
	rootCmd.AddCommand(newLogoutCmd(opts))
	rootCmd.AddCommand(newWhoamiCmd(opts))
	rootCmd.AddCommand(newCampaignsCmd(opts))
	rootCmd.AddCommand(newApplyCmd(opts))

	return rootCmd
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func printError(stderr, stdout io.Writer, output string, err error) {
	if output == "json" {
		payload := map[string]any{"error": err.Error()}
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			payload["http_status"] = apiErr.HTTPStatus
			payload["code"] = apiErr.Code
		}
		_ = printJSON(stdout, payload)
		return
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
}
