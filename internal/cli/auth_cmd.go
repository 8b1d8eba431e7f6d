package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"spotlight/internal/client"
)

func newLoginCmd(opts *options) *cobra.Command {
	var (
		email         string
		password      string
		passwordStdin bool
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if passwordStdin {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password from stdin: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if strings.TrimSpace(email) == "" || password == "" {
				return errors.New("--email and a password are required")
			}

			user, session, err := opts.backend(cmd).SignIn(commandContext(cmd), email, password)
			if err != nil {
				return err
			}
			if opts.output == "json" {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"user_id":    user.ID,
					"email":      user.Email,
					"role":       user.Role,
					"session_id": session.ID,
					"expires_at": session.ExpiresAt,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", user.Email, user.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account e-mail")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	return cmd
}

func newLogoutCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			provider := client.NewSessionProvider(opts.backend(cmd), opts.logger(cmd))
			defer provider.Close()
			provider.SignOut(commandContext(cmd))
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func newWhoamiCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			provider := client.NewSessionProvider(opts.backend(cmd), opts.logger(cmd))
			defer provider.Close()
			if err := provider.Start(commandContext(cmd)); err != nil {
				return err
			}
			user := provider.CurrentUser()
			if user == nil {
				return errNotSignedIn
			}
			session := provider.CurrentSession()
			if opts.output == "json" {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"user_id":        user.ID,
					"email":          user.Email,
					"role":           user.Role,
					"display_name":   user.DisplayName,
					"email_verified": user.EmailVerified,
					"session_id":     session.ID,
					"expires_at":     session.ExpiresAt,
				})
			}
			return printTable(cmd.OutOrStdout(),
				[]string{"EMAIL", "ROLE", "NAME", "SESSION EXPIRES"},
				[][]string{{user.Email, user.Role, user.DisplayName, session.ExpiresAt.Format("2006-01-02 15:04")}},
			)
		},
	}
}
