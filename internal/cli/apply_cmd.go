package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	onboardinghttp "spotlight/contexts/identity-access/onboarding-service/transport/http"
)

func newApplyCmd(opts *options) *cobra.Command {
	var (
		req            onboardinghttp.SubmitApplicationRequest
		idempotencyKey string
	)
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply to join the platform as an influencer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(req.FullName) == "" || strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Niche) == "" {
				return errors.New("--name, --email and --niche are required")
			}
			if len(req.SocialHandles) == 0 {
				return errors.New("at least one --handle platform=handle is required")
			}
			if idempotencyKey == "" {
				idempotencyKey = uuid.NewString()
			}
			resp, err := opts.client().SubmitApplication(commandContext(cmd), idempotencyKey, req)
			if err != nil {
				return err
			}
			if opts.output == "json" {
				return printJSON(cmd.OutOrStdout(), resp.Data)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Application %s received (status %s)\n", resp.Data.ApplicationID, resp.Data.Status)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&req.FullName, "name", "", "Full name")
	flags.StringVar(&req.Email, "email", "", "Contact e-mail")
	flags.StringVar(&req.Phone, "phone", "", "Phone number")
	flags.StringVar(&req.Niche, "niche", "", "Content niche")
	flags.Int64Var(&req.FollowerCount, "followers", 0, "Total follower count")
	flags.Float64Var(&req.EngagementRate, "engagement", 0, "Engagement rate in percent (0-100)")
	flags.StringVar(&req.PortfolioURL, "portfolio", "", "Portfolio URL")
	flags.StringToStringVar(&req.SocialHandles, "handle", nil, "Social handle as platform=handle (repeatable)")
	flags.StringVar(&req.Bio, "bio", "", "Short bio")
	flags.StringVar(&idempotencyKey, "idempotency-key", "", "Reuse a key to retry a submission safely (default: random)")
	return cmd
}
