package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	campaignhttp "spotlight/contexts/campaign-editorial/campaign-service/transport/http"
	"spotlight/internal/client"
)

func newCampaignsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "campaigns",
		Short: "List and create brand campaigns",
	}
	cmd.AddCommand(newCampaignsListCmd(opts))
	cmd.AddCommand(newCampaignsCreateCmd(opts))
	return cmd
}

func newCampaignsListCmd(opts *options) *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your campaigns, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := opts.authedClient()
			if err != nil {
				return err
			}
			items, err := api.ListCampaigns(commandContext(cmd), status)
			if err != nil {
				return err
			}
			if opts.output == "json" {
				return printJSON(cmd.OutOrStdout(), items)
			}
			return printCampaigns(cmd, items)
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (pending, approved, rejected, active, paused, completed)")
	return cmd
}

func newCampaignsCreateCmd(opts *options) *cobra.Command {
	var (
		req            campaignhttp.CreateCampaignRequest
		idempotencyKey string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Submit a campaign for admin review",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if missing := missingCampaignFields(req); len(missing) > 0 {
				return fmt.Errorf("missing required flags: %s", strings.Join(missing, ", "))
			}
			api, err := opts.authedClient()
			if err != nil {
				return err
			}
			store := client.NewCampaignStore(api)
			created, err := store.Create(commandContext(cmd), idempotencyKey, req)
			if err != nil {
				return err
			}
			if opts.output == "json" {
				return printJSON(cmd.OutOrStdout(), created)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Campaign %s submitted (status %s)\n", created.CampaignID, created.Status)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&req.Title, "title", "", "Campaign title")
	flags.StringVar(&req.Description, "description", "", "Campaign description")
	flags.Float64Var(&req.Budget, "budget", 0, "Budget in USD")
	flags.IntVar(&req.DurationDays, "duration", 0, "Duration in days")
	flags.StringVar(&req.InfluencerTier, "tier", "", "Influencer tier (micro, macro, mega)")
	flags.StringVar(&req.TargetAudience, "audience", "", "Target audience")
	flags.StringVar(&req.Goals, "goals", "", "Campaign goals")
	flags.StringVar(&req.ContentType, "content-type", "", "Content type")
	flags.StringSliceVar(&req.Platforms, "platform", nil, "Platform (repeatable)")
	flags.StringVar(&req.Timeline, "timeline", "", "Timeline")
	flags.StringVar(&req.KPIs, "kpis", "", "Key performance indicators")
	flags.StringVar(&idempotencyKey, "idempotency-key", "", "Reuse a key to retry a submission safely (default: random)")
	return cmd
}

func missingCampaignFields(req campaignhttp.CreateCampaignRequest) []string {
	var missing []string
	check := func(flag, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, "--"+flag)
		}
	}
	check("title", req.Title)
	check("description", req.Description)
	check("tier", req.InfluencerTier)
	check("audience", req.TargetAudience)
	check("goals", req.Goals)
	check("content-type", req.ContentType)
	check("timeline", req.Timeline)
	check("kpis", req.KPIs)
	if req.DurationDays <= 0 {
		missing = append(missing, "--duration")
	}
	if len(req.Platforms) == 0 {
		missing = append(missing, "--platform")
	}
	return missing
}

func printCampaigns(cmd *cobra.Command, items []campaignhttp.CampaignDTO) error {
	if len(items) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No campaigns yet")
		return nil
	}
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.CampaignID,
			item.Title,
			item.Status,
			item.InfluencerTier,
			strconv.FormatFloat(item.Budget, 'f', 2, 64),
			strconv.Itoa(item.DurationDays),
			item.CreatedAt,
		})
	}
	return printTable(cmd.OutOrStdout(),
		[]string{"ID", "TITLE", "STATUS", "TIER", "BUDGET", "DAYS", "CREATED"},
		rows,
	)
}
