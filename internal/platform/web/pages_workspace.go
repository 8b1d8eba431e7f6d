package web

import (
	"fmt"
	"strconv"
	"strings"

	campaignhttp "spotlight/contexts/campaign-editorial/campaign-service/transport/http"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

func dashboardPage(page pageContext) Node {
	name := page.Viewer.DisplayName
	if name == "" {
		name = page.Viewer.Email
	}
	return appPage(page, "Dashboard",
		Div(Class("card"),
			P(Text("Welcome back, "+name+".")),
			P(Class("muted"), Text("Browse the creator directory or review platform-wide performance.")),
		),
		Div(Class("grid"),
			Div(Class("card"), H3(Text("Influencers")), P(A(Href("/influencers"), Text("Open the directory")))),
			Div(Class("card"), H3(Text("Analytics")), P(A(Href("/analytics"), Text("See the last six months")))),
		),
	)
}

func brandDashboardPage(page pageContext, counts map[string]int, recent []campaignhttp.CampaignDTO) Node {
	stats := make([]Node, 0, len(campaignStatuses))
	for _, status := range campaignStatuses {
		stats = append(stats, Div(Class("card"),
			Div(Class("muted"), Text(status)),
			Div(Class("stat"), Text(strconv.Itoa(counts[status]))),
		))
	}
	return appPage(page, "Brand dashboard",
		Div(Class("grid"), Group(stats)),
		Div(Class("card"),
			H2(Text("Recent campaigns")),
			campaignTable(recent),
			P(A(Href("/campaigns"), Text("Manage campaigns"))),
		),
	)
}

var campaignStatuses = []string{"pending", "approved", "rejected", "active", "paused", "completed"}

func campaignsPage(page pageContext, items []campaignhttp.CampaignDTO, form campaignForm) Node {
	return appPage(page, "Campaigns",
		Div(Class("card"),
			H2(Text("Your campaigns")),
			campaignTable(items),
		),
		Div(Class("card"),
			H2(Text("New campaign")),
			campaignFormNode(page, form),
		),
	)
}

func campaignTable(items []campaignhttp.CampaignDTO) Node {
	if len(items) == 0 {
		return P(Class("muted"), Text("No campaigns yet."))
	}
	rows := make([]Node, 0, len(items))
	for _, item := range items {
		rows = append(rows, Tr(
			Td(Strong(Text(item.Title)), Div(Class("muted"), Text(item.InfluencerTier+" tier, "+strings.Join(item.Platforms, ", ")))),
			Td(Text(formatMoney(item.Budget))),
			Td(Text(fmt.Sprintf("%d days", item.DurationDays))),
			Td(statusBadge(item.Status)),
			Td(Text(formatDate(item.CreatedAt))),
		))
	}
	return Table(
		THead(Tr(Th(Text("Campaign")), Th(Text("Budget")), Th(Text("Duration")), Th(Text("Status")), Th(Text("Created")))),
		TBody(Group(rows)),
	)
}

func campaignFormNode(page pageContext, form campaignForm) Node {
	return Form(
		Method("post"),
		Action("/campaigns"),
		csrfField(page.CSRF),
		hiddenInput("idempotency_key", form.IdempotencyKey),
		inputField("Title", "title", "text", form.Title, form.Errors),
		textareaField("Description", "description", form.Description, form.Errors),
		Div(Class("grid"),
			inputField("Budget (USD)", "budget", "number", form.Budget, form.Errors, Min("0")),
			inputField("Duration (days)", "duration_days", "number", form.DurationDays, form.Errors, Min("1")),
			selectField("Influencer tier", "influencer_tier", form.InfluencerTier, campaignTiers, form.Errors),
		),
		inputField("Target audience", "target_audience", "text", form.TargetAudience, form.Errors),
		textareaField("Goals", "goals", form.Goals, form.Errors),
		inputField("Content type", "content_type", "text", form.ContentType, form.Errors, Placeholder("short video, story, review...")),
		inputField("Platforms", "platforms", "text", strings.Join(form.Platforms, ", "), form.Errors, Placeholder("instagram, tiktok, pinterest")),
		inputField("Timeline", "timeline", "text", form.Timeline, form.Errors),
		textareaField("KPIs", "kpis", form.KPIs, form.Errors),
		Button(Type("submit"), Class("btn btn-primary"), Text("Submit for review")),
	)
}

func influencerDirectoryPage(page pageContext, niches []string, selected string, items []sampleInfluencer) Node {
	filters := []Node{A(Href("/influencers"), Class("badge"), Text("all"))}
	for _, niche := range niches {
		filters = append(filters, Text(" "), A(Href("/influencers?niche="+niche), Class("badge"), Text(niche)))
	}
	rows := make([]Node, 0, len(items))
	for _, item := range items {
		rows = append(rows, Tr(
			Td(Strong(Text(item.Name)), Div(Class("muted"), Text(item.Handle))),
			Td(Text(item.Niche)),
			Td(Text(item.Platform)),
			Td(Text(formatCount(item.Followers))),
			Td(Text(fmt.Sprintf("%.1f%%", item.EngagementRate))),
		))
	}
	heading := "All creators"
	if selected != "" {
		heading = "Creators in " + selected
	}
	return appPage(page, "Influencers",
		Div(Class("card"),
			P(Group(filters)),
			H2(Text(heading)),
			Table(
				THead(Tr(Th(Text("Creator")), Th(Text("Niche")), Th(Text("Platform")), Th(Text("Followers")), Th(Text("Engagement")))),
				TBody(Group(rows)),
			),
		),
	)
}

func analyticsPage(page pageContext, series []monthlyMetric) Node {
	var peakReach, peakEngagement int64
	for _, item := range series {
		peakReach = max(peakReach, item.Reach)
		peakEngagement = max(peakEngagement, item.Engagement)
	}
	return appPage(page, "Analytics",
		Div(Class("grid"),
			Div(Class("card"), H2(Text("Reach")), barChart(series, peakReach, func(m monthlyMetric) int64 { return m.Reach })),
			Div(Class("card"), H2(Text("Engagement")), barChart(series, peakEngagement, func(m monthlyMetric) int64 { return m.Engagement })),
		),
	)
}

func barChart(series []monthlyMetric, peak int64, value func(monthlyMetric) int64) Node {
	rows := make([]Node, 0, len(series))
	for _, item := range series {
		width := 0
		if peak > 0 {
			width = int(value(item) * 100 / peak)
		}
		rows = append(rows, Div(Class("bar-row"),
			Span(Text(item.Month)),
			Div(Class("bar"), Style(fmt.Sprintf("width: %d%%", width))),
			Span(Class("muted"), Text(formatCount(value(item)))),
		))
	}
	return Div(Group(rows))
}

func influencerRestrictedPage(page pageContext) Node {
	return appPage(page, "Influencer workspace",
		Div(Class("card"),
			P(Text("The influencer workspace is not open yet.")),
			P(Class("muted"), Text("Approved creators will be invited by email once campaigns are ready to match.")),
			P(A(Href("/influencers"), Text("Browse the creator directory"))),
		),
	)
}

func formatMoney(amount float64) string {
	return "$" + formatCount(int64(amount))
}

// formatCount renders 1250000 as 1,250,000.
func formatCount(n int64) string {
	raw := strconv.FormatInt(n, 10)
	negative := strings.HasPrefix(raw, "-")
	raw = strings.TrimPrefix(raw, "-")
	var b strings.Builder
	for i, ch := range raw {
		if i > 0 && (len(raw)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
	}
	if negative {
		return "-" + b.String()
	}
	return b.String()
}
