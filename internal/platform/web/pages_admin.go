package web

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	campaignentities "spotlight/contexts/campaign-editorial/campaign-service/domain/entities"
	campaignhttp "spotlight/contexts/campaign-editorial/campaign-service/transport/http"
	onboardinghttp "spotlight/contexts/identity-access/onboarding-service/transport/http"
	profilehttp "spotlight/contexts/identity-access/profile-service/transport/http"
	adminhttp "spotlight/contexts/internal-ops/admin-dashboard-service/transport/http"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

var campaignActions = []campaignentities.StatusAction{
	campaignentities.StatusActionApprove,
	campaignentities.StatusActionReject,
	campaignentities.StatusActionActivate,
	campaignentities.StatusActionPause,
	campaignentities.StatusActionResume,
	campaignentities.StatusActionComplete,
}

type adminOverviewView struct {
	Overview     adminhttp.OverviewResponse
	Campaigns    []campaignhttp.CampaignDTO
	StatusFilter string
	Applications []onboardinghttp.ApplicationDTO
	AuditLog     []adminhttp.AuditLogEntryDTO
}

func adminOverviewPage(page pageContext, view adminOverviewView) Node {
	return appPage(page, "Admin",
		Div(Class("grid"),
			statCard("Brands", view.Overview.Brands),
			statCard("Influencers", view.Overview.Influencers),
			statCard("Pending campaigns", view.Overview.CampaignsByStatus["pending"]),
			statCard("Pending applications", view.Overview.ApplicationsByStatus["pending"]),
		),
		Div(Class("card"),
			H2(Text("Campaigns")),
			statusFilter(view.StatusFilter),
			adminCampaignTable(page, view.Campaigns),
		),
		Div(Class("card"),
			H2(Text("Pending influencer applications")),
			applicationTable(page, view.Applications, true),
		),
		Div(Class("card"),
			H2(Text("Recent activity")),
			auditTable(view.AuditLog),
		),
	)
}

func statCard(label string, value int) Node {
	return Div(Class("card"),
		Div(Class("muted"), Text(label)),
		Div(Class("stat"), Text(strconv.Itoa(value))),
	)
}

func statusFilter(selected string) Node {
	links := []Node{A(Href("/admin"), Class("badge"), Text("all"))}
	for _, status := range campaignStatuses {
		className := "badge"
		if status == selected {
			className += " active"
		}
		links = append(links, Text(" "), A(Href("/admin?status="+status), Class(className), Text(status)))
	}
	return P(Group(links))
}

func adminCampaignTable(page pageContext, items []campaignhttp.CampaignDTO) Node {
	if len(items) == 0 {
		return P(Class("muted"), Text("No campaigns match."))
	}
	rows := make([]Node, 0, len(items))
	for _, item := range items {
		actions := make([]Node, 0, 2)
		for _, action := range campaignActions {
			if _, ok := campaignentities.NextStatus(campaignentities.CampaignStatus(item.Status), action); !ok {
				continue
			}
			actions = append(actions, Form(
				Method("post"),
				Action("/admin/campaigns/"+item.CampaignID+"/status"),
				Class("inline-form"),
				csrfField(page.CSRF),
				hiddenInput("action", string(action)),
				Input(Type("text"), Name("reason"), Placeholder("reason")),
				Button(Type("submit"), Class("btn"), Text(string(action))),
			))
		}
		rows = append(rows, Tr(
			Td(Strong(Text(item.Title)), Div(Class("muted"), Text("brand "+item.BrandID))),
			Td(Text(formatMoney(item.Budget))),
			Td(Text(item.InfluencerTier)),
			Td(statusBadge(item.Status)),
			Td(Group(actions)),
		))
	}
	return Table(
		THead(Tr(Th(Text("Campaign")), Th(Text("Budget")), Th(Text("Tier")), Th(Text("Status")), Th(Text("Actions")))),
		TBody(Group(rows)),
	)
}

func applicationTable(page pageContext, items []onboardinghttp.ApplicationDTO, reviewable bool) Node {
	if len(items) == 0 {
		return P(Class("muted"), Text("No applications."))
	}
	rows := make([]Node, 0, len(items))
	for _, item := range items {
		handles := make([]string, 0, len(item.SocialHandles))
		for platform, handle := range item.SocialHandles {
			handles = append(handles, platform+": "+handle)
		}
		sort.Strings(handles)

		var review Node
		if reviewable && item.Status == "pending" {
			review = Group{
				reviewForm(page, item.ApplicationID, "approve"),
				reviewForm(page, item.ApplicationID, "reject"),
			}
		} else if item.ReviewReason != "" {
			review = Span(Class("muted"), Text(item.ReviewReason))
		}
		rows = append(rows, Tr(
			Td(Strong(Text(item.FullName)), Div(Class("muted"), Text(item.Email))),
			Td(Text(item.Niche)),
			Td(Text(formatCount(item.FollowerCount))),
			Td(Text(fmt.Sprintf("%.1f%%", item.EngagementRate))),
			Td(Text(strings.Join(handles, ", "))),
			Td(statusBadge(item.Status)),
			Td(review),
		))
	}
	return Table(
		THead(Tr(Th(Text("Applicant")), Th(Text("Niche")), Th(Text("Followers")), Th(Text("Engagement")), Th(Text("Handles")), Th(Text("Status")), Th(Text("Review")))),
		TBody(Group(rows)),
	)
}

func reviewForm(page pageContext, applicationID, decision string) Node {
	return Form(
		Method("post"),
		Action("/admin/influencer-applications/"+applicationID+"/review"),
		Class("inline-form"),
		csrfField(page.CSRF),
		hiddenInput("decision", decision),
		Input(Type("text"), Name("reason"), Placeholder("reason")),
		Button(Type("submit"), Class("btn"), Text(decision)),
	)
}

func auditTable(entries []adminhttp.AuditLogEntryDTO) Node {
	if len(entries) == 0 {
		return P(Class("muted"), Text("Nothing recorded yet."))
	}
	rows := make([]Node, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, Tr(
			Td(Text(entry.OccurredAt.Format("Jan 2 15:04"))),
			Td(Text(entry.Action)),
			Td(Text(strings.TrimSpace(entry.TargetType+" "+entry.TargetID))),
			Td(Text(entry.ActorID)),
			Td(Text(entry.Justification)),
		))
	}
	return Table(
		THead(Tr(Th(Text("When")), Th(Text("Action")), Th(Text("Target")), Th(Text("Actor")), Th(Text("Note")))),
		TBody(Group(rows)),
	)
}

func profileTable(items []profilehttp.ProfileDTO) Node {
	if len(items) == 0 {
		return P(Class("muted"), Text("No accounts yet."))
	}
	rows := make([]Node, 0, len(items))
	for _, item := range items {
		rows = append(rows, Tr(
			Td(Strong(Text(item.DisplayName))),
			Td(Class("muted"), Text(item.AccountID)),
			Td(Text(formatDate(item.CreatedAt))),
		))
	}
	return Table(
		THead(Tr(Th(Text("Name")), Th(Text("Account")), Th(Text("Joined")))),
		TBody(Group(rows)),
	)
}

func adminBrandsPage(page pageContext, brands []profilehttp.ProfileDTO) Node {
	return appPage(page, "Brands",
		Div(Class("card"), profileTable(brands)),
	)
}

func adminInfluencersPage(page pageContext, influencers []profilehttp.ProfileDTO, applications []onboardinghttp.ApplicationDTO) Node {
	return appPage(page, "Influencers",
		Div(Class("card"), H2(Text("Accounts")), profileTable(influencers)),
		Div(Class("card"), H2(Text("Applications")), applicationTable(page, applications, true)),
	)
}
