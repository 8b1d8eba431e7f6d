package events

// Event types published through the outbox. Each context declares its own
// string literals; this list is what the runtime subscribes and routes on.
const (
	AccountRegistered              = "account.registered"
	AccountRoleChanged             = "account.role_changed"
	CampaignCreated                = "campaign.created"
	CampaignStatusChanged          = "campaign.status_changed"
	InfluencerApplicationSubmitted = "influencer_application.submitted"
	InfluencerApplicationReviewed  = "influencer_application.reviewed"
)

func All() []string {
	return []string{
		AccountRegistered,
		AccountRoleChanged,
		CampaignCreated,
		CampaignStatusChanged,
		InfluencerApplicationSubmitted,
		InfluencerApplicationReviewed,
	}
}
