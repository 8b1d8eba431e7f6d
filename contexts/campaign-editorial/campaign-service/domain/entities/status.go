package entities

import "time"

type StatusAction string

const (
	StatusActionApprove  StatusAction = "approve"
	StatusActionReject   StatusAction = "reject"
	StatusActionActivate StatusAction = "activate"
	StatusActionPause    StatusAction = "pause"
	StatusActionResume   StatusAction = "resume"
	StatusActionComplete StatusAction = "complete"
)

// NextStatus returns the status an action moves a campaign to, or false when
// the action is not allowed from the current status.
func NextStatus(current CampaignStatus, action StatusAction) (CampaignStatus, bool) {
	switch action {
	case StatusActionApprove:
		if current == CampaignStatusPending {
			return CampaignStatusApproved, true
		}
	case StatusActionReject:
		if current == CampaignStatusPending {
			return CampaignStatusRejected, true
		}
	case StatusActionActivate:
		if current == CampaignStatusApproved {
			return CampaignStatusActive, true
		}
	case StatusActionPause:
		if current == CampaignStatusApproved || current == CampaignStatusActive {
			return CampaignStatusPaused, true
		}
	case StatusActionResume:
		if current == CampaignStatusPaused {
			return CampaignStatusActive, true
		}
	case StatusActionComplete:
		if current == CampaignStatusActive || current == CampaignStatusPaused {
			return CampaignStatusCompleted, true
		}
	}
	return current, false
}

type StateHistory struct {
	HistoryID    string
	CampaignID   string
	FromState    CampaignStatus
	ToState      CampaignStatus
	ChangedBy    string
	ChangeReason string
	CreatedAt    time.Time
}
