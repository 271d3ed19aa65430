package model

// Draft statuses. A draft moves draft -> approved -> sent|failed, or to
// rejected from any non-terminal status. sent and failed are terminal.
const (
	StatusDraft    = "draft"
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusSent     = "sent"
	StatusFailed   = "failed"
)

type Draft struct {
	ID         int    `json:"id"`
	CampaignID int    `json:"campaign_id"`
	LeadID     int    `json:"lead_id"`
	Subject    string `json:"subject"`
	Body       string `json:"body"`
	Status     string `json:"status"`
	// ScheduledAt is ISO-8601 with offset; nil means "send immediately (UTC)".
	ScheduledAt *string `json:"scheduled_at,omitempty"`

	// Recipient identity joined in by the API.
	FullName  string `json:"full_name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Specialty string `json:"specialty,omitempty"`
	City      string `json:"city,omitempty"`
}

// Terminal reports whether the draft can no longer transition within the
// review workflow.
func (d Draft) Terminal() bool {
	return d.Status == StatusSent || d.Status == StatusFailed
}
