package model

// Channel values accepted by the API.
const (
	ChannelEmail    = "email"
	ChannelWhatsApp = "whatsapp"
)

type Campaign struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Purpose         string `json:"purpose,omitempty"`
	Channel         string `json:"channel"`
	Status          string `json:"status"`
	SubjectTemplate string `json:"subject_template"`
	BodyTemplate    string `json:"body_template"`
	CreatedAt       string `json:"created_at,omitempty"` // ISO-8601, server-owned
}

// CampaignDetail is the GET campaigns/{id} payload: the campaign plus every
// draft belonging to it.
type CampaignDetail struct {
	Campaign *Campaign `json:"campaign"`
	Drafts   []Draft   `json:"drafts"`
}
