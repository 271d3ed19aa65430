// Package api talks to the review collaborator: the JSON-over-HTTP service
// that owns campaigns, drafts, and the template library. The engine never
// mutates those records locally; it calls this interface and refetches.
package api

import (
	"context"

	"github.com/unclebandit/outreach-console/internal/model"
)

type CreateCampaignRequest struct {
	Name            string `json:"name"`
	Purpose         string `json:"purpose"`
	Channel         string `json:"channel"`
	SubjectTemplate string `json:"subject_template"`
	BodyTemplate    string `json:"body_template"`
}

type TemplateEntryRequest struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Content  string `json:"content"`
}

type GenerateResult struct {
	Created int `json:"created"`
	Ignored int `json:"ignored"`
}

type SendResult struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

type Collaborator interface {
	Session(ctx context.Context) (model.Session, error)

	ListCampaigns(ctx context.Context) ([]model.Campaign, error)
	CreateCampaign(ctx context.Context, req CreateCampaignRequest) (int, error)
	GetCampaign(ctx context.Context, campaignID int) (model.CampaignDetail, error)
	GenerateDrafts(ctx context.Context, campaignID, limit int) (GenerateResult, error)
	SendDue(ctx context.Context, campaignID int, dryRun bool) (SendResult, error)

	ApproveDraft(ctx context.Context, draftID int, scheduledAt string) error
	RejectDraft(ctx context.Context, draftID int) error
	UpdateDraft(ctx context.Context, draftID int, subject, body string) error

	ListTemplateLibrary(ctx context.Context) ([]model.TemplateEntry, error)
	CreateTemplateEntry(ctx context.Context, req TemplateEntryRequest) (int, error)
	UpdateTemplateEntry(ctx context.Context, entryID int, req TemplateEntryRequest) error
	DeleteTemplateEntry(ctx context.Context, entryID int) error
	DefaultTemplates(ctx context.Context) (model.TemplateDefaults, error)
}
