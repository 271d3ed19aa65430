package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/unclebandit/outreach-console/internal/apperr"
	"github.com/unclebandit/outreach-console/internal/model"
)

// Client is the resty-backed Collaborator implementation.
type Client struct {
	http *resty.Client
	log  *zap.Logger
}

var _ Collaborator = (*Client)(nil)

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	return &Client{http: rc, log: logger}
}

// do runs one call and reduces any non-success response to a single error
// string. Mutating calls carry a request id so the collaborator can log and
// dedupe them.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}
	if method != http.MethodGet {
		req.SetHeader("X-Request-ID", uuid.NewString())
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		c.log.Warn("collaborator unreachable", zap.String("path", path), zap.Error(err))
		return err
	}
	if resp.IsError() {
		return apperr.DecodeAPIError(resp.StatusCode(), resp.Body())
	}
	return nil
}

func (c *Client) Session(ctx context.Context) (model.Session, error) {
	var out model.Session
	err := c.do(ctx, http.MethodGet, "/api/me", nil, &out)
	return out, err
}

func (c *Client) ListCampaigns(ctx context.Context) ([]model.Campaign, error) {
	var out struct {
		Campaigns []model.Campaign `json:"campaigns"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/campaigns", nil, &out); err != nil {
		return nil, err
	}
	return out.Campaigns, nil
}

func (c *Client) CreateCampaign(ctx context.Context, req CreateCampaignRequest) (int, error) {
	var out struct {
		CampaignID int `json:"campaign_id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/campaigns", req, &out); err != nil {
		return 0, err
	}
	return out.CampaignID, nil
}

func (c *Client) GetCampaign(ctx context.Context, campaignID int) (model.CampaignDetail, error) {
	var out model.CampaignDetail
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/campaigns/%d", campaignID), nil, &out)
	return out, err
}

func (c *Client) GenerateDrafts(ctx context.Context, campaignID, limit int) (GenerateResult, error) {
	var out GenerateResult
	body := map[string]int{"limit": limit}
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/campaigns/%d/generate-drafts", campaignID), body, &out)
	return out, err
}

func (c *Client) SendDue(ctx context.Context, campaignID int, dryRun bool) (SendResult, error) {
	var out SendResult
	body := map[string]bool{"dry_run": dryRun}
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/campaigns/%d/send-due", campaignID), body, &out)
	return out, err
}

func (c *Client) ApproveDraft(ctx context.Context, draftID int, scheduledAt string) error {
	body := map[string]string{"scheduled_at": scheduledAt}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/drafts/%d/approve", draftID), body, nil)
}

func (c *Client) RejectDraft(ctx context.Context, draftID int) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/drafts/%d/reject", draftID), map[string]string{}, nil)
}

func (c *Client) UpdateDraft(ctx context.Context, draftID int, subject, body string) error {
	payload := map[string]string{"subject": subject, "body": body}
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/drafts/%d", draftID), payload, nil)
}

func (c *Client) ListTemplateLibrary(ctx context.Context) ([]model.TemplateEntry, error) {
	var out struct {
		Entries []model.TemplateEntry `json:"entries"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/template-library", nil, &out); err != nil {
		return nil, err
	}
	return out.Entries, nil
}

func (c *Client) CreateTemplateEntry(ctx context.Context, req TemplateEntryRequest) (int, error) {
	var out struct {
		EntryID int `json:"entry_id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/template-library", req, &out); err != nil {
		return 0, err
	}
	return out.EntryID, nil
}

func (c *Client) UpdateTemplateEntry(ctx context.Context, entryID int, req TemplateEntryRequest) error {
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/template-library/%d", entryID), req, nil)
}

func (c *Client) DeleteTemplateEntry(ctx context.Context, entryID int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/template-library/%d", entryID), nil, nil)
}

func (c *Client) DefaultTemplates(ctx context.Context) (model.TemplateDefaults, error) {
	var out model.TemplateDefaults
	err := c.do(ctx, http.MethodGet, "/api/templates/defaults", nil, &out)
	return out, err
}
