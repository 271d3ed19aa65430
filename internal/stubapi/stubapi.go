// Package stubapi is an in-memory collaborator implementing the same wire
// contract as the production review API. It exists for boundary tests and
// local development (cmd/stubserver); it is not the real server.
package stubapi

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/unclebandit/outreach-console/internal/model"
)

type Server struct {
	mu sync.Mutex

	session   model.Session
	defaults  model.TemplateDefaults
	leads     []Lead
	campaigns []*model.Campaign
	drafts    []*model.Draft
	templates []*model.TemplateEntry

	nextCampaignID int
	nextDraftID    int
	nextEntryID    int

	provider Provider
	now      func() time.Time
}

type Option func(*Server)

func WithProvider(p Provider) Option {
	return func(s *Server) { s.provider = p }
}

func WithLeads(leads []Lead) Option {
	return func(s *Server) { s.leads = leads }
}

func WithNow(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

func WithSession(sess model.Session) Option {
	return func(s *Server) { s.session = sess }
}

func WithDefaults(d model.TemplateDefaults) Option {
	return func(s *Server) { s.defaults = d }
}

func New(opts ...Option) *Server {
	s := &Server{
		session: model.Session{
			Authenticated: true,
			User:          &model.User{Provider: "email", Email: "operator@example.com"},
		},
		defaults: model.TemplateDefaults{
			SubjectTemplate: "Quick question for {{full_name}}",
			BodyTemplate:    "Hello {{full_name}},\n\nI work with {{specialty}} practices in {{city}} and wanted to reach out.",
		},
		leads:          SeedLeads(),
		nextCampaignID: 1,
		nextDraftID:    1,
		nextEntryID:    1,
		provider:       ProviderFunc(func(string, string, string) error { return nil }),
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router exposes the same routes as the production review API.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/api/me", s.handleMe)
	r.Get("/api/campaigns", s.handleListCampaigns)
	r.Post("/api/campaigns", s.handleCreateCampaign)
	r.Get("/api/campaigns/{id}", s.handleGetCampaign)
	r.Post("/api/campaigns/{id}/generate-drafts", s.handleGenerateDrafts)
	r.Post("/api/campaigns/{id}/send-due", s.handleSendDue)
	r.Post("/api/drafts/{id}/approve", s.handleApproveDraft)
	r.Post("/api/drafts/{id}/reject", s.handleRejectDraft)
	r.Patch("/api/drafts/{id}", s.handleUpdateDraft)
	r.Get("/api/templates/defaults", s.handleDefaults)
	r.Get("/api/template-library", s.handleListTemplates)
	r.Post("/api/template-library", s.handleCreateTemplate)
	r.Patch("/api/template-library/{id}", s.handleUpdateTemplate)
	r.Delete("/api/template-library/{id}", s.handleDeleteTemplate)

	return r
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}

func urlID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	return id, err == nil && id > 0
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, s.session)
}

func (s *Server) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Campaign, 0, len(s.campaigns))
	for _, c := range s.campaigns {
		out = append(out, *c)
	}
	// Newest first, like the production index.
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	writeJSON(w, map[string]any{"campaigns": out})
}

func (s *Server) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name            string `json:"name"`
		Purpose         string `json:"purpose"`
		Channel         string `json:"channel"`
		SubjectTemplate string `json:"subject_template"`
		BodyTemplate    string `json:"body_template"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid body")
		return
	}

	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" || strings.TrimSpace(payload.SubjectTemplate) == "" || strings.TrimSpace(payload.BodyTemplate) == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "Campaign name, subject template, and body template are required")
		return
	}
	if payload.Channel == "" {
		payload.Channel = model.ChannelEmail
	}
	if payload.Channel != model.ChannelEmail && payload.Channel != model.ChannelWhatsApp {
		writeDetail(w, http.StatusUnprocessableEntity, "Campaign channel must be email or whatsapp")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := &model.Campaign{
		ID:              s.nextCampaignID,
		Name:            payload.Name,
		Purpose:         strings.TrimSpace(payload.Purpose),
		Channel:         payload.Channel,
		Status:          "active",
		SubjectTemplate: payload.SubjectTemplate,
		BodyTemplate:    payload.BodyTemplate,
		CreatedAt:       s.now().UTC().Format(time.RFC3339),
	}
	s.nextCampaignID++
	s.campaigns = append(s.campaigns, c)

	writeJSON(w, map[string]any{"ok": true, "campaign_id": c.ID})
}

func (s *Server) campaignByID(id int) *model.Campaign {
	for _, c := range s.campaigns {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (s *Server) draftByID(id int) *model.Draft {
	for _, d := range s.drafts {
		if d.ID == id {
			return d
		}
	}
	return nil
}

func (s *Server) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeDetail(w, http.StatusBadRequest, "invalid campaign id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.campaignByID(id)
	if c == nil {
		writeJSON(w, model.CampaignDetail{Campaign: nil, Drafts: []model.Draft{}})
		return
	}

	drafts := make([]model.Draft, 0)
	for _, d := range s.drafts {
		if d.CampaignID == id {
			drafts = append(drafts, *d)
		}
	}
	campaign := *c
	writeJSON(w, model.CampaignDetail{Campaign: &campaign, Drafts: drafts})
}

func (s *Server) handleGenerateDrafts(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeDetail(w, http.StatusBadRequest, "invalid campaign id")
		return
	}
	var payload struct {
		Limit int `json:"limit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid body")
		return
	}
	if payload.Limit < 1 {
		payload.Limit = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.campaignByID(id)
	if c == nil {
		writeDetail(w, http.StatusNotFound, "Campaign not found")
		return
	}

	created, ignored := 0, 0
	for _, lead := range s.leads {
		if created >= payload.Limit {
			break
		}
		// One draft per (campaign, lead); existing recipients are ignored,
		// not errors.
		if s.hasDraftFor(id, lead.ID) {
			ignored++
			continue
		}
		d := &model.Draft{
			ID:         s.nextDraftID,
			CampaignID: id,
			LeadID:     lead.ID,
			Subject:    RenderTemplate(c.SubjectTemplate, lead.Placeholders()),
			Body:       RenderTemplate(c.BodyTemplate, lead.Placeholders()),
			Status:     model.StatusDraft,
			FullName:   lead.FullName,
			Email:      lead.Email,
			Phone:      lead.Phone,
			Specialty:  lead.Specialty,
			City:       lead.City,
		}
		s.nextDraftID++
		s.drafts = append(s.drafts, d)
		created++
	}

	writeJSON(w, map[string]any{"ok": true, "campaign_id": id, "created": created, "ignored": ignored})
}

func (s *Server) hasDraftFor(campaignID, leadID int) bool {
	for _, d := range s.drafts {
		if d.CampaignID == campaignID && d.LeadID == leadID {
			return true
		}
	}
	return false
}

func (s *Server) handleSendDue(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeDetail(w, http.StatusBadRequest, "invalid campaign id")
		return
	}
	var payload struct {
		DryRun bool `json:"dry_run"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.campaignByID(id)
	if c == nil {
		writeDetail(w, http.StatusNotFound, "Campaign not found")
		return
	}

	now := s.now().UTC()
	sent, failed := 0, 0
	for _, d := range s.drafts {
		if d.CampaignID != id || d.Status != model.StatusApproved || d.ScheduledAt == nil {
			continue
		}
		due, err := time.Parse(time.RFC3339, *d.ScheduledAt)
		if err != nil || due.After(now) {
			continue
		}
		if payload.DryRun {
			// Dry-run reports what would happen and mutates nothing.
			sent++
			continue
		}
		if err := s.provider.Send(recipientFor(d, c.Channel), d.Subject, d.Body); err != nil {
			d.Status = model.StatusFailed
			failed++
			continue
		}
		d.Status = model.StatusSent
		sent++
	}

	writeJSON(w, map[string]any{"ok": true, "campaign_id": id, "dry_run": payload.DryRun, "sent": sent, "failed": failed})
}

// recipientFor picks the delivery address for the campaign channel, with
// the same fallback the dashboard shows.
func recipientFor(d *model.Draft, channel string) string {
	first, second := d.Email, d.Phone
	if channel == model.ChannelWhatsApp {
		first, second = d.Phone, d.Email
	}
	if first != "" {
		return first
	}
	return second
}

func (s *Server) handleApproveDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeDetail(w, http.StatusBadRequest, "invalid draft id")
		return
	}
	var payload struct {
		ScheduledAt string `json:"scheduled_at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.draftByID(id)
	if d == nil {
		writeDetail(w, http.StatusNotFound, "Draft not found")
		return
	}
	if d.Terminal() {
		writeDetail(w, http.StatusUnprocessableEntity, "Draft is already "+d.Status)
		return
	}

	scheduled, err := s.normalizeSchedule(payload.ScheduledAt)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "scheduled_at must be ISO-8601")
		return
	}
	d.Status = model.StatusApproved
	d.ScheduledAt = &scheduled

	writeJSON(w, map[string]any{"ok": true, "draft_id": id})
}

// normalizeSchedule mirrors the production server: empty means "now, UTC",
// anything else is normalized to UTC.
func (s *Server) normalizeSchedule(value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return s.now().UTC().Format(time.RFC3339), nil
	}
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(value))
	if err != nil {
		return "", err
	}
	return t.UTC().Format(time.RFC3339), nil
}

func (s *Server) handleRejectDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeDetail(w, http.StatusBadRequest, "invalid draft id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.draftByID(id)
	if d == nil {
		writeDetail(w, http.StatusNotFound, "Draft not found")
		return
	}
	if d.Terminal() {
		writeDetail(w, http.StatusUnprocessableEntity, "Draft is already "+d.Status)
		return
	}
	d.Status = model.StatusRejected

	writeJSON(w, map[string]any{"ok": true, "draft_id": id})
}

func (s *Server) handleUpdateDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeDetail(w, http.StatusBadRequest, "invalid draft id")
		return
	}
	var payload struct {
		Subject string `json:"subject"`
		Body    string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid body")
		return
	}
	if strings.TrimSpace(payload.Subject) == "" || strings.TrimSpace(payload.Body) == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "Subject and body are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.draftByID(id)
	if d == nil {
		writeDetail(w, http.StatusNotFound, "Draft not found")
		return
	}
	d.Subject = payload.Subject
	d.Body = payload.Body

	writeJSON(w, map[string]any{"ok": true, "draft_id": id})
}

func (s *Server) handleDefaults(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, s.defaults)
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]model.TemplateEntry, 0, len(s.templates))
	for _, e := range s.templates {
		entries = append(entries, *e)
	}
	writeJSON(w, map[string]any{"entries": entries})
}

func validTemplatePayload(title, category, content string) bool {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return false
	}
	switch category {
	case model.CategoryScript, model.CategoryProduct, model.CategoryService:
		return true
	}
	return false
}

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Title    string `json:"title"`
		Category string `json:"category"`
		Content  string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid body")
		return
	}
	if !validTemplatePayload(payload.Title, payload.Category, payload.Content) {
		writeDetail(w, http.StatusUnprocessableEntity, "Template title, category, and content are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e := &model.TemplateEntry{
		ID:       s.nextEntryID,
		Title:    strings.TrimSpace(payload.Title),
		Category: payload.Category,
		Content:  strings.TrimSpace(payload.Content),
	}
	s.nextEntryID++
	s.templates = append(s.templates, e)

	writeJSON(w, map[string]any{"ok": true, "entry_id": e.ID})
}

func (s *Server) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeDetail(w, http.StatusBadRequest, "invalid entry id")
		return
	}
	var payload struct {
		Title    string `json:"title"`
		Category string `json:"category"`
		Content  string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid body")
		return
	}
	if !validTemplatePayload(payload.Title, payload.Category, payload.Content) {
		writeDetail(w, http.StatusUnprocessableEntity, "Template title, category, and content are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.templates {
		if e.ID == id {
			e.Title = strings.TrimSpace(payload.Title)
			e.Category = payload.Category
			e.Content = strings.TrimSpace(payload.Content)
			writeJSON(w, map[string]any{"ok": true, "entry_id": id})
			return
		}
	}
	writeDetail(w, http.StatusNotFound, "Template entry not found")
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeDetail(w, http.StatusBadRequest, "invalid entry id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.templates {
		if e.ID == id {
			s.templates = append(s.templates[:i], s.templates[i+1:]...)
			writeJSON(w, map[string]any{"ok": true, "entry_id": id})
			return
		}
	}
	writeDetail(w, http.StatusNotFound, "Template entry not found")
}
