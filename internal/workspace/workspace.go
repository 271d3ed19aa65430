// Package workspace holds the client-side state of record: canonical
// entities as last fetched from the collaborator, transient overlays the
// operator has typed but not committed, and pure projections over both.
// Only the orchestrator writes here; views never do.
package workspace

import "github.com/unclebandit/outreach-console/internal/model"

const DefaultDraftLimit = 100

// Workspace is the single explicit state record behind the dashboard.
type Workspace struct {
	Store    EntityStore
	Overlays Overlays
	Filters  Filters
	Banner   Banner

	User            model.User
	SelectedDraftID int // 0 = none
	DraftLimit      int
	SendDryRun      bool
	Busy            bool

	CreateForm CreateCampaignForm
}

// CreateCampaignForm backs the new-campaign modal. Subject and body start
// from the collaborator's default templates when those load.
type CreateCampaignForm struct {
	Name            string
	Purpose         string
	Channel         string
	SubjectTemplate string
	BodyTemplate    string
}

func New() *Workspace {
	return &Workspace{
		Overlays: Overlays{
			ScheduleByDraft: map[int]string{},
			TemplateForm:    TemplateForm{Category: model.CategoryScript},
		},
		Filters:    Filters{Status: StatusFilterAll},
		DraftLimit: DefaultDraftLimit,
		SendDryRun: true,
		CreateForm: CreateCampaignForm{Channel: model.ChannelEmail},
	}
}

// EntityStore caches collaborator-owned records. Each Replace* call swaps
// the whole slice; there is no client-side patching of individual fields.
type EntityStore struct {
	Campaigns []model.Campaign
	Detail    model.CampaignDetail
	Templates []model.TemplateEntry
}

// OpenCampaignID returns the id of the currently open campaign, 0 if none.
func (s *EntityStore) OpenCampaignID() int {
	if s.Detail.Campaign == nil {
		return 0
	}
	return s.Detail.Campaign.ID
}

func (s *EntityStore) DraftByID(id int) *model.Draft {
	for i := range s.Detail.Drafts {
		if s.Detail.Drafts[i].ID == id {
			return &s.Detail.Drafts[i]
		}
	}
	return nil
}

func (w *Workspace) ReplaceCampaignIndex(campaigns []model.Campaign) {
	w.Store.Campaigns = campaigns
}

// ReplaceCampaignDetail swaps the open campaign and its drafts, then drops
// every overlay keyed to a draft id that no longer exists. The selection is
// cleared too if its draft vanished.
func (w *Workspace) ReplaceCampaignDetail(detail model.CampaignDetail) {
	w.Store.Detail = detail

	alive := make(map[int]bool, len(detail.Drafts))
	for _, d := range detail.Drafts {
		alive[d.ID] = true
	}
	w.Overlays.PruneMissing(alive)
	if w.SelectedDraftID != 0 && !alive[w.SelectedDraftID] {
		w.SelectedDraftID = 0
	}
}

func (w *Workspace) ReplaceTemplateLibrary(entries []model.TemplateEntry) {
	w.Store.Templates = entries
}

// CloseCampaign returns to the campaign index view.
func (w *Workspace) CloseCampaign() {
	w.Store.Detail = model.CampaignDetail{}
	w.SelectedDraftID = 0
	w.Overlays.CloseEditor()
	w.Banner.Clear()
}

// SelectedDraft resolves the current selection against canonical state.
func (w *Workspace) SelectedDraft() *model.Draft {
	if w.SelectedDraftID == 0 {
		return nil
	}
	return w.Store.DraftByID(w.SelectedDraftID)
}

// Banner is the pair of user-facing one-liners. Success and error are
// mutually exclusive; each setter replaces both.
type Banner struct {
	Message string
	Error   string
}

func (b *Banner) SetMessage(msg string) {
	b.Message = msg
	b.Error = ""
}

func (b *Banner) SetError(msg string) {
	b.Error = msg
	b.Message = ""
}

func (b *Banner) Clear() {
	b.Message = ""
	b.Error = ""
}
