package orchestrator

import (
	"github.com/unclebandit/outreach-console/internal/workspace"
)

// Local transitions: synchronous workspace edits that never call the
// collaborator and never suspend.

// SelectDraft makes the draft current and seeds the editor slot from its
// canonical subject/body, discarding any staging for the previous draft.
func (o *Orchestrator) SelectDraft(draftID int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	d := o.ws.Store.DraftByID(draftID)
	if d == nil {
		return
	}
	o.ws.SelectedDraftID = draftID
	o.ws.Overlays.OpenEditor(*d)
}

func (o *Orchestrator) SetScheduleOverride(draftID int, value string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ws.Overlays.SetScheduleOverride(draftID, value)
}

func (o *Orchestrator) SetEditorSubject(subject string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.ws.Overlays.Editor != nil {
		o.ws.Overlays.Editor.Subject = subject
	}
}

func (o *Orchestrator) SetEditorBody(body string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.ws.Overlays.Editor != nil {
		o.ws.Overlays.Editor.Body = body
	}
}

func (o *Orchestrator) SetPersonalization(opener, cta, resource string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if buf := o.ws.Overlays.Editor; buf != nil {
		buf.Opener = opener
		buf.CTA = cta
		buf.Resource = resource
	}
}

// ApplyPersonalization folds the staged opener/CTA/resource into the editor
// body.
func (o *Orchestrator) ApplyPersonalization() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if buf := o.ws.Overlays.Editor; buf != nil {
		buf.ApplyPersonalization()
	}
}

func (o *Orchestrator) SetStatusFilter(status string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ws.Filters.Status = status
}

func (o *Orchestrator) SetQuery(query string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ws.Filters.Query = query
}

func (o *Orchestrator) SetDraftLimit(limit int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if limit > 0 {
		o.ws.DraftLimit = limit
	}
}

func (o *Orchestrator) SetSendDryRun(dry bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ws.SendDryRun = dry
}

func (o *Orchestrator) SetCreateForm(form workspace.CreateCampaignForm) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ws.CreateForm = form
}

func (o *Orchestrator) SetTemplateForm(title, category, content string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	form := &o.ws.Overlays.TemplateForm
	form.Title = title
	form.Category = category
	form.Content = content
}

// EditTemplateEntry seeds the template form from a library entry.
func (o *Orchestrator) EditTemplateEntry(entryID int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, e := range o.ws.Store.Templates {
		if e.ID == entryID {
			o.ws.Overlays.LoadTemplateForm(e)
			return
		}
	}
}

// ResetTemplateForm clears the form for the given default category.
func (o *Orchestrator) ResetTemplateForm(category string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ws.Overlays.ResetTemplateForm(category)
}

// ClearBanner wipes both banners, e.g. on tab switches.
func (o *Orchestrator) ClearBanner() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ws.Banner.Clear()
}
