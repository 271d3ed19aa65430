// Package orchestrator sequences every user-initiated workflow step:
// validate locally, call the collaborator, refetch the affected canonical
// scope, clear overlays made stale by the refetch, and surface a one-line
// result. A failed call leaves workspace state untouched.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/unclebandit/outreach-console/internal/api"
	"github.com/unclebandit/outreach-console/internal/apperr"
	"github.com/unclebandit/outreach-console/internal/model"
	"github.com/unclebandit/outreach-console/internal/session"
	"github.com/unclebandit/outreach-console/internal/workspace"
)

type Orchestrator struct {
	mu  sync.Mutex
	ws  *workspace.Workspace
	api api.Collaborator
	log *zap.Logger
}

func New(collab api.Collaborator, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		ws:  workspace.New(),
		api: collab,
		log: logger,
	}
}

// Snapshot returns a render-safe copy of the workspace. Slices are shared
// but never mutated in place (the store replaces them wholesale), so only
// the overlay map and editor need copying.
func (o *Orchestrator) Snapshot() workspace.Workspace {
	o.mu.Lock()
	defer o.mu.Unlock()

	snap := *o.ws
	snap.Overlays.ScheduleByDraft = make(map[int]string, len(o.ws.Overlays.ScheduleByDraft))
	for id, v := range o.ws.Overlays.ScheduleByDraft {
		snap.Overlays.ScheduleByDraft[id] = v
	}
	if o.ws.Overlays.Editor != nil {
		buf := *o.ws.Overlays.Editor
		snap.Overlays.Editor = &buf
	}
	return snap
}

// Dispatch runs one action to completion. Calls are serialized; the UI is
// expected to keep at most one in flight per entity anyway.
func (o *Orchestrator) Dispatch(ctx context.Context, action Action) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	var err error
	switch a := action.(type) {
	case Bootstrap:
		err = o.bootstrap(ctx)
	case OpenCampaign:
		err = o.openCampaign(ctx, a.CampaignID)
	case GoHome:
		err = o.goHome(ctx)
	case GenerateDrafts:
		err = o.generateDrafts(ctx, a.CampaignID, a.Limit)
	case ApproveDraft:
		err = o.approveDraft(ctx, a.DraftID)
	case RejectDraft:
		err = o.rejectDraft(ctx, a.DraftID)
	case SaveEdits:
		err = o.saveEdits(ctx)
	case CreateCampaign:
		err = o.createCampaign(ctx)
	case SendDue:
		err = o.sendDue(ctx)
	case LoadTemplates:
		err = o.loadTemplates(ctx)
	case SaveTemplateEntry:
		err = o.saveTemplateEntry(ctx, a.Tab)
	case DeleteTemplateEntry:
		err = o.deleteTemplateEntry(ctx, a.EntryID)
	default:
		err = fmt.Errorf("unknown action %T", action)
	}

	if err != nil {
		o.log.Warn("action failed",
			zap.String("action", fmt.Sprintf("%T", action)),
			zap.Error(err))
		o.ws.Banner.SetError(err.Error())
		return err
	}
	return nil
}

func (o *Orchestrator) bootstrap(ctx context.Context) error {
	gate := session.Gate{API: o.api}
	user, err := gate.Check(ctx)
	if err != nil {
		return err
	}
	o.ws.User = user

	campaigns, err := o.api.ListCampaigns(ctx)
	if err != nil {
		return err
	}
	o.ws.ReplaceCampaignIndex(campaigns)

	entries, err := o.api.ListTemplateLibrary(ctx)
	if err != nil {
		return err
	}
	o.ws.ReplaceTemplateLibrary(entries)

	// Default templates are a convenience; failure keeps the form as-is.
	if defaults, err := o.api.DefaultTemplates(ctx); err == nil {
		if defaults.SubjectTemplate != "" {
			o.ws.CreateForm.SubjectTemplate = defaults.SubjectTemplate
		}
		if defaults.BodyTemplate != "" {
			o.ws.CreateForm.BodyTemplate = defaults.BodyTemplate
		}
	}

	o.log.Info("workspace ready",
		zap.Int("campaigns", len(campaigns)),
		zap.Int("template_entries", len(entries)))
	return nil
}

func (o *Orchestrator) openCampaign(ctx context.Context, campaignID int) error {
	o.ws.Busy = true
	defer func() { o.ws.Busy = false }()

	detail, err := o.api.GetCampaign(ctx, campaignID)
	if err != nil {
		return err
	}
	o.ws.SelectedDraftID = 0
	o.ws.ReplaceCampaignDetail(detail)
	o.ws.Banner.Clear()
	return nil
}

func (o *Orchestrator) goHome(ctx context.Context) error {
	o.ws.CloseCampaign()
	campaigns, err := o.api.ListCampaigns(ctx)
	if err != nil {
		return err
	}
	o.ws.ReplaceCampaignIndex(campaigns)
	return nil
}

// refetchDetail re-pulls the open campaign's canonical state. reselect, if
// non-zero and still present, restores the selection and re-seeds the
// editor slot from the fresh draft.
func (o *Orchestrator) refetchDetail(ctx context.Context, reselect int) error {
	campaignID := o.ws.Store.OpenCampaignID()
	if campaignID == 0 {
		return nil
	}
	detail, err := o.api.GetCampaign(ctx, campaignID)
	if err != nil {
		return err
	}
	o.ws.ReplaceCampaignDetail(detail)
	if reselect != 0 {
		if d := o.ws.Store.DraftByID(reselect); d != nil {
			o.ws.SelectedDraftID = reselect
			o.ws.Overlays.OpenEditor(*d)
		}
	}
	return nil
}

func (o *Orchestrator) generateDrafts(ctx context.Context, campaignID, limit int) error {
	if limit <= 0 {
		limit = o.ws.DraftLimit
	}
	if limit <= 0 {
		limit = workspace.DefaultDraftLimit
	}
	result, err := o.api.GenerateDrafts(ctx, campaignID, limit)
	if err != nil {
		return err
	}

	campaigns, err := o.api.ListCampaigns(ctx)
	if err != nil {
		return err
	}
	o.ws.ReplaceCampaignIndex(campaigns)
	if o.ws.Store.OpenCampaignID() == campaignID {
		if err := o.refetchDetail(ctx, 0); err != nil {
			return err
		}
	}

	// "ignored" is dedup against existing drafts, not an error.
	o.ws.Banner.SetMessage(fmt.Sprintf("Draft generation done: created=%d, ignored=%d.", result.Created, result.Ignored))
	return nil
}

func (o *Orchestrator) approveDraft(ctx context.Context, draftID int) error {
	// Submit exactly the override, or empty for "send now". Never the
	// canonical scheduled_at: that would turn a cleared field into a stale
	// reschedule.
	scheduledAt := o.ws.Overlays.SubmitSchedule(draftID)
	if err := o.api.ApproveDraft(ctx, draftID, scheduledAt); err != nil {
		return err
	}
	o.ws.Overlays.ClearScheduleOverride(draftID)
	if err := o.refetchDetail(ctx, draftID); err != nil {
		return err
	}
	o.ws.Banner.SetMessage(fmt.Sprintf("Draft #%d approved.", draftID))
	return nil
}

func (o *Orchestrator) rejectDraft(ctx context.Context, draftID int) error {
	if err := o.api.RejectDraft(ctx, draftID); err != nil {
		return err
	}
	if err := o.refetchDetail(ctx, draftID); err != nil {
		return err
	}
	o.ws.Banner.SetMessage(fmt.Sprintf("Draft #%d rejected.", draftID))
	return nil
}

func (o *Orchestrator) saveEdits(ctx context.Context) error {
	buf := o.ws.Overlays.Editor
	if buf == nil {
		return &apperr.ValidationError{Message: "No draft is being edited."}
	}
	if err := o.api.UpdateDraft(ctx, buf.DraftID, buf.Subject, buf.Body); err != nil {
		return err
	}
	if err := o.refetchDetail(ctx, buf.DraftID); err != nil {
		return err
	}
	o.ws.Banner.SetMessage(fmt.Sprintf("Draft #%d saved.", buf.DraftID))
	return nil
}

func (o *Orchestrator) createCampaign(ctx context.Context) error {
	form := o.ws.CreateForm
	req := api.CreateCampaignRequest{
		Name:            strings.TrimSpace(form.Name),
		Purpose:         strings.TrimSpace(form.Purpose),
		Channel:         form.Channel,
		SubjectTemplate: form.SubjectTemplate,
		BodyTemplate:    form.BodyTemplate,
	}
	if req.Channel == "" {
		req.Channel = model.ChannelEmail
	}

	var missing []string
	if req.Name == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(req.SubjectTemplate) == "" {
		missing = append(missing, "subject template")
	}
	if strings.TrimSpace(req.BodyTemplate) == "" {
		missing = append(missing, "body template")
	}
	if len(missing) > 0 {
		return apperr.NewMissingFields(missing...)
	}

	campaignID, err := o.api.CreateCampaign(ctx, req)
	if err != nil {
		return err
	}

	o.ws.CreateForm.Name = ""
	o.ws.CreateForm.Purpose = ""
	o.ws.CreateForm.Channel = model.ChannelEmail

	campaigns, err := o.api.ListCampaigns(ctx)
	if err != nil {
		return err
	}
	o.ws.ReplaceCampaignIndex(campaigns)
	if err := o.openCampaign(ctx, campaignID); err != nil {
		return err
	}
	o.ws.Banner.SetMessage(fmt.Sprintf("Campaign created (#%d).", campaignID))
	return nil
}

func (o *Orchestrator) sendDue(ctx context.Context) error {
	campaignID := o.ws.Store.OpenCampaignID()
	if campaignID == 0 {
		return &apperr.ValidationError{Message: "No campaign is open."}
	}
	dryRun := o.ws.SendDryRun
	result, err := o.api.SendDue(ctx, campaignID, dryRun)
	if err != nil {
		return err
	}
	if err := o.refetchDetail(ctx, o.ws.SelectedDraftID); err != nil {
		return err
	}
	mode := "real"
	if dryRun {
		mode = "dry-run"
	}
	o.ws.Banner.SetMessage(fmt.Sprintf("Send complete (%s): sent=%d, failed=%d", mode, result.Sent, result.Failed))
	return nil
}

func (o *Orchestrator) loadTemplates(ctx context.Context) error {
	entries, err := o.api.ListTemplateLibrary(ctx)
	if err != nil {
		return err
	}
	o.ws.ReplaceTemplateLibrary(entries)
	return nil
}

func (o *Orchestrator) saveTemplateEntry(ctx context.Context, tab string) error {
	form := o.ws.Overlays.TemplateForm
	req := api.TemplateEntryRequest{
		Title:    strings.TrimSpace(form.Title),
		Category: form.Category,
		Content:  strings.TrimSpace(form.Content),
	}

	var missing []string
	if req.Title == "" {
		missing = append(missing, "title")
	}
	if req.Content == "" {
		missing = append(missing, "content")
	}
	if len(missing) > 0 {
		return apperr.NewMissingFields(missing...)
	}

	// The scripts page only stores scripts; the descriptions page never
	// stores scripts.
	switch tab {
	case TabScripts:
		req.Category = model.CategoryScript
	case TabDescriptions:
		if req.Category == model.CategoryScript {
			req.Category = model.CategoryProduct
		}
	}

	var msg string
	if form.EditingID != 0 {
		if err := o.api.UpdateTemplateEntry(ctx, form.EditingID, req); err != nil {
			return err
		}
		msg = "Template entry updated."
	} else {
		if _, err := o.api.CreateTemplateEntry(ctx, req); err != nil {
			return err
		}
		msg = "Template entry created."
	}

	o.ws.Overlays.ResetTemplateForm(defaultCategoryForTab(tab))
	if err := o.loadTemplates(ctx); err != nil {
		return err
	}
	o.ws.Banner.SetMessage(msg)
	return nil
}

func (o *Orchestrator) deleteTemplateEntry(ctx context.Context, entryID int) error {
	if err := o.api.DeleteTemplateEntry(ctx, entryID); err != nil {
		return err
	}
	if o.ws.Overlays.TemplateForm.EditingID == entryID {
		o.ws.Overlays.ResetTemplateForm(model.CategoryScript)
	}
	if err := o.loadTemplates(ctx); err != nil {
		return err
	}
	o.ws.Banner.SetMessage("Template entry deleted.")
	return nil
}

func defaultCategoryForTab(tab string) string {
	if tab == TabDescriptions {
		return model.CategoryProduct
	}
	return model.CategoryScript
}
