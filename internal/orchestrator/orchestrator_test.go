package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/outreach-console/internal/api"
	"github.com/unclebandit/outreach-console/internal/apperr"
	"github.com/unclebandit/outreach-console/internal/model"
	"github.com/unclebandit/outreach-console/internal/workspace"
)

// fakeCollaborator is an in-memory Collaborator double. Behavior defaults to
// success against its stored state; individual calls can be failed by name.
type fakeCollaborator struct {
	session   model.Session
	campaigns []model.Campaign
	details   map[int]model.CampaignDetail
	templates []model.TemplateEntry
	defaults  model.TemplateDefaults

	generate api.GenerateResult
	send     api.SendResult

	failures map[string]error
	calls    []string

	approvedScheduleAt *string
	lastUpdateSubject  string
	lastUpdateBody     string
	lastCreateCampaign api.CreateCampaignRequest
	lastTemplateReq    api.TemplateEntryRequest
	nextCampaignID     int
	nextEntryID        int
}

func newFake() *fakeCollaborator {
	return &fakeCollaborator{
		session: model.Session{
			Authenticated: true,
			User:          &model.User{Provider: "google", Email: "operator@example.com"},
		},
		details:        map[int]model.CampaignDetail{},
		failures:       map[string]error{},
		nextCampaignID: 100,
		nextEntryID:    500,
	}
}

func (f *fakeCollaborator) hit(name string) error {
	f.calls = append(f.calls, name)
	return f.failures[name]
}

func (f *fakeCollaborator) count(name string) int {
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeCollaborator) Session(ctx context.Context) (model.Session, error) {
	if err := f.hit("Session"); err != nil {
		return model.Session{}, err
	}
	return f.session, nil
}

func (f *fakeCollaborator) ListCampaigns(ctx context.Context) ([]model.Campaign, error) {
	if err := f.hit("ListCampaigns"); err != nil {
		return nil, err
	}
	return f.campaigns, nil
}

func (f *fakeCollaborator) CreateCampaign(ctx context.Context, req api.CreateCampaignRequest) (int, error) {
	if err := f.hit("CreateCampaign"); err != nil {
		return 0, err
	}
	f.lastCreateCampaign = req
	id := f.nextCampaignID
	f.nextCampaignID++
	c := model.Campaign{ID: id, Name: req.Name, Purpose: req.Purpose, Channel: req.Channel, Status: "active"}
	f.campaigns = append(f.campaigns, c)
	f.details[id] = model.CampaignDetail{Campaign: &c}
	return id, nil
}

func (f *fakeCollaborator) GetCampaign(ctx context.Context, campaignID int) (model.CampaignDetail, error) {
	if err := f.hit("GetCampaign"); err != nil {
		return model.CampaignDetail{}, err
	}
	return f.details[campaignID], nil
}

func (f *fakeCollaborator) GenerateDrafts(ctx context.Context, campaignID, limit int) (api.GenerateResult, error) {
	if err := f.hit("GenerateDrafts"); err != nil {
		return api.GenerateResult{}, err
	}
	return f.generate, nil
}

func (f *fakeCollaborator) SendDue(ctx context.Context, campaignID int, dryRun bool) (api.SendResult, error) {
	if err := f.hit("SendDue"); err != nil {
		return api.SendResult{}, err
	}
	return f.send, nil
}

func (f *fakeCollaborator) ApproveDraft(ctx context.Context, draftID int, scheduledAt string) error {
	if err := f.hit("ApproveDraft"); err != nil {
		return err
	}
	f.approvedScheduleAt = &scheduledAt
	return nil
}

func (f *fakeCollaborator) RejectDraft(ctx context.Context, draftID int) error {
	return f.hit("RejectDraft")
}

func (f *fakeCollaborator) UpdateDraft(ctx context.Context, draftID int, subject, body string) error {
	if err := f.hit("UpdateDraft"); err != nil {
		return err
	}
	f.lastUpdateSubject = subject
	f.lastUpdateBody = body
	return nil
}

func (f *fakeCollaborator) ListTemplateLibrary(ctx context.Context) ([]model.TemplateEntry, error) {
	if err := f.hit("ListTemplateLibrary"); err != nil {
		return nil, err
	}
	return f.templates, nil
}

func (f *fakeCollaborator) CreateTemplateEntry(ctx context.Context, req api.TemplateEntryRequest) (int, error) {
	if err := f.hit("CreateTemplateEntry"); err != nil {
		return 0, err
	}
	f.lastTemplateReq = req
	id := f.nextEntryID
	f.nextEntryID++
	f.templates = append(f.templates, model.TemplateEntry{ID: id, Title: req.Title, Category: req.Category, Content: req.Content})
	return id, nil
}

func (f *fakeCollaborator) UpdateTemplateEntry(ctx context.Context, entryID int, req api.TemplateEntryRequest) error {
	if err := f.hit("UpdateTemplateEntry"); err != nil {
		return err
	}
	f.lastTemplateReq = req
	return nil
}

func (f *fakeCollaborator) DeleteTemplateEntry(ctx context.Context, entryID int) error {
	return f.hit("DeleteTemplateEntry")
}

func (f *fakeCollaborator) DefaultTemplates(ctx context.Context) (model.TemplateDefaults, error) {
	if err := f.hit("DefaultTemplates"); err != nil {
		return model.TemplateDefaults{}, err
	}
	return f.defaults, nil
}

var _ api.Collaborator = (*fakeCollaborator)(nil)

func openedOrchestrator(t *testing.T, fake *fakeCollaborator, drafts ...model.Draft) *Orchestrator {
	t.Helper()
	campaign := model.Campaign{ID: 10, Name: "Algeria Outreach", Channel: model.ChannelEmail, Status: "active"}
	fake.campaigns = []model.Campaign{campaign}
	fake.details[10] = model.CampaignDetail{Campaign: &campaign, Drafts: drafts}

	o := New(fake, nil)
	require.NoError(t, o.Dispatch(context.Background(), OpenCampaign{CampaignID: 10}))
	return o
}

func TestBootstrapRequiresAuthenticatedSession(t *testing.T) {
	fake := newFake()
	fake.session = model.Session{Authenticated: false}

	o := New(fake, nil)
	err := o.Dispatch(context.Background(), Bootstrap{})
	require.ErrorIs(t, err, apperr.ErrNotAuthenticated)
	assert.Equal(t, 0, fake.count("ListCampaigns"), "nothing loads without a session")
}

func TestBootstrapLoadsWorkspaceAndDefaults(t *testing.T) {
	fake := newFake()
	fake.campaigns = []model.Campaign{{ID: 1, Name: "First"}}
	fake.templates = []model.TemplateEntry{{ID: 1, Category: model.CategoryScript, Title: "Opener", Content: "Hi"}}
	fake.defaults = model.TemplateDefaults{SubjectTemplate: "Hello {{name}}", BodyTemplate: "Body {{city}}"}

	o := New(fake, nil)
	require.NoError(t, o.Dispatch(context.Background(), Bootstrap{}))

	snap := o.Snapshot()
	assert.Equal(t, "operator@example.com", snap.User.Email)
	assert.Len(t, snap.Store.Campaigns, 1)
	assert.Len(t, snap.Store.Templates, 1)
	assert.Equal(t, "Hello {{name}}", snap.CreateForm.SubjectTemplate)
	assert.Equal(t, "Body {{city}}", snap.CreateForm.BodyTemplate)
}

func TestBootstrapToleratesMissingDefaults(t *testing.T) {
	fake := newFake()
	fake.failures["DefaultTemplates"] = &apperr.APIError{Status: 404}

	o := New(fake, nil)
	require.NoError(t, o.Dispatch(context.Background(), Bootstrap{}))
	assert.Empty(t, o.Snapshot().Banner.Error)
}

func TestApproveSubmitsOverrideExactly(t *testing.T) {
	canonical := "2026-09-01T10:00:00Z"
	fake := newFake()
	o := openedOrchestrator(t, fake, model.Draft{ID: 1, Status: model.StatusDraft, Subject: "s", Body: "b", ScheduledAt: &canonical})

	o.SetScheduleOverride(1, "2026-10-05T08:00:00Z")
	require.NoError(t, o.Dispatch(context.Background(), ApproveDraft{DraftID: 1}))

	require.NotNil(t, fake.approvedScheduleAt)
	assert.Equal(t, "2026-10-05T08:00:00Z", *fake.approvedScheduleAt)

	snap := o.Snapshot()
	assert.NotContains(t, snap.Overlays.ScheduleByDraft, 1, "override is cleared after a successful approve")
	assert.Equal(t, "Draft #1 approved.", snap.Banner.Message)
}

func TestApproveWithoutOverrideSubmitsEmptyNotCanonical(t *testing.T) {
	canonical := "2026-09-01T10:00:00Z"
	fake := newFake()
	o := openedOrchestrator(t, fake, model.Draft{ID: 1, Status: model.StatusDraft, Subject: "s", Body: "b", ScheduledAt: &canonical})

	require.NoError(t, o.Dispatch(context.Background(), ApproveDraft{DraftID: 1}))

	require.NotNil(t, fake.approvedScheduleAt)
	assert.Equal(t, "", *fake.approvedScheduleAt, "canonical scheduled_at is never resubmitted")
}

func TestApproveFailureLeavesStateUntouched(t *testing.T) {
	fake := newFake()
	o := openedOrchestrator(t, fake, model.Draft{ID: 1, Status: model.StatusSent, Subject: "s", Body: "b"})

	o.SetScheduleOverride(1, "2026-10-05T08:00:00Z")
	fake.failures["ApproveDraft"] = &apperr.APIError{Status: 422, Detail: "Draft already finalized"}

	err := o.Dispatch(context.Background(), ApproveDraft{DraftID: 1})
	require.Error(t, err)

	snap := o.Snapshot()
	assert.Equal(t, "2026-10-05T08:00:00Z", snap.Overlays.ScheduleByDraft[1], "failed calls keep typed input")
	assert.Equal(t, model.StatusSent, snap.Store.Detail.Drafts[0].Status)
	assert.Equal(t, "Draft already finalized", snap.Banner.Error)
	assert.Empty(t, snap.Banner.Message)
	assert.Equal(t, 1, fake.count("GetCampaign"), "no refetch after a failed mutation")
}

func TestRejectSetsMessageBanner(t *testing.T) {
	fake := newFake()
	o := openedOrchestrator(t, fake, model.Draft{ID: 4, Status: model.StatusDraft, Subject: "s", Body: "b"})

	require.NoError(t, o.Dispatch(context.Background(), RejectDraft{DraftID: 4}))
	assert.Equal(t, "Draft #4 rejected.", o.Snapshot().Banner.Message)
}

func TestSaveEditsRequiresOpenEditor(t *testing.T) {
	fake := newFake()
	o := openedOrchestrator(t, fake)

	err := o.Dispatch(context.Background(), SaveEdits{})
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "No draft is being edited.", verr.Error())
	assert.Equal(t, 0, fake.count("UpdateDraft"))
}

func TestSaveEditsSendsBufferAndReseedsFromCanonical(t *testing.T) {
	fake := newFake()
	o := openedOrchestrator(t, fake, model.Draft{ID: 2, Status: model.StatusDraft, Subject: "orig", Body: "orig body"})

	o.SelectDraft(2)
	o.SetEditorSubject("Edited subject")
	o.SetEditorBody("Edited body")

	// Simulate the collaborator persisting the update before the refetch.
	campaign := *fake.details[10].Campaign
	fake.details[10] = model.CampaignDetail{
		Campaign: &campaign,
		Drafts:   []model.Draft{{ID: 2, Status: model.StatusDraft, Subject: "Edited subject", Body: "Edited body"}},
	}

	require.NoError(t, o.Dispatch(context.Background(), SaveEdits{}))

	assert.Equal(t, "Edited subject", fake.lastUpdateSubject)
	assert.Equal(t, "Edited body", fake.lastUpdateBody)

	snap := o.Snapshot()
	assert.Equal(t, "Draft #2 saved.", snap.Banner.Message)
	require.NotNil(t, snap.Overlays.Editor)
	assert.Equal(t, "Edited subject", snap.Overlays.Editor.Subject, "editor re-seeds from fresh canonical state")
	assert.Equal(t, 2, snap.SelectedDraftID)
}

func TestCreateCampaignValidatesBeforeNetwork(t *testing.T) {
	fake := newFake()
	o := New(fake, nil)

	o.SetCreateForm(workspace.CreateCampaignForm{Name: "   ", SubjectTemplate: "", BodyTemplate: "x"})

	err := o.Dispatch(context.Background(), CreateCampaign{})
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Missing required fields: name, subject template.", verr.Error())
	assert.Equal(t, 0, fake.count("CreateCampaign"), "validation failures never reach the collaborator")
	assert.Equal(t, verr.Error(), o.Snapshot().Banner.Error)
}

func TestCreateCampaignOpensItAndKeepsMessage(t *testing.T) {
	fake := newFake()
	o := New(fake, nil)

	o.SetCreateForm(workspace.CreateCampaignForm{
		Name:            "Algeria Outreach",
		Purpose:         "introduce the new device",
		Channel:         model.ChannelWhatsApp,
		SubjectTemplate: "Hi {{name}}",
		BodyTemplate:    "Welcome",
	})
	require.NoError(t, o.Dispatch(context.Background(), CreateCampaign{}))

	assert.Equal(t, "Algeria Outreach", fake.lastCreateCampaign.Name)
	assert.Equal(t, model.ChannelWhatsApp, fake.lastCreateCampaign.Channel)

	snap := o.Snapshot()
	assert.Equal(t, 100, snap.Store.OpenCampaignID(), "new campaign is opened immediately")
	assert.Empty(t, snap.Store.Detail.Drafts)
	assert.Equal(t, "Campaign created (#100).", snap.Banner.Message, "message survives the open")
	assert.Empty(t, snap.CreateForm.Name, "form resets for the next campaign")
	assert.Equal(t, model.ChannelEmail, snap.CreateForm.Channel)
}

func TestGenerateDraftsReportsLiteralCounts(t *testing.T) {
	fake := newFake()
	o := openedOrchestrator(t, fake)
	fake.generate = api.GenerateResult{Created: 40, Ignored: 10}

	require.NoError(t, o.Dispatch(context.Background(), GenerateDrafts{CampaignID: 10}))

	snap := o.Snapshot()
	assert.Equal(t, "Draft generation done: created=40, ignored=10.", snap.Banner.Message)
	assert.Equal(t, 2, fake.count("GetCampaign"), "open campaign detail is refetched after generation")
}

func TestGenerateDraftsUsesWorkspaceLimit(t *testing.T) {
	fake := newFake()
	o := New(fake, nil)
	o.SetDraftLimit(25)

	require.NoError(t, o.Dispatch(context.Background(), GenerateDrafts{CampaignID: 7}))
	assert.Equal(t, 1, fake.count("GenerateDrafts"))
}

func TestSendDueRequiresOpenCampaign(t *testing.T) {
	fake := newFake()
	o := New(fake, nil)

	err := o.Dispatch(context.Background(), SendDue{})
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "No campaign is open.", verr.Error())
	assert.Equal(t, 0, fake.count("SendDue"))
}

func TestSendDueReportsMode(t *testing.T) {
	fake := newFake()
	o := openedOrchestrator(t, fake)
	fake.send = api.SendResult{Sent: 3, Failed: 1}

	require.NoError(t, o.Dispatch(context.Background(), SendDue{}))
	assert.Equal(t, "Send complete (dry-run): sent=3, failed=1", o.Snapshot().Banner.Message)

	o.SetSendDryRun(false)
	require.NoError(t, o.Dispatch(context.Background(), SendDue{}))
	assert.Equal(t, "Send complete (real): sent=3, failed=1", o.Snapshot().Banner.Message)
}

func TestSaveTemplateEntryCoercesCategoryPerTab(t *testing.T) {
	fake := newFake()
	o := New(fake, nil)

	o.SetTemplateForm("Opener", model.CategoryProduct, "Hello there")
	require.NoError(t, o.Dispatch(context.Background(), SaveTemplateEntry{Tab: TabScripts}))
	assert.Equal(t, model.CategoryScript, fake.lastTemplateReq.Category, "scripts page only stores scripts")
	assert.Equal(t, "Template entry created.", o.Snapshot().Banner.Message)

	o.SetTemplateForm("Device X", model.CategoryScript, "A fine device")
	require.NoError(t, o.Dispatch(context.Background(), SaveTemplateEntry{Tab: TabDescriptions}))
	assert.Equal(t, model.CategoryProduct, fake.lastTemplateReq.Category, "descriptions page never stores scripts")

	o.SetTemplateForm("Plan Y", model.CategoryService, "A service plan")
	require.NoError(t, o.Dispatch(context.Background(), SaveTemplateEntry{Tab: TabDescriptions}))
	assert.Equal(t, model.CategoryService, fake.lastTemplateReq.Category, "service stays service")
}

func TestSaveTemplateEntryValidatesTitleAndContent(t *testing.T) {
	fake := newFake()
	o := New(fake, nil)

	o.SetTemplateForm("  ", model.CategoryScript, "")
	err := o.Dispatch(context.Background(), SaveTemplateEntry{Tab: TabScripts})
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Missing required fields: title, content.", verr.Error())
	assert.Equal(t, 0, fake.count("CreateTemplateEntry"))
}

func TestSaveTemplateEntryUpdatesWhenEditing(t *testing.T) {
	fake := newFake()
	fake.templates = []model.TemplateEntry{{ID: 5, Category: model.CategoryScript, Title: "Old", Content: "Old content"}}

	o := New(fake, nil)
	require.NoError(t, o.Dispatch(context.Background(), LoadTemplates{}))
	o.EditTemplateEntry(5)
	o.SetTemplateForm("New title", model.CategoryScript, "New content")

	require.NoError(t, o.Dispatch(context.Background(), SaveTemplateEntry{Tab: TabScripts}))

	assert.Equal(t, 1, fake.count("UpdateTemplateEntry"))
	assert.Equal(t, 0, fake.count("CreateTemplateEntry"))
	snap := o.Snapshot()
	assert.Equal(t, "Template entry updated.", snap.Banner.Message)
	assert.Equal(t, 0, snap.Overlays.TemplateForm.EditingID, "form resets after save")
}

func TestDeleteTemplateEntryResetsFormWhenEditingIt(t *testing.T) {
	fake := newFake()
	fake.templates = []model.TemplateEntry{{ID: 5, Category: model.CategoryScript, Title: "Old", Content: "c"}}

	o := New(fake, nil)
	require.NoError(t, o.Dispatch(context.Background(), LoadTemplates{}))
	o.EditTemplateEntry(5)

	require.NoError(t, o.Dispatch(context.Background(), DeleteTemplateEntry{EntryID: 5}))

	snap := o.Snapshot()
	assert.Equal(t, "Template entry deleted.", snap.Banner.Message)
	assert.Equal(t, 0, snap.Overlays.TemplateForm.EditingID)
}

func TestGoHomeClosesDetailScope(t *testing.T) {
	fake := newFake()
	o := openedOrchestrator(t, fake, model.Draft{ID: 1, Subject: "s", Body: "b"})
	o.SelectDraft(1)

	require.NoError(t, o.Dispatch(context.Background(), GoHome{}))

	snap := o.Snapshot()
	assert.Equal(t, 0, snap.Store.OpenCampaignID())
	assert.Equal(t, 0, snap.SelectedDraftID)
	assert.Nil(t, snap.Overlays.Editor)
}

func TestSnapshotIsIsolatedFromLaterEdits(t *testing.T) {
	fake := newFake()
	o := openedOrchestrator(t, fake, model.Draft{ID: 1, Subject: "s", Body: "b"})
	o.SetScheduleOverride(1, "2026-09-01T10:00:00Z")
	o.SelectDraft(1)

	snap := o.Snapshot()
	o.SetScheduleOverride(1, "changed")
	o.SetEditorSubject("changed")

	assert.Equal(t, "2026-09-01T10:00:00Z", snap.Overlays.ScheduleByDraft[1])
	assert.Equal(t, "s", snap.Overlays.Editor.Subject)
}

func TestUnknownActionSurfacesError(t *testing.T) {
	o := New(newFake(), nil)

	type bogus struct{ Action }
	err := o.Dispatch(context.Background(), bogus{})
	require.Error(t, err)
	assert.False(t, errors.Is(err, apperr.ErrNotAuthenticated))
}
