package orchestrator

// Action is the command union processed by Dispatch. Each value is one
// user-initiated workflow step that may call the collaborator.
type Action interface {
	isAction()
}

// Bootstrap gates on the session, then loads the campaign index, the
// template library, and (best effort) the default templates.
type Bootstrap struct{}

// OpenCampaign fetches a campaign with its drafts and makes it current.
type OpenCampaign struct {
	CampaignID int
}

// GoHome closes the open campaign and refreshes the index.
type GoHome struct{}

// GenerateDrafts asks the collaborator to draft messages for up to Limit
// leads. Limit <= 0 falls back to the workspace draft limit.
type GenerateDrafts struct {
	CampaignID int
	Limit      int
}

// ApproveDraft approves one draft, submitting the schedule override (or
// empty for "send now").
type ApproveDraft struct {
	DraftID int
}

type RejectDraft struct {
	DraftID int
}

// SaveEdits commits the open editor buffer's subject and body.
type SaveEdits struct{}

// CreateCampaign submits the create form after local validation.
type CreateCampaign struct{}

// SendDue dispatches approved-and-due drafts in the workspace's chosen
// dry-run/real mode.
type SendDue struct{}

// LoadTemplates refreshes the template library.
type LoadTemplates struct{}

// SaveTemplateEntry creates or updates the entry in the template form. Tab
// names the library page driving category coercion: "scripts" forces the
// script category, "descriptions" coerces script to product.
type SaveTemplateEntry struct {
	Tab string
}

type DeleteTemplateEntry struct {
	EntryID int
}

func (Bootstrap) isAction()           {}
func (OpenCampaign) isAction()        {}
func (GoHome) isAction()              {}
func (GenerateDrafts) isAction()      {}
func (ApproveDraft) isAction()        {}
func (RejectDraft) isAction()         {}
func (SaveEdits) isAction()           {}
func (CreateCampaign) isAction()      {}
func (SendDue) isAction()             {}
func (LoadTemplates) isAction()       {}
func (SaveTemplateEntry) isAction()   {}
func (DeleteTemplateEntry) isAction() {}

// Template-library tab names used by SaveTemplateEntry.
const (
	TabScripts      = "scripts"
	TabDescriptions = "descriptions"
)
