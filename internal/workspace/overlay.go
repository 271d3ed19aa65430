package workspace

import (
	"strings"

	"github.com/unclebandit/outreach-console/internal/model"
)

// Overlays hold operator input that shadows canonical fields until a
// mutating call commits it. A successful commit clears the overlay for that
// key; a failed call leaves it untouched so typed input is never lost.
type Overlays struct {
	ScheduleByDraft map[int]string
	Editor          *EditorBuffer
	TemplateForm    TemplateForm
}

// EditorBuffer is the single active editor slot. Only one draft may be
// under edit at a time; opening another draft discards this one.
type EditorBuffer struct {
	DraftID int
	Subject string
	Body    string

	// Personalization staging, cleared whenever the slot is re-seeded.
	Opener   string
	CTA      string
	Resource string
}

// TemplateForm is the template-library edit form. EditingID 0 means a new
// entry is being created.
type TemplateForm struct {
	Title     string
	Category  string
	Content   string
	EditingID int
}

func (o *Overlays) SetScheduleOverride(draftID int, value string) {
	if o.ScheduleByDraft == nil {
		o.ScheduleByDraft = map[int]string{}
	}
	o.ScheduleByDraft[draftID] = value
}

func (o *Overlays) ClearScheduleOverride(draftID int) {
	delete(o.ScheduleByDraft, draftID)
}

// DisplaySchedule is the effective value shown in the schedule field:
// override if one exists (including an explicitly emptied one), else the
// canonical scheduled_at, else empty.
func (o *Overlays) DisplaySchedule(d model.Draft) string {
	if v, ok := o.ScheduleByDraft[d.ID]; ok {
		return v
	}
	if d.ScheduledAt != nil {
		return *d.ScheduledAt
	}
	return ""
}

// SubmitSchedule is the value sent on approve: the override or empty. The
// canonical value is never resubmitted, so an emptied field is an explicit
// "send now", not a stale reschedule.
func (o *Overlays) SubmitSchedule(draftID int) string {
	return o.ScheduleByDraft[draftID]
}

// OpenEditor seeds the slot from the draft's canonical subject and body and
// clears personalization staging, discarding whatever the previous draft
// had staged. Last write wins per slot.
func (o *Overlays) OpenEditor(d model.Draft) {
	o.Editor = &EditorBuffer{
		DraftID: d.ID,
		Subject: d.Subject,
		Body:    d.Body,
	}
}

func (o *Overlays) CloseEditor() {
	o.Editor = nil
}

// PruneMissing drops overlays keyed to draft ids absent from alive. Called
// after every campaign-detail replacement.
func (o *Overlays) PruneMissing(alive map[int]bool) {
	for id := range o.ScheduleByDraft {
		if !alive[id] {
			delete(o.ScheduleByDraft, id)
		}
	}
	if o.Editor != nil && !alive[o.Editor.DraftID] {
		o.Editor = nil
	}
}

func (o *Overlays) ResetTemplateForm(category string) {
	o.TemplateForm = TemplateForm{Category: category}
}

// LoadTemplateForm seeds the form from an existing entry for editing.
func (o *Overlays) LoadTemplateForm(entry model.TemplateEntry) {
	o.TemplateForm = TemplateForm{
		Title:     entry.Title,
		Category:  entry.Category,
		Content:   entry.Content,
		EditingID: entry.ID,
	}
}

// ApplyPersonalization composes the personalized body. Fixed order: opener,
// body, resource block, CTA; blank-line separators; empty optional fields
// are skipped entirely; the result is trimmed.
func ApplyPersonalization(body, opener, cta, resource string) string {
	out := body
	if s := strings.TrimSpace(opener); s != "" {
		out = s + "\n\n" + out
	}
	if s := strings.TrimSpace(resource); s != "" {
		out = out + "\n\nUseful link:\n" + s
	}
	if s := strings.TrimSpace(cta); s != "" {
		out = out + "\n\n" + s
	}
	return strings.TrimSpace(out)
}

// ApplyPersonalization folds the staged fields into the buffer body. The
// staging inputs stay as typed so the operator can tweak and re-apply.
func (b *EditorBuffer) ApplyPersonalization() {
	b.Body = ApplyPersonalization(b.Body, b.Opener, b.CTA, b.Resource)
}
