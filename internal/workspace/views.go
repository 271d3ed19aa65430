package workspace

import (
	"strings"

	"github.com/unclebandit/outreach-console/internal/model"
)

// StatusFilterAll disables status filtering.
const StatusFilterAll = "all"

// RecipientUnknown marks a draft with neither email nor phone. Never an
// empty string.
const RecipientUnknown = "-"

type Filters struct {
	Status string
	Query  string
}

// Tally counts drafts by status, one bucket per known status. Statuses
// outside the closed state machine are not counted.
type Tally struct {
	Draft    int
	Approved int
	Rejected int
	Sent     int
	Failed   int
}

func (t Tally) Total() int {
	return t.Draft + t.Approved + t.Rejected + t.Sent + t.Failed
}

func StatusTally(drafts []model.Draft) Tally {
	var t Tally
	for _, d := range drafts {
		switch d.Status {
		case model.StatusDraft:
			t.Draft++
		case model.StatusApproved:
			t.Approved++
		case model.StatusRejected:
			t.Rejected++
		case model.StatusSent:
			t.Sent++
		case model.StatusFailed:
			t.Failed++
		}
	}
	return t
}

// FilterDrafts keeps drafts matching an exact status (or "all") and a
// case-insensitive substring query over the recipient and subject fields.
// Order is preserved; the input is never mutated.
func FilterDrafts(drafts []model.Draft, status, query string) []model.Draft {
	lowered := strings.ToLower(strings.TrimSpace(query))
	out := make([]model.Draft, 0, len(drafts))
	for _, d := range drafts {
		if status != "" && status != StatusFilterAll && d.Status != status {
			continue
		}
		if lowered != "" {
			haystack := strings.ToLower(strings.Join([]string{
				d.FullName, d.Email, d.Phone, d.Subject, d.Specialty, d.City,
			}, " "))
			if !strings.Contains(haystack, lowered) {
				continue
			}
		}
		out = append(out, d)
	}
	return out
}

// TemplatePartition splits the library into scripts and descriptions. Every
// entry with a known category lands in exactly one side.
type TemplatePartition struct {
	Scripts      []model.TemplateEntry
	Descriptions []model.TemplateEntry
}

func PartitionTemplates(entries []model.TemplateEntry) TemplatePartition {
	var p TemplatePartition
	for _, e := range entries {
		switch e.Category {
		case model.CategoryScript:
			p.Scripts = append(p.Scripts, e)
		case model.CategoryProduct, model.CategoryService:
			p.Descriptions = append(p.Descriptions, e)
		}
	}
	return p
}

// EffectiveRecipient picks the delivery address for the campaign channel:
// whatsapp prefers phone with email fallback, everything else prefers email
// with phone fallback.
func EffectiveRecipient(d model.Draft, channel string) string {
	first, second := d.Email, d.Phone
	if channel == model.ChannelWhatsApp {
		first, second = d.Phone, d.Email
	}
	if first != "" {
		return first
	}
	if second != "" {
		return second
	}
	return RecipientUnknown
}
