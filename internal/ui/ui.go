// Package ui renders the review dashboard in the terminal. It holds no
// state of record: every fact on screen comes from a workspace snapshot and
// every change goes through the orchestrator.
package ui

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/unclebandit/outreach-console/internal/apperr"
	"github.com/unclebandit/outreach-console/internal/model"
	"github.com/unclebandit/outreach-console/internal/orchestrator"
	"github.com/unclebandit/outreach-console/internal/workspace"
)

const (
	tabCampaigns    = "campaigns"
	tabScripts      = orchestrator.TabScripts
	tabDescriptions = orchestrator.TabDescriptions
)

type actionDoneMsg struct {
	err error
}

type Model struct {
	orch *orchestrator.Orchestrator
	ws   workspace.Workspace

	tab      string
	cursor   int
	inFlight bool
	fatal    error

	input  textinput.Model
	prompt *promptChain

	width  int
	height int
}

func New(orch *orchestrator.Orchestrator) *Model {
	ti := textinput.New()
	ti.CharLimit = 0
	return &Model{
		orch:  orch,
		ws:    orch.Snapshot(),
		tab:   tabCampaigns,
		input: ti,
	}
}

// FatalErr reports the error that ended the session, if any. The entry
// point prints it after the program exits so it survives the alt screen.
func (m *Model) FatalErr() error {
	return m.fatal
}

func (m *Model) Init() tea.Cmd {
	return m.dispatch(orchestrator.Bootstrap{})
}

// dispatch runs one orchestrator action off the UI goroutine. The UI keeps
// at most one action in flight; triggering keys are ignored while busy so
// two mutations never race on the same entity.
func (m *Model) dispatch(action orchestrator.Action) tea.Cmd {
	m.inFlight = true
	orch := m.orch
	return func() tea.Msg {
		err := orch.Dispatch(context.Background(), action)
		return actionDoneMsg{err: err}
	}
}

func (m *Model) refresh() {
	m.ws = m.orch.Snapshot()
	m.clampCursor()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case actionDoneMsg:
		m.inFlight = false
		m.refresh()
		if errors.Is(msg.err, apperr.ErrNotAuthenticated) {
			m.fatal = msg.err
			return m, tea.Quit
		}
		return m, nil

	case tea.KeyMsg:
		if m.prompt != nil {
			return m.updatePrompt(msg)
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m *Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "1":
		m.switchTab(tabCampaigns)
		return m, nil
	case "2":
		m.switchTab(tabScripts)
		return m, nil
	case "3":
		m.switchTab(tabDescriptions)
		return m, nil
	}

	if m.inFlight {
		return m, nil
	}

	switch m.tab {
	case tabCampaigns:
		if m.ws.Store.OpenCampaignID() != 0 {
			return m.updateDetailKeys(key)
		}
		return m.updateIndexKeys(key)
	default:
		return m.updateLibraryKeys(key)
	}
}

func (m *Model) switchTab(tab string) {
	if m.tab == tab {
		return
	}
	m.tab = tab
	m.cursor = 0
	m.orch.ClearBanner()
	switch tab {
	case tabScripts:
		m.orch.ResetTemplateForm(model.CategoryScript)
	case tabDescriptions:
		m.orch.ResetTemplateForm(model.CategoryProduct)
	}
	m.refresh()
}

func (m *Model) updateIndexKeys(key string) (tea.Model, tea.Cmd) {
	campaigns := m.ws.Store.Campaigns
	switch key {
	case "up", "k":
		m.moveCursor(-1, len(campaigns))
	case "down", "j":
		m.moveCursor(1, len(campaigns))
	case "enter":
		if c := m.indexSelection(); c != nil {
			return m, m.dispatch(orchestrator.OpenCampaign{CampaignID: c.ID})
		}
	case "g":
		if c := m.indexSelection(); c != nil {
			return m, m.dispatch(orchestrator.GenerateDrafts{CampaignID: c.ID})
		}
	case "l":
		m.startPrompt(promptStep{
			label:   "Draft limit",
			initial: strconv.Itoa(m.ws.DraftLimit),
			apply: func(v string) {
				if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
					m.orch.SetDraftLimit(n)
				}
			},
		})
	case "n":
		return m, m.startCreateCampaign()
	}
	return m, nil
}

func (m *Model) indexSelection() *model.Campaign {
	campaigns := m.ws.Store.Campaigns
	if m.cursor < 0 || m.cursor >= len(campaigns) {
		return nil
	}
	return &campaigns[m.cursor]
}

func (m *Model) startCreateCampaign() tea.Cmd {
	form := m.ws.CreateForm
	m.startPrompt(
		promptStep{label: "Campaign name", initial: form.Name, apply: func(v string) { form.Name = v }},
		promptStep{label: "Purpose (optional)", initial: form.Purpose, apply: func(v string) { form.Purpose = v }},
		promptStep{label: "Channel (email/whatsapp)", initial: form.Channel, apply: func(v string) { form.Channel = strings.TrimSpace(v) }},
		promptStep{label: "Subject template", initial: form.SubjectTemplate, apply: func(v string) { form.SubjectTemplate = v }},
		promptStep{label: "Body template", initial: form.BodyTemplate, apply: func(v string) { form.BodyTemplate = v }},
	)
	m.prompt.onDone = func() tea.Cmd {
		m.orch.SetCreateForm(form)
		return m.dispatch(orchestrator.CreateCampaign{})
	}
	return nil
}

func (m *Model) updateDetailKeys(key string) (tea.Model, tea.Cmd) {
	visible := m.visibleDrafts()

	switch key {
	case "esc":
		return m, m.dispatch(orchestrator.GoHome{})
	case "up", "k":
		m.moveCursor(-1, len(visible))
	case "down", "j":
		m.moveCursor(1, len(visible))
	case "enter":
		if m.cursor >= 0 && m.cursor < len(visible) {
			m.orch.SelectDraft(visible[m.cursor].ID)
			m.refresh()
		}
	case "a":
		if d := m.ws.SelectedDraft(); d != nil {
			return m, m.dispatch(orchestrator.ApproveDraft{DraftID: d.ID})
		}
	case "r":
		if d := m.ws.SelectedDraft(); d != nil {
			return m, m.dispatch(orchestrator.RejectDraft{DraftID: d.ID})
		}
	case "g":
		return m, m.dispatch(orchestrator.GenerateDrafts{CampaignID: m.ws.Store.OpenCampaignID()})
	case "d":
		m.orch.SetSendDryRun(!m.ws.SendDryRun)
		m.refresh()
	case "D":
		return m, m.dispatch(orchestrator.SendDue{})
	case "/":
		m.startPrompt(promptStep{label: "Search", initial: m.ws.Filters.Query, apply: func(v string) {
			m.orch.SetQuery(v)
		}})
	case "f":
		m.orch.SetStatusFilter(nextStatusFilter(m.ws.Filters.Status))
		m.cursor = 0
		m.refresh()
	case "e":
		if buf := m.ws.Overlays.Editor; buf != nil {
			m.startPrompt(promptStep{label: "Subject", initial: buf.Subject, apply: func(v string) {
				m.orch.SetEditorSubject(v)
			}})
		}
	case "b":
		if buf := m.ws.Overlays.Editor; buf != nil {
			m.startPrompt(promptStep{label: "Body", initial: buf.Body, apply: func(v string) {
				m.orch.SetEditorBody(v)
			}})
		}
	case "p":
		if buf := m.ws.Overlays.Editor; buf != nil {
			staged := *buf
			m.startPrompt(
				promptStep{label: "Custom opener (optional)", initial: staged.Opener, apply: func(v string) { staged.Opener = v }},
				promptStep{label: "Resource link (optional)", initial: staged.Resource, apply: func(v string) { staged.Resource = v }},
				promptStep{label: "CTA line (optional)", initial: staged.CTA, apply: func(v string) { staged.CTA = v }},
			)
			m.prompt.onDone = func() tea.Cmd {
				m.orch.SetPersonalization(staged.Opener, staged.CTA, staged.Resource)
				m.orch.ApplyPersonalization()
				m.refresh()
				return nil
			}
		}
	case "t":
		if d := m.ws.SelectedDraft(); d != nil {
			draftID := d.ID
			m.startPrompt(promptStep{label: "Schedule (empty = send now, UTC)", initial: m.ws.Overlays.DisplaySchedule(*d), apply: func(v string) {
				m.orch.SetScheduleOverride(draftID, v)
			}})
		}
	case "s":
		if m.ws.Overlays.Editor != nil {
			return m, m.dispatch(orchestrator.SaveEdits{})
		}
	}
	return m, nil
}

func (m *Model) updateLibraryKeys(key string) (tea.Model, tea.Cmd) {
	entries := m.libraryEntries()

	switch key {
	case "up", "k":
		m.moveCursor(-1, len(entries))
	case "down", "j":
		m.moveCursor(1, len(entries))
	case "n":
		return m, m.startTemplateForm(workspace.TemplateForm{Category: defaultCategory(m.tab)})
	case "e", "enter":
		if m.cursor >= 0 && m.cursor < len(entries) {
			m.orch.EditTemplateEntry(entries[m.cursor].ID)
			m.refresh()
			return m, m.startTemplateForm(m.ws.Overlays.TemplateForm)
		}
	case "x":
		if m.cursor >= 0 && m.cursor < len(entries) {
			return m, m.dispatch(orchestrator.DeleteTemplateEntry{EntryID: entries[m.cursor].ID})
		}
	}
	return m, nil
}

func (m *Model) startTemplateForm(form workspace.TemplateForm) tea.Cmd {
	steps := []promptStep{
		{label: "Title", initial: form.Title, apply: func(v string) { form.Title = v }},
	}
	if m.tab == tabDescriptions {
		steps = append(steps, promptStep{
			label:   "Category (product/service)",
			initial: form.Category,
			apply:   func(v string) { form.Category = strings.TrimSpace(v) },
		})
	}
	steps = append(steps, promptStep{label: "Content", initial: form.Content, apply: func(v string) { form.Content = v }})

	m.startPrompt(steps...)
	tab := m.tab
	m.prompt.onDone = func() tea.Cmd {
		m.orch.SetTemplateForm(form.Title, form.Category, form.Content)
		return m.dispatch(orchestrator.SaveTemplateEntry{Tab: tab})
	}
	return nil
}

func defaultCategory(tab string) string {
	if tab == tabDescriptions {
		return model.CategoryProduct
	}
	return model.CategoryScript
}

func nextStatusFilter(current string) string {
	order := []string{
		workspace.StatusFilterAll,
		model.StatusDraft,
		model.StatusApproved,
		model.StatusSent,
		model.StatusFailed,
		model.StatusRejected,
	}
	for i, s := range order {
		if s == current {
			return order[(i+1)%len(order)]
		}
	}
	return workspace.StatusFilterAll
}

func (m *Model) visibleDrafts() []model.Draft {
	return workspace.FilterDrafts(m.ws.Store.Detail.Drafts, m.ws.Filters.Status, m.ws.Filters.Query)
}

func (m *Model) libraryEntries() []model.TemplateEntry {
	partition := workspace.PartitionTemplates(m.ws.Store.Templates)
	if m.tab == tabDescriptions {
		return partition.Descriptions
	}
	return partition.Scripts
}

func (m *Model) moveCursor(delta, size int) {
	if size == 0 {
		m.cursor = 0
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= size {
		m.cursor = size - 1
	}
}

func (m *Model) clampCursor() {
	var size int
	switch m.tab {
	case tabCampaigns:
		if m.ws.Store.OpenCampaignID() != 0 {
			size = len(m.visibleDrafts())
		} else {
			size = len(m.ws.Store.Campaigns)
		}
	default:
		size = len(m.libraryEntries())
	}
	if size == 0 {
		m.cursor = 0
	} else if m.cursor >= size {
		m.cursor = size - 1
	}
}
