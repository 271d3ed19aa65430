package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/unclebandit/outreach-console/internal/model"
	"github.com/unclebandit/outreach-console/internal/workspace"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	tabStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1)
	tabActive     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("57")).Padding(0, 1)
	messageStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	cursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))
	pillStyle     = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("238"))
	editorStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("60")).Padding(0, 1)
	promptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.viewHeader())
	b.WriteString("\n")
	b.WriteString(m.viewBanner())

	switch m.tab {
	case tabCampaigns:
		if m.ws.Store.OpenCampaignID() != 0 {
			b.WriteString(m.viewDetail())
		} else {
			b.WriteString(m.viewIndex())
		}
	default:
		b.WriteString(m.viewLibrary())
	}

	b.WriteString("\n")
	if m.prompt != nil {
		step := m.prompt.steps[m.prompt.idx]
		b.WriteString(promptStyle.Render(step.label+": ") + m.input.View() + "\n")
		b.WriteString(dimStyle.Render("enter confirm · esc cancel") + "\n")
	} else {
		b.WriteString(m.viewHelp())
	}

	return b.String()
}

func (m *Model) viewHeader() string {
	user := ""
	if m.ws.User != (model.User{}) {
		user = m.ws.User.Label()
	}
	tabs := []string{tabCampaigns, tabScripts, tabDescriptions}
	var rendered []string
	for i, t := range tabs {
		label := fmt.Sprintf("%d %s", i+1, t)
		if t == m.tab {
			rendered = append(rendered, tabActive.Render(label))
		} else {
			rendered = append(rendered, tabStyle.Render(label))
		}
	}
	busy := ""
	if m.inFlight {
		busy = dimStyle.Render("  working…")
	}
	return titleStyle.Render("Outreach Console") + "  " +
		strings.Join(rendered, " ") + "  " +
		dimStyle.Render(user) + busy
}

func (m *Model) viewBanner() string {
	if m.ws.Banner.Error != "" {
		return errorStyle.Render("✗ "+m.ws.Banner.Error) + "\n"
	}
	if m.ws.Banner.Message != "" {
		return messageStyle.Render("✓ "+m.ws.Banner.Message) + "\n"
	}
	return "\n"
}

func (m *Model) viewIndex() string {
	var b strings.Builder
	campaigns := m.ws.Store.Campaigns
	b.WriteString(dimStyle.Render(fmt.Sprintf("%d campaigns · draft limit %d", len(campaigns), m.ws.DraftLimit)) + "\n\n")
	if len(campaigns) == 0 {
		b.WriteString(dimStyle.Render("  no campaigns yet, press n to create one") + "\n")
		return b.String()
	}
	for i, c := range campaigns {
		line := fmt.Sprintf("#%-4d %-28s %-9s %-9s %s", c.ID, truncate(c.Name, 28), c.Channel, c.Status, truncate(c.Purpose, 40))
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("› "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	return b.String()
}

func (m *Model) viewDetail() string {
	var b strings.Builder
	campaign := m.ws.Store.Detail.Campaign
	if campaign == nil {
		return dimStyle.Render("  campaign not found") + "\n"
	}

	b.WriteString(fmt.Sprintf("%s %s\n",
		titleStyle.Render(campaign.Name),
		dimStyle.Render(fmt.Sprintf("#%d · %s · %s", campaign.ID, campaign.Channel, campaign.Status))))

	tally := workspace.StatusTally(m.ws.Store.Detail.Drafts)
	b.WriteString(m.viewTally(tally) + "\n")

	mode := "dry-run"
	if !m.ws.SendDryRun {
		mode = "real"
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("filter: %s · search: %q · send mode: %s", m.ws.Filters.Status, m.ws.Filters.Query, mode)) + "\n\n")

	visible := m.visibleDrafts()
	if len(visible) == 0 {
		b.WriteString(dimStyle.Render("  no drafts match") + "\n")
	}
	for i, d := range visible {
		recipient := workspace.EffectiveRecipient(d, campaign.Channel)
		line := fmt.Sprintf("#%-4d %-22s %-24s %-9s %s",
			d.ID, truncate(d.FullName, 22), truncate(recipient, 24), d.Status,
			truncate(m.ws.Overlays.DisplaySchedule(d), 20))
		switch {
		case i == m.cursor:
			b.WriteString(cursorStyle.Render("› "+line) + "\n")
		case d.ID == m.ws.SelectedDraftID:
			b.WriteString(selectedStyle.Render("  "+line) + "\n")
		default:
			b.WriteString("  " + line + "\n")
		}
	}

	if buf := m.ws.Overlays.Editor; buf != nil {
		b.WriteString("\n" + m.viewEditor(buf))
	}
	return b.String()
}

func (m *Model) viewTally(t workspace.Tally) string {
	parts := []string{
		pillStyle.Render(fmt.Sprintf("draft %d", t.Draft)),
		pillStyle.Render(fmt.Sprintf("approved %d", t.Approved)),
		pillStyle.Render(fmt.Sprintf("rejected %d", t.Rejected)),
		pillStyle.Render(fmt.Sprintf("sent %d", t.Sent)),
		pillStyle.Render(fmt.Sprintf("failed %d", t.Failed)),
		dimStyle.Render(fmt.Sprintf(" total %d", t.Total())),
	}
	return strings.Join(parts, " ")
}

func (m *Model) viewEditor(buf *workspace.EditorBuffer) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("editing draft #%d\n", buf.DraftID))
	b.WriteString("subject: " + buf.Subject + "\n")
	b.WriteString("body:\n" + buf.Body + "\n")
	var staged []string
	if buf.Opener != "" {
		staged = append(staged, "opener set")
	}
	if buf.Resource != "" {
		staged = append(staged, "resource set")
	}
	if buf.CTA != "" {
		staged = append(staged, "cta set")
	}
	if len(staged) > 0 {
		b.WriteString(dimStyle.Render("staged: "+strings.Join(staged, ", ")) + "\n")
	}
	return editorStyle.Render(strings.TrimRight(b.String(), "\n")) + "\n"
}

func (m *Model) viewLibrary() string {
	var b strings.Builder
	entries := m.libraryEntries()
	noun := "call scripts"
	if m.tab == tabDescriptions {
		noun = "product & service descriptions"
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("%d %s", len(entries), noun)) + "\n\n")
	if len(entries) == 0 {
		b.WriteString(dimStyle.Render("  library is empty, press n to add an entry") + "\n")
	}
	for i, e := range entries {
		line := fmt.Sprintf("#%-4d %-9s %-28s %s", e.ID, e.Category, truncate(e.Title, 28), truncate(firstLine(e.Content), 44))
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("› "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	form := m.ws.Overlays.TemplateForm
	if form.EditingID != 0 {
		b.WriteString("\n" + dimStyle.Render(fmt.Sprintf("editing entry #%d", form.EditingID)) + "\n")
	}
	return b.String()
}

func (m *Model) viewHelp() string {
	var help string
	switch {
	case m.tab != tabCampaigns:
		help = "↑/↓ move · n new · e edit · x delete · 1/2/3 tabs · q quit"
	case m.ws.Store.OpenCampaignID() != 0:
		help = "↑/↓ move · enter select · a approve · r reject · t schedule · e subject · b body · p personalize · s save · g generate · f filter · / search · d dry-run · D send due · esc back · q quit"
	default:
		help = "↑/↓ move · enter open · n new · g generate · l limit · 1/2/3 tabs · q quit"
	}
	return dimStyle.Render(help) + "\n"
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 1 {
		return s[:max]
	}
	return s[:max-1] + "…"
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
