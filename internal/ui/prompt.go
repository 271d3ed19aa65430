package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// promptStep is one line-edit in a chain. apply runs when the operator
// confirms the value; a cancelled chain applies nothing.
type promptStep struct {
	label   string
	initial string
	apply   func(value string)
}

type promptChain struct {
	steps  []promptStep
	idx    int
	onDone func() tea.Cmd
}

func (m *Model) startPrompt(steps ...promptStep) {
	m.prompt = &promptChain{steps: steps}
	m.focusStep()
}

func (m *Model) focusStep() {
	step := m.prompt.steps[m.prompt.idx]
	m.input.SetValue(step.initial)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		m.prompt = nil
		m.input.Blur()
		return m, nil

	case "enter":
		chain := m.prompt
		chain.steps[chain.idx].apply(m.input.Value())
		chain.idx++
		if chain.idx < len(chain.steps) {
			m.focusStep()
			return m, nil
		}
		m.prompt = nil
		m.input.Blur()
		m.refresh()
		if chain.onDone != nil {
			return m, chain.onDone()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}
