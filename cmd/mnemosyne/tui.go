// tui.go: Bubble Tea model for the interactive interface.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"strings"

	derive "github.com/agilira/mnemosyne"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type uiPhase int

const (
	phasePreset uiPhase = iota
	phaseCredentials
	phaseDeriving
	phaseHome
)

const uiPerPage = 10

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("57"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	exposedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	passwordStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

type derivationDoneMsg struct{ err error }

type labelsLoadedMsg struct {
	labels map[uint32]derive.IndexLabel
	err    error
}

type uiModel struct {
	session   *derive.Session
	storePath string
	phase     uiPhase
	errMsg    string

	// preset selection
	presets      []derive.PresetInfo
	presetCursor int
	chosen       derive.PresetInfo

	// credentials form. Terminal input lives in plain Go strings; the
	// values are moved into secure containers the moment the form is
	// submitted.
	inputs []textinput.Model
	focus  int

	// derivation
	spin spinner.Model

	// home
	page     uint32
	cursor   uint32
	labels   map[uint32]derive.IndexLabel
	revealed string
	showPw   bool
	pwIndex  uint32
}

func newUIModel(storePath string) *uiModel {
	inputs := make([]textinput.Model, 3)
	for i, placeholder := range []string{"username", "password", "confirm password"} {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = 256
		if i > 0 {
			ti.EchoMode = textinput.EchoPassword
		}
		inputs[i] = ti
	}
	inputs[0].Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	return &uiModel{
		session:   derive.NewSession(),
		storePath: storePath,
		phase:     phasePreset,
		presets:   derive.Presets(),
		inputs:    inputs,
		spin:      sp,
		labels:    make(map[uint32]derive.IndexLabel),
	}
}

func (m *uiModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *uiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.phase {
	case phasePreset:
		return m.updatePreset(msg)
	case phaseCredentials:
		return m.updateCredentials(msg)
	case phaseDeriving:
		return m.updateDeriving(msg)
	default:
		return m.updateHome(msg)
	}
}

func (m *uiModel) updatePreset(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.presetCursor > 0 {
			m.presetCursor--
		}
	case "down", "j":
		if m.presetCursor < len(m.presets)-1 {
			m.presetCursor++
		}
	case "enter":
		m.chosen = m.presets[m.presetCursor]
		m.phase = phaseCredentials
		return m, textinput.Blink
	}
	return m, nil
}

func (m *uiModel) updateCredentials(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			m.phase = phasePreset
			m.errMsg = ""
			return m, nil
		case "tab", "down":
			m.setFocus((m.focus + 1) % len(m.inputs))
			return m, nil
		case "shift+tab", "up":
			m.setFocus((m.focus + len(m.inputs) - 1) % len(m.inputs))
			return m, nil
		case "enter":
			if m.focus < len(m.inputs)-1 {
				m.setFocus(m.focus + 1)
				return m, nil
			}
			return m.submitCredentials()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *uiModel) setFocus(i int) {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}

func (m *uiModel) submitCredentials() (tea.Model, tea.Cmd) {
	username := derive.NewSecureString(m.inputs[0].Value())
	password := derive.NewSecureString(m.inputs[1].Value())
	confirm := derive.NewSecureString(m.inputs[2].Value())

	done, err := m.session.StartDerivation(username, password, confirm, m.chosen.Params)
	if err != nil {
		m.errMsg = err.Error()
		return m, nil
	}

	// Drop the form copies; the secure containers own the credentials now.
	for i := range m.inputs {
		m.inputs[i].Reset()
	}

	m.phase = phaseDeriving
	m.errMsg = ""
	return m, tea.Batch(m.spin.Tick, waitForDerivation(done))
}

func waitForDerivation(done <-chan error) tea.Cmd {
	return func() tea.Msg {
		return derivationDoneMsg{err: <-done}
	}
}

func (m *uiModel) updateDeriving(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case derivationDoneMsg:
		if msg.err != nil {
			// Construction aborted; back to the form for correction.
			m.errMsg = msg.err.Error()
			m.phase = phaseCredentials
			return m, textinput.Blink
		}
		m.phase = phaseHome
		if m.storePath != "" {
			if err := m.session.OpenStore(m.storePath); err != nil {
				m.errMsg = err.Error()
			}
		}
		return m, m.loadLabels()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *uiModel) loadLabels() tea.Cmd {
	store := m.session.Store()
	if store == nil {
		return nil
	}
	start := m.page * uiPerPage
	return func() tea.Msg {
		entries, err := store.List(start, uiPerPage)
		if err != nil {
			return labelsLoadedMsg{err: err}
		}
		labels := make(map[uint32]derive.IndexLabel, len(entries))
		for _, e := range entries {
			labels[e.Index] = e.Label
		}
		return labelsLoadedMsg{labels: labels}
	}
}

func (m *uiModel) updateHome(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case labelsLoadedMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.labels = msg.labels
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < uiPerPage-1 {
				m.cursor++
			}
		case "left", "h":
			if m.page > 0 {
				m.page--
				m.showPw = false
				return m, m.loadLabels()
			}
		case "right", "l":
			m.page++
			m.showPw = false
			return m, m.loadLabels()
		case "esc":
			m.showPw = false
			m.revealed = ""
		case "enter":
			index := m.selectedIndex()
			pw, err := m.session.DeriveAt(index)
			if err != nil {
				m.errMsg = err.Error()
				return m, nil
			}
			m.revealed = pw
			m.pwIndex = index
			m.showPw = true
		case "e":
			return m, m.toggleExposed()
		}
	}
	return m, nil
}

func (m *uiModel) selectedIndex() uint32 {
	return m.page*uiPerPage + m.cursor
}

func (m *uiModel) toggleExposed() tea.Cmd {
	store := m.session.Store()
	if store == nil {
		return nil
	}

	index := m.selectedIndex()
	label, ok := m.labels[index]
	if !ok {
		label = derive.IndexLabel{Title: fmt.Sprintf("entry %d", index)}
	}
	label.Exposed = !label.Exposed

	if err := store.Put(index, label); err != nil {
		m.errMsg = err.Error()
		return nil
	}
	return m.loadLabels()
}

func (m *uiModel) View() string {
	switch m.phase {
	case phasePreset:
		return m.viewPreset()
	case phaseCredentials:
		return m.viewCredentials()
	case phaseDeriving:
		return m.viewDeriving()
	default:
		return m.viewHome()
	}
}

func (m *uiModel) viewPreset() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Select Argon2 parameters"))
	b.WriteString("\n\n")

	for i, p := range m.presets {
		line := fmt.Sprintf("%-10s  %.2f GB  time %2d  ~%s", p.Name, p.Params.MemoryGB(), p.Params.Time, p.EstimatedLatency)
		if i == m.presetCursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("up/down select · enter confirm · q quit"))
	return b.String()
}

func (m *uiModel) viewCredentials() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Master credentials"))
	b.WriteString("\n\n")

	for i, label := range []string{"Username", "Password", "Confirm Password"} {
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n\n")
	}

	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n\n")
	}

	b.WriteString(dimStyle.Render("tab next field · enter submit · esc back"))
	return b.String()
}

func (m *uiModel) viewDeriving() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Deriving seed"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%s Please wait... this may take a minute or two (%s preset, ~%s)",
		m.spin.View(), m.chosen.Name, m.chosen.EstimatedLatency))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("the derivation cannot be cancelled once started"))
	return b.String()
}

func (m *uiModel) viewHome() string {
	var b strings.Builder
	start := m.page * uiPerPage
	b.WriteString(titleStyle.Render(fmt.Sprintf("Passwords %d-%d", start, start+uiPerPage-1)))
	b.WriteString("\n\n")

	for i := uint32(0); i < uiPerPage; i++ {
		index := start + i
		label, ok := m.labels[index]

		title := dimStyle.Render("no entry")
		if ok {
			title = okStyle.Render(label.Title)
			if label.Exposed {
				title = exposedStyle.Render(label.Title + " (exposed)")
			}
		}

		line := fmt.Sprintf("%10d  %s", index, title)
		if i == m.cursor {
			line = selectedStyle.Render(">") + line[1:]
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.showPw {
		b.WriteString("\n")
		b.WriteString(passwordStyle.Render(fmt.Sprintf("#%d  %s", m.pwIndex, m.revealed)))
		b.WriteString("\n")
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("enter reveal · esc hide · e toggle exposed · left/right page · q quit"))
	return b.String()
}
