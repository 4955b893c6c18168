package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/wippyai/tactics-script/config"
	"github.com/wippyai/tactics-script/opcode"
	"github.com/wippyai/tactics-script/script"
	"github.com/wippyai/tactics-script/translation"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	slotStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	opStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	textStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const pageSize = 20

type modelState int

const (
	stateList modelState = iota
	stateFilter
	stateDetail
)

// entry is one row of the reference list.
type entry struct {
	ref  script.Reference
	role string // message role, empty outside a text instruction
}

type interactiveModel struct {
	err          error
	sess         *script.Session
	opts         script.Options
	filename     string
	all          []entry
	shown        []entry
	filter       textinput.Model
	detail       viewport.Model
	selected     int
	width        int
	height       int
	state        modelState
	messagesOnly bool
}

type loadedMsg struct {
	err  error
	sess *script.Session
}

func newInteractiveModel(filename string, opts script.Options) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "text or slot"
	ti.Prompt = "filter: "
	ti.Width = 40

	return &interactiveModel{
		filename: filename,
		opts:     opts,
		filter:   ti,
		detail:   viewport.New(80, pageSize),
		width:    80,
		height:   pageSize + 8,
		state:    stateList,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.loadScript
}

func (m *interactiveModel) loadScript() tea.Msg {
	sess, err := script.Load(m.filename, m.opts)
	return loadedMsg{sess: sess, err: err}
}

// entries lists references in discovery order, tagging message roles.
func entries(sess *script.Session) []entry {
	roles := make(map[uint32]string)
	for _, msg := range sess.Messages() {
		for i, slot := range msg.Slots() {
			roles[slot] = script.Role(i).String()
		}
	}

	refs := sess.References()
	out := make([]entry, 0, len(refs))
	for _, r := range refs {
		out = append(out, entry{ref: r, role: roles[r.Slot]})
	}
	return out
}

// apply recomputes the visible rows from the filter and the messages toggle.
func (m *interactiveModel) apply() {
	query := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	m.shown = m.shown[:0]
	for _, e := range m.all {
		if m.messagesOnly {
			if e.role != script.RoleDisplayName.String() && e.role != script.RoleBody.String() {
				continue
			}
		}
		if e.ref.Text == "" && m.messagesOnly {
			continue
		}
		if query != "" {
			slot := strings.ToLower(fmt.Sprintf("%08x", e.ref.Slot))
			if !strings.Contains(strings.ToLower(e.ref.Text), query) && !strings.Contains(slot, query) {
				continue
			}
		}
		m.shown = append(m.shown, e)
	}
	if m.selected >= len(m.shown) {
		m.selected = len(m.shown) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.detail.Width = msg.Width
		m.detail.Height = max(msg.Height-8, 3)

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.sess = msg.sess
		m.all = entries(msg.sess)
		m.apply()

	case tea.KeyMsg:
		if m.state == stateFilter {
			return m.updateFilter(msg)
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.state == stateList && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateList && m.selected < len(m.shown)-1 {
				m.selected++
			}

		case "pgup":
			if m.state == stateList {
				m.selected = max(m.selected-pageSize, 0)
			}

		case "pgdown":
			if m.state == stateList {
				m.selected = max(min(m.selected+pageSize, len(m.shown)-1), 0)
			}

		case "/":
			if m.state == stateList {
				m.state = stateFilter
				return m, m.filter.Focus()
			}

		case "m":
			if m.state == stateList {
				m.messagesOnly = !m.messagesOnly
				m.apply()
			}

		case "enter":
			if m.state == stateList && len(m.shown) > 0 {
				m.detail.SetContent(m.renderDetail(m.shown[m.selected]))
				m.detail.GotoTop()
				m.state = stateDetail
			}

		case "esc":
			if m.state == stateDetail {
				m.state = stateList
			}
		}
	}

	switch m.state {
	case stateDetail:
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	case stateFilter:
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *interactiveModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter", "esc":
		if msg.String() == "esc" {
			m.filter.SetValue("")
		}
		m.filter.Blur()
		m.state = stateList
		m.apply()
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.apply()
	return m, cmd
}

func (m *interactiveModel) renderDetail(e entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Slot:    %s\n", slotStyle.Render(fmt.Sprintf("0x%08X", e.ref.Slot)))
	fmt.Fprintf(&b, "Target:  0x%08X\n", e.ref.Target)
	fmt.Fprintf(&b, "Opcode:  %s (0x%02X)\n", opStyle.Render(opcode.Name(e.ref.Opcode)), e.ref.Opcode)
	if e.role != "" {
		fmt.Fprintf(&b, "Role:    %s\n", e.role)
	}
	b.WriteString("\n")
	b.WriteString(textStyle.Render(e.ref.Text))
	b.WriteString("\n\nTranslation line:\n")
	fmt.Fprintf(&b, "%s%08X%s%s\n", translation.TranslationMarker, e.ref.Slot,
		translation.TranslationMarker, translation.Escape(e.ref.Text))
	return b.String()
}

func (m *interactiveModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if m.sess == nil {
		return "Loading script..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Tactics Script"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	fmt.Fprintf(&b, "  %d references, %d messages\n\n", len(m.all), len(m.sess.Messages()))

	switch m.state {
	case stateList, stateFilter:
		if m.state == stateFilter || m.filter.Value() != "" {
			b.WriteString(m.filter.View())
			b.WriteString("\n\n")
		}
		if len(m.shown) == 0 {
			b.WriteString("No strings match.\n")
		}

		start := max(m.selected-pageSize/2, 0)
		end := min(start+pageSize, len(m.shown))
		for i := start; i < end; i++ {
			line := m.formatEntry(m.shown[i])
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}

		b.WriteString("\n")
		scope := "all strings"
		if m.messagesOnly {
			scope = "messages"
		}
		b.WriteString(helpStyle.Render(fmt.Sprintf("%d/%d %s • ↑/↓ select • / filter • m toggle messages • enter details • q quit",
			len(m.shown), len(m.all), scope)))

	case stateDetail:
		b.WriteString(m.detail.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("↑/↓ scroll • esc back • q quit"))
	}

	return b.String()
}

func (m *interactiveModel) formatEntry(e entry) string {
	text := translation.Escape(e.ref.Text)
	limit := max(m.width-40, 20)
	if r := []rune(text); len(r) > limit {
		text = string(r[:limit]) + "…"
	}
	role := e.role
	if role == "" {
		role = opcode.Name(e.ref.Opcode)
	}
	return fmt.Sprintf("%s %-14s %s", slotStyle.Render(fmt.Sprintf("%08X", e.ref.Slot)), role, text)
}

func runInteractive(filename string, cfg *config.Config) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("interactive mode needs a terminal")
	}
	opts, err := cfg.ScriptOptions()
	if err != nil {
		return err
	}
	p := tea.NewProgram(newInteractiveModel(filename, opts), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
