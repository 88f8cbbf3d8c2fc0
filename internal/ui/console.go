package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ashwch/bol/internal/intent"
	"github.com/ashwch/bol/internal/safety"
	"github.com/ashwch/bol/internal/session"
)

const consoleScrollback = 8

// ResultHook is called after every resolved console line, with the path the
// line was spoken on.
type ResultHook func(transcript string, currentPath string, result intent.Result)

type ConsoleOptions struct {
	Backend  string
	OnResult ResultHook
}

type consoleEntry struct {
	transcript string
	path       string
	result     intent.Result
}

type consoleModel struct {
	resolver *intent.Resolver
	session  *session.Session
	input    textinput.Model
	entries  []consoleEntry
	onResult ResultHook
	done     bool
}

// RunConsole starts an interactive loop: each submitted line is resolved on
// the session's current page and navigation results move the session.
// used is false when the backend is plain, so callers can fall back to a
// line-based loop.
func RunConsole(resolver *intent.Resolver, sess *session.Session, opts ConsoleOptions) (bool, error) {
	if !IsInteractiveBackend(opts.Backend) {
		return false, nil
	}
	model := newConsoleModel(resolver, sess, opts.OnResult)
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return false, err
	}
	return true, nil
}

func newConsoleModel(resolver *intent.Resolver, sess *session.Session, hook ResultHook) consoleModel {
	input := textinput.New()
	input.Placeholder = "open dashboard / mera naam Ravi hai / scroll down"
	input.CharLimit = 400
	input.Width = 72
	input.Prompt = "🎙 "
	input.Focus()

	return consoleModel{
		resolver: resolver,
		session:  sess,
		input:    input,
		onResult: hook,
	}
}

func (m consoleModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m consoleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyCtrlD:
			m.done = true
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit(), nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m consoleModel) submit() consoleModel {
	transcript := strings.TrimSpace(m.input.Value())
	m.input.Reset()
	if transcript == "" {
		return m
	}

	path := m.session.Path()
	result := m.resolver.Resolve(transcript, path)
	m.session.Apply(result)
	if m.onResult != nil {
		m.onResult(transcript, path, result)
	}

	m.entries = append(m.entries, consoleEntry{transcript: transcript, path: path, result: result})
	if len(m.entries) > consoleScrollback {
		m.entries = append([]consoleEntry(nil), m.entries[len(m.entries)-consoleScrollback:]...)
	}
	return m
}

func (m consoleModel) View() string {
	lines := []string{
		titleStyle.Render("bol console"),
		subtleStyle.Render(fmt.Sprintf("page %s  locale %s", m.session.Path(), m.resolver.Locale())),
		"",
	}
	for _, entry := range m.entries {
		lines = append(lines,
			bodyStyle.Render("> "+safety.RedactTranscript(entry.transcript, entry.result)),
			kindStyle(entry.result.Kind()).Render("  "+Describe(entry.result)),
			subtleStyle.Render("  "+entry.result.Feedback),
		)
	}
	if len(m.entries) > 0 {
		lines = append(lines, "")
	}
	lines = append(lines, m.input.View(), "", hintStyle.Render("[enter] resolve  [esc] quit"))
	return cardStyle.Render(strings.Join(lines, "\n"))
}

// Describe renders a result as a single line, masking sensitive fill values.
func Describe(result intent.Result) string {
	switch result.Kind() {
	case intent.KindNavigate:
		return "navigate " + result.TargetPath.Path
	case intent.KindBack:
		return "back"
	case intent.KindReload:
		return "reload"
	case intent.KindNone:
		return "none"
	}
	return describeAction(*result.Action)
}

func describeAction(action intent.Action) string {
	switch action.Type {
	case intent.ActionFill:
		return fmt.Sprintf("fill %s=%s", action.Field, safety.RedactValue(action.Field, action.Value))
	case intent.ActionClick:
		return "click " + action.Target
	case intent.ActionScroll:
		return "scroll " + string(action.Direction)
	case intent.ActionChat:
		return fmt.Sprintf("chat %q", safety.RedactText(action.Query))
	case intent.ActionMulti:
		parts := make([]string, 0, len(action.Actions))
		for _, child := range action.Actions {
			parts = append(parts, describeAction(child))
		}
		return "multi [" + strings.Join(parts, ", ") + "]"
	default:
		return string(action.Type)
	}
}

func kindStyle(kind intent.Kind) lipgloss.Style {
	switch kind {
	case intent.KindNone:
		return missStyle
	case intent.KindNavigate, intent.KindBack, intent.KindReload:
		return navStyle
	default:
		return actionStyle
	}
}

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("70")).
			Padding(1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("114"))

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("248"))

	bodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("109"))

	navStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("45"))

	actionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("220"))

	missStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))
)
