package ui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/rivo/tview"
)

// Confirm asks a yes/no question. used is false when no interactive
// backend could be started (for example with the plain backend).
func Confirm(backend string, question string, detail string) (approved bool, used bool, err error) {
	question = strings.TrimSpace(question)
	detail = strings.TrimSpace(detail)

	var firstErr error
	for _, candidate := range backendCandidates(backend) {
		switch candidate {
		case BackendBubbleTea:
			approved, err = confirmWithBubbleTea(question, detail)
		case BackendHuh:
			approved, err = confirmWithHuh(question, detail)
		case BackendTView:
			approved, err = confirmWithTView(question, detail)
		default:
			continue
		}
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		return approved, true, nil
	}
	return false, false, firstErr
}

type bubbleConfirmModel struct {
	question string
	detail   string
	approved bool
	done     bool
}

func (m bubbleConfirmModel) Init() tea.Cmd { return nil }

func (m bubbleConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch k := msg.(type) {
	case tea.KeyMsg:
		switch strings.ToLower(k.String()) {
		case "y", "h":
			m.approved = true
			m.done = true
			return m, tea.Quit
		case "n", "esc", "ctrl+c", "enter":
			m.approved = false
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m bubbleConfirmModel) View() string {
	lines := []string{titleStyle.Render(m.question)}
	if m.detail != "" {
		lines = append(lines, "", bodyStyle.Render(m.detail))
	}
	lines = append(lines, "", hintStyle.Render("[y] yes  [n] no"))
	return cardStyle.Render(strings.Join(lines, "\n"))
}

func confirmWithBubbleTea(question string, detail string) (bool, error) {
	model := bubbleConfirmModel{question: question, detail: detail}
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return false, err
	}
	out, ok := final.(bubbleConfirmModel)
	if !ok || !out.done {
		return false, nil
	}
	return out.approved, nil
}

func confirmWithHuh(question string, detail string) (bool, error) {
	approved := false
	prompt := huh.NewConfirm().
		Title(question).
		Description(detail).
		Affirmative("Yes").
		Negative("No").
		Value(&approved).
		WithTheme(huh.ThemeCharm())
	if err := prompt.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return approved, nil
}

func confirmWithTView(question string, detail string) (bool, error) {
	app := tview.NewApplication()
	approved := false
	done := false

	text := question
	if detail != "" {
		text = fmt.Sprintf("%s\n\n%s", question, detail)
	}
	modal := tview.NewModal().
		SetText(text).
		AddButtons([]string{"Yes", "No"}).
		SetDoneFunc(func(_ int, label string) {
			done = true
			approved = strings.EqualFold(strings.TrimSpace(label), "yes")
			app.Stop()
		})

	if err := app.SetRoot(modal, true).Run(); err != nil {
		return false, err
	}
	if !done {
		return false, nil
	}
	return approved, nil
}
