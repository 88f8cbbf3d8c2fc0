package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/rivo/tview"

	"github.com/ashwch/bol/internal/catalog"
)

type pageOption struct {
	Label string
	Route catalog.Route
}

// PickPage lets the user choose the page they are "standing on" so that
// path-dependent behaviour (the chat rule) can be tried from a terminal.
// ok is false when the user cancelled or no interactive backend ran.
func PickPage(backend string, routes []catalog.Route, current string) (catalog.Route, bool, error) {
	options := buildPageOptions(routes, current)
	if len(options) == 0 {
		return catalog.Route{}, false, nil
	}

	var firstErr error
	for _, candidate := range backendCandidates(backend) {
		var (
			selected catalog.Route
			used     bool
			err      error
		)
		switch candidate {
		case BackendBubbleTea:
			selected, used, err = pickWithBubbleTea(options)
		case BackendHuh:
			selected, used, err = pickWithHuh(options)
		case BackendTView:
			selected, used, err = pickWithTView(options)
		default:
			continue
		}
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if used {
			return selected, selected.Path != "", nil
		}
	}
	return catalog.Route{}, false, firstErr
}

// buildPageOptions lists routes once each, the current page first.
func buildPageOptions(routes []catalog.Route, current string) []pageOption {
	options := make([]pageOption, 0, len(routes))
	seen := map[string]struct{}{}
	var head []pageOption

	for _, route := range routes {
		path := strings.TrimSpace(route.Path)
		if path == "" {
			continue
		}
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}

		label := path
		if route.Description != "" {
			label = fmt.Sprintf("%s  %s", path, route.Description)
		}
		option := pageOption{Label: label, Route: route}
		if path == current {
			option.Label = "[current] " + label
			head = append(head, option)
			continue
		}
		options = append(options, option)
	}
	return append(head, options...)
}

func pickWithHuh(options []pageOption) (catalog.Route, bool, error) {
	huhOptions := make([]huh.Option[string], 0, len(options))
	lookup := map[string]catalog.Route{}
	for _, option := range options {
		huhOptions = append(huhOptions, huh.NewOption(option.Label, option.Route.Path))
		lookup[option.Route.Path] = option.Route
	}

	choice := huhOptions[0].Value
	prompt := huh.NewSelect[string]().
		Title("bol page picker").
		Description("Which page is the speaker on?").
		Options(huhOptions...).
		Filtering(true).
		Height(huhSelectHeight(len(huhOptions))).
		Value(&choice).
		WithTheme(huh.ThemeCharm())

	if err := prompt.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return catalog.Route{}, true, nil
		}
		return catalog.Route{}, false, err
	}
	return lookup[choice], true, nil
}

type pageItem struct {
	label string
	route catalog.Route
}

func (i pageItem) Title() string       { return i.label }
func (i pageItem) Description() string { return "" }
func (i pageItem) FilterValue() string { return i.label + " " + strings.Join(i.route.Keywords, " ") }

type pagePickerModel struct {
	list      list.Model
	selected  catalog.Route
	cancelled bool
	options   int
}

func (m pagePickerModel) Init() tea.Cmd { return nil }

func (m pagePickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch k := msg.(type) {
	case tea.WindowSizeMsg:
		width, height := bubblePickerSize(k.Width, k.Height, m.options)
		m.list.SetSize(width, height)
		return m, nil
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch k.String() {
		case "q", "esc", "ctrl+c":
			m.cancelled = true
			return m, tea.Quit
		case "enter":
			if item, ok := m.list.SelectedItem().(pageItem); ok {
				m.selected = item.route
			}
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m pagePickerModel) View() string {
	return m.list.View()
}

func newPagePickerModel(options []pageOption) pagePickerModel {
	items := make([]list.Item, 0, len(options))
	for _, option := range options {
		items = append(items, pageItem{label: option.Label, route: option.Route})
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	width, height := bubblePickerSize(80, 24, len(items))
	picker := list.New(items, delegate, width, height)
	picker.Title = "bol page picker"
	picker.SetShowHelp(false)
	picker.SetFilteringEnabled(true)

	return pagePickerModel{list: picker, options: len(items)}
}

func pickWithBubbleTea(options []pageOption) (catalog.Route, bool, error) {
	final, err := tea.NewProgram(newPagePickerModel(options), tea.WithAltScreen()).Run()
	if err != nil {
		return catalog.Route{}, false, err
	}
	out, ok := final.(pagePickerModel)
	if !ok || out.cancelled {
		return catalog.Route{}, true, nil
	}
	return out.selected, true, nil
}

func pickWithTView(options []pageOption) (catalog.Route, bool, error) {
	app := tview.NewApplication()
	listView := tview.NewList()
	listView.SetBorder(true)
	listView.SetTitle("bol page picker")
	listView.ShowSecondaryText(false)

	var selected catalog.Route
	for _, option := range options {
		current := option
		listView.AddItem(current.Label, "", 0, func() {
			selected = current.Route
			app.Stop()
		})
	}
	listView.SetDoneFunc(func() {
		app.Stop()
	})

	if err := app.SetRoot(listView, true).SetFocus(listView).Run(); err != nil {
		return catalog.Route{}, false, err
	}
	return selected, true, nil
}

func clampInt(v, minV, maxV int) int {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

func bubblePickerSize(termWidth, termHeight, optionCount int) (int, int) {
	if termWidth <= 0 {
		termWidth = 80
	}
	if termHeight <= 0 {
		termHeight = 24
	}
	if optionCount < 1 {
		optionCount = 1
	}

	minWidth := min(32, termWidth)
	width := clampInt(termWidth-4, minWidth, termWidth)

	desiredHeight := clampInt(optionCount, 3, 12) + 6
	maxHeight := termHeight - 2
	if maxHeight <= 0 {
		maxHeight = max(termHeight, 1)
	}
	minHeight := min(8, maxHeight)
	return width, clampInt(desiredHeight, minHeight, maxHeight)
}

func huhSelectHeight(optionCount int) int {
	return clampInt(optionCount+1, 4, 10)
}
