package intent

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind classifies a resolved command for journaling and metrics.
type Kind string

const (
	KindNavigate Kind = "navigate"
	KindBack     Kind = "back"
	KindReload   Kind = "reload"
	KindFill     Kind = "fill"
	KindClick    Kind = "click"
	KindScroll   Kind = "scroll"
	KindMulti    Kind = "multi"
	KindChat     Kind = "chat"
	KindNone     Kind = "none"
)

type ActionType string

const (
	ActionFill   ActionType = "fill"
	ActionClick  ActionType = "click"
	ActionScroll ActionType = "scroll"
	ActionMulti  ActionType = "multi"
	ActionChat   ActionType = "chat"
)

type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// Action is a structured instruction for the current page.
// Only the fields belonging to Type are set.
type Action struct {
	Type      ActionType `json:"type"`
	Field     string     `json:"field,omitempty"`
	Value     string     `json:"value,omitempty"`
	Target    string     `json:"target,omitempty"`
	Direction Direction  `json:"direction,omitempty"`
	Query     string     `json:"query,omitempty"`
	Actions   []Action   `json:"actions,omitempty"`
}

func Fill(field, value string) Action {
	return Action{Type: ActionFill, Field: field, Value: value}
}

func Click(target string) Action {
	return Action{Type: ActionClick, Target: target}
}

func Scroll(direction Direction) Action {
	return Action{Type: ActionScroll, Direction: direction}
}

func Chat(query string) Action {
	return Action{Type: ActionChat, Query: query}
}

func Multi(actions ...Action) Action {
	return Action{Type: ActionMulti, Actions: actions}
}

type TargetKind int

const (
	TargetNone TargetKind = iota
	TargetPath
	TargetBack
	TargetReload
)

// Target is a navigation destination: a route path or a history step.
// It encodes as null, a path string, -1 (back) or 0 (reload). The 0 value
// extends the older string | -1 | null contract; frontends that predate it
// must treat 0 as "reload the current page" rather than as a path.
type Target struct {
	Kind TargetKind
	Path string
}

func PathTarget(path string) Target { return Target{Kind: TargetPath, Path: path} }
func BackTarget() Target            { return Target{Kind: TargetBack} }
func ReloadTarget() Target          { return Target{Kind: TargetReload} }

func (t Target) IsNone() bool { return t.Kind == TargetNone }

func (t Target) String() string {
	switch t.Kind {
	case TargetPath:
		return t.Path
	case TargetBack:
		return "-1"
	case TargetReload:
		return "0"
	default:
		return ""
	}
}

func (t Target) MarshalJSON() ([]byte, error) {
	switch t.Kind {
	case TargetPath:
		return json.Marshal(t.Path)
	case TargetBack:
		return []byte("-1"), nil
	case TargetReload:
		return []byte("0"), nil
	default:
		return []byte("null"), nil
	}
}

func (t *Target) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = Target{}
		return nil
	}
	if data[0] == '"' {
		var path string
		if err := json.Unmarshal(data, &path); err != nil {
			return err
		}
		*t = PathTarget(path)
		return nil
	}
	var step int
	if err := json.Unmarshal(data, &step); err != nil {
		return fmt.Errorf("targetPath must be a string, -1, 0 or null: %w", err)
	}
	switch step {
	case -1:
		*t = BackTarget()
	case 0:
		*t = ReloadTarget()
	default:
		return fmt.Errorf("unsupported history step %d", step)
	}
	return nil
}

// Result is the outcome of resolving one transcript. At most one of
// TargetPath and Action is set; Feedback is never empty.
type Result struct {
	TargetPath Target  `json:"targetPath"`
	Action     *Action `json:"action"`
	Feedback   string  `json:"feedback"`
}

func (r Result) Kind() Kind {
	switch r.TargetPath.Kind {
	case TargetPath:
		return KindNavigate
	case TargetBack:
		return KindBack
	case TargetReload:
		return KindReload
	}
	if r.Action == nil {
		return KindNone
	}
	switch r.Action.Type {
	case ActionFill:
		return KindFill
	case ActionClick:
		return KindClick
	case ActionScroll:
		return KindScroll
	case ActionMulti:
		return KindMulti
	case ActionChat:
		return KindChat
	default:
		return KindNone
	}
}

// Recognized reports whether any rule matched.
func (r Result) Recognized() bool {
	return r.Kind() != KindNone
}
