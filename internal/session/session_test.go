package session

import (
	"testing"

	"github.com/ashwch/bol/internal/intent"
)

func TestApplyFollowsNavigationAndBack(t *testing.T) {
	s := New("")
	if s.Path() != "/" {
		t.Fatalf("expected default start path /, got %q", s.Path())
	}

	steps := []struct {
		result intent.Result
		want   string
	}{
		{result: intent.Result{TargetPath: intent.PathTarget("/dashboard")}, want: "/dashboard"},
		{result: intent.Result{TargetPath: intent.PathTarget("/inventory")}, want: "/inventory"},
		{result: intent.Result{TargetPath: intent.ReloadTarget()}, want: "/inventory"},
		{result: intent.Result{Action: &intent.Action{Type: intent.ActionClick, Target: "save"}}, want: "/inventory"},
		{result: intent.Result{TargetPath: intent.BackTarget()}, want: "/dashboard"},
		{result: intent.Result{TargetPath: intent.BackTarget()}, want: "/"},
		{result: intent.Result{TargetPath: intent.BackTarget()}, want: "/"},
	}
	for i, step := range steps {
		if got := s.Apply(step.result); got != step.want {
			t.Fatalf("step %d: path=%q want=%q", i, got, step.want)
		}
	}
	if s.Depth() != 0 {
		t.Fatalf("expected empty back stack, got %d", s.Depth())
	}
}

func TestApplySamePathDoesNotGrowHistory(t *testing.T) {
	s := New("/schemes")
	s.Apply(intent.Result{TargetPath: intent.PathTarget("/schemes")})
	if s.Depth() != 0 {
		t.Fatalf("navigating to the current page must not push history")
	}
}

func TestHistoryIsBounded(t *testing.T) {
	s := New("/")
	for i := 0; i < defaultMaxDepth+10; i++ {
		if i%2 == 0 {
			s.Visit("/a")
		} else {
			s.Visit("/b")
		}
	}
	if s.Depth() != defaultMaxDepth {
		t.Fatalf("expected depth capped at %d, got %d", defaultMaxDepth, s.Depth())
	}
}
