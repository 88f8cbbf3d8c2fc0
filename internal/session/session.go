package session

import (
	"sync"

	"github.com/ashwch/bol/internal/intent"
)

const defaultMaxDepth = 50

// Session tracks the page a speaker is on and where "go back" leads.
// It stands in for the browser router in the console and the voice socket.
type Session struct {
	mu       sync.Mutex
	path     string
	history  []string
	maxDepth int
}

func New(startPath string) *Session {
	if startPath == "" {
		startPath = "/"
	}
	return &Session{path: startPath, maxDepth: defaultMaxDepth}
}

func (s *Session) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// Depth is the number of pages "go back" can still return to.
func (s *Session) Depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

// Apply moves the session according to a resolved result and returns the
// new path. Actions and fallbacks leave the path alone.
func (s *Session) Apply(result intent.Result) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch result.TargetPath.Kind {
	case intent.TargetPath:
		if result.TargetPath.Path == s.path {
			return s.path
		}
		s.history = append(s.history, s.path)
		if len(s.history) > s.maxDepth {
			s.history = s.history[len(s.history)-s.maxDepth:]
		}
		s.path = result.TargetPath.Path
	case intent.TargetBack:
		if n := len(s.history); n > 0 {
			s.path = s.history[n-1]
			s.history = s.history[:n-1]
		}
	}
	return s.path
}

// Visit sets the current path without resolving anything, e.g. when the
// browser reports a click-driven navigation.
func (s *Session) Visit(path string) {
	if path == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if path == s.path {
		return
	}
	s.history = append(s.history, s.path)
	if len(s.history) > s.maxDepth {
		s.history = s.history[len(s.history)-s.maxDepth:]
	}
	s.path = path
}
