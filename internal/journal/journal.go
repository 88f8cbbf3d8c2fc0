package journal

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/ashwch/bol/internal/appdirs"
	"github.com/ashwch/bol/internal/intent"
	"github.com/ashwch/bol/internal/safety"
)

const (
	FileName            = "journal.jsonl"
	maxTranscriptLength = 4096
)

// Sources that write to the journal.
const (
	SourceCLI       = "cli"
	SourceConsole   = "console"
	SourceHTTP      = "http"
	SourceWebSocket = "ws"
)

type Event struct {
	Timestamp   string        `json:"timestamp"`
	Source      string        `json:"source"`
	SessionID   string        `json:"session_id,omitempty"`
	CurrentPath string        `json:"current_path"`
	Transcript  string        `json:"transcript"`
	Locale      string        `json:"locale,omitempty"`
	Kind        intent.Kind   `json:"kind"`
	Result      intent.Result `json:"result"`
}

type Options struct {
	// Redact masks PII in transcripts and results before they reach disk.
	Redact bool
}

// Journal is an append-only JSONL log of resolved transcripts.
type Journal struct {
	path   string
	redact bool
	mu     sync.Mutex
}

func New(path string, opts Options) *Journal {
	return &Journal{path: path, redact: opts.Redact}
}

// Default opens the journal in the user's state directory.
func Default(opts Options) (*Journal, error) {
	path, err := appdirs.StateFilePath(FileName)
	if err != nil {
		return nil, err
	}
	return New(path, opts), nil
}

func (j *Journal) Path() string { return j.path }

func (j *Journal) Record(ev Event) error {
	if ev.Timestamp == "" {
		ev.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	ev.Transcript = strings.TrimSpace(ev.Transcript)
	if ev.Transcript == "" {
		return fmt.Errorf("transcript cannot be empty")
	}
	if ev.Kind == "" {
		ev.Kind = ev.Result.Kind()
	}
	if j.redact {
		ev.Transcript = strings.TrimSpace(safety.RedactTranscript(ev.Transcript, ev.Result))
		ev.Result = safety.RedactResult(ev.Result)
	}
	ev.Transcript = truncate(ev.Transcript, maxTranscriptLength)

	encoded, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("could not serialize journal event: %w", err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(j.path), 0o700); err != nil {
		return fmt.Errorf("could not create journal dir: %w", err)
	}
	f, err := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("could not open journal file: %w", err)
	}
	defer f.Close()
	if err := os.Chmod(j.path, 0o600); err != nil {
		return fmt.Errorf("could not secure journal file permissions: %w", err)
	}
	if _, err := f.Write(append(encoded, '\n')); err != nil {
		return fmt.Errorf("could not write journal event: %w", err)
	}
	return nil
}

// Tail returns up to n of the most recent events, oldest first.
// Malformed lines are skipped. n <= 0 returns every event.
func (j *Journal) Tail(n int) ([]Event, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	f, err := os.Open(j.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not read journal file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var events []Event
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var ev Event
		if err := json.Unmarshal(line, &ev); err != nil {
			continue
		}
		events = append(events, ev)
		if n > 0 && len(events) > n {
			events = events[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not scan journal file: %w", err)
	}
	return events, nil
}

// Clear deletes the journal. A missing journal is not an error.
func (j *Journal) Clear() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := os.Remove(j.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("could not remove journal file: %w", err)
	}
	return nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
