package usage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ashwch/bol/internal/appdirs"
	"github.com/ashwch/bol/internal/intent"
	"github.com/ashwch/bol/internal/safety"
)

const (
	FileName   = "usage.json"
	maxEntries = 2000
)

// Entry counts how often one transcript was spoken and what it resolved to last.
type Entry struct {
	Transcript string      `json:"transcript"`
	Kind       intent.Kind `json:"kind"`
	Hits       int         `json:"hits"`
	FirstSeen  string      `json:"first_seen"`
	LastSeen   string      `json:"last_seen"`
}

type Store struct {
	Entries []Entry `json:"entries"`
}

func Load(path string) (Store, error) {
	bytes, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Store{}, nil
	}
	if err != nil {
		return Store{}, fmt.Errorf("could not read usage store: %w", err)
	}
	var store Store
	if err := json.Unmarshal(bytes, &store); err != nil {
		return Store{}, fmt.Errorf("could not parse usage store: %w", err)
	}
	store.normalize()
	return store, nil
}

func Save(path string, store Store) error {
	store.normalize()
	payload, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode usage store: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("could not create usage dir: %w", err)
	}
	tempFile, err := os.CreateTemp(dir, ".bol-usage-*.json")
	if err != nil {
		return fmt.Errorf("could not create temp usage file: %w", err)
	}
	tempPath := tempFile.Name()
	cleanup := func() {
		_ = os.Remove(tempPath)
	}
	if _, err := tempFile.Write(payload); err != nil {
		_ = tempFile.Close()
		cleanup()
		return fmt.Errorf("could not write temp usage file: %w", err)
	}
	if err := tempFile.Chmod(0o600); err != nil {
		_ = tempFile.Close()
		cleanup()
		return fmt.Errorf("could not secure temp usage file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		cleanup()
		return fmt.Errorf("could not close temp usage file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		cleanup()
		return fmt.Errorf("could not atomically replace usage file: %w", err)
	}
	if err := os.Chmod(path, 0o600); err != nil {
		return fmt.Errorf("could not secure usage file: %w", err)
	}
	return nil
}

// Record counts one resolution. Transcripts are redacted and normalized so
// "Open  Dashboard" and "open dashboard" share an entry.
func (s *Store) Record(transcript string, kind intent.Kind, now time.Time) error {
	key := normalize(safety.RedactText(transcript))
	if key == "" {
		return fmt.Errorf("transcript cannot be empty")
	}
	if kind == "" {
		kind = intent.KindNone
	}
	stamp := now.UTC().Format(time.RFC3339)

	for idx := range s.Entries {
		if s.Entries[idx].Transcript != key {
			continue
		}
		s.Entries[idx].Hits++
		s.Entries[idx].Kind = kind
		s.Entries[idx].LastSeen = stamp
		s.normalize()
		return nil
	}
	s.Entries = append(s.Entries, Entry{
		Transcript: key,
		Kind:       kind,
		Hits:       1,
		FirstSeen:  stamp,
		LastSeen:   stamp,
	})
	s.normalize()
	return nil
}

// Top returns the most frequent transcripts of any kind.
func (s *Store) Top(limit int) []Entry {
	return s.filter(limit, func(Entry) bool { return true })
}

// Unresolved returns the most frequent transcripts that matched no rule,
// which are the candidates for new catalog keywords.
func (s *Store) Unresolved(limit int) []Entry {
	return s.filter(limit, func(entry Entry) bool { return entry.Kind == intent.KindNone })
}

func (s *Store) filter(limit int, keep func(Entry) bool) []Entry {
	if limit <= 0 {
		limit = 10
	}
	out := make([]Entry, 0, min(limit, len(s.Entries)))
	for _, entry := range s.Entries {
		if !keep(entry) {
			continue
		}
		out = append(out, entry)
		if len(out) >= limit {
			break
		}
	}
	return out
}

func (s *Store) normalize() {
	if s == nil {
		return
	}
	entries := make([]Entry, 0, len(s.Entries))
	seen := map[string]int{}
	for _, entry := range s.Entries {
		entry.Transcript = normalize(entry.Transcript)
		if entry.Transcript == "" || entry.Hits <= 0 {
			continue
		}
		if idx, exists := seen[entry.Transcript]; exists {
			entries[idx].Hits += entry.Hits
			continue
		}
		seen[entry.Transcript] = len(entries)
		entries = append(entries, entry)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Hits == entries[j].Hits {
			return entries[i].LastSeen > entries[j].LastSeen
		}
		return entries[i].Hits > entries[j].Hits
	})
	if len(entries) > maxEntries {
		entries = entries[:maxEntries]
	}
	s.Entries = entries
}

func normalize(input string) string {
	return strings.Join(strings.Fields(strings.ToLower(input)), " ")
}

// Tracker serializes load-record-save cycles so concurrent callers
// (HTTP and WebSocket handlers) never lose counts.
type Tracker struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

func NewTracker(path string) *Tracker {
	return &Tracker{path: path, now: time.Now}
}

// DefaultTracker keeps usage.json in the user's state directory.
func DefaultTracker() (*Tracker, error) {
	if _, err := appdirs.EnsureStateDir(); err != nil {
		return nil, err
	}
	path, err := appdirs.StateFilePath(FileName)
	if err != nil {
		return nil, err
	}
	return NewTracker(path), nil
}

func (t *Tracker) Path() string { return t.path }

func (t *Tracker) Record(transcript string, kind intent.Kind) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	store, err := Load(t.path)
	if err != nil {
		return err
	}
	if err := store.Record(transcript, kind, t.now()); err != nil {
		return err
	}
	return Save(t.path, store)
}

func (t *Tracker) Snapshot() (Store, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Load(t.path)
}
