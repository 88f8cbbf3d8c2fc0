package usage

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/ashwch/bol/internal/intent"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRecordCountsNormalizedTranscripts(t *testing.T) {
	store := Store{}
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for _, transcript := range []string{"Open  Dashboard", "open dashboard", " OPEN DASHBOARD "} {
		if err := store.Record(transcript, intent.KindNavigate, now); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}
	if err := store.Record("khet ka hisaab", intent.KindNone, now.Add(time.Minute)); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	top := store.Top(5)
	if len(top) != 2 {
		t.Fatalf("expected 2 entries, got %#v", top)
	}
	if top[0].Transcript != "open dashboard" || top[0].Hits != 3 {
		t.Fatalf("unexpected top entry %#v", top[0])
	}
	if top[0].FirstSeen != "2026-03-01T10:00:00Z" {
		t.Fatalf("unexpected first_seen %q", top[0].FirstSeen)
	}
}

func TestRecordRejectsEmptyAndRedacts(t *testing.T) {
	store := Store{}
	if err := store.Record("   ", intent.KindNone, time.Now()); err == nil {
		t.Fatalf("expected empty transcript to be rejected")
	}
	if err := store.Record("my aadhaar is 1234 5678 9012", intent.KindFill, time.Now()); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if got := store.Entries[0].Transcript; got != "my aadhaar is xxxx-xxxx-9012" {
		t.Fatalf("expected redacted transcript, got %q", got)
	}
}

func TestUnresolvedOnlyListsFallbacks(t *testing.T) {
	store := Store{}
	now := time.Now()
	_ = store.Record("open dashboard", intent.KindNavigate, now)
	_ = store.Record("mausam kaisa", intent.KindNone, now)
	_ = store.Record("tractor bhada", intent.KindNone, now)
	_ = store.Record("tractor bhada", intent.KindNone, now)

	unresolved := store.Unresolved(10)
	if len(unresolved) != 2 {
		t.Fatalf("expected 2 unresolved entries, got %#v", unresolved)
	}
	if unresolved[0].Transcript != "tractor bhada" || unresolved[0].Hits != 2 {
		t.Fatalf("expected most frequent unresolved first, got %#v", unresolved[0])
	}
	if got := store.Unresolved(1); len(got) != 1 {
		t.Fatalf("expected limit to apply, got %d", len(got))
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", FileName)

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(loaded.Entries) != 0 {
		t.Fatalf("expected empty store before save")
	}

	store := Store{}
	_ = store.Record("scroll down", intent.KindScroll, time.Now())
	if err := Save(path, store); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	again, err := Load(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if len(again.Entries) != 1 || again.Entries[0].Kind != intent.KindScroll {
		t.Fatalf("unexpected reloaded store %#v", again)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat failed: %v", err)
		}
		if info.Mode().Perm()&0o077 != 0 {
			t.Fatalf("expected private perms, got %o", info.Mode().Perm())
		}
	}
}

func TestLoadRejectsCorruptStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("{"), 0o600); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestTrackerConcurrentRecordsAreNotLost(t *testing.T) {
	tracker := NewTracker(filepath.Join(t.TempDir(), FileName))

	const workers = 8
	const perWorker = 5
	var wg sync.WaitGroup
	errs := make(chan error, workers*perWorker)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				if err := tracker.Record(fmt.Sprintf("phrase %d", w%2), intent.KindNone); err != nil {
					errs <- err
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("Record failed: %v", err)
	}

	store, err := tracker.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	total := 0
	for _, entry := range store.Entries {
		total += entry.Hits
	}
	if total != workers*perWorker {
		t.Fatalf("expected %d hits, got %d (%#v)", workers*perWorker, total, store.Entries)
	}
}
