package recorder

import (
	"errors"
	"strings"

	"github.com/ashwch/bol/internal/intent"
	"github.com/ashwch/bol/internal/journal"
	"github.com/ashwch/bol/internal/usage"
)

// Entry is one resolved transcript, as seen by whichever surface heard it.
type Entry struct {
	Source      string
	SessionID   string
	CurrentPath string
	Transcript  string
	Locale      string
	Result      intent.Result
}

// Stores fans entries out to the journal and the usage tracker. A nil
// store is skipped, so callers can disable either one by leaving it unset.
type Stores struct {
	Journal *journal.Journal
	Usage   *usage.Tracker
}

func (s Stores) Enabled() bool {
	return s.Journal != nil || s.Usage != nil
}

// Record writes e to every configured store. Blank transcripts are ignored.
// Failures from both stores are joined so one does not hide the other.
func (s Stores) Record(e Entry) error {
	if strings.TrimSpace(e.Transcript) == "" {
		return nil
	}
	var errs []error
	if s.Journal != nil {
		errs = append(errs, s.Journal.Record(journal.Event{
			Source:      e.Source,
			SessionID:   e.SessionID,
			CurrentPath: e.CurrentPath,
			Transcript:  e.Transcript,
			Locale:      e.Locale,
			Result:      e.Result,
		}))
	}
	if s.Usage != nil {
		errs = append(errs, s.Usage.Record(e.Transcript, e.Result.Kind()))
	}
	return errors.Join(errs...)
}
