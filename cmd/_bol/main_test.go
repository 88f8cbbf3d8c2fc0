package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashwch/bol/internal/appdirs"
	"github.com/ashwch/bol/internal/intent"
	"github.com/ashwch/bol/internal/journal"
	"github.com/ashwch/bol/internal/usage"
)

func isolate(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(home, ".state"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData", "Roaming"))
	t.Setenv("LOCALAPPDATA", filepath.Join(home, "AppData", "Local"))
	t.Setenv("BOL_LOCALE", "en")
	t.Setenv("BOL_UI_BACKEND", "plain")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCatalogRoutesListsEmbeddedRoutes(t *testing.T) {
	isolate(t)

	out, err := execute(t, "catalog", "routes")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.NotEmpty(t, lines)
	assert.True(t, strings.HasPrefix(lines[0], "/admin/claims"), "first line: %q", lines[0])
}

func TestCatalogFieldsJSON(t *testing.T) {
	isolate(t)

	out, err := execute(t, "catalog", "fields", "--json")
	require.NoError(t, err)
	var fields []struct {
		Key string `json:"key"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &fields))
	keys := make([]string, 0, len(fields))
	for _, field := range fields {
		keys = append(keys, field.Key)
	}
	assert.Contains(t, keys, "mobile")
}

func TestCatalogValidate(t *testing.T) {
	isolate(t)

	out, err := execute(t, "catalog", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "catalog ok")

	broken := filepath.Join(t.TempDir(), "catalog.toml")
	require.NoError(t, os.WriteFile(broken, []byte("[[route]]\npath = \"/other\"\nkeywords = [\"admin\"]\n"), 0o600))
	out, err = execute(t, "catalog", "validate", "--file", broken)
	require.Error(t, err)
	assert.Contains(t, out, "shared by routes")
}

func TestConfigSetGet(t *testing.T) {
	isolate(t)

	out, err := execute(t, "config", "set", "server.addr", "0.0.0.0:9000")
	require.NoError(t, err)
	assert.Equal(t, "saved server.addr=0.0.0.0:9000\n", out)

	out, err = execute(t, "config", "get", "server.addr")
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000\n", out)

	_, err = execute(t, "config", "set", "ui.backend", "gtk")
	require.Error(t, err)
}

func TestConfigPathAndStatePath(t *testing.T) {
	isolate(t)

	want, err := appdirs.ConfigFilePath()
	require.NoError(t, err)
	out, err := execute(t, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, want+"\n", out)

	wantState, err := appdirs.StateDir()
	require.NoError(t, err)
	out, err = execute(t, "state-path")
	require.NoError(t, err)
	assert.Equal(t, wantState+"\n", out)
}

func TestJournalTailAndClear(t *testing.T) {
	isolate(t)

	j, err := journal.Default(journal.Options{Redact: true})
	require.NoError(t, err)
	for _, transcript := range []string{"open dashboard", "go back"} {
		require.NoError(t, j.Record(journal.Event{Source: journal.SourceCLI, CurrentPath: "/", Transcript: transcript}))
	}

	out, err := execute(t, "journal", "tail", "-n", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "go back")
	assert.NotContains(t, out, "open dashboard")

	out, err = execute(t, "journal", "clear", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "cleared")

	out, err = execute(t, "journal", "tail")
	require.NoError(t, err)
	assert.Equal(t, "journal is empty\n", out)
}

func TestUsageUnresolved(t *testing.T) {
	isolate(t)

	tracker, err := usage.DefaultTracker()
	require.NoError(t, err)
	require.NoError(t, tracker.Record("open dashboard", intent.KindNavigate))
	require.NoError(t, tracker.Record("book a tractor", intent.KindNone))
	require.NoError(t, tracker.Record("book a tractor", intent.KindNone))

	out, err := execute(t, "usage", "unresolved", "--json")
	require.NoError(t, err)
	var entries []usage.Entry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "book a tractor", entries[0].Transcript)
	assert.Equal(t, 2, entries[0].Hits)

	out, err = execute(t, "usage", "top")
	require.NoError(t, err)
	assert.Contains(t, out, "open dashboard")
}

func TestDoctorReportsChecks(t *testing.T) {
	isolate(t)

	out, err := execute(t, "doctor")
	require.NoError(t, err)
	var checks []check
	require.NoError(t, json.Unmarshal([]byte(out), &checks))

	byKey := map[string]check{}
	for _, c := range checks {
		byKey[c.Key] = c
	}
	assert.Equal(t, "ok", byKey["catalog"].Status)
	assert.Equal(t, "not used", byKey["catalog_overrides"].Status)
	assert.Equal(t, "empty", byKey["journal"].Status)
	assert.Contains(t, byKey["locale"].Value, "en")
}

func TestUnknownCommandFails(t *testing.T) {
	isolate(t)

	_, err := execute(t, "nope")
	require.Error(t, err)
}
