package config

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/pelletier/go-toml/v2"
)

func TestSetGetResolverAndServerKeys(t *testing.T) {
	cfg := Default()

	sets := map[string]string{
		"resolver.chat_path":       "/assistant/",
		"resolver.chat_min_length": "12",
		"ui.backend":               "huh",
		"locale":                   "hi-in",
		"server.addr":              ":9090",
		"server.allowed_origins":   "https://krishi.example.in/, http://localhost:3000",
		"server.log_level":         "WARNING",
		"journal.redact":           "false",
		"usage.enabled":            "no",
	}
	for key, value := range sets {
		if err := cfg.Set(key, value); err != nil {
			t.Fatalf("set %s failed: %v", key, err)
		}
	}

	want := map[string]string{
		"resolver.chat_path":       "/assistant",
		"resolver.chat_min_length": "12",
		"ui.backend":               "huh",
		"locale":                   "hi-IN",
		"server.addr":              ":9090",
		"server.allowed_origins":   "https://krishi.example.in,http://localhost:3000",
		"server.log_level":         "warn",
		"journal.enabled":          "true",
		"journal.redact":           "false",
		"usage.enabled":            "false",
	}
	for key, expected := range want {
		got, err := cfg.Get(key)
		if err != nil {
			t.Fatalf("get %s failed: %v", key, err)
		}
		if got != expected {
			t.Fatalf("%s: expected %q, got %q", key, expected, got)
		}
	}
}

func TestEveryListedKeyIsGettable(t *testing.T) {
	cfg := Default()
	for _, key := range Keys {
		if _, err := cfg.Get(key); err != nil {
			t.Fatalf("listed key %s is not readable: %v", key, err)
		}
	}
	if _, err := cfg.Get("provider"); err == nil {
		t.Fatalf("expected unknown key to be rejected")
	}
}

func TestSetRejectsInvalidUIBackend(t *testing.T) {
	cfg := Default()
	if err := cfg.Set("ui.backend", "neon-ui"); err == nil {
		t.Fatalf("expected invalid ui.backend to be rejected")
	}
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.UI.Backend != "bubbletea" {
		t.Fatalf("expected default ui backend bubbletea, got %q", cfg.UI.Backend)
	}
	if cfg.Locale != "auto" {
		t.Fatalf("expected default locale auto, got %q", cfg.Locale)
	}
	if cfg.Resolver.ChatPath != "/schemes" || cfg.Resolver.ChatMinLength != 5 {
		t.Fatalf("unexpected resolver defaults: %+v", cfg.Resolver)
	}
	if !cfg.Journal.Enabled || !cfg.Journal.Redact {
		t.Fatalf("expected journal enabled with redaction by default")
	}
	if !cfg.Usage.Enabled {
		t.Fatalf("expected usage tracking enabled by default")
	}
}

func TestSetRejectsInvalidLocale(t *testing.T) {
	cfg := Default()
	if err := cfg.Set("locale", "%%bad-locale"); err == nil {
		t.Fatalf("expected invalid locale to be rejected")
	}
}

func TestSetRejectsInvalidResolverConfig(t *testing.T) {
	cfg := Default()
	if err := cfg.Set("resolver.chat_path", "schemes"); err == nil {
		t.Fatalf("expected relative chat path to be rejected")
	}
	if err := cfg.Set("resolver.chat_min_length", "-1"); err == nil {
		t.Fatalf("expected negative chat length to be rejected")
	}
	if err := cfg.Set("journal.enabled", "notabool"); err == nil {
		t.Fatalf("expected invalid bool to be rejected")
	}
	if err := cfg.Set("server.log_level", "loud"); err == nil {
		t.Fatalf("expected invalid log level to be rejected")
	}
}

func TestNormalizePreservesExplicitFalseValues(t *testing.T) {
	cfg := Default()
	cfg.Journal.Enabled = false
	cfg.Journal.Redact = false
	cfg.Usage.Enabled = false

	cfg.normalize()

	if cfg.Journal.Enabled || cfg.Journal.Redact || cfg.Usage.Enabled {
		t.Fatalf("expected explicit false values to be preserved: %+v %+v", cfg.Journal, cfg.Usage)
	}
}

func TestLoadFileLayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[resolver]\nchat_path = \"/help\"\n\n[journal]\nredact = false\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config failed: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Resolver.ChatPath != "/help" {
		t.Fatalf("expected chat path from file, got %q", cfg.Resolver.ChatPath)
	}
	if cfg.Resolver.ChatMinLength != 5 {
		t.Fatalf("expected default chat length to survive, got %d", cfg.Resolver.ChatMinLength)
	}
	if cfg.Journal.Redact {
		t.Fatalf("expected journal.redact=false from file")
	}
	if !cfg.Journal.Enabled {
		t.Fatalf("expected journal.enabled default to survive")
	}
	if cfg.Server.Addr != "127.0.0.1:8787" {
		t.Fatalf("expected default server addr, got %q", cfg.Server.Addr)
	}
}

func isolateConfigDir(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData", "Roaming"))
}

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	isolateConfigDir(t)

	cfg, path, err := LoadOrCreate()
	if err != nil {
		t.Fatalf("load or create failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file at %s: %v", path, err)
	}
	if cfg.UI.Backend != "bubbletea" {
		t.Fatalf("expected defaults, got %+v", cfg.UI)
	}

	cfg.Resolver.ChatPath = "/assistant"
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	reloaded, _, err := LoadOrCreate()
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Resolver.ChatPath != "/assistant" {
		t.Fatalf("expected saved chat path, got %q", reloaded.Resolver.ChatPath)
	}
}

func TestApplyEnvOverlaysVariables(t *testing.T) {
	t.Setenv("BOL_CHAT_PATH", "/kisan-mitra")
	t.Setenv("BOL_JOURNAL_ENABLED", "off")
	t.Setenv("BOL_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg := Default()
	if err := cfg.ApplyEnv(""); err != nil {
		t.Fatalf("apply env failed: %v", err)
	}
	if cfg.Resolver.ChatPath != "/kisan-mitra" {
		t.Fatalf("expected chat path from env, got %q", cfg.Resolver.ChatPath)
	}
	if cfg.Journal.Enabled {
		t.Fatalf("expected journal disabled from env")
	}
	if len(cfg.Server.AllowedOrigins) != 2 {
		t.Fatalf("expected two origins, got %v", cfg.Server.AllowedOrigins)
	}
}

func TestApplyEnvLoadsDotEnvWithoutOverridingProcessEnv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	content := "BOL_SERVER_ADDR=0.0.0.0:9999\nBOL_LOG_LEVEL=debug\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file failed: %v", err)
	}
	// godotenv sets variables for the whole process; t.Setenv restores them.
	t.Setenv("BOL_SERVER_ADDR", "")
	t.Setenv("BOL_LOG_LEVEL", "error")
	if err := os.Unsetenv("BOL_SERVER_ADDR"); err != nil {
		t.Fatalf("unsetenv failed: %v", err)
	}

	cfg := Default()
	if err := cfg.ApplyEnv(envFile); err != nil {
		t.Fatalf("apply env failed: %v", err)
	}
	if cfg.Server.Addr != "0.0.0.0:9999" {
		t.Fatalf("expected addr from .env, got %q", cfg.Server.Addr)
	}
	if cfg.Server.LogLevel != "error" {
		t.Fatalf("expected process env to win over .env, got %q", cfg.Server.LogLevel)
	}
}

func TestApplyEnvIgnoresMissingFileAndRejectsBadValues(t *testing.T) {
	cfg := Default()
	if err := cfg.ApplyEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("expected missing env file to be ignored, got %v", err)
	}

	t.Setenv("BOL_UI_BACKEND", "neon-ui")
	if err := cfg.ApplyEnv(""); err == nil {
		t.Fatalf("expected invalid BOL_UI_BACKEND to be rejected")
	}
}

func TestCatalogOverridePathPrefersConfiguredFile(t *testing.T) {
	cfg := Default()
	cfg.Catalog.Overrides = "/srv/bol/catalog.toml"
	path, err := cfg.CatalogOverridePath()
	if err != nil {
		t.Fatalf("override path failed: %v", err)
	}
	if path != "/srv/bol/catalog.toml" {
		t.Fatalf("expected configured path, got %q", path)
	}

	isolateConfigDir(t)
	cfg.Catalog.Overrides = ""
	path, err = cfg.CatalogOverridePath()
	if err != nil {
		t.Fatalf("default override path failed: %v", err)
	}
	if filepath.Base(path) != "catalog.toml" {
		t.Fatalf("expected catalog.toml under config dir, got %q", path)
	}
}

func TestSaveUsesPrivateFileMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not portable on windows")
	}

	cfg := Default()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat config failed: %v", err)
	}
	if perms := info.Mode().Perm(); perms&0o077 != 0 {
		t.Fatalf("expected private permissions, got %o", perms)
	}
}

func TestSaveAtomicWriteProducesParseableConfigUnderConcurrentSaves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			cfg := Default()
			if idx%2 == 0 {
				cfg.Resolver.ChatPath = "/schemes"
			} else {
				cfg.Resolver.ChatPath = "/assistant"
			}
			if err := Save(path, cfg); err != nil {
				t.Errorf("save failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	bytes, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config failed: %v", err)
	}
	var parsed Config
	if err := toml.Unmarshal(bytes, &parsed); err != nil {
		t.Fatalf("expected final config to be parseable TOML, got error: %v\ncontent:\n%s", err, string(bytes))
	}
}
