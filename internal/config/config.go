package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/ashwch/bol/internal/appdirs"
	"github.com/ashwch/bol/internal/i18n"
)

type ResolverConfig struct {
	ChatPath      string `toml:"chat_path" json:"chat_path"`
	ChatMinLength int    `toml:"chat_min_length" json:"chat_min_length"`
}

type CatalogConfig struct {
	// Overrides is the community catalog file; empty means <config dir>/catalog.toml.
	Overrides string `toml:"overrides" json:"overrides"`
}

type UIConfig struct {
	Backend string `toml:"backend" json:"backend"`
}

type ServerConfig struct {
	Addr           string   `toml:"addr" json:"addr"`
	AllowedOrigins []string `toml:"allowed_origins" json:"allowed_origins"`
	LogLevel       string   `toml:"log_level" json:"log_level"`
}

type JournalConfig struct {
	Enabled bool `toml:"enabled" json:"enabled"`
	Redact  bool `toml:"redact" json:"redact"`
}

type UsageConfig struct {
	Enabled bool `toml:"enabled" json:"enabled"`
}

type Config struct {
	Version  int            `toml:"version" json:"version"`
	Locale   string         `toml:"locale" json:"locale"`
	Resolver ResolverConfig `toml:"resolver" json:"resolver"`
	Catalog  CatalogConfig  `toml:"catalog" json:"catalog"`
	UI       UIConfig       `toml:"ui" json:"ui"`
	Server   ServerConfig   `toml:"server" json:"server"`
	Journal  JournalConfig  `toml:"journal" json:"journal"`
	Usage    UsageConfig    `toml:"usage" json:"usage"`
}

func Default() Config {
	return Config{
		Version: 1,
		Locale:  "auto",
		Resolver: ResolverConfig{
			ChatPath:      "/schemes",
			ChatMinLength: 5,
		},
		UI: UIConfig{
			Backend: "bubbletea",
		},
		Server: ServerConfig{
			Addr:           "127.0.0.1:8787",
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
			LogLevel:       "info",
		},
		Journal: JournalConfig{
			Enabled: true,
			Redact:  true,
		},
		Usage: UsageConfig{
			Enabled: true,
		},
	}
}

// Keys lists every key accepted by Get and Set, in display order.
var Keys = []string{
	"locale",
	"resolver.chat_path",
	"resolver.chat_min_length",
	"catalog.overrides",
	"ui.backend",
	"server.addr",
	"server.allowed_origins",
	"server.log_level",
	"journal.enabled",
	"journal.redact",
	"usage.enabled",
}

func LoadOrCreate() (Config, string, error) {
	path, err := appdirs.ConfigFilePath()
	if err != nil {
		return Config{}, "", err
	}

	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if _, err := appdirs.EnsureConfigDir(); err != nil {
			return Config{}, "", err
		}
		if err := Save(path, cfg); err != nil {
			return Config{}, "", err
		}
		return cfg, path, nil
	} else if err != nil {
		return Config{}, "", fmt.Errorf("could not stat config path: %w", err)
	}

	cfg, err = LoadFile(path)
	if err != nil {
		return Config{}, "", err
	}
	return cfg, path, nil
}

// LoadFile reads a config file layered over the defaults.
func LoadFile(path string) (Config, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("could not read config file: %w", err)
	}
	cfg := Default()
	if err := toml.Unmarshal(bytes, &cfg); err != nil {
		return Config{}, fmt.Errorf("could not parse config file: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

func Save(path string, cfg Config) error {
	cfg.normalize()
	payload, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("could not serialize config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("could not create config dir: %w", err)
	}
	tempFile, err := os.CreateTemp(dir, ".bol-config-*.toml")
	if err != nil {
		return fmt.Errorf("could not create temp config file: %w", err)
	}
	tempPath := tempFile.Name()
	cleanup := func() {
		_ = os.Remove(tempPath)
	}

	if _, err := tempFile.Write(payload); err != nil {
		_ = tempFile.Close()
		cleanup()
		return fmt.Errorf("could not write temp config file: %w", err)
	}
	if err := tempFile.Chmod(0o600); err != nil {
		_ = tempFile.Close()
		cleanup()
		return fmt.Errorf("could not secure temp config file permissions: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		cleanup()
		return fmt.Errorf("could not close temp config file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		cleanup()
		return fmt.Errorf("could not atomically replace config file: %w", err)
	}
	if err := os.Chmod(path, 0o600); err != nil {
		return fmt.Errorf("could not secure config file permissions: %w", err)
	}
	return nil
}

// CatalogOverridePath resolves catalog.overrides to a concrete file path.
func (c Config) CatalogOverridePath() (string, error) {
	if c.Catalog.Overrides != "" {
		return c.Catalog.Overrides, nil
	}
	return appdirs.CatalogOverridePath()
}

// envKeys maps BOL_* variables onto config keys. Order is the apply order.
var envKeys = []struct {
	env string
	key string
}{
	{env: "BOL_LOCALE", key: "locale"},
	{env: "BOL_CHAT_PATH", key: "resolver.chat_path"},
	{env: "BOL_CHAT_MIN_LENGTH", key: "resolver.chat_min_length"},
	{env: "BOL_CATALOG_OVERRIDES", key: "catalog.overrides"},
	{env: "BOL_UI_BACKEND", key: "ui.backend"},
	{env: "BOL_SERVER_ADDR", key: "server.addr"},
	{env: "BOL_ALLOWED_ORIGINS", key: "server.allowed_origins"},
	{env: "BOL_LOG_LEVEL", key: "server.log_level"},
	{env: "BOL_JOURNAL_ENABLED", key: "journal.enabled"},
	{env: "BOL_JOURNAL_REDACT", key: "journal.redact"},
	{env: "BOL_USAGE_ENABLED", key: "usage.enabled"},
}

// ApplyEnv loads envFile (if present) into the process environment without
// overriding variables already set, then overlays BOL_* variables on c.
func (c *Config) ApplyEnv(envFile string) error {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return fmt.Errorf("could not load %s: %w", envFile, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("could not stat %s: %w", envFile, err)
		}
	}

	for _, entry := range envKeys {
		value, ok := os.LookupEnv(entry.env)
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		if err := c.Set(entry.key, value); err != nil {
			return fmt.Errorf("%s: %w", entry.env, err)
		}
	}
	return nil
}

func (c *Config) normalize() {
	defaults := Default()
	if c.Version == 0 {
		c.Version = defaults.Version
	}
	c.Locale = normalizeLocaleSetting(c.Locale, defaults.Locale)
	if c.Locale == "" {
		c.Locale = defaults.Locale
	}
	c.Resolver.ChatPath = normalizePath(c.Resolver.ChatPath)
	if c.Resolver.ChatPath == "" {
		c.Resolver.ChatPath = defaults.Resolver.ChatPath
	}
	if c.Resolver.ChatMinLength < 0 {
		c.Resolver.ChatMinLength = defaults.Resolver.ChatMinLength
	}
	c.Catalog.Overrides = strings.TrimSpace(c.Catalog.Overrides)
	c.UI.Backend = normalizeUIBackend(c.UI.Backend, defaults.UI.Backend)
	c.Server.Addr = strings.TrimSpace(c.Server.Addr)
	if c.Server.Addr == "" {
		c.Server.Addr = defaults.Server.Addr
	}
	c.Server.AllowedOrigins = normalizeOrigins(c.Server.AllowedOrigins)
	c.Server.LogLevel = normalizeLogLevel(c.Server.LogLevel, defaults.Server.LogLevel)
}

func (c *Config) Set(key, value string) error {
	key = strings.TrimSpace(strings.ToLower(key))
	value = strings.TrimSpace(value)

	switch key {
	case "locale":
		c.Locale = normalizeLocaleSetting(value, "")
		if c.Locale == "" {
			return fmt.Errorf("locale must be 'auto' or a locale like en, hi, hi-IN, mr")
		}
	case "resolver.chat_path":
		path := normalizePath(value)
		if path == "" {
			return fmt.Errorf("resolver.chat_path must be a path starting with /")
		}
		c.Resolver.ChatPath = path
	case "resolver.chat_min_length":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("resolver.chat_min_length must be a non-negative number")
		}
		c.Resolver.ChatMinLength = n
	case "catalog.overrides":
		c.Catalog.Overrides = value
	case "ui.backend":
		c.UI.Backend = normalizeUIBackend(value, "")
		if c.UI.Backend == "" {
			return fmt.Errorf("ui.backend must be one of auto|bubbletea|huh|tview|plain")
		}
	case "server.addr":
		if value == "" {
			return fmt.Errorf("server.addr cannot be empty")
		}
		c.Server.Addr = value
	case "server.allowed_origins":
		c.Server.AllowedOrigins = splitCommaList(value)
	case "server.log_level":
		c.Server.LogLevel = normalizeLogLevel(value, "")
		if c.Server.LogLevel == "" {
			return fmt.Errorf("server.log_level must be one of debug|info|warn|error")
		}
	case "journal.enabled":
		b, err := parseBool(value)
		if err != nil {
			return fmt.Errorf("journal.enabled must be boolean")
		}
		c.Journal.Enabled = b
	case "journal.redact":
		b, err := parseBool(value)
		if err != nil {
			return fmt.Errorf("journal.redact must be boolean")
		}
		c.Journal.Redact = b
	case "usage.enabled":
		b, err := parseBool(value)
		if err != nil {
			return fmt.Errorf("usage.enabled must be boolean")
		}
		c.Usage.Enabled = b
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	c.normalize()
	return nil
}

func (c Config) Get(key string) (string, error) {
	key = strings.TrimSpace(strings.ToLower(key))

	switch key {
	case "locale":
		return c.Locale, nil
	case "resolver.chat_path":
		return c.Resolver.ChatPath, nil
	case "resolver.chat_min_length":
		return strconv.Itoa(c.Resolver.ChatMinLength), nil
	case "catalog.overrides":
		return c.Catalog.Overrides, nil
	case "ui.backend":
		return c.UI.Backend, nil
	case "server.addr":
		return c.Server.Addr, nil
	case "server.allowed_origins":
		return strings.Join(c.Server.AllowedOrigins, ","), nil
	case "server.log_level":
		return c.Server.LogLevel, nil
	case "journal.enabled":
		return strconv.FormatBool(c.Journal.Enabled), nil
	case "journal.redact":
		return strconv.FormatBool(c.Journal.Redact), nil
	case "usage.enabled":
		return strconv.FormatBool(c.Usage.Enabled), nil
	default:
		return "", fmt.Errorf("unknown config key: %s", key)
	}
}

func parseBool(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on", "haan":
		return true, nil
	case "0", "false", "no", "off", "nahi":
		return false, nil
	default:
		return false, fmt.Errorf("invalid bool: %s", value)
	}
}

func splitCommaList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}

func normalizeOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	seen := map[string]struct{}{}
	for _, origin := range origins {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin == "" {
			continue
		}
		if _, ok := seen[origin]; ok {
			continue
		}
		seen[origin] = struct{}{}
		out = append(out, origin)
	}
	return out
}

func normalizePath(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || !strings.HasPrefix(trimmed, "/") {
		return ""
	}
	if len(trimmed) > 1 {
		trimmed = strings.TrimRight(trimmed, "/")
	}
	return trimmed
}

func normalizeUIBackend(value string, fallback string) string {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "auto", "bubbletea", "huh", "tview", "plain":
		return normalized
	default:
		return strings.ToLower(strings.TrimSpace(fallback))
	}
}

func normalizeLogLevel(value string, fallback string) string {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "debug", "info", "warn", "error":
		return normalized
	case "warning":
		return "warn"
	default:
		return strings.ToLower(strings.TrimSpace(fallback))
	}
}

func normalizeLocaleSetting(value string, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		trimmed = strings.TrimSpace(fallback)
	}
	if strings.EqualFold(trimmed, "auto") {
		return "auto"
	}
	return i18n.NormalizeLocale(trimmed)
}
