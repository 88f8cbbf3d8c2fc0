package app

import (
	"fmt"

	"github.com/ashwch/bol/internal/appdirs"
	"github.com/ashwch/bol/internal/catalog"
	"github.com/ashwch/bol/internal/config"
	"github.com/ashwch/bol/internal/i18n"
	"github.com/ashwch/bol/internal/intent"
	"github.com/ashwch/bol/internal/journal"
	"github.com/ashwch/bol/internal/recorder"
	"github.com/ashwch/bol/internal/usage"
)

// Env is everything a surface needs to resolve transcripts: the effective
// config, the merged catalog and a resolver speaking the chosen locale.
type Env struct {
	Config      config.Config
	ConfigPath  string
	CatalogPath string
	Locale      string
	Catalog     catalog.Catalog
	Resolver    *intent.Resolver
}

// Overrides are per-invocation settings from flags. Empty fields keep the
// configured value.
type Overrides struct {
	Locale    string
	UIBackend string
}

// Load reads config.toml (creating it on first run), overlays .env and BOL_*
// variables, then builds the catalog and resolver.
func Load(overrides Overrides) (Env, error) {
	cfg, cfgPath, err := config.LoadOrCreate()
	if err != nil {
		return Env{}, fmt.Errorf("could not load config: %w", err)
	}
	envFile, err := appdirs.EnvFilePath()
	if err != nil {
		return Env{}, err
	}
	if err := cfg.ApplyEnv(envFile); err != nil {
		return Env{}, err
	}
	if overrides.Locale != "" {
		if err := cfg.Set("locale", overrides.Locale); err != nil {
			return Env{}, err
		}
	}
	if overrides.UIBackend != "" {
		if err := cfg.Set("ui.backend", overrides.UIBackend); err != nil {
			return Env{}, err
		}
	}

	env, err := FromConfig(cfg)
	if err != nil {
		return Env{}, err
	}
	env.ConfigPath = cfgPath
	return env, nil
}

// FromConfig builds the catalog and resolver for an already loaded config.
func FromConfig(cfg config.Config) (Env, error) {
	catalogPath, err := cfg.CatalogOverridePath()
	if err != nil {
		return Env{}, err
	}
	cat, err := catalog.Load(catalog.Options{OverridePath: catalogPath})
	if err != nil {
		return Env{}, err
	}

	locale := i18n.ResolveLocale(cfg.Locale)
	translator, err := i18n.NewTranslator(locale)
	if err != nil {
		return Env{}, err
	}
	resolver := intent.New(cat, intent.Options{
		ChatPath:      cfg.Resolver.ChatPath,
		ChatMinLength: chatMinLength(cfg.Resolver.ChatMinLength),
		Locale:        locale,
		Messages:      translator,
	})

	return Env{
		Config:      cfg,
		CatalogPath: catalogPath,
		Locale:      locale,
		Catalog:     cat,
		Resolver:    resolver,
	}, nil
}

// Stores opens the journal and usage tracker enabled in the config.
func (e Env) Stores() (recorder.Stores, error) {
	var stores recorder.Stores
	if e.Config.Journal.Enabled {
		if _, err := appdirs.EnsureStateDir(); err != nil {
			return recorder.Stores{}, err
		}
		j, err := journal.Default(journal.Options{Redact: e.Config.Journal.Redact})
		if err != nil {
			return recorder.Stores{}, err
		}
		stores.Journal = j
	}
	if e.Config.Usage.Enabled {
		tracker, err := usage.DefaultTracker()
		if err != nil {
			return recorder.Stores{}, err
		}
		stores.Usage = tracker
	}
	return stores, nil
}

// chatMinLength maps the config's "0 means forward everything" onto the
// resolver's convention, where zero selects the default.
func chatMinLength(configured int) int {
	if configured == 0 {
		return -1
	}
	return configured
}
