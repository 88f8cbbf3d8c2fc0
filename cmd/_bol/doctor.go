package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ashwch/bol/internal/app"
	"github.com/ashwch/bol/internal/appdirs"
	"github.com/ashwch/bol/internal/journal"
	"github.com/ashwch/bol/internal/usage"
)

type check struct {
	Key    string `json:"key"`
	Value  string `json:"value"`
	Status string `json:"status"`
}

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check config, catalog and state locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			checks, err := runChecks()
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), checks)
		},
	}
}

func runChecks() ([]check, error) {
	cfgPath, err := appdirs.ConfigFilePath()
	if err != nil {
		return nil, err
	}
	stateDir, err := appdirs.StateDir()
	if err != nil {
		return nil, err
	}

	checks := []check{
		{Key: "os", Value: runtime.GOOS, Status: "ok"},
		{Key: "config_path", Value: cfgPath, Status: statusPath(cfgPath)},
		{Key: "state_dir", Value: stateDir, Status: statusPath(stateDir)},
	}

	env, err := app.Load(app.Overrides{})
	if err != nil {
		return append(checks, check{Key: "config", Value: err.Error(), Status: "error"}), nil
	}
	cfg := env.Config

	overrideStatus := statusPath(env.CatalogPath)
	if overrideStatus == "missing" {
		overrideStatus = "not used"
	}
	checks = append(checks,
		check{Key: "locale", Value: fmt.Sprintf("%s (configured %s)", env.Locale, cfg.Locale), Status: "ok"},
		check{Key: "catalog_overrides", Value: env.CatalogPath, Status: overrideStatus},
	)

	problems := env.Catalog.Validate()
	if len(problems) == 0 {
		checks = append(checks, check{Key: "catalog", Value: fmt.Sprintf("%d routes, %d fields", len(env.Catalog.Routes), len(env.Catalog.Fields)), Status: "ok"})
	} else {
		checks = append(checks, check{Key: "catalog", Value: fmt.Sprintf("%d problem(s)", len(problems)), Status: "error"})
		for _, problem := range problems {
			checks = append(checks, check{Key: "catalog_issue", Value: problem.Error(), Status: "error"})
		}
	}

	checks = append(checks,
		storeCheck("journal", cfg.Journal.Enabled, journal.FileName),
		storeCheck("usage", cfg.Usage.Enabled, usage.FileName),
		check{Key: "server_addr", Value: cfg.Server.Addr, Status: "ok"},
	)
	return checks, nil
}

func storeCheck(key string, enabled bool, name string) check {
	path, err := appdirs.StateFilePath(name)
	if err != nil {
		return check{Key: key, Value: err.Error(), Status: "error"}
	}
	if !enabled {
		return check{Key: key, Value: path, Status: "disabled"}
	}
	status := statusPath(path)
	if status == "missing" {
		status = "empty"
	}
	return check{Key: key, Value: path, Status: status}
}

func statusPath(path string) string {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "missing"
		}
		return "error"
	}
	return "ok"
}
