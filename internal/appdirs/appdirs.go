package appdirs

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const AppName = "bol"

// kind selects between the config and state roots of the current platform.
type kind int

const (
	kindConfig kind = iota
	kindState
)

func baseDir(k kind) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not resolve home directory: %w", err)
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support"), nil
	case "windows":
		envName, fallback := "APPDATA", filepath.Join(home, "AppData", "Roaming")
		if k == kindState {
			envName, fallback = "LOCALAPPDATA", filepath.Join(home, "AppData", "Local")
		}
		if dir := os.Getenv(envName); dir != "" {
			return dir, nil
		}
		return fallback, nil
	default:
		envName, fallback := "XDG_CONFIG_HOME", filepath.Join(home, ".config")
		if k == kindState {
			envName, fallback = "XDG_STATE_HOME", filepath.Join(home, ".local", "state")
		}
		if dir := os.Getenv(envName); dir != "" {
			return dir, nil
		}
		return fallback, nil
	}
}

func ConfigDir() (string, error) {
	base, err := baseDir(kindConfig)
	if err != nil {
		return "", err
	}
	return filepath.Join(base, AppName), nil
}

func ConfigFilePath() (string, error) {
	return configFile("config.toml")
}

// CatalogOverridePath is where community keyword overrides are read from.
func CatalogOverridePath() (string, error) {
	return configFile("catalog.toml")
}

// EnvFilePath is the optional dotenv file layered over config.toml.
func EnvFilePath() (string, error) {
	return configFile(".env")
}

func configFile(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

func EnsureConfigDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return ensurePrivateDir(dir, "config")
}

func StateDir() (string, error) {
	base, err := baseDir(kindState)
	if err != nil {
		return "", err
	}
	return filepath.Join(base, AppName, "state"), nil
}

func EnsureStateDir() (string, error) {
	dir, err := StateDir()
	if err != nil {
		return "", err
	}
	return ensurePrivateDir(dir, "state")
}

func StateFilePath(name string) (string, error) {
	dir, err := StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

func ensurePrivateDir(dir string, label string) (string, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("could not create %s dir: %w", label, err)
	}
	if err := os.Chmod(dir, 0o700); err != nil {
		return "", fmt.Errorf("could not secure %s dir permissions: %w", label, err)
	}
	return dir, nil
}
