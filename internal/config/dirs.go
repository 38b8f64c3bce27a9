package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/corriander/eve-telemetrics/internal/version"
)

// ConfigDir is the per-user configuration directory.
func ConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, version.AppName)
	}
	return filepath.Join(".", "."+version.AppName)
}

// DataDir is the per-user data directory. It holds the log file and
// the default SQLite SDE.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, version.AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "."+version.AppName)
	}
	switch runtime.GOOS {
	case "windows":
		if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
			return filepath.Join(dir, version.AppName)
		}
		return filepath.Join(home, "AppData", "Local", version.AppName)
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", version.AppName)
	default:
		return filepath.Join(home, ".local", "share", version.AppName)
	}
}

// DefaultPath is the config file used when none is given.
func DefaultPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// EnsureDirs creates the config and data directories.
func EnsureDirs() error {
	for _, dir := range []string{ConfigDir(), DataDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

func defaultClientDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultClientDataDirName
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(home, "Documents", DefaultClientDataDirName)
	}
	return filepath.Join(home, DefaultClientDataDirName)
}
