// Package paths resolves configuration and data directory locations and
// names the files tables are stored in.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/mesh-intelligence/ivory/pkg/types"
)

// CWD-relative directory names.
const (
	DefaultConfigDirName = ".ivory"
	DefaultDataDirName   = ".ivory-db"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "IVORY_CONFIG_DIR"
	EnvDataDir   = "IVORY_DATA_DIR"
)

// appName is the directory name used under platform config/data roots.
const appName = "ivory"

// SnapshotExt is the extension of table snapshot files.
const SnapshotExt = ".ivry"

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/ivory (fallback ~/.config/ivory)
// macOS:   ~/Library/Application Support/ivory
// Windows: %APPDATA%/ivory
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", appName), nil
	default:
		// macOS and Windows use os.UserConfigDir which returns
		// ~/Library/Application Support on macOS and %APPDATA% on Windows.
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appName), nil
	}
}

// DefaultDataDir returns the platform-specific default data directory.
//
// Linux:   $XDG_DATA_HOME/ivory (fallback ~/.local/share/ivory)
// macOS:   ~/Library/Application Support/ivory
// Windows: %APPDATA%/ivory
func DefaultDataDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share", appName), nil
	default:
		// macOS and Windows: same as config dir.
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appName), nil
	}
}

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > IVORY_CONFIG_DIR env > DefaultConfigDir().
//
// If flag is non-empty it wins. Otherwise the IVORY_CONFIG_DIR environment
// variable is checked. If neither is set, the platform default is returned.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > configYAMLValue > IVORY_DATA_DIR env > $(CWD)/.ivory-db.
//
// DefaultDataDir is not consulted; data lives next to the working directory
// unless overridden.
func ResolveDataDir(flag, configYAMLValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configYAMLValue != "" {
		return filepath.Abs(configYAMLValue)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

var tableNameRE = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// TableName validates a table name and returns its canonical lower-case
// form. Returns ErrInvalidTableName for names that are empty or contain
// anything other than letters, digits, '_' and '-'.
func TableName(name string) (string, error) {
	if !tableNameRE.MatchString(name) {
		return "", fmt.Errorf("%w: %q", types.ErrInvalidTableName, name)
	}
	return strings.ToLower(name), nil
}

// SnapshotPath returns the snapshot file for a table inside dataDir.
func SnapshotPath(dataDir, table string) string {
	return filepath.Join(dataDir, table+SnapshotExt)
}

// TableFromPath returns the table name stored at path, or false if path is
// not a snapshot file.
func TableFromPath(path string) (string, bool) {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, SnapshotExt) {
		return "", false
	}
	name, err := TableName(strings.TrimSuffix(base, SnapshotExt))
	if err != nil {
		return "", false
	}
	return name, true
}

// UniquePath returns path if nothing exists there, otherwise the first free
// "<stem>-N<ext>" next to it.
func UniquePath(path string) (string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path, nil
	} else if err != nil {
		return "", err
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s-%d%s", stem, n, ext)
		_, err := os.Stat(candidate)
		if os.IsNotExist(err) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
	}
}
