// Package where implements a cross-platform resolver for application-specific filesystem paths.
package where

import (
	"os"
	"path/filepath"

	"github.com/quietstream/quietstream/constant"
	"github.com/quietstream/quietstream/filesystem"
	"github.com/samber/lo"
)

// EnvConfigPath overrides the configuration directory.
const EnvConfigPath = "QUIETSTREAM_CONFIG_PATH"

// EnvDataPath overrides the data directory holding the catalog database.
const EnvDataPath = "QUIETSTREAM_DATA_PATH"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the absolute path to the primary application configuration directory.
// The path can be overridden with the QUIETSTREAM_CONFIG_PATH environment variable.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.App))
}

// Data resolves the directory that holds the catalog database and its lock file.
// XDG_DATA_HOME is honoured on every platform; otherwise ~/.local/share is used.
func Data() string {
	if custom, ok := os.LookupEnv(EnvDataPath); ok {
		return ensureDir(custom)
	}

	if xdg, ok := os.LookupEnv("XDG_DATA_HOME"); ok && xdg != "" {
		return ensureDir(filepath.Join(xdg, constant.App))
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ensureDir(filepath.Join(Config(), "data"))
	}
	return ensureDir(filepath.Join(home, ".local", "share", constant.App))
}

// Database resolves the default catalog database file.
func Database() string {
	return filepath.Join(Data(), "streams.db")
}

// Cache resolves the absolute path to the application's persistent cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.App))
}

// Logs resolves the directory used for diagnostic logs.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// History resolves the play history file.
func History() string {
	return filepath.Join(Data(), "history.json")
}

// Queries resolves the search query suggestion registry.
func Queries() string {
	return filepath.Join(Cache(), "queries.json")
}

// Temp resolves a volatile directory for transient artifacts such as player sockets.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.App))
}
