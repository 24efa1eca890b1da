package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvConfigDir overrides the XDG config directory for cs01
	EnvConfigDir = "CS01_CONFIG_DIR"
)

// On-disk names. These identify repositories and must stay stable
// across releases; user-tunable values belong in pkg/config.
const (
	// RepoDirName is the control directory of a non-bare repository
	RepoDirName = ".CS01"

	// RepoConfigFile is the repository config file, also a root marker
	RepoConfigFile = "config"

	// AppDirName is the directory name used under XDG base dirs
	AppDirName = "cs01"

	// UserConfigFile is the name of the user configuration file
	UserConfigFile = "config.toml"
)

// ConfigDir returns the directory holding the user configuration.
func ConfigDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir
	}
	return filepath.Join(xdg.ConfigHome, AppDirName)
}

// UserConfigPath returns the full path of the user configuration file.
func UserConfigPath() string {
	return filepath.Join(ConfigDir(), UserConfigFile)
}
