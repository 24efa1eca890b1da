package config

import (
	"os"
	"strconv"

	"github.com/arthur-debert/cs01/pkg/errors"
)

// Config holds cs01 settings.
type Config struct {
	Init  InitConfig  `koanf:"init" toml:"init"`
	Write WriteConfig `koanf:"write" toml:"write"`

	// Repository holds extra sections for new repository config files.
	// See RepositoryConfig for how they map onto the file.
	Repository map[string]any `koanf:"repository" toml:"repository,omitempty"`
}

// InitConfig holds defaults for cs01 init.
type InitConfig struct {
	DefaultBranch string `koanf:"default_branch" toml:"default_branch"`
	Bare          bool   `koanf:"bare" toml:"bare"`
}

// WriteConfig holds permission bits as octal strings.
type WriteConfig struct {
	DirPerms  string `koanf:"dir_perms" toml:"dir_perms"`
	FilePerms string `koanf:"file_perms" toml:"file_perms"`
}

// DirMode parses DirPerms.
func (w WriteConfig) DirMode() (os.FileMode, error) {
	return parseMode("write.dir_perms", w.DirPerms)
}

// FileMode parses FilePerms.
func (w WriteConfig) FileMode() (os.FileMode, error) {
	return parseMode("write.file_perms", w.FilePerms)
}

func parseMode(key, value string) (os.FileMode, error) {
	if value == "" {
		return 0, nil
	}
	bits, err := strconv.ParseUint(value, 8, 32)
	if err != nil || bits > 0o777 {
		return 0, errors.Newf(errors.ErrConfigParse, "%s must be octal permission bits, got %q", key, value).
			WithDetail("key", key)
	}
	return os.FileMode(bits), nil
}

// RepositoryConfig returns the Repository sections shaped for
// ini.Marshal. Scalar keys directly under a section belong to its bare
// subsection, so [repository.user] name = "x" becomes [user], while
// [repository.remote.origin] becomes [remote "origin"]. Values that are
// not mappings are passed through for ini.Marshal to reject.
func (c *Config) RepositoryConfig() map[string]any {
	if len(c.Repository) == 0 {
		return nil
	}

	out := make(map[string]any, len(c.Repository))
	for name, raw := range c.Repository {
		section, ok := raw.(map[string]any)
		if !ok {
			out[name] = raw
			continue
		}

		normalized := make(map[string]any, len(section))
		var bare map[string]any
		for key, value := range section {
			if sub, ok := value.(map[string]any); ok {
				if key == "" {
					if bare == nil {
						bare = make(map[string]any, len(sub))
					}
					for k, v := range sub {
						bare[k] = v
					}
					continue
				}
				normalized[key] = sub
				continue
			}
			if bare == nil {
				bare = make(map[string]any)
			}
			bare[key] = value
		}
		if bare != nil {
			normalized[""] = bare
		}
		out[name] = normalized
	}
	return out
}
