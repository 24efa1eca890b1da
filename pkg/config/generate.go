package config

import (
	"strings"

	"github.com/arthur-debert/cs01/pkg/errors"
	"github.com/pelletier/go-toml/v2"
)

const generatedHeader = `# cs01 configuration
# Uncomment and edit the values you want to change.
# Environment variables override this file, e.g. CS01_INIT_DEFAULT_BRANCH=trunk

`

const repositoryExample = `
# Extra sections copied into every new repository config file.
# Plain keys go to [user]; nested tables become subsections like [remote "origin"].
# [repository.user]
# name = "Your Name"
`

// GenerateConfigContent renders cfg as TOML with every value commented out.
// A nil cfg renders the defaults.
func GenerateConfigContent(cfg *Config) (string, error) {
	if cfg == nil {
		cfg = Default()
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to encode configuration")
	}

	content := generatedHeader + commentOutConfigValues(string(data))
	if len(cfg.Repository) == 0 {
		content += repositoryExample
	}
	return content, nil
}

// commentOutConfigValues takes the TOML content and comments out all non-comment, non-blank lines
// that contain configuration values (assignments)
func commentOutConfigValues(content string) string {
	lines := strings.Split(content, "\n")
	var result []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		// Keep blank lines as-is
		if trimmed == "" {
			result = append(result, line)
			continue
		}

		// Keep lines that are already comments
		if strings.HasPrefix(trimmed, "#") {
			result = append(result, line)
			continue
		}

		// Keep section headers (e.g., [init], [write]) as-is
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			result = append(result, line)
			continue
		}

		// Comment out configuration value lines
		result = append(result, "# "+line)
	}

	return strings.Join(result, "\n")
}
