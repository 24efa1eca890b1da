package layout

import (
	"strings"
	"unicode"

	"github.com/arthur-debert/cs01/pkg/errors"
)

// DefaultBranch is used when no initial branch is given.
const DefaultBranch = "main"

// ValidateBranchName checks that name can be used as refs/heads/<name>.
// Slashes are allowed and produce nested directories under refs/heads.
func ValidateBranchName(name string) error {
	invalid := func(reason string) error {
		return errors.Newf(errors.ErrInvalidInput, "invalid branch name %q: %s", name, reason).
			WithDetail("branch", name)
	}

	if name == "" {
		return invalid("cannot be empty")
	}
	if strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/") {
		return invalid("cannot start or end with '/'")
	}
	if strings.HasSuffix(name, ".lock") {
		return invalid("cannot end with .lock")
	}
	if strings.Contains(name, "..") {
		return invalid("cannot contain '..'")
	}
	if strings.Contains(name, "@{") {
		return invalid("cannot contain '@{'")
	}

	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return invalid("cannot contain whitespace or control characters")
		}
		if strings.ContainsRune(`~^:?*[\`, r) {
			return invalid("cannot contain " + string(r))
		}
	}

	for _, segment := range strings.Split(name, "/") {
		if segment == "" {
			return invalid("cannot contain empty path components")
		}
		if strings.HasPrefix(segment, ".") {
			return invalid("path components cannot start with '.'")
		}
	}

	return nil
}
