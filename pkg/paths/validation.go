package paths

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/cs01/pkg/errors"
)

// maxPathLength is a common filesystem limit
const maxPathLength = 4096

// ValidatePath performs basic validation on a path string.
// It checks for:
// - Empty paths
// - Null bytes
// - Excessive path length
func ValidatePath(path string) error {
	if path == "" {
		return errors.New(errors.ErrInvalidInput, "path cannot be empty")
	}

	if strings.Contains(path, "\x00") {
		return errors.New(errors.ErrInvalidInput, "path contains null bytes").WithPath(path)
	}

	if len(path) > maxPathLength {
		return errors.New(errors.ErrInvalidInput, "path exceeds maximum length")
	}

	return nil
}

// ValidateEntryName ensures a tree entry name names exactly one direct
// child of its parent directory.
// Entry names must:
// - Not be empty
// - Not be . or ..
// - Not contain path separators
// - Not contain null bytes
func ValidateEntryName(name string) error {
	if name == "" {
		return errors.New(errors.ErrInvalidInput, "entry name cannot be empty")
	}

	if name == "." || name == ".." {
		return errors.Newf(errors.ErrInvalidInput, "entry name cannot be %q", name)
	}

	if strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, filepath.Separator) {
		return errors.Newf(errors.ErrInvalidInput, "entry name %q contains a path separator", name)
	}

	if strings.Contains(name, "\x00") {
		return errors.New(errors.ErrInvalidInput, "entry name contains null bytes")
	}

	return nil
}

// ValidateRelative ensures rel is a relative path that stays inside
// whatever base it is later joined to. An empty rel is valid.
func ValidateRelative(rel string) error {
	if rel == "" {
		return nil
	}

	if strings.Contains(rel, "\x00") {
		return errors.New(errors.ErrInvalidInput, "relative path contains null bytes")
	}

	if filepath.IsAbs(rel) {
		return errors.Newf(errors.ErrInvalidInput, "path must be relative: %s", rel)
	}

	if escapes(filepath.Clean(rel)) {
		return errors.Newf(errors.ErrInvalidInput, "path escapes its base: %s", rel)
	}

	return nil
}

// Contains reports whether child is parent itself or lies beneath it.
// Comparison is by path segment after cleaning, never by raw prefix.
func Contains(parent, child string) bool {
	if parent == "" || child == "" {
		return false
	}

	rel, err := filepath.Rel(filepath.Clean(parent), filepath.Clean(child))
	if err != nil {
		return false
	}

	return !escapes(rel)
}

// escapes reports whether a cleaned relative path leaves its base.
func escapes(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
