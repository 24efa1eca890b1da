package tree

import (
	"os"
)

const (
	DefaultDirPerms  os.FileMode = 0755
	DefaultFilePerms os.FileMode = 0644
)

// Policy selects what happens after a per-path failure when no
// ErrorHandler is set.
type Policy int

const (
	// FailFast aborts the walk on the first failure.
	FailFast Policy = iota
	// CollectAndContinue records failures and processes everything else.
	CollectAndContinue
)

func (p Policy) String() string {
	switch p {
	case FailFast:
		return "fail-fast"
	case CollectAndContinue:
		return "collect-and-continue"
	default:
		return "unknown"
	}
}

// ErrorHandler is called with every per-path failure. Returning nil
// continues the walk; returning an error aborts it with that error.
type ErrorHandler func(err error, path string) error

// Options controls how a tree is written. The zero value does not
// overwrite existing files; start from DefaultOptions to get overwriting
// enabled.
type Options struct {
	// DirPerms applies to created directories. Zero means DefaultDirPerms.
	DirPerms os.FileMode
	// FilePerms applies to written files. Zero means DefaultFilePerms.
	FilePerms os.FileMode
	// Overwrite replaces existing files. When false, existing files are
	// left untouched and reported as skipped.
	Overwrite bool
	// DryRun reports intended actions without mutating anything.
	DryRun bool
	// Policy applies when OnError is nil.
	Policy Policy
	// OnError, when set, decides whether each failure aborts the walk.
	OnError ErrorHandler
}

// DefaultOptions returns 0755 directories, 0644 files, overwriting
// enabled and fail-fast error handling.
func DefaultOptions() Options {
	return Options{
		DirPerms:  DefaultDirPerms,
		FilePerms: DefaultFilePerms,
		Overwrite: true,
		Policy:    FailFast,
	}
}

func (o Options) withDefaults() Options {
	if o.DirPerms == 0 {
		o.DirPerms = DefaultDirPerms
	}
	if o.FilePerms == 0 {
		o.FilePerms = DefaultFilePerms
	}
	return o
}
