package core

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/cs01/pkg/errors"
	"github.com/arthur-debert/cs01/pkg/filesystem"
	"github.com/arthur-debert/cs01/pkg/layout"
	"github.com/arthur-debert/cs01/pkg/logging"
	"github.com/arthur-debert/cs01/pkg/paths"
	"github.com/arthur-debert/cs01/pkg/repo"
	"github.com/arthur-debert/cs01/pkg/tree"
	"github.com/arthur-debert/cs01/pkg/types"
)

// InitOptions defines the options for InitRepository.
type InitOptions struct {
	// Target is the directory to initialize. Empty means the current
	// working directory; relative paths are resolved against it.
	Target string
	// Bare writes the control files directly into Target.
	Bare bool
	// InitialBranch is the branch HEAD points at. Empty means "main".
	InitialBranch string
	// DryRun reports what would be written without writing it.
	DryRun bool
	// Extra holds additional repository config sections.
	Extra map[string]any
	// DirPerms and FilePerms default to 0755 and 0644.
	DirPerms  os.FileMode
	FilePerms os.FileMode

	// FS defaults to the OS filesystem.
	FS types.FS
	// Locator defaults to a fresh locator over FS.
	Locator *repo.Locator
}

// InitResult describes the outcome of InitRepository.
type InitResult struct {
	Path               string        `json:"path" yaml:"path"`
	RepoDir            string        `json:"repo_dir" yaml:"repo_dir"`
	Bare               bool          `json:"bare" yaml:"bare"`
	Branch             string        `json:"branch" yaml:"branch"`
	DryRun             bool          `json:"dry_run" yaml:"dry_run"`
	Initialized        bool          `json:"initialized" yaml:"initialized"`
	AlreadyInitialized bool          `json:"already_initialized" yaml:"already_initialized"`
	Actions            []tree.Action `json:"actions,omitempty" yaml:"actions,omitempty"`
}

// InitRepository creates a new repository at opts.Target.
//
// If Target already is a repository root nothing is written and the
// result has AlreadyInitialized set. If Target lies inside another
// repository a NESTED_REPOSITORY error is returned, again without
// writing anything.
func InitRepository(opts InitOptions) (*InitResult, error) {
	log := logging.GetLogger("core.init")
	log.Debug().Str("command", "InitRepository").Str("target", opts.Target).Msg("Executing command")

	// 1. Resolve the target directory
	target, err := resolveTarget(opts.Target)
	if err != nil {
		return nil, err
	}

	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	locator := opts.Locator
	if locator == nil {
		locator = repo.NewLocator(fsys)
	}

	branch := opts.InitialBranch
	if branch == "" {
		branch = layout.DefaultBranch
	}

	repoDir := target
	if !opts.Bare {
		repoDir = filepath.Join(target, paths.RepoDirName)
	}

	result := &InitResult{
		Path:    target,
		RepoDir: repoDir,
		Bare:    opts.Bare,
		Branch:  branch,
		DryRun:  opts.DryRun,
	}

	// 2. Refuse to touch an existing repository
	root, found, err := locator.Find(target)
	if err != nil {
		return nil, err
	}
	if found {
		if root == target {
			log.Info().Str("path", target).Msg("Repository already initialized")
			result.AlreadyInitialized = true
			return result, nil
		}
		return nil, errors.Newf(errors.ErrNestedRepository,
			"refusing to create nested repository at %s inside %s", target, root).
			WithPath(target).
			WithDetail("root", root)
	}

	// 3. Build the layout
	node, err := layout.Build(layout.Options{
		Bare:          opts.Bare,
		InitialBranch: branch,
		Extra:         opts.Extra,
	})
	if err != nil {
		return nil, err
	}

	// 4. Write it, never replacing existing files
	report, err := tree.NewWriter(fsys).Materialize(node, target, tree.Options{
		DirPerms:  opts.DirPerms,
		FilePerms: opts.FilePerms,
		Overwrite: false,
		DryRun:    opts.DryRun,
		OnError: func(err error, path string) error {
			return errors.Wrapf(err, errors.GetErrorCode(err),
				"failed to initialize repository at %s", target).WithPath(path)
		},
	})
	result.Actions = report.Actions
	if err != nil {
		return nil, err
	}

	if !opts.DryRun {
		locator.Invalidate()
		result.Initialized = true
		log.Info().
			Str("path", repoDir).
			Str("branch", branch).
			Bool("bare", opts.Bare).
			Int("actions", len(report.Actions)).
			Msg("Initialized empty repository")
	}

	return result, nil
}

func resolveTarget(target string) (string, error) {
	if target == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", errors.Wrap(err, errors.ErrFileAccess, "cannot determine working directory")
		}
		return wd, nil
	}
	if err := paths.ValidatePath(target); err != nil {
		return "", err
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "cannot resolve %s", target).WithPath(target)
	}
	return abs, nil
}
