package repo

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/arthur-debert/cs01/pkg/errors"
	"github.com/arthur-debert/cs01/pkg/filesystem"
	"github.com/arthur-debert/cs01/pkg/ini"
	"github.com/arthur-debert/cs01/pkg/logging"
	"github.com/arthur-debert/cs01/pkg/paths"
	"github.com/arthur-debert/cs01/pkg/types"
)

// Locator resolves repository roots. It is safe for concurrent use.
type Locator struct {
	fs    types.FS
	getwd func() (string, error)

	mu     sync.RWMutex
	root   string
	cached bool
}

// NewLocator creates a Locator reading through fsys. A nil fsys means
// the OS filesystem.
func NewLocator(fsys types.FS) *Locator {
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	return &Locator{
		fs:    fsys,
		getwd: os.Getwd,
	}
}

// Default is the process-wide locator over the OS filesystem.
var Default = NewLocator(nil)

// IsInsideRepository reports whether start is a repository root or lies
// beneath one, using the Default locator.
func IsInsideRepository(start string) (bool, error) {
	return Default.IsInsideRepository(start)
}

// ResolvePath resolves rel against the repository root enclosing start,
// using the Default locator.
func ResolvePath(rel, start string) (string, bool, error) {
	return Default.ResolvePath(rel, start)
}

// IsInsideRepository reports whether a repository root encloses start.
// An empty start means the working directory.
func (l *Locator) IsInsideRepository(start string) (bool, error) {
	_, found, err := l.Find(start)
	return found, err
}

// ResolvePath joins rel onto the repository root enclosing start.
// An empty rel returns the root itself. rel must not leave the root.
func (l *Locator) ResolvePath(rel, start string) (string, bool, error) {
	if err := paths.ValidateRelative(rel); err != nil {
		return "", false, err
	}

	root, found, err := l.Find(start)
	if err != nil || !found {
		return "", false, err
	}

	return filepath.Join(root, rel), true, nil
}

// Find returns the nearest directory at or above start holding a
// repository marker. found is false when the walk reaches the
// filesystem root without a match.
func (l *Locator) Find(start string) (string, bool, error) {
	logger := logging.GetLogger("repo.locator").With().Str("start", start).Logger()

	dir, err := l.normalize(start)
	if err != nil {
		return "", false, err
	}

	if root, ok := l.Cached(); ok && paths.Contains(root, dir) {
		logger.Trace().Str("root", root).Msg("Repository root served from cache")
		return root, true, nil
	}

	for {
		isRoot, err := l.isRoot(dir)
		if err != nil {
			return "", false, err
		}
		if isRoot {
			l.remember(dir)
			logger.Debug().Str("root", dir).Msg("Repository root found")
			return dir, true, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	logger.Debug().Msg("No repository found")
	return "", false, nil
}

// Cached returns the remembered root, if any.
func (l *Locator) Cached() (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.root, l.cached
}

// Invalidate forgets the remembered root.
func (l *Locator) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.root = ""
	l.cached = false
}

func (l *Locator) remember(root string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.root = root
	l.cached = true
}

func (l *Locator) normalize(start string) (string, error) {
	if start == "" {
		wd, err := l.getwd()
		if err != nil {
			return "", errors.Wrap(err, errors.ErrFileAccess, "cannot determine working directory")
		}
		start = wd
	}

	if err := paths.ValidatePath(start); err != nil {
		return "", err
	}

	abs, err := filepath.Abs(start)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "invalid start directory %q", start).WithPath(start)
	}
	return abs, nil
}

// isRoot tests the two markers in order. A config file that cannot be
// read counts as absent; any other stat failure is fatal.
func (l *Locator) isRoot(dir string) (bool, error) {
	configPath := filepath.Join(dir, paths.RepoConfigFile)
	info, err := l.stat(configPath)
	if err != nil {
		return false, err
	}
	if info != nil && info.Mode().IsRegular() {
		data, readErr := l.fs.ReadFile(configPath)
		switch {
		case readErr != nil:
			logger := logging.GetLogger("repo.locator")
			logger.Warn().Err(readErr).Str("path", configPath).
				Msg("Cannot read candidate config file, treating marker as absent")
		case ini.HasCoreHeader(data):
			return true, nil
		}
	}

	markerDir := filepath.Join(dir, paths.RepoDirName)
	info, err = l.stat(markerDir)
	if err != nil {
		return false, err
	}
	return info != nil && info.IsDir(), nil
}

// stat returns a nil FileInfo when path does not exist.
func (l *Locator) stat(path string) (fs.FileInfo, error) {
	info, err := l.fs.Stat(path)
	if err == nil {
		return info, nil
	}
	if stderrors.Is(err, fs.ErrNotExist) || stderrors.Is(err, syscall.ENOTDIR) {
		return nil, nil
	}
	return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", path).WithPath(path)
}
