package tree

import (
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/arthur-debert/cs01/pkg/errors"
	"github.com/arthur-debert/cs01/pkg/filesystem"
	"github.com/arthur-debert/cs01/pkg/logging"
	"github.com/arthur-debert/cs01/pkg/paths"
	"github.com/arthur-debert/cs01/pkg/types"
	"github.com/rs/zerolog"
)

// Writer materializes trees through a types.FS. Calls on the same
// Writer targeting the same prefix are serialized; callers sharing a
// destination across Writers or processes must coordinate themselves.
type Writer struct {
	fs types.FS

	mu    sync.Mutex
	locks map[string]*prefixLock
}

// prefixLock is dropped from Writer.locks once no caller holds or waits on it.
type prefixLock struct {
	sync.Mutex
	refs int
}

// NewWriter creates a Writer. A nil fsys means the OS filesystem.
func NewWriter(fsys types.FS) *Writer {
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	return &Writer{
		fs:    fsys,
		locks: make(map[string]*prefixLock),
	}
}

// Materialize writes node to the OS filesystem at prefix.
func Materialize(node types.Node, prefix string, opts Options) (*Report, error) {
	return NewWriter(nil).Materialize(node, prefix, opts)
}

// Materialize writes node at prefix. A Directory node makes prefix a
// directory holding its entries; a Leaf node makes prefix a file.
//
// Structural problems (empty prefix, nil nodes, unsafe or duplicate
// entry names) are reported as validation errors before any filesystem
// access. The returned Report is never nil.
func (w *Writer) Materialize(node types.Node, prefix string, opts Options) (*Report, error) {
	opts = opts.withDefaults()
	report := &Report{DryRun: opts.DryRun}

	if err := paths.ValidatePath(prefix); err != nil {
		return report, err
	}
	if err := validate(node, prefix); err != nil {
		return report, err
	}

	prefix = filepath.Clean(prefix)
	unlock := w.lock(prefix)
	defer unlock()

	logger := logging.GetLogger("tree.writer").With().
		Str("prefix", prefix).
		Bool("dryRun", opts.DryRun).
		Bool("overwrite", opts.Overwrite).
		Logger()
	done := logging.LogOperationStart(logger, "materialize")
	defer done()

	run := &walk{fs: w.fs, opts: opts, report: report, logger: logger}

	var err error
	switch n := node.(type) {
	case *types.Leaf:
		var ok bool
		if ok, err = run.ensureDir(filepath.Dir(prefix)); ok && err == nil {
			err = run.writeLeaf(prefix, n)
		}
	case *types.Directory:
		var ok bool
		if ok, err = run.ensureDir(prefix); ok && err == nil {
			err = run.walkDir(prefix, n)
		}
	}

	return report, err
}

func (w *Writer) lock(key string) func() {
	w.mu.Lock()
	m, ok := w.locks[key]
	if !ok {
		m = &prefixLock{}
		w.locks[key] = m
	}
	m.refs++
	w.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()

		w.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(w.locks, key)
		}
		w.mu.Unlock()
	}
}

// validate checks the whole tree before anything is written.
func validate(node types.Node, path string) error {
	switch n := node.(type) {
	case *types.Leaf:
		if n == nil {
			return errors.New(errors.ErrInvalidInput, "tree node cannot be nil").WithPath(path)
		}
		return nil
	case *types.Directory:
		if n == nil {
			return errors.New(errors.ErrInvalidInput, "tree node cannot be nil").WithPath(path)
		}
		seen := make(map[string]struct{}, len(n.Entries))
		for _, e := range n.Entries {
			if err := paths.ValidateEntryName(e.Name); err != nil {
				return errors.Wrapf(err, errors.ErrInvalidInput, "invalid entry in %s", path).WithPath(path)
			}
			if _, dup := seen[e.Name]; dup {
				return errors.Newf(errors.ErrInvalidInput, "duplicate entry %q in %s", e.Name, path).WithPath(path)
			}
			seen[e.Name] = struct{}{}
			if err := validate(e.Node, filepath.Join(path, e.Name)); err != nil {
				return err
			}
		}
		return nil
	default:
		return errors.New(errors.ErrInvalidInput, "tree node must be a file or a directory").WithPath(path)
	}
}

type walk struct {
	fs     types.FS
	opts   Options
	report *Report
	logger zerolog.Logger
}

func (r *walk) walkDir(dir string, d *types.Directory) error {
	for _, e := range d.Entries {
		child := filepath.Join(dir, e.Name)

		switch n := e.Node.(type) {
		case *types.Leaf:
			if err := r.writeLeaf(child, n); err != nil {
				return err
			}
		case *types.Directory:
			ok, err := r.ensureDir(child)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			if err := r.walkDir(child, n); err != nil {
				return err
			}
		}
	}
	return nil
}

// ensureDir makes sure path is a directory. ok is false when it could
// not be, in which case nothing beneath it should be attempted.
func (r *walk) ensureDir(path string) (ok bool, err error) {
	info, statErr := r.fs.Stat(path)
	switch {
	case statErr == nil && info.IsDir():
		return true, nil
	case statErr == nil:
		return false, r.fail(errors.Newf(errors.ErrDirCreate, "%s exists and is not a directory", path), path)
	case !stderrors.Is(statErr, fs.ErrNotExist):
		return false, r.fail(errors.Wrapf(statErr, errors.ErrFileAccess, "cannot stat %s", path), path)
	}

	if r.opts.DryRun {
		r.logger.Info().Str("path", path).Msg("[dry-run] would create directory")
		r.report.add(ActionMkdir, path, 0)
		return true, nil
	}

	if mkErr := r.fs.MkdirAll(path, r.opts.DirPerms); mkErr != nil {
		return false, r.fail(errors.Wrapf(mkErr, errors.ErrDirCreate, "failed to create directory %s", path), path)
	}

	r.logger.Debug().Str("path", path).Msg("Created directory")
	r.report.add(ActionMkdir, path, 0)
	return true, nil
}

func (r *walk) writeLeaf(path string, leaf *types.Leaf) error {
	if !r.opts.Overwrite {
		_, statErr := r.fs.Stat(path)
		if statErr == nil {
			r.logger.Warn().Str("path", path).Msg("File exists, skipping")
			r.report.add(ActionSkip, path, 0)
			return nil
		}
		if !stderrors.Is(statErr, fs.ErrNotExist) {
			return r.fail(errors.Wrapf(statErr, errors.ErrFileAccess, "cannot stat %s", path), path)
		}
	}

	if r.opts.DryRun {
		r.logger.Info().Str("path", path).Int("bytes", len(leaf.Content)).Msg("[dry-run] would write file")
		r.report.add(ActionWrite, path, len(leaf.Content))
		return nil
	}

	if err := r.fs.WriteFile(path, leaf.Content, r.opts.FilePerms); err != nil {
		return r.fail(errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", path), path)
	}

	r.logger.Debug().Str("path", path).Int("bytes", len(leaf.Content)).Msg("Wrote file")
	r.report.add(ActionWrite, path, len(leaf.Content))
	return nil
}

// fail records a failure and returns non-nil when the walk must stop.
func (r *walk) fail(err *errors.Error, path string) error {
	err.WithPath(path)
	r.report.Failures = append(r.report.Failures, Failure{Path: path, Err: err})

	if r.opts.OnError != nil {
		return r.opts.OnError(err, path)
	}

	if r.opts.Policy == CollectAndContinue {
		r.logger.Error().Err(err).Str("path", path).Msg("Write failed, continuing")
		return nil
	}
	return err
}
