package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/arthur-debert/cs01/pkg/filesystem"
	"github.com/arthur-debert/cs01/pkg/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// NewTestFS creates a new in-memory filesystem for testing.
func NewTestFS() types.FS {
	return filesystem.NewAferoFS(afero.NewMemMapFs())
}

// Op names a types.FS operation for error injection.
type Op string

const (
	OpStat     Op = "stat"
	OpReadFile Op = "read"
	OpWrite    Op = "write"
	OpMkdirAll Op = "mkdir"
)

// FaultyFS delegates to an inner filesystem but fails selected
// operations on selected paths. It also counts mutating calls.
type FaultyFS struct {
	Inner types.FS

	mu        sync.Mutex
	faults    map[Op]map[string]error
	mutations int
}

// NewFaultyFS wraps inner.
func NewFaultyFS(inner types.FS) *FaultyFS {
	return &FaultyFS{Inner: inner, faults: make(map[Op]map[string]error)}
}

// Fail makes op on path return err.
func (f *FaultyFS) Fail(op Op, path string, err error) *FaultyFS {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.faults[op] == nil {
		f.faults[op] = make(map[string]error)
	}
	f.faults[op][filepath.Clean(path)] = err
	return f
}

// Mutations returns how many WriteFile and MkdirAll calls were made.
func (f *FaultyFS) Mutations() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mutations
}

func (f *FaultyFS) fault(op Op, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if op == OpWrite || op == OpMkdirAll {
		f.mutations++
	}
	if err, ok := f.faults[op][filepath.Clean(path)]; ok {
		return &fs.PathError{Op: string(op), Path: path, Err: err}
	}
	return nil
}

func (f *FaultyFS) Stat(name string) (fs.FileInfo, error) {
	if err := f.fault(OpStat, name); err != nil {
		return nil, err
	}
	return f.Inner.Stat(name)
}

func (f *FaultyFS) ReadFile(name string) ([]byte, error) {
	if err := f.fault(OpReadFile, name); err != nil {
		return nil, err
	}
	return f.Inner.ReadFile(name)
}

func (f *FaultyFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if err := f.fault(OpWrite, name); err != nil {
		return err
	}
	return f.Inner.WriteFile(name, data, perm)
}

func (f *FaultyFS) MkdirAll(path string, perm fs.FileMode) error {
	if err := f.fault(OpMkdirAll, path); err != nil {
		return err
	}
	return f.Inner.MkdirAll(path, perm)
}

// MockFS is a testify mock of types.FS.
type MockFS struct {
	mock.Mock
}

func (m *MockFS) Stat(name string) (fs.FileInfo, error) {
	args := m.Called(name)
	info, _ := args.Get(0).(fs.FileInfo)
	return info, args.Error(1)
}

func (m *MockFS) ReadFile(name string) ([]byte, error) {
	args := m.Called(name)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *MockFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return m.Called(name, data, perm).Error(0)
}

func (m *MockFS) MkdirAll(path string, perm fs.FileMode) error {
	return m.Called(path, perm).Error(0)
}

// WriteTree creates files under root. Keys are slash-separated relative
// paths; a key ending in "/" creates a directory.
func WriteTree(t *testing.T, fsys types.FS, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if rel[len(rel)-1] == '/' {
			require.NoError(t, fsys.MkdirAll(path, 0755))
			continue
		}
		require.NoError(t, fsys.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, fsys.WriteFile(path, []byte(content), 0644))
	}
}

// ReadTree snapshots a real directory: files map to their content and
// directories map to "/" suffixed keys with empty values.
func ReadTree(t *testing.T, root string) map[string]string {
	t.Helper()
	out := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			out[rel+"/"] = ""
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		out[rel] = string(data)
		return nil
	})
	require.NoError(t, err)
	return out
}
