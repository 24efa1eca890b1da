package repo

import (
	"bytes"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/cs01/pkg/errors"
	"github.com/arthur-debert/cs01/pkg/filesystem"
	"github.com/arthur-debert/cs01/pkg/testutil"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindStandardRepository(t *testing.T) {
	fsys := testutil.NewTestFS()
	testutil.WriteTree(t, fsys, "/work/project", map[string]string{
		".CS01/HEAD": "ref: refs/heads/main\n",
		"a/b/c/":     "",
	})

	l := NewLocator(fsys)
	root, found, err := l.Find("/work/project/a/b/c")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "/work/project", root)
}

func TestFindBareRepository(t *testing.T) {
	fsys := testutil.NewTestFS()
	testutil.WriteTree(t, fsys, "/srv/repo.git", map[string]string{
		"config":   "  \n[core]\n  bare = true\n",
		"objects/": "",
	})

	root, found, err := NewLocator(fsys).Find("/srv/repo.git/objects")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "/srv/repo.git", root)
}

func TestConfigWithoutCoreHeaderIsNotAMarker(t *testing.T) {
	fsys := testutil.NewTestFS()
	testutil.WriteTree(t, fsys, "/home/dev", map[string]string{
		"app/config": "listen = :8080\n",
	})

	_, found, err := NewLocator(fsys).Find("/home/dev/app")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestConfigDirectoryIsNotAMarker(t *testing.T) {
	fsys := testutil.NewTestFS()
	testutil.WriteTree(t, fsys, "/home/dev", map[string]string{
		"app/config/": "",
	})

	_, found, err := NewLocator(fsys).Find("/home/dev/app")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCS01FileIsNotAMarker(t *testing.T) {
	fsys := testutil.NewTestFS()
	testutil.WriteTree(t, fsys, "/home/dev", map[string]string{
		"app/.CS01": "not a directory",
	})

	_, found, err := NewLocator(fsys).Find("/home/dev/app")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestNearestMarkerWins(t *testing.T) {
	fsys := testutil.NewTestFS()
	testutil.WriteTree(t, fsys, "/outer", map[string]string{
		".CS01/":       "",
		"inner/.CS01/": "",
		"inner/src/":   "",
	})

	root, found, err := NewLocator(fsys).Find("/outer/inner/src")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "/outer/inner", root)
}

func TestConfigMarkerCheckedBeforeCS01Dir(t *testing.T) {
	fsys := testutil.NewTestFS()
	testutil.WriteTree(t, fsys, "/repo", map[string]string{
		"config": "[core]\n",
		".CS01/": "",
	})

	faulty := testutil.NewFaultyFS(fsys).
		Fail(testutil.OpStat, "/repo/.CS01", fs.ErrPermission)

	// The config marker matches first, so the failing stat is never reached.
	root, found, err := NewLocator(faulty).Find("/repo")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "/repo", root)
}

func TestNotFoundReachesFilesystemRoot(t *testing.T) {
	fsys := testutil.NewTestFS()
	testutil.WriteTree(t, fsys, "/a", map[string]string{"b/c/": ""})

	l := NewLocator(fsys)
	root, found, err := l.Find("/a/b/c")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, root)

	_, cached := l.Cached()
	assert.False(t, cached, "a failed resolution must not populate the cache")
}

func TestNotFoundOnRealDisk(t *testing.T) {
	dir := t.TempDir()
	deep := filepath.Join(dir, "x", "y")
	require.NoError(t, os.MkdirAll(deep, 0755))

	// t.TempDir lives under the system temp dir, which holds no repository
	_, found, err := NewLocator(filesystem.NewOS()).Find(deep)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestUnreadableConfigIsTreatedAsAbsent(t *testing.T) {
	var buf bytes.Buffer
	original, level := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = original
		zerolog.SetGlobalLevel(level)
	})
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	fsys := testutil.NewTestFS()
	testutil.WriteTree(t, fsys, "/work", map[string]string{
		".CS01/":          "",
		"project/config":  "[core]\n",
		"project/nested/": "",
	})

	faulty := testutil.NewFaultyFS(fsys).
		Fail(testutil.OpReadFile, "/work/project/config", fs.ErrPermission)

	root, found, err := NewLocator(faulty).Find("/work/project/nested")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "/work", root, "scan continues upward past an unreadable config")
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), `"component":"repo.locator"`)
	assert.Contains(t, buf.String(), `"path":"/work/project/config"`)
}

func TestStatFailureIsFatal(t *testing.T) {
	fsys := testutil.NewTestFS()
	testutil.WriteTree(t, fsys, "/work", map[string]string{"project/": ""})

	faulty := testutil.NewFaultyFS(fsys).
		Fail(testutil.OpStat, "/work/project/.CS01", fs.ErrPermission)

	_, found, err := NewLocator(faulty).Find("/work/project")
	require.Error(t, err)
	assert.False(t, found)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileAccess))
	assert.True(t, stderrors.Is(err, fs.ErrPermission))
	assert.Equal(t, "/work/project/.CS01", errors.GetErrorDetails(err)["path"])
}

func TestCacheFastPathSkipsFilesystem(t *testing.T) {
	m := &testutil.MockFS{}
	m.On("Stat", "/repo/config").Return(nil, fs.ErrNotExist).Once()
	m.On("Stat", "/repo/.CS01").Return(dirInfo{name: ".CS01"}, nil).Once()

	l := NewLocator(m)
	root, found, err := l.Find("/repo")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "/repo", root)

	root, found, err = l.Find("/repo/src/pkg")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "/repo", root)

	m.AssertExpectations(t)
	m.AssertNumberOfCalls(t, "Stat", 2)
}

func TestCacheDoesNotMatchSiblingWithSharedPrefix(t *testing.T) {
	fsys := testutil.NewTestFS()
	testutil.WriteTree(t, fsys, "/work", map[string]string{
		"repo/.CS01/":     "",
		"repository/src/": "",
	})

	l := NewLocator(fsys)
	_, found, err := l.Find("/work/repo")
	require.NoError(t, err)
	require.True(t, found)

	_, found, err = l.Find("/work/repository/src")
	require.NoError(t, err)
	assert.False(t, found, "/work/repository is not beneath /work/repo")
}

func TestCacheUpdatedToLatestRoot(t *testing.T) {
	fsys := testutil.NewTestFS()
	testutil.WriteTree(t, fsys, "/", map[string]string{
		"one/.CS01/": "",
		"two/.CS01/": "",
	})

	l := NewLocator(fsys)
	_, _, err := l.Find("/one")
	require.NoError(t, err)
	_, _, err = l.Find("/two")
	require.NoError(t, err)

	root, ok := l.Cached()
	assert.True(t, ok)
	assert.Equal(t, "/two", root)
}

func TestInvalidate(t *testing.T) {
	fsys := testutil.NewTestFS()
	testutil.WriteTree(t, fsys, "/repo", map[string]string{".CS01/": ""})

	l := NewLocator(fsys)
	_, found, err := l.Find("/repo")
	require.NoError(t, err)
	require.True(t, found)

	l.Invalidate()
	_, ok := l.Cached()
	assert.False(t, ok)
}

func TestResolvePath(t *testing.T) {
	fsys := testutil.NewTestFS()
	testutil.WriteTree(t, fsys, "/repo", map[string]string{
		".CS01/":   "",
		"src/cmd/": "",
	})
	l := NewLocator(fsys)

	tests := []struct {
		name string
		rel  string
		want string
	}{
		{"root itself", "", "/repo"},
		{"control file", ".CS01/HEAD", "/repo/.CS01/HEAD"},
		{"cleaned", "src/../.CS01/config", "/repo/.CS01/config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found, err := l.ResolvePath(tt.rel, "/repo/src/cmd")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolvePathNotFound(t *testing.T) {
	fsys := testutil.NewTestFS()
	testutil.WriteTree(t, fsys, "/plain", map[string]string{"dir/": ""})

	got, found, err := NewLocator(fsys).ResolvePath("HEAD", "/plain/dir")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, got)
}

func TestResolvePathRejectsEscapes(t *testing.T) {
	l := NewLocator(testutil.NewTestFS())

	for _, rel := range []string{"..", "../other", "/etc/passwd"} {
		_, _, err := l.ResolvePath(rel, "/repo")
		require.Error(t, err, rel)
		assert.True(t, errors.IsValidation(err), rel)
	}
}

func TestInvalidStartDirectory(t *testing.T) {
	_, _, err := NewLocator(testutil.NewTestFS()).Find("/repo\x00/src")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestEmptyStartUsesWorkingDirectory(t *testing.T) {
	fsys := testutil.NewTestFS()
	testutil.WriteTree(t, fsys, "/cwd", map[string]string{".CS01/": ""})

	l := NewLocator(fsys)
	l.getwd = func() (string, error) { return "/cwd", nil }

	inside, err := l.IsInsideRepository("")
	require.NoError(t, err)
	assert.True(t, inside)
}

func TestWorkingDirectoryFailure(t *testing.T) {
	l := NewLocator(testutil.NewTestFS())
	l.getwd = func() (string, error) { return "", fs.ErrNotExist }

	_, err := l.IsInsideRepository("")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileAccess))
}

func TestStartBeneathRegularFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	_, found, err := NewLocator(nil).Find(file)
	require.NoError(t, err)
	assert.False(t, found)
}

// dirInfo is a minimal fs.FileInfo for a directory.
type dirInfo struct{ name string }

func (d dirInfo) Name() string       { return d.name }
func (d dirInfo) Size() int64        { return 0 }
func (d dirInfo) Mode() fs.FileMode  { return fs.ModeDir | 0755 }
func (d dirInfo) ModTime() time.Time { return time.Time{} }
func (d dirInfo) IsDir() bool        { return true }
func (d dirInfo) Sys() any           { return nil }
