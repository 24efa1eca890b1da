package cs01

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/cs01/pkg/errors"
	"github.com/arthur-debert/cs01/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupEnv keeps config and log files inside the test sandbox.
func setupEnv(t *testing.T) string {
	t.Helper()
	configDir := t.TempDir()
	t.Setenv(paths.EnvConfigDir, configDir)
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	t.Setenv("NO_COLOR", "1")
	return configDir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestInitCmd(t *testing.T) {
	setupEnv(t)
	dir := t.TempDir()

	out, err := run(t, "init", dir)
	require.NoError(t, err)
	assert.Equal(t, "Initialized empty standard CS01 repository in "+dir+" (with .CS01 directory)\n", out)
	assert.Equal(t, "ref: refs/heads/main\n", readFile(t, filepath.Join(dir, ".CS01", "HEAD")))
}

func TestInitCmdTwice(t *testing.T) {
	setupEnv(t)
	dir := t.TempDir()

	_, err := run(t, "init", dir)
	require.NoError(t, err)

	out, err := run(t, "init", dir)
	require.NoError(t, err)
	assert.Equal(t, "CS01 repository already exists in "+dir+"\n", out)
}

func TestInitCmdCurrentDirectory(t *testing.T) {
	setupEnv(t)
	chdir(t, t.TempDir())

	_, err := run(t, "init", "--bare")
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(wd, "HEAD"))
	assert.NoDirExists(t, filepath.Join(wd, ".CS01"))
}

func TestInitCmdFlagsAndJSON(t *testing.T) {
	setupEnv(t)
	dir := t.TempDir()

	out, err := run(t, "init", dir, "--bare", "-b", "develop", "--format", "json")
	require.NoError(t, err)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, true, result["bare"])
	assert.Equal(t, "develop", result["branch"])
	assert.Equal(t, true, result["initialized"])

	assert.Equal(t, "ref: refs/heads/develop", readFile(t, filepath.Join(dir, "refs", "heads", "develop")))
}

func TestInitCmdDryRun(t *testing.T) {
	setupEnv(t)
	dir := t.TempDir()

	out, err := run(t, "init", dir, "--dry-run")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Would initialize empty standard CS01 repository"))
	assert.Contains(t, out, filepath.Join(dir, ".CS01", "HEAD"))
	assert.NoDirExists(t, filepath.Join(dir, ".CS01"))
}

func TestInitCmdNested(t *testing.T) {
	setupEnv(t)
	dir := t.TempDir()

	_, err := run(t, "init", dir)
	require.NoError(t, err)

	_, err = run(t, "init", filepath.Join(dir, "inner"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNestedRepository))
	assert.NoDirExists(t, filepath.Join(dir, "inner", ".CS01"))
}

func TestInitCmdUsesConfig(t *testing.T) {
	configDir := setupEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(configDir, paths.UserConfigFile), []byte(`
[init]
default_branch = "trunk"

[repository.user]
name = "Ada"
`), 0644))
	dir := t.TempDir()

	_, err := run(t, "init", dir)
	require.NoError(t, err)

	repoDir := filepath.Join(dir, ".CS01")
	assert.Equal(t, "ref: refs/heads/trunk\n", readFile(t, filepath.Join(repoDir, "HEAD")))
	assert.Contains(t, readFile(t, filepath.Join(repoDir, "config")), "[user]\n  name = Ada\n")
}

func TestInitCmdFlagOverridesEnv(t *testing.T) {
	setupEnv(t)
	t.Setenv("CS01_INIT_DEFAULT_BRANCH", "from-env")
	dir := t.TempDir()

	_, err := run(t, "init", dir, "--initial-branch", "from-flag")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, ".CS01", "refs", "heads", "from-flag"))
}

func TestInitCmdExplicitConfig(t *testing.T) {
	setupEnv(t)
	cfgPath := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[init]\nbare = true\n"), 0644))
	dir := t.TempDir()

	_, err := run(t, "--config", cfgPath, "init", dir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "HEAD"))
}

func TestInitCmdBadFormat(t *testing.T) {
	setupEnv(t)
	dir := t.TempDir()

	_, err := run(t, "init", dir, "--format", "xml")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.NoDirExists(t, filepath.Join(dir, ".CS01"))
}

func TestInitCmdBadBranch(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "init", t.TempDir(), "-b", "no spaces")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestGenConfigCmd(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "genconfig")
	require.NoError(t, err)
	assert.Contains(t, out, "[init]")
	assert.Contains(t, out, "# default_branch")
}

func TestGenConfigCmdWrite(t *testing.T) {
	configDir := setupEnv(t)
	path := filepath.Join(configDir, paths.UserConfigFile)

	out, err := run(t, "genconfig", "--write")
	require.NoError(t, err)
	assert.Equal(t, "Wrote configuration to "+path+"\n", out)
	assert.Contains(t, readFile(t, path), "[write]")

	_, err = run(t, "genconfig", "--write")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyExists))
}

func TestVersionCmd(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "cs01 version "))
	assert.Contains(t, out, "commit:")
}

func TestCompletionCmd(t *testing.T) {
	setupEnv(t)

	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, err := run(t, "completion", shell)
			require.NoError(t, err)
			assert.Contains(t, out, "cs01")
		})
	}

	_, err := run(t, "completion", "tcsh")
	assert.Error(t, err)
}

func TestManCmd(t *testing.T) {
	setupEnv(t)
	dir := filepath.Join(t.TempDir(), "man")

	_, err := run(t, "man", dir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "cs01.1"))
	assert.FileExists(t, filepath.Join(dir, "cs01-init.1"))
}

func TestRootWithoutCommand(t *testing.T) {
	setupEnv(t)

	out, err := run(t)
	require.Error(t, err)
	assert.Contains(t, out, "USAGE:")
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (stand-in for testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
