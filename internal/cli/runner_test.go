package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	code           int
	stdout, stderr string
}

// run executes wt against dir with the given stdin.
func run(t *testing.T, dir, stdin string, args ...string) result {
	t.Helper()
	var out, errb bytes.Buffer
	full := append([]string{"--dir", dir}, args...)
	code := Run(context.Background(), full, strings.NewReader(stdin), &out, &errb)
	return result{code: code, stdout: out.String(), stderr: errb.String()}
}

func setup(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, k := range []string{"WT_CONFIG", "WT_STORAGE_DRIVER", "WT_DATA_DIR", "WT_LOG_LEVEL", "WT_LOG_FILE", "WT_THEME"} {
		t.Setenv(k, "")
	}
	t.Setenv("WT_THEME", "mono")
	return t.TempDir()
}

func TestAddThenList(t *testing.T) {
	dir := setup(t)

	r := run(t, dir, "", "add", "Buy", "milk")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "added to Work")

	r = run(t, dir, "", "add", "--travel", "Visit Kyoto")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "added to Travel")

	r = run(t, dir, "", "ls")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "Buy milk")
	assert.NotContains(t, r.stdout, "Visit Kyoto")

	r = run(t, dir, "", "ls", "--travel")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "Visit Kyoto")
	assert.NotContains(t, r.stdout, "Buy milk")

	r = run(t, dir, "", "ls", "--all")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "Buy milk")
	assert.Contains(t, r.stdout, "Visit Kyoto")

	_, err := os.Stat(filepath.Join(dir, "todos.json"))
	assert.NoError(t, err)
}

func TestUsageErrors(t *testing.T) {
	dir := setup(t)

	tests := []struct {
		name string
		args []string
	}{
		{"empty text", []string{"add", "   "}},
		{"add without text", []string{"add"}},
		{"unknown command", []string{"frobnicate"}},
		{"unknown flag", []string{"ls", "--nope"}},
		{"rm without arg", []string{"rm"}},
		{"rm bad index", []string{"rm", "--yes", "7"}},
		{"rm unknown key", []string{"rm", "--yes", "nope"}},
		{"bad driver", []string{"--driver", "mongo", "ls"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := run(t, dir, "", tt.args...)
			assert.Equal(t, 2, r.code, r.stderr)
			assert.Contains(t, r.stderr, "Usage:")
		})
	}
}

func TestRemoveAsksForConfirmation(t *testing.T) {
	dir := setup(t)
	require.Equal(t, 0, run(t, dir, "", "add", "Call Bob").code)

	r := run(t, dir, "n\n", "rm", "1")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "Are you sure?")
	assert.Contains(t, r.stdout, "cancelled")
	assert.Contains(t, run(t, dir, "", "ls").stdout, "Call Bob")

	// EOF declines too
	r = run(t, dir, "", "rm", "1")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "cancelled")

	r = run(t, dir, "y\n", "rm", "1")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "removed")
	assert.NotContains(t, run(t, dir, "", "ls").stdout, "Call Bob")
}

func TestRemoveByIndexWithinCategory(t *testing.T) {
	dir := setup(t)
	require.Equal(t, 0, run(t, dir, "", "add", "Finish report").code)
	require.Equal(t, 0, run(t, dir, "", "add", "-t", "Lisbon").code)

	r := run(t, dir, "", "rm", "--travel", "--yes", "1")
	require.Equal(t, 0, r.code, r.stderr)

	assert.Contains(t, run(t, dir, "", "ls").stdout, "Finish report")
	assert.NotContains(t, run(t, dir, "", "ls", "-t").stdout, "Lisbon")

	r = run(t, dir, "", "rm", "-t", "-y", "1")
	assert.Equal(t, 2, r.code)
	assert.Contains(t, r.stderr, "wt ls")
}

func TestSQLiteDriver(t *testing.T) {
	dir := setup(t)

	r := run(t, dir, "", "--driver", "sqlite", "add", "Renew passport")
	require.Equal(t, 0, r.code, r.stderr)

	r = run(t, dir, "", "--driver", "sqlite", "ls")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "Renew passport")

	_, err := os.Stat(filepath.Join(dir, "wt.db"))
	assert.NoError(t, err)
	// json storage is separate
	assert.NotContains(t, run(t, dir, "", "ls").stdout, "Renew passport")
}

func TestConfigFileAndEnv(t *testing.T) {
	dir := setup(t)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("ui:\n  confirm_delete: false\n"), 0o644))
	t.Setenv("WT_CONFIG", cfgPath)

	require.Equal(t, 0, run(t, dir, "", "add", "Call Bob").code)
	r := run(t, dir, "", "rm", "1")
	require.Equal(t, 0, r.code, r.stderr)
	assert.NotContains(t, r.stdout, "Are you sure?")
	assert.Contains(t, r.stdout, "removed")
}

func TestCorruptStorageWarnsAndContinues(t *testing.T) {
	dir := setup(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "todos.json"), []byte("{not json"), 0o644))

	r := run(t, dir, "", "ls")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stderr, "unreadable")
	assert.Contains(t, r.stderr, "@todos.corrupt")

	backup, err := os.ReadFile(filepath.Join(dir, "todos.corrupt.json"))
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(backup))

	// a second corrupt file gets its own backup
	require.NoError(t, os.WriteFile(filepath.Join(dir, "todos.json"), []byte("[]"), 0o644))
	r = run(t, dir, "", "ls")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stderr, "@todos.corrupt-2")
	backup, err = os.ReadFile(filepath.Join(dir, "todos.corrupt-2.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(backup))
	backup, err = os.ReadFile(filepath.Join(dir, "todos.corrupt.json"))
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(backup))

	require.Equal(t, 0, run(t, dir, "", "add", "Fresh start").code)
	assert.Contains(t, run(t, dir, "", "ls").stdout, "Fresh start")
}

func TestLegacyStorageIsMigrated(t *testing.T) {
	dir := setup(t)
	legacy := `{"k1":{"text":"Old work item","working":true},"k2":{"text":"Old trip","working":false}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "todos.json"), []byte(legacy), 0o644))

	assert.Contains(t, run(t, dir, "", "ls").stdout, "Old work item")
	assert.Contains(t, run(t, dir, "", "ls", "--travel").stdout, "Old trip")

	r := run(t, dir, "", "rm", "-y", "k1")
	require.Equal(t, 0, r.code, r.stderr)

	b, err := os.ReadFile(filepath.Join(dir, "todos.json"))
	require.NoError(t, err)
	assert.Contains(t, string(b), `"version": 1`)
	assert.NotContains(t, string(b), "Old work item")
}

func TestLogFileWritten(t *testing.T) {
	dir := setup(t)
	require.Equal(t, 0, run(t, dir, "", "-v", "add", "Buy milk").code)

	b, err := os.ReadFile(filepath.Join(dir, "wt.log"))
	require.NoError(t, err)
	assert.Contains(t, string(b), `"logger":"wt"`)
}

func TestInvalidConfigIsUsageError(t *testing.T) {
	dir := setup(t)

	t.Setenv("WT_THEME", "bogus")
	r := run(t, dir, "", "ls")
	assert.Equal(t, 2, r.code, r.stderr)
	assert.Contains(t, r.stderr, `theme "bogus"`)

	// a valid flag wins over a bad environment value
	r = run(t, dir, "", "--theme", "mono", "ls")
	assert.Equal(t, 0, r.code, r.stderr)

	t.Setenv("WT_THEME", "mono")
	t.Setenv("WT_STORAGE_DRIVER", "bogus")
	assert.Equal(t, 2, run(t, dir, "", "ls").code)
	assert.Equal(t, 0, run(t, dir, "", "--driver", "json", "ls").code)

	t.Setenv("WT_STORAGE_DRIVER", "")
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("storage: [unclosed"), 0o644))
	r = run(t, dir, "", "--config", cfgPath, "ls")
	assert.Equal(t, 2, r.code, r.stderr)
	assert.Contains(t, r.stderr, "failed to parse")
}

func TestConfigInit(t *testing.T) {
	dir := setup(t)
	cfgPath := filepath.Join(t.TempDir(), "wt", "config.yaml")

	r := run(t, dir, "", "--config", cfgPath, "--theme", "neon", "config", "init")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, cfgPath)

	b, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	assert.Contains(t, string(b), "theme: neon")
	assert.Contains(t, string(b), "dir: "+dir)

	r = run(t, dir, "", "--config", cfgPath, "config", "init")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "already exists")

	r = run(t, dir, "", "--config", cfgPath, "--theme", "classic", "config", "init", "--force")
	require.Equal(t, 0, r.code, r.stderr)
	b, err = os.ReadFile(cfgPath)
	require.NoError(t, err)
	assert.Contains(t, string(b), "theme: classic")

	assert.Equal(t, 2, run(t, dir, "", "config").code)
}
