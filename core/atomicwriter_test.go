package core_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/noctua/core"
)

func TestWriteFileCreatesNewFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.nim")

	w := core.NewAtomicWriter(core.DefaultAtomicConfig())
	require.NoError(t, w.WriteFile(path, "proc main() = discard"))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "proc main() = discard", string(got))
}

func TestWriteFileLeavesNoTempFileBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.nim")
	cfg := core.DefaultAtomicConfig()

	w := core.NewAtomicWriter(cfg)
	require.NoError(t, w.WriteFile(path, "content"))

	_, err := os.Stat(path + cfg.TempSuffix)
	assert.True(t, os.IsNotExist(err))
}

func TestWriteFileCreatesBackupOfExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.nim")
	require.NoError(t, os.WriteFile(path, []byte("original"), 0o644))

	cfg := core.DefaultAtomicConfig()
	cfg.BackupOriginal = true
	w := core.NewAtomicWriter(cfg)
	require.NoError(t, w.WriteFile(path, "updated"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var sawBackup bool
	for _, e := range entries {
		if e.Name() != "out.nim" {
			sawBackup = true
		}
	}
	assert.True(t, sawBackup, "expected a backup file alongside out.nim")

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "updated", string(got))
}

func TestWriteFileSkipsBackupWhenDisabled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.nim")
	require.NoError(t, os.WriteFile(path, []byte("original"), 0o644))

	cfg := core.DefaultAtomicConfig()
	cfg.BackupOriginal = false
	w := core.NewAtomicWriter(cfg)
	require.NoError(t, w.WriteFile(path, "updated"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteFilePreservesExistingMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.nim")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	w := core.NewAtomicWriter(core.DefaultAtomicConfig())
	require.NoError(t, w.WriteFile(path, "y"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
