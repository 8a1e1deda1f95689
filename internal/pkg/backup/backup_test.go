package backup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotCopiesStoreFile(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "store.db")
	content := []byte("persisted entity store bytes")
	require.NoError(t, os.WriteFile(source, content, 0o644))

	backupDir := filepath.Join(dir, "backups")
	snap, err := NewFileSnapshotter(source, backupDir)
	require.NoError(t, err)

	snap.Snapshot("grade import")

	entries, err := os.ReadDir(backupDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	copied, err := os.ReadFile(filepath.Join(backupDir, entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, content, copied)
}

func TestSnapshotMissingSourceDoesNotPanic(t *testing.T) {
	dir := t.TempDir()
	snap, err := NewFileSnapshotter(filepath.Join(dir, "missing.db"), filepath.Join(dir, "backups"))
	require.NoError(t, err)

	// Only logged; the mutation that triggered the snapshot already committed.
	snap.Snapshot("component update")

	entries, err := os.ReadDir(filepath.Join(dir, "backups"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}
