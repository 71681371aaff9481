package influx

import (
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_Disabled(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("influx.enabled", false)

	m := NewManager(zerolog.Nop(), filepath.Join(t.TempDir(), "backup.gz"))
	require.Error(t, m.Connect())
}

func TestWritePoint_BackupFallback(t *testing.T) {
	dir := t.TempDir()
	backupPath := filepath.Join(dir, "backup.gz")

	file, err := os.OpenFile(backupPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	require.NoError(t, err)

	m := NewManager(zerolog.Nop(), backupPath)
	m.BackupWriter = gzip.NewWriter(file)

	require.NoError(t, m.RecordOperation(context.Background(), "create", 1))
	require.NoError(t, m.RecordCollectionSize(context.Background(), 42))
	m.Close()

	f, err := os.Open(backupPath)
	require.NoError(t, err)
	defer f.Close()

	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	data, err := io.ReadAll(gz)
	require.NoError(t, err)

	assert.Contains(t, string(data), "marker_operation")
	assert.Contains(t, string(data), "operation=create")
	assert.Contains(t, string(data), "markers=42i")
}

func TestWritePoint_NoClientNoBackup(t *testing.T) {
	m := NewManager(zerolog.Nop(), "")
	err := m.RecordOperation(context.Background(), "delete", 1)
	require.Error(t, err)
}
