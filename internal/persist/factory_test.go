package persist

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartomark/cartomark/internal/persist/file"
	"github.com/cartomark/cartomark/internal/persist/sqlite"
)

func TestNewBackend(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory", Config{Type: "memory"}, false},
		{"file", Config{Type: "file", File: file.Config{Path: filepath.Join(dir, "m.json")}}, false},
		{"sqlite", Config{Type: "sqlite", SQLite: sqlite.Config{Path: filepath.Join(dir, "m.db")}}, false},
		{"unknown", Config{Type: "cassandra"}, true},
		{"empty", Config{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBackend(tt.cfg, zerolog.Nop())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, b)
			_ = b.Close()
		})
	}
}
