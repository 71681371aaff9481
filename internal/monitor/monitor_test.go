package monitor

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartomark/cartomark/internal/geo"
	"github.com/cartomark/cartomark/internal/persist/memory"
	"github.com/cartomark/cartomark/internal/store"
	"github.com/cartomark/cartomark/pkg/core"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st := store.New(geo.NewBounds(0, 0, 100, 100), memory.New(), nil)
	require.NoError(t, st.Init())
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestSnapshot(t *testing.T) {
	st := newTestStore(t)
	_, err := st.Create(core.Position2D{Lat: 1, Lng: 2}, "Camp", "Base")
	require.NoError(t, err)

	s := NewService(Dependencies{Store: st})
	status := s.Snapshot()
	assert.Equal(t, 1, status.Markers)
	assert.WithinDuration(t, time.Now(), status.Time, time.Second)
}

func TestStartStop(t *testing.T) {
	st := newTestStore(t)
	statusPath := filepath.Join(t.TempDir(), "status.json")

	s := NewService(Dependencies{
		Store:      st,
		StatusPath: statusPath,
		Interval:   10 * time.Millisecond,
	})
	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())

	// Start twice is a no-op.
	require.NoError(t, s.Start())

	// Wait for at least one tick to write the status file.
	deadline := time.After(2 * time.Second)
	for {
		if data, err := os.ReadFile(statusPath); err == nil && len(data) > 0 {
			var status Status
			require.NoError(t, json.Unmarshal(data, &status))
			assert.Equal(t, 0, status.Markers)
			break
		}
		select {
		case <-deadline:
			t.Fatal("status file never written")
		case <-time.After(5 * time.Millisecond):
		}
	}

	s.Stop()
	assert.Eventually(t, func() bool { return !s.IsRunning() }, 2*time.Second, 10*time.Millisecond)
}
