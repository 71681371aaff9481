// Package file persists the marker collection as a single JSON document
// on disk. Writes go to a temp file first and are renamed into place so
// a crash mid-write never leaves a torn document behind.
package file

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/cartomark/cartomark/pkg/core"
)

// Config holds file backend settings.
type Config struct {
	Path string `json:"path" mapstructure:"path"`
}

// Backend stores the collection in a JSON file.
type Backend struct {
	path   string
	logger zerolog.Logger
}

// New creates a file backend writing to cfg.Path.
func New(cfg Config, log zerolog.Logger) *Backend {
	return &Backend{
		path:   filepath.Clean(cfg.Path),
		logger: log,
	}
}

// Load reads the persisted collection. A missing file or a file that does
// not parse yields an empty collection.
func (b *Backend) Load() ([]core.Marker, error) {
	contents, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var markers []core.Marker
	if err := json.Unmarshal(contents, &markers); err != nil {
		b.logger.Warn().Err(err).Str("path", b.path).
			Msg("Persisted marker file is corrupt, treating as empty")
		return nil, nil
	}
	return markers, nil
}

// Save writes the collection, replacing the real file only once the temp
// file is fully written.
func (b *Backend) Save(markers []core.Marker) error {
	if markers == nil {
		markers = []core.Marker{}
	}
	data, err := json.Marshal(markers)
	if err != nil {
		return err
	}

	tmp := b.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, b.path)
}

// Erase removes the persisted file. A file that is already gone is fine.
func (b *Backend) Erase() error {
	err := os.Remove(b.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Close is a no-op; every Save leaves the file consistent.
func (b *Backend) Close() error {
	return nil
}
