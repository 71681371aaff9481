// Package badgerkv persists the marker collection under a single key in
// a Badger key-value store.
package badgerkv

import (
	"encoding/json"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/cartomark/cartomark/pkg/core"
)

// markersKey is the single durable key holding the serialized collection.
var markersKey = []byte("markers")

// Config holds badger backend settings.
type Config struct {
	Dir string `json:"dir" mapstructure:"dir"`
}

// Backend stores the collection in a Badger database.
type Backend struct {
	db     *badger.DB
	logger zerolog.Logger
}

// New opens (or creates) the Badger database at cfg.Dir.
func New(cfg Config, log zerolog.Logger) (*Backend, error) {
	opts := badger.DefaultOptions(cfg.Dir)
	opts.NumVersionsToKeep = 1
	opts.CompactL0OnClose = true
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Backend{db: db, logger: log}, nil
}

// Load reads the persisted collection. A missing key or a value that does
// not parse yields an empty collection.
func (b *Backend) Load() ([]core.Marker, error) {
	var raw []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(markersKey)
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var markers []core.Marker
	if err := json.Unmarshal(raw, &markers); err != nil {
		b.logger.Warn().Err(err).Msg("Persisted marker blob is corrupt, treating as empty")
		return nil, nil
	}
	return markers, nil
}

// Save serializes the collection and writes it under the markers key.
func (b *Backend) Save(markers []core.Marker) error {
	if markers == nil {
		markers = []core.Marker{}
	}
	data, err := json.Marshal(markers)
	if err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(markersKey, data)
	})
}

// Erase deletes the markers key.
func (b *Backend) Erase() error {
	return b.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(markersKey)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

// Close closes the underlying database.
func (b *Backend) Close() error {
	return b.db.Close()
}
