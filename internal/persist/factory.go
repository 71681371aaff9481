package persist

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cartomark/cartomark/internal/persist/badgerkv"
	"github.com/cartomark/cartomark/internal/persist/file"
	"github.com/cartomark/cartomark/internal/persist/memory"
	"github.com/cartomark/cartomark/internal/persist/sqlite"
)

// Config selects and configures a persistence backend.
type Config struct {
	Type   string `json:"type" mapstructure:"type"` // file, badger, sqlite, memory
	File   file.Config
	Badger badgerkv.Config
	SQLite sqlite.Config
}

// NewBackend creates a persistence backend based on configuration.
func NewBackend(cfg Config, log zerolog.Logger) (Backend, error) {
	switch cfg.Type {
	case "file":
		return file.New(cfg.File, log), nil
	case "badger":
		return badgerkv.New(cfg.Badger, log)
	case "sqlite":
		return sqlite.New(cfg.SQLite, log)
	case "memory":
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown persistence type: %s", cfg.Type)
	}
}
