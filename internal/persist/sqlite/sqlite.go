// Package sqlite persists the marker collection as rows in a local
// SQLite database. Each Save replaces the table contents with the full
// collection snapshot inside one transaction, so the table always holds
// exactly what the store last wrote.
package sqlite

import (
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cartomark/cartomark/pkg/core"
)

// Config holds sqlite backend settings.
type Config struct {
	Path string `json:"path" mapstructure:"path"` // empty = in-memory database
}

// markerRow is the table schema. Seq preserves insertion order across
// load/save round trips.
type markerRow struct {
	Seq         uint   `gorm:"primaryKey;autoIncrement"`
	MarkerID    string `gorm:"size:64;uniqueIndex"`
	Lat         float64
	Lng         float64
	Name        string `gorm:"size:255"`
	Description string `gorm:"size:2000"`
}

func (*markerRow) TableName() string {
	return "markers"
}

// Backend stores the collection in SQLite via gorm.
type Backend struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// New opens the database at cfg.Path and migrates the schema. An empty
// path opens a shared in-memory database.
func New(cfg Config, log zerolog.Logger) (*Backend, error) {
	dsn := cfg.Path
	if dsn == "" {
		dsn = "file::memory:?cache=shared"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&markerRow{}); err != nil {
		return nil, err
	}

	log.Info().Str("path", dsn).Msg("Using local SQLite DB for marker persistence")
	return &Backend{db: db, logger: log}, nil
}

// Load reads all persisted markers in insertion order.
func (b *Backend) Load() ([]core.Marker, error) {
	var rows []markerRow
	if err := b.db.Order("seq ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	markers := make([]core.Marker, 0, len(rows))
	for _, r := range rows {
		markers = append(markers, core.Marker{
			ID:          r.MarkerID,
			Lat:         r.Lat,
			Lng:         r.Lng,
			Name:        r.Name,
			Description: r.Description,
		})
	}
	return markers, nil
}

// Save replaces the table contents with the given collection.
func (b *Backend) Save(markers []core.Marker) error {
	return b.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&markerRow{}).Error; err != nil {
			return err
		}
		if len(markers) == 0 {
			return nil
		}
		rows := make([]markerRow, 0, len(markers))
		for _, m := range markers {
			rows = append(rows, markerRow{
				MarkerID:    m.ID,
				Lat:         m.Lat,
				Lng:         m.Lng,
				Name:        m.Name,
				Description: m.Description,
			})
		}
		return tx.Create(&rows).Error
	})
}

// Erase drops all rows.
func (b *Backend) Erase() error {
	return b.db.Where("1 = 1").Delete(&markerRow{}).Error
}

// Close closes the underlying connection.
func (b *Backend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
