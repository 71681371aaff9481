package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/cartomark/cartomark/internal/geo"
	"github.com/cartomark/cartomark/internal/persist"
	"github.com/cartomark/cartomark/internal/persist/badgerkv"
	"github.com/cartomark/cartomark/internal/persist/file"
	"github.com/cartomark/cartomark/internal/persist/sqlite"
)

// SurfaceConfig selects the render surface and its transport settings.
type SurfaceConfig struct {
	Type      string `json:"type" mapstructure:"type"`
	ViewerURL string `json:"viewerUrl" mapstructure:"viewerUrl"`
	Secret    string `json:"secret" mapstructure:"secret"`
}

// CalibrationConfig maps logical map units onto web mercator meters for
// GeoJSON export. Disabled means exports carry raw logical coordinates.
type CalibrationConfig struct {
	Enabled       bool    `json:"enabled" mapstructure:"enabled"`
	OriginX       float64 `json:"originX" mapstructure:"originX"`
	OriginY       float64 `json:"originY" mapstructure:"originY"`
	MetersPerUnit float64 `json:"metersPerUnit" mapstructure:"metersPerUnit"`
}

// OTelConfig holds OpenTelemetry metric settings.
type OTelConfig struct {
	Enabled      bool          `json:"enabled" mapstructure:"enabled"`
	ServiceName  string        `json:"serviceName" mapstructure:"serviceName"`
	BatchTimeout time.Duration `json:"batchTimeout" mapstructure:"batchTimeout"`
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./cartomark-logs")

	viper.SetDefault("map.minLat", 0.0)
	viper.SetDefault("map.minLng", 0.0)
	viper.SetDefault("map.maxLat", 6798.0)
	viper.SetDefault("map.maxLng", 9800.0)

	viper.SetDefault("persistence.type", "file")
	viper.SetDefault("persistence.file.path", "./markers.json")
	viper.SetDefault("persistence.badger.dir", "./markers-badger")
	viper.SetDefault("persistence.sqlite.path", "./markers.db")

	viper.SetDefault("surface.type", "term")
	viper.SetDefault("surface.viewerUrl", "ws://localhost:8573/viewer")
	viper.SetDefault("surface.secret", "")

	viper.SetDefault("calibration.enabled", false)
	viper.SetDefault("calibration.originX", 0.0)
	viper.SetDefault("calibration.originY", 0.0)
	viper.SetDefault("calibration.metersPerUnit", 1.0)

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "cartomark-metrics")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "cartomark")
	viper.SetDefault("otel.batchTimeout", "5s")

	viper.SetConfigName("cartomark.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetBounds returns the configured map bounds.
func GetBounds() geo.Bounds {
	return geo.NewBounds(
		viper.GetFloat64("map.minLat"),
		viper.GetFloat64("map.minLng"),
		viper.GetFloat64("map.maxLat"),
		viper.GetFloat64("map.maxLng"),
	)
}

// GetPersistenceConfig returns the persistence backend settings.
func GetPersistenceConfig() persist.Config {
	return persist.Config{
		Type: viper.GetString("persistence.type"),
		File: file.Config{
			Path: viper.GetString("persistence.file.path"),
		},
		Badger: badgerkv.Config{
			Dir: viper.GetString("persistence.badger.dir"),
		},
		SQLite: sqlite.Config{
			Path: viper.GetString("persistence.sqlite.path"),
		},
	}
}

// GetSurfaceConfig returns the render surface settings.
func GetSurfaceConfig() SurfaceConfig {
	return SurfaceConfig{
		Type:      viper.GetString("surface.type"),
		ViewerURL: viper.GetString("surface.viewerUrl"),
		Secret:    viper.GetString("surface.secret"),
	}
}

// GetCalibration returns the export calibration, or nil when disabled.
func GetCalibration() *geo.Calibration {
	if !viper.GetBool("calibration.enabled") {
		return nil
	}
	return &geo.Calibration{
		OriginX:       viper.GetFloat64("calibration.originX"),
		OriginY:       viper.GetFloat64("calibration.originY"),
		MetersPerUnit: viper.GetFloat64("calibration.metersPerUnit"),
	}
}

// GetOTelConfig returns the OpenTelemetry metric settings.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
	}
}
