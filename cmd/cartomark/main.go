package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/cartomark/cartomark/internal/config"
	"github.com/cartomark/cartomark/internal/controller"
	"github.com/cartomark/cartomark/internal/dispatcher"
	"github.com/cartomark/cartomark/internal/fileio"
	"github.com/cartomark/cartomark/internal/influx"
	"github.com/cartomark/cartomark/internal/logging"
	"github.com/cartomark/cartomark/internal/monitor"
	"github.com/cartomark/cartomark/internal/otel"
	"github.com/cartomark/cartomark/internal/persist"
	"github.com/cartomark/cartomark/internal/projection"
	"github.com/cartomark/cartomark/internal/store"
	"github.com/cartomark/cartomark/internal/surface/term"
	"github.com/cartomark/cartomark/internal/surface/ws"
)

// version info - BuildDate can be set at build time via ldflags
var (
	CurrentVersion string = "0.1.0"
	BuildDate      string = "unknown"

	AppName string = "cartomark"
)

// global services
var (
	// SlogManager handles all slog-based logging
	SlogManager *logging.SlogManager

	// Logger is the slog logger (convenience reference)
	Logger *slog.Logger

	LogFile     *os.File
	MetricsFile *os.File

	SessionStartTime time.Time = time.Now()

	markerStore   *store.Store
	view          *projection.Projection
	ctl           *controller.Controller
	gestures      *dispatcher.Dispatcher
	loader        *fileio.Loader
	influxManager *influx.Manager
	otelProvider  *otel.Provider
	termSurface   *term.Surface
	remoteSurface *ws.Surface
	statusMonitor *monitor.Service
)

// consoleNotifier prints gesture feedback to the terminal.
type consoleNotifier struct{}

func (consoleNotifier) Notify(message string) {
	fmt.Println("! " + message)
}

func setup(configDir string) error {
	if err := config.Load(configDir); err != nil {
		return err
	}

	SlogManager = logging.NewSlogManager()

	logsDir := config.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}
	logPath := logging.LogFilePath(logsDir, AppName, SessionStartTime)
	var err error
	LogFile, err = os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}

	SlogManager.Setup(LogFile, config.GetString("logLevel"), func() []slog.Attr {
		if ctl == nil {
			return nil
		}
		if id := ctl.SelectedID(); id != "" {
			return []slog.Attr{slog.String("selected", id)}
		}
		return nil
	})
	Logger = SlogManager.Logger()
	Logger.Info("Starting up", "version", CurrentVersion, "buildDate", BuildDate)

	zlog := zerolog.New(LogFile).With().Timestamp().Logger()

	backend, err := persist.NewBackend(config.GetPersistenceConfig(), zlog)
	if err != nil {
		return fmt.Errorf("creating persistence backend: %w", err)
	}

	markerStore = store.New(config.GetBounds(), backend, Logger)
	if err := markerStore.Init(); err != nil {
		return fmt.Errorf("loading persisted markers: %w", err)
	}

	surfaceCfg := config.GetSurfaceConfig()
	switch surfaceCfg.Type {
	case "ws":
		remoteSurface = ws.New(ws.Config{
			URL:    surfaceCfg.ViewerURL,
			Secret: surfaceCfg.Secret,
		}, Logger)
		if err := remoteSurface.Open(); err != nil {
			return fmt.Errorf("connecting render surface: %w", err)
		}
		view = projection.New(remoteSurface, Logger)
	default:
		termSurface = term.New(os.Stdout, Logger)
		view = projection.New(termSurface, Logger)
	}

	ctl = controller.New(controller.Dependencies{
		Store:      markerStore,
		Projection: view,
		Notifier:   consoleNotifier{},
		Logger:     Logger,
	})

	// Render whatever the store loaded.
	view.Sync(markerStore.All())
	if remoteSurface != nil {
		if err := remoteSurface.SyncCollection(markerStore.All()); err != nil {
			Logger.Warn("initial viewer sync failed", "error", err)
		}
	}

	loader = fileio.New(Logger)

	if viper.GetBool("influx.enabled") {
		backupPath := filepath.Join(logsDir, fmt.Sprintf("influx_backup_%s.log.gz",
			SessionStartTime.Format("20060102_150405")))
		influxManager = influx.NewManager(zlog, backupPath)
		if err := influxManager.Connect(); err != nil {
			Logger.Warn("InfluxDB connect failed, metrics disabled", "error", err)
			influxManager = nil
		}
	}

	otelCfg := config.GetOTelConfig()
	if otelCfg.Enabled {
		metricsPath := filepath.Join(logsDir, fmt.Sprintf("metrics_%s.json",
			SessionStartTime.Format("20060102_150405")))
		MetricsFile, err = os.OpenFile(metricsPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("opening metrics file: %w", err)
		}
		otelProvider, err = otel.New(otel.Config{
			Enabled:       true,
			ServiceName:   otelCfg.ServiceName,
			FlushInterval: otelCfg.BatchTimeout,
			MetricWriter:  MetricsFile,
		})
		if err != nil {
			return fmt.Errorf("creating meter provider: %w", err)
		}
	}

	gestures, err = dispatcher.New(logging.NewDispatcherLogger(Logger))
	if err != nil {
		return fmt.Errorf("creating dispatcher: %w", err)
	}
	registerGestures()

	statusMonitor = monitor.NewService(monitor.Dependencies{
		Store:      markerStore,
		Influx:     influxManager,
		Logger:     Logger,
		StatusPath: filepath.Join(logsDir, "status.json"),
		Interval:   5 * time.Second,
	})
	if err := statusMonitor.Start(); err != nil {
		return fmt.Errorf("starting status monitor: %w", err)
	}

	return nil
}

func teardown() {
	Logger.Info("Shutting down")

	if statusMonitor != nil {
		statusMonitor.Stop()
	}
	if err := markerStore.Close(); err != nil {
		Logger.Error("closing store", "error", err)
	}
	if remoteSurface != nil {
		if err := remoteSurface.Close(); err != nil {
			Logger.Error("closing render surface", "error", err)
		}
	}
	if influxManager != nil {
		influxManager.RecordCollectionSize(context.Background(), markerStore.Len())
		influxManager.Close()
	}
	if otelProvider != nil {
		if err := otelProvider.Shutdown(context.Background()); err != nil {
			Logger.Error("shutting down meter provider", "error", err)
		}
	}
	if MetricsFile != nil {
		_ = MetricsFile.Close()
	}
	if LogFile != nil {
		_ = LogFile.Close()
	}
}

// recordOp best-effort reports a gesture to the metrics sink.
func recordOp(op string) {
	if influxManager == nil {
		return
	}
	if err := influxManager.RecordOperation(context.Background(), op, 1); err != nil {
		Logger.Debug("metrics write failed", "op", op, "error", err)
	}
}

func main() {
	configDir := "."
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	if err := setup(configDir); err != nil {
		fmt.Fprintln(os.Stderr, "startup failed:", err)
		os.Exit(1)
	}
	defer teardown()

	runLoop(os.Stdin, os.Stdout)
}
