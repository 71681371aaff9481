// Package monitor periodically reports collection status to a status
// file and, when configured, to the metrics sink.
package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/cartomark/cartomark/internal/influx"
	"github.com/cartomark/cartomark/internal/store"
)

// Dependencies holds all dependencies for the monitor service.
type Dependencies struct {
	Store      *store.Store
	Influx     *influx.Manager // optional
	Logger     *slog.Logger
	StatusPath string
	Interval   time.Duration
}

// Status is the snapshot written to the status file.
type Status struct {
	Time    time.Time `json:"time"`
	Markers int       `json:"markers"`
}

// Service manages status monitoring.
type Service struct {
	deps      Dependencies
	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}
}

// NewService creates a new monitor service.
func NewService(deps Dependencies) *Service {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Interval <= 0 {
		deps.Interval = time.Second
	}
	return &Service{
		deps:     deps,
		stopChan: make(chan struct{}),
	}
}

// IsRunning returns whether the status monitor is running.
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Snapshot returns the current status.
func (s *Service) Snapshot() Status {
	return Status{
		Time:    time.Now(),
		Markers: s.deps.Store.Len(),
	}
}

// Start starts the status monitor goroutine.
func (s *Service) Start() error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			s.isRunning = false
			s.mu.Unlock()
		}()

		s.deps.Logger.Debug("Starting status monitor goroutine")

		var statusFile *os.File
		if s.deps.StatusPath != "" {
			var err error
			statusFile, err = os.Create(s.deps.StatusPath)
			if err != nil {
				s.deps.Logger.Error("Error creating status file", "error", err)
			} else {
				defer statusFile.Close()
			}
		}

		ticker := time.NewTicker(s.deps.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stopChan:
				return
			case <-ticker.C:
				status := s.Snapshot()

				if statusFile != nil {
					data, err := json.MarshalIndent(status, "", "  ")
					if err != nil {
						data = []byte(fmt.Sprintf(`{"error": %q}`, err.Error()))
					}
					statusFile.Truncate(0)
					statusFile.Seek(0, 0)
					statusFile.Write(append(data, '\n'))
				}

				if s.deps.Influx != nil {
					err := s.deps.Influx.RecordCollectionSize(context.Background(), status.Markers)
					if err != nil {
						s.deps.Logger.Debug("Error recording collection size", "error", err)
					}
				}
			}
		}
	}()

	return nil
}

// Stop stops the status monitor.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		close(s.stopChan)
	}
}
