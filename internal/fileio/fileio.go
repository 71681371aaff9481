// Package fileio performs file reads off the gesture loop. Completions
// land on a queue the loop drains between commands, tagged with a
// generation so a slow read finishing after a newer request was issued
// is discarded instead of clobbering it.
package fileio

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/cartomark/cartomark/internal/queue"
)

// Result is one completed read.
type Result struct {
	Generation uint64
	Path       string
	Data       []byte
	Err        error
}

// Loader reads files asynchronously and queues completions.
type Loader struct {
	gen     atomic.Uint64
	results *queue.Queue[Result]
	logger  *slog.Logger
}

// New creates a Loader with an empty completion queue.
func New(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		results: queue.New[Result](),
		logger:  logger,
	}
}

// ReadText starts an asynchronous read of the file's raw bytes and
// returns the generation the completion will carry. Any read requested
// earlier becomes stale.
func (l *Loader) ReadText(path string) uint64 {
	gen := l.gen.Add(1)
	go func() {
		data, err := os.ReadFile(path)
		if err != nil {
			l.logger.Warn("file read failed", "path", path, "error", err)
		}
		l.results.Push(Result{Generation: gen, Path: path, Data: data, Err: err})
	}()
	return gen
}

// ReadDataURL starts an asynchronous read that delivers the file as a
// base64 data URL, suitable for handing an image to a render surface.
func (l *Loader) ReadDataURL(path string) uint64 {
	gen := l.gen.Add(1)
	go func() {
		data, err := os.ReadFile(path)
		if err != nil {
			l.logger.Warn("file read failed", "path", path, "error", err)
			l.results.Push(Result{Generation: gen, Path: path, Err: err})
			return
		}
		mediaType := mime.TypeByExtension(filepath.Ext(path))
		if mediaType == "" {
			mediaType = "application/octet-stream"
		}
		url := fmt.Sprintf("data:%s;base64,%s", mediaType, base64.StdEncoding.EncodeToString(data))
		l.results.Push(Result{Generation: gen, Path: path, Data: []byte(url)})
	}()
	return gen
}

// Drain returns completions for the newest requested generation and
// drops everything older. Callers poll it from the gesture loop.
func (l *Loader) Drain() []Result {
	current := l.gen.Load()
	all := l.results.GetAndEmpty()
	fresh := all[:0]
	for _, r := range all {
		if r.Generation == current {
			fresh = append(fresh, r)
			continue
		}
		l.logger.Debug("discarding stale read", "path", r.Path,
			"generation", r.Generation, "current", current)
	}
	return fresh
}

// WriteAtomic writes data to path through a temporary file and rename,
// so an interrupted export never leaves a truncated file behind.
func WriteAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("renaming %s: %w", tmp, err)
	}
	return nil
}
