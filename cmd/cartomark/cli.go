package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cartomark/cartomark/internal/config"
	"github.com/cartomark/cartomark/internal/dispatcher"
	"github.com/cartomark/cartomark/internal/fileio"
	"github.com/cartomark/cartomark/internal/geo"
	"github.com/cartomark/cartomark/internal/store"
)

var errQuit = errors.New("quit requested")

// splitLabel splits "name | description" into its two parts.
func splitLabel(s string) (name, description string) {
	parts := strings.SplitN(s, "|", 2)
	name = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		description = strings.TrimSpace(parts[1])
	}
	return name, description
}

func registerGestures() {
	gestures.Register("add", func(e dispatcher.Event) (any, error) {
		if len(e.Args) < 2 {
			return nil, fmt.Errorf("usage: add <lat,lng> <name> | <description>")
		}
		pos, err := geo.PositionFromString(e.Args[0])
		if err != nil {
			return nil, err
		}
		name, description := splitLabel(strings.Join(e.Args[1:], " "))
		ctl.BeginAdd(pos)
		if err := ctl.Submit(name, description); err != nil {
			ctl.Cancel()
			return nil, err
		}
		recordOp("create")
		return ctl.SelectedID(), nil
	}, dispatcher.Logged())

	gestures.Register("edit", func(e dispatcher.Event) (any, error) {
		id := ctl.SelectedID()
		if id == "" {
			return nil, fmt.Errorf("nothing selected")
		}
		if len(e.Args) < 1 {
			return nil, fmt.Errorf("usage: edit <name> | <description>")
		}
		if err := ctl.BeginEdit(id); err != nil {
			return nil, err
		}
		name, description := splitLabel(strings.Join(e.Args, " "))
		if err := ctl.Submit(name, description); err != nil {
			ctl.Cancel()
			return nil, err
		}
		recordOp("update")
		return id, nil
	}, dispatcher.Logged())

	gestures.Register("delete", func(e dispatcher.Event) (any, error) {
		if len(e.Args) > 0 {
			ctl.Delete(e.Args[0])
		} else {
			ctl.DeleteSelected()
		}
		recordOp("delete")
		return "deleted", nil
	}, dispatcher.Logged())

	gestures.Register("select", func(e dispatcher.Event) (any, error) {
		if len(e.Args) < 1 {
			return nil, fmt.Errorf("usage: select <id>")
		}
		if termSurface != nil {
			if !termSurface.Activate(e.Args[0]) {
				return nil, fmt.Errorf("%w: %s", store.ErrNotFound, e.Args[0])
			}
		} else {
			ctl.Activate(e.Args[0])
		}
		return e.Args[0], nil
	})

	gestures.Register("search", func(e dispatcher.Event) (any, error) {
		if len(e.Args) < 1 {
			return nil, fmt.Errorf("usage: search <query>")
		}
		id := ctl.Search(strings.Join(e.Args, " "))
		if id == "" {
			return "no match", nil
		}
		return id, nil
	}, dispatcher.Logged())

	gestures.Register("export", func(e dispatcher.Event) (any, error) {
		if len(e.Args) < 1 {
			return nil, fmt.Errorf("usage: export <path>")
		}
		data, err := ctl.Export()
		if err != nil || data == nil {
			return nil, err
		}
		if err := fileio.WriteAtomic(e.Args[0], data); err != nil {
			return nil, err
		}
		recordOp("export")
		return fmt.Sprintf("exported %d markers", markerStore.Len()), nil
	}, dispatcher.Logged())

	gestures.Register("export-geojson", func(e dispatcher.Event) (any, error) {
		if len(e.Args) < 1 {
			return nil, fmt.Errorf("usage: export-geojson <path>")
		}
		data, err := ctl.ExportGeoJSON(config.GetCalibration())
		if err != nil || data == nil {
			return nil, err
		}
		if err := fileio.WriteAtomic(e.Args[0], data); err != nil {
			return nil, err
		}
		recordOp("export")
		return fmt.Sprintf("exported %d markers", markerStore.Len()), nil
	}, dispatcher.Logged())

	gestures.Register("import", func(e dispatcher.Event) (any, error) {
		if len(e.Args) < 1 {
			return nil, fmt.Errorf("usage: import <path>")
		}
		loader.ReadText(e.Args[0])
		return "reading " + e.Args[0], nil
	}, dispatcher.Logged())

	gestures.Register("clear", func(e dispatcher.Event) (any, error) {
		ctl.ClearAll()
		recordOp("clear")
		return "cleared", nil
	}, dispatcher.Logged())

	gestures.Register("status", func(e dispatcher.Event) (any, error) {
		return fmt.Sprintf("%d markers, selected=%q", markerStore.Len(), ctl.SelectedID()), nil
	})

	gestures.Register("quit", func(e dispatcher.Event) (any, error) {
		return nil, errQuit
	})
}

// applyCompletedReads drains finished file reads and feeds them to the
// import gesture. Stale reads were already dropped by the loader.
func applyCompletedReads(out io.Writer) {
	for _, r := range loader.Drain() {
		if r.Err != nil {
			fmt.Fprintln(out, "! import failed:", r.Err)
			continue
		}
		if err := ctl.Import(r.Data); err != nil {
			Logger.Warn("import rejected", "path", r.Path, "error", err)
			continue
		}
		recordOp("import")
		if remoteSurface != nil {
			if err := remoteSurface.SyncCollection(markerStore.All()); err != nil {
				Logger.Warn("viewer sync after import failed", "error", err)
			}
		}
	}
}

// runLoop reads gesture commands line by line until quit or EOF.
func runLoop(in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	fmt.Fprintln(out, "cartomark", CurrentVersion)

	for {
		applyCompletedReads(out)
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		event := dispatcher.Event{
			Command:   strings.ToLower(fields[0]),
			Args:      fields[1:],
			Timestamp: time.Now(),
		}

		if !gestures.HasHandler(event.Command) {
			fmt.Fprintln(out, "? unknown command:", event.Command)
			continue
		}

		result, err := gestures.Dispatch(event)
		if errors.Is(err, errQuit) {
			break
		}
		if err != nil {
			fmt.Fprintln(out, "!", err)
			continue
		}
		if result != nil {
			fmt.Fprintln(out, result)
		}

		// give pending import reads a moment to land
		if event.Command == "import" {
			time.Sleep(50 * time.Millisecond)
		}
	}

	applyCompletedReads(out)
}
