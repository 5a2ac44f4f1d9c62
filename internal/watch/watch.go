// Package watch re-renders the SVG diagram whenever the document file
// changes, so an open viewer doubles as a live preview.
package watch

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/operato/trackline/internal/store/jsonstore"
	"github.com/operato/trackline/internal/svg"
	"github.com/operato/trackline/internal/timeline"
	"github.com/operato/trackline/internal/ui"
)

// Config carries everything one watch session needs.
type Config struct {
	DocPath   string
	OutPath   string
	StylePath string
	Scale     timeline.Scale
	Zoom      float64
}

// Run renders once, then blocks re-rendering on every change to the
// document until interrupted. Render failures are reported and watching
// continues; a broken intermediate save should not kill the session.
func Run(cfg Config) error {
	style, err := svg.LoadStyle(cfg.StylePath)
	if err != nil {
		return err
	}

	render := func() {
		doc, err := jsonstore.Load(cfg.DocPath)
		if err != nil {
			ui.Fail(err.Error())
			return
		}
		l := timeline.Resolve(doc, cfg.Scale)
		out := svg.Render(l, doc.Config.Title, style, cfg.Zoom)
		if err := os.WriteFile(cfg.OutPath, []byte(out), 0o644); err != nil {
			ui.Fail("write: " + err.Error())
			return
		}
		ui.OK(fmt.Sprintf("rendered %s (%d events)", cfg.OutPath, len(doc.Events)))
	}
	render()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors typically replace the file
	// by rename, which drops a direct file watch.
	dir := filepath.Dir(cfg.DocPath)
	if dir == "" {
		dir = "."
	}
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	defer signal.Stop(stop)

	ui.OK("watching " + cfg.DocPath + " (ctrl-c to stop)")

	var pending <-chan time.Time
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(cfg.DocPath) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			// Debounce bursts of writes into one render.
			pending = time.After(200 * time.Millisecond)
		case <-pending:
			pending = nil
			render()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			ui.Fail("watch: " + err.Error())
		case <-stop:
			return nil
		}
	}
}
