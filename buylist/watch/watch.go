// Package watch reruns the site build whenever the source sheet changes,
// and serves the output directory for local preview.
package watch

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/climaxcard/buylist/buylist/engine"
	"github.com/climaxcard/buylist/buylist/logger"
)

// Run watches path and calls rebuild after each burst of write events.
// Editors save in multi-event bursts (truncate, write, chmod, rename), so
// rebuilds go through a debouncer instead of firing per event.
func Run(ctx context.Context, path string, rebuild func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory, not the file: many editors replace the file on
	// save, which drops a watch set on the file itself.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return err
	}
	target := filepath.Base(path)

	debouncer := engine.NewDebouncer(engine.DebounceSlow)
	defer debouncer.Stop()

	logger.LogSystem("watching for changes", slog.String("path", path))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			debouncer.Trigger(rebuild)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.LogError("watcher error", err)
		}
	}
}

// Serve exposes outDir over HTTP for local preview. Blocks until ctx is
// cancelled.
func Serve(ctx context.Context, addr, outDir string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           http.FileServer(http.Dir(outDir)),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.LogSystem("preview server listening", slog.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
