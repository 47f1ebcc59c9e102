package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"critable/internal/logging"
)

const minSettleTick = 10 * time.Millisecond

// Watch processes detector files in dir until ctx is done. Files already
// present are processed first; new or rewritten files are processed once
// they have not changed for the settle delay. handle, when non-nil,
// receives every finished batch.
func (m *Manager) Watch(ctx context.Context, dir string, handle func(*Batch)) error {
	release, err := m.acquire()
	if err != nil {
		return err
	}
	defer release()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create inbox: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	logger := m.logger.With(slog.String("inbox", dir))
	logger.Info("watching inbox", slog.Duration("settle", m.settle))

	run := func(paths []string) bool {
		if len(paths) == 0 {
			return true
		}
		batch, err := m.processBatch(ctx, paths)
		if handle != nil && batch != nil {
			handle(batch)
		}
		return err == nil
	}

	existing, err := detectorFiles(dir)
	if err != nil {
		return err
	}
	if !run(existing) {
		return nil
	}

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(max(m.settle/2, minSettleTick))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("inbox watch stopped")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isDetectorFile(event.Name) {
				continue
			}
			switch {
			case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
				pending[event.Name] = time.Now()
			case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
				delete(pending, event.Name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("inbox watcher error", logging.Error(err))
		case now := <-ticker.C:
			var ready []string
			for path, changed := range pending {
				if now.Sub(changed) >= m.settle {
					ready = append(ready, path)
					delete(pending, path)
				}
			}
			slices.Sort(ready)
			if !run(ready) {
				return nil
			}
		}
	}
}

func isDetectorFile(path string) bool {
	base := filepath.Base(path)
	return strings.EqualFold(filepath.Ext(base), ".json") && !strings.HasPrefix(base, ".")
}

// detectorFiles lists the detector files directly inside dir, sorted.
func detectorFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read inbox: %w", err)
	}
	var out []string
	for _, entry := range entries {
		if entry.Type().IsRegular() && isDetectorFile(entry.Name()) {
			out = append(out, filepath.Join(dir, entry.Name()))
		}
	}
	return out, nil
}
