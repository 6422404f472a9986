package content

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// debounce collapses bursts of editor writes into one callback.
const debounce = 100 * time.Millisecond

// Watch calls onChange whenever a .md file under dir is created, written,
// removed or renamed. New subdirectories are watched as they appear.
// It blocks until ctx is cancelled.
func Watch(ctx context.Context, dir string, logger *log.Logger, onChange func(path string)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, dir); err != nil {
		return err
	}
	logger.Info("content watcher started", "dir", dir)

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending string
	)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("content watcher stopped")
			return nil

		case <-timerC:
			timerC = nil
			onChange(pending)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("content watcher: add dir failed", "path", ev.Name, "err", addErr)
					}
					continue
				}
			}
			if !strings.HasSuffix(ev.Name, ".md") {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("content changed", "path", ev.Name, "op", ev.Op.String())
			pending = ev.Name
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			timerC = timer.C

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("content watcher error", "err", watchErr)
		}
	}
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(p)
		}
		return nil
	})
}
