package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gogpu/pixflow"
)

// watchDebounce is how long to wait for more changes before rendering.
const watchDebounce = 100 * time.Millisecond

// watchFiles calls changed once the files have been quiet for debounce
// after a change, and then watches the files changed returns. It returns
// when ctx is done.
//
// Directories are watched rather than the files themselves so that
// editors replacing a file on save are noticed.
func watchFiles(ctx context.Context, files []string, debounce time.Duration, changed func() []string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	wanted := make(map[string]bool)
	dirs := make(map[string]bool)
	track := func(files []string) error {
		clear(wanted)
		for _, f := range files {
			abs, err := filepath.Abs(f)
			if err != nil {
				return fmt.Errorf("watch: %w", err)
			}
			wanted[abs] = true
			dir := filepath.Dir(abs)
			if dirs[dir] {
				continue
			}
			if err := w.Add(dir); err != nil {
				return fmt.Errorf("watch %s: %w", dir, err)
			}
			dirs[dir] = true
		}
		return nil
	}
	if err := track(files); err != nil {
		return err
	}

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) || !wanted[filepath.Clean(ev.Name)] {
				continue
			}
			pixflow.Logger().Debug("pixflow: file changed", "path", ev.Name, "op", ev.Op)
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			pixflow.Logger().Warn("pixflow: watch error", "err", err)
		case <-fire:
			fire = nil
			if err := track(changed()); err != nil {
				return err
			}
		}
	}
}
