package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce is how long WatchFile waits after the last change before
// calling back.
const DefaultDebounce = 200 * time.Millisecond

// WatchFile calls onChange once per burst of writes to path until ctx is
// done. The parent directory is watched so editors that replace the file
// are followed. onChange runs on a timer goroutine, never concurrently with
// itself.
func WatchFile(ctx context.Context, path string, delay time.Duration, onChange func()) error {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	var (
		mu      sync.Mutex
		running sync.Mutex
		timer   *time.Timer
	)
	fire := func() {
		running.Lock()
		defer running.Unlock()
		if ctx.Err() == nil {
			onChange()
		}
	}
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(delay, fire)
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logrus.Warnf("watcher error: %v", err)
		}
	}
}
