package config

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDelay is how long the rig file must stay quiet after an event before it is reloaded.
const reloadDelay = 100 * time.Millisecond

// Watch reloads the rig at path whenever the file is written or replaced and passes each
// successfully parsed rig to onChange. Bursts of events are coalesced into one reload once the
// file has been quiet for reloadDelay. Reload failures are logged and the previous rig stays
// in effect. The containing directory is watched so editors that save by rename are seen.
// Watch blocks until ctx is done and then returns nil.
//
// Parameters:
//   - ctx: cancels the watch
//   - path: the rig file
//   - onChange: called from the watching goroutine with each new rig
//
// Returns:
//   - error: a failure to start watching
func Watch(ctx context.Context, path string, onChange func(*Rig)) error {
	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch rig: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch rig: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch rig %s: %w", path, err)
	}

	timer := time.NewTimer(reloadDelay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			timer.Reset(reloadDelay)
		case <-timer.C:
			rig, err := Load(target)
			if err != nil {
				log.Printf("[Config] reload failed, keeping previous rig: %v", err)
				continue
			}
			onChange(rig)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("[Config] watcher error for %s: %v", path, err)
		}
	}
}
