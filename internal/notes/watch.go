package notes

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/petervdpas/presentation/observable"
)

// Watch flags ChangedOnDisk when another program modifies the open file.
// It blocks until ctx is done. The containing directory is watched, not
// the file, so editors that save by rename are seen too.
//
// Run Watch on its own goroutine. Everything that touches the view-model
// goes through Options.Dispatch.
func (v *ViewModel) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	var (
		mu      sync.Mutex
		current string
		dir     string
	)
	follow := func(path string) {
		mu.Lock()
		defer mu.Unlock()
		current = path
		next := ""
		if path != "" {
			next = filepath.Dir(path)
		}
		if next == dir {
			return
		}
		if dir != "" {
			_ = watcher.Remove(dir)
		}
		dir = ""
		if next != "" {
			if err := watcher.Add(next); err != nil {
				log.Printf("NOTES: watch %s: %v", next, err)
				return
			}
			dir = next
		}
	}

	id := v.Subscribe(func(e observable.Event) {
		if e.PropertyName == PathProperty {
			follow(v.path)
		}
	})
	defer v.Unsubscribe(id)
	v.opts.Dispatch(func() { follow(v.path) })

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			mu.Lock()
			match := current != "" && filepath.Clean(ev.Name) == current
			mu.Unlock()
			if !match || ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			v.opts.Dispatch(v.checkDisk)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("NOTES: watcher error: %v", err)
		}
	}
}

// checkDisk compares the file with the last loaded or saved text. Our own
// saves produce events too; they match and are ignored.
func (v *ViewModel) checkDisk() {
	if v.path == "" {
		return
	}
	b, err := os.ReadFile(v.path)
	if err != nil {
		v.setChangedOnDisk(os.IsNotExist(err))
		return
	}
	v.setChangedOnDisk(string(b) != v.saved)
}
