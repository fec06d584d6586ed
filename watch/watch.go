// Package watch follows a shader file on disk so edits made in an external
// editor reach the playground.
package watch

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Poster hands work to the goroutine that owns the playground.
// frameloop.Loop implements it.
type Poster interface {
	Post(f func())
}

// Watcher reports the contents of one file every time it changes.
type Watcher struct {
	path    string
	poster  Poster
	onFile  func(text string)
	settle  time.Duration
	watcher *fsnotify.Watcher
}

// New watches path. onFile runs through poster, never on the watcher
// goroutine.
func New(path string, poster Poster, onFile func(text string)) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	// The directory is watched so replace-by-rename saves keep being seen.
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{
		path:    abs,
		poster:  poster,
		onFile:  onFile,
		settle:  50 * time.Millisecond,
		watcher: fw,
	}, nil
}

// Path is the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Run delivers changes until ctx is done. It closes the underlying watcher
// on return.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				// Editors often write in several steps; read once they settle.
				pending = time.After(w.settle)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("Warning: watching %s: %v", w.path, err)
		case <-pending:
			pending = nil
			w.deliver()
		}
	}
}

func (w *Watcher) deliver() {
	data, err := os.ReadFile(w.path)
	if err != nil {
		log.Printf("Warning: reading %s: %v", w.path, err)
		return
	}
	text := string(data)
	log.Printf("Reloading %s", filepath.Base(w.path))
	w.poster.Post(func() { w.onFile(text) })
}
