package playground

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/richinsley/goshaderplay/store"
)

var errNotInitialized = errors.New("playground not initialized")

// SaveAs records the current buffer as a named saved shader.
func (c *Controller) SaveAs(ctx context.Context, name string) (store.SavedShader, error) {
	if c.state == Uninitialized {
		return store.SavedShader{}, errNotInitialized
	}
	rec, err := c.store.SaveShader(ctx, name, c.editor.Text())
	if err != nil {
		return rec, err
	}
	log.Printf("Saved shader %q as %s", name, rec.UUID)
	return rec, nil
}

// Snapshot saves the buffer under a name taken from its first line comment,
// or a timestamp when it has none.
func (c *Controller) Snapshot() {
	if c.state == Uninitialized {
		return
	}
	name := snapshotName(c.editor.Text(), c.deps.Loop.Now())
	if _, err := c.SaveAs(c.ctx, name); err != nil {
		log.Printf("Warning: %v", err)
	}
}

func snapshotName(text string, now time.Time) string {
	first, _, _ := strings.Cut(strings.TrimSpace(text), "\n")
	if name, ok := strings.CutPrefix(first, "//"); ok {
		if name = strings.TrimSpace(name); name != "" {
			return name
		}
	}
	return "shader " + now.Format(time.DateTime)
}

// Saved lists the saved shaders of the namespace.
func (c *Controller) Saved(ctx context.Context) ([]store.SavedShader, error) {
	if c.state == Uninitialized {
		return nil, errNotInitialized
	}
	return c.store.SavedShaders(ctx)
}

// Load puts a saved shader in the editor and runs the edit cycle at once.
func (c *Controller) Load(ctx context.Context, id string) error {
	if c.state == Uninitialized {
		return errNotInitialized
	}
	src, err := c.store.GetShaderSource(ctx, id)
	if err != nil {
		return fmt.Errorf("loading %s: %w", id, err)
	}
	c.debounce.Cancel()
	c.editor.SetText(src)
	c.fire()
	return nil
}

// DeleteSaved removes a saved shader and its source.
func (c *Controller) DeleteSaved(ctx context.Context, id string) error {
	if c.state == Uninitialized {
		return errNotInitialized
	}
	return c.store.DeleteSavedShader(ctx, id)
}

// Cleanup drops stored sources that are neither saved nor the live slot.
func (c *Controller) Cleanup(ctx context.Context) ([]string, error) {
	if c.state == Uninitialized {
		return nil, errNotInitialized
	}
	keep := append([]string{c.cfg.ShaderID}, c.cfg.Keep...)
	return c.store.Cleanup(ctx, keep)
}
