package title

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

type watcher struct {
	fs   *fsnotify.Watcher
	done chan struct{}
	wg   sync.WaitGroup
}

// Watch starts invalidating cached ReadFile results when files under the
// root change. It is a no-op without a cache or when already watching.
func (c *Container) Watch() error {
	if c.cache == nil || c.watcher != nil {
		return nil
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("title: creating watcher: %w", err)
	}
	if err := addTree(fw, c.root); err != nil {
		fw.Close()
		return err
	}

	w := &watcher{fs: fw, done: make(chan struct{})}
	w.wg.Add(1)
	go c.watchLoop(w)
	c.watcher = w

	c.log.Debug("watching title location", zap.String("root", c.root))
	return nil
}

// Close stops the watcher started by Watch.
func (c *Container) Close() error {
	w := c.watcher
	if w == nil {
		return nil
	}
	c.watcher = nil
	close(w.done)
	err := w.fs.Close()
	w.wg.Wait()
	return err
}

func (c *Container) watchLoop(w *watcher) {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			c.handleEvent(w.fs, ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			c.log.Warn("title watcher error", zap.Error(err))
		}
	}
}

func (c *Container) handleEvent(fw *fsnotify.Watcher, ev fsnotify.Event) {
	if ev.Has(fsnotify.Create) && isDir(ev.Name) {
		if err := addTree(fw, ev.Name); err != nil {
			c.log.Warn("title watcher add failed", zap.String("path", ev.Name), zap.Error(err))
		}
	}
	if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
		c.cache.Delete(ev.Name)
		c.log.Debug("invalidated cached file", zap.String("path", ev.Name))
	}
}

// addTree watches root and every directory below it; fsnotify is not
// recursive.
func addTree(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return fmt.Errorf("title: walking %s: %w", path, err)
		}
		if !d.IsDir() {
			return nil
		}
		if err := fw.Add(path); err != nil {
			return fmt.Errorf("title: watching %s: %w", path, err)
		}
		return nil
	})
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
