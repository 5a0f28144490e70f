package hotkey

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// FileSource turns writes to a trigger file into hotkey events. An
// external hotkey daemon binds the actual key combination and touches the
// file on press; this keeps the key grab where the OS wants it while the
// process owns everything downstream of the trigger.
type FileSource struct {
	Path string
}

// Events watches the trigger file until ctx is cancelled. The file and its
// directory are created if absent so the daemon side has something to
// touch. Watcher errors after installation are non-fatal: the channel
// stays open and later events still fire.
func (f *FileSource) Events(ctx context.Context) (<-chan struct{}, error) {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return nil, err
	}
	if _, err := os.Stat(f.Path); os.IsNotExist(err) {
		if err := os.WriteFile(f.Path, nil, 0o644); err != nil {
			return nil, err
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory, not the file: editors and `touch` replace the
	// inode and a file watch would silently die.
	if err := watcher.Add(filepath.Dir(f.Path)); err != nil {
		watcher.Close()
		return nil, err
	}

	out := make(chan struct{}, 1)
	go func() {
		defer watcher.Close()
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != f.Path {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Chmod) {
					// Coalesce bursts: one pending trigger is enough.
					select {
					case out <- struct{}{}:
					default:
					}
				}

			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return out, nil
}

// ChanSource adapts a plain channel into a Source, used by surfaces that
// deliver triggers in-process and by tests.
type ChanSource struct {
	C chan struct{}
}

func (c *ChanSource) Events(ctx context.Context) (<-chan struct{}, error) {
	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-c.C:
				if !ok {
					return
				}
				select {
				case out <- struct{}{}:
				default:
				}
			}
		}
	}()
	return out, nil
}
