// Package library serves read-only transcript files from a preload
// directory, so recurring meetings can be analyzed without re-uploading.
// A filesystem watcher keeps the listing current while files are dropped
// in or removed.
package library

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/joshuasparkes/transcription-to-stories/internal/parser"
)

// ErrNotFound reports a transcript name with no file behind it.
var ErrNotFound = errors.New("transcript not found")

// ErrInvalidName reports a name that is not a plain supported filename.
var ErrInvalidName = errors.New("invalid transcript name")

// File describes one preloaded transcript.
type File struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
	Format   string    `json:"format"`
}

// Library watches a directory of transcript files.
type Library struct {
	dir string
	log *slog.Logger

	mu    sync.RWMutex
	files []File

	watcher *fsnotify.Watcher
}

// Open scans dir and starts watching it for changes. A missing directory
// is not an error: the library is just empty, and uploads still work.
func Open(dir string, log *slog.Logger) (*Library, error) {
	l := &Library{dir: dir, log: log}
	if err := l.rescan(); err != nil {
		if os.IsNotExist(err) {
			log.Info("transcript library directory missing, starting empty", "dir", dir)
			return l, nil
		}
		return nil, fmt.Errorf("scan library: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	l.watcher = watcher
	go l.watch()
	return l, nil
}

// Close stops the directory watcher.
func (l *Library) Close() error {
	if l.watcher == nil {
		return nil
	}
	return l.watcher.Close()
}

// List returns the current transcripts sorted by name.
func (l *Library) List() []File {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]File, len(l.files))
	copy(out, l.files)
	return out
}

// Read returns the raw bytes of one transcript. The name must be a bare
// filename with a supported extension; anything path-shaped is rejected.
func (l *Library) Read(name string) ([]byte, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return nil, ErrInvalidName
	}
	if !parser.IsSupportedExtension(name) {
		return nil, ErrInvalidName
	}
	data, err := os.ReadFile(filepath.Join(l.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (l *Library) rescan() error {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return err
	}
	files := make([]File, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") || !parser.IsSupportedExtension(name) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, File{
			Name:     name,
			Size:     info.Size(),
			Modified: info.ModTime(),
			Format:   strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), "."),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	l.mu.Lock()
	l.files = files
	l.mu.Unlock()
	return nil
}

// watch reacts to directory changes until the watcher is closed. Rescans
// are cheap relative to how rarely transcripts land, so any relevant event
// triggers a full one.
func (l *Library) watch() {
	for {
		select {
		case event, ok := <-l.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !parser.IsSupportedExtension(event.Name) {
				continue
			}
			if err := l.rescan(); err != nil {
				l.log.Warn("library rescan failed", "error", err)
			}
		case err, ok := <-l.watcher.Errors:
			if !ok {
				return
			}
			l.log.Warn("library watcher error", "error", err)
		}
	}
}
