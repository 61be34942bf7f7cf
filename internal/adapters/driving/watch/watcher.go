// Package watch ingests files into a folder scope as they change on disk.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/arbor-labs/folderctx/internal/core/domain"
	"github.com/arbor-labs/folderctx/internal/core/ports/driving"
	"github.com/arbor-labs/folderctx/internal/logger"
)

// DefaultDebounce coalesces bursts of write events per file.
const DefaultDebounce = 500 * time.Millisecond

// TypeResolver maps a file path to a document type.
type TypeResolver func(path string) domain.DocumentType

// Watcher mirrors a directory into a folder scope. Created and modified
// files are re-ingested; editors that write in bursts are debounced.
type Watcher struct {
	docs     driving.DocumentService
	scope    domain.Scope
	resolve  TypeResolver
	debounce time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// New creates a watcher that ingests into the given scope.
func New(docs driving.DocumentService, scope domain.Scope, resolve TypeResolver) *Watcher {
	if resolve == nil {
		resolve = func(string) domain.DocumentType { return domain.DocumentTypeText }
	}
	return &Watcher{
		docs:     docs,
		scope:    scope,
		resolve:  resolve,
		debounce: DefaultDebounce,
		timers:   make(map[string]*time.Timer),
	}
}

// Run watches dir until the context is cancelled. Existing files are not
// ingested on startup, only subsequent create and write events.
func (w *Watcher) Run(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	logger.Info("Watching %s for %s", dir, w.scope)

	for {
		select {
		case <-ctx.Done():
			w.stopTimers()
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if skipPath(event.Name) {
				continue
			}
			w.schedule(ctx, event.Name)

		case werr, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			logger.Warn("Watcher error: %v", werr)
		}
	}
}

// schedule arms (or re-arms) the per-file debounce timer.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.timers[path]; ok {
		timer.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		if err := w.ingest(ctx, path); err != nil {
			logger.Warn("Ingest %s failed: %v", path, err)
		}
	})
}

func (w *Watcher) ingest(ctx context.Context, path string) error {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	doc, err := w.docs.AddDocument(ctx, driving.AddDocumentInput{
		Scope:   w.scope,
		Name:    filepath.Base(path),
		Type:    w.resolve(path),
		Content: string(data),
		Metadata: domain.DocumentMeta{
			Source: path,
		},
	})
	if err != nil {
		return err
	}
	logger.Info("Ingested %s as %s (%d bytes)", path, doc.ID, doc.Size)
	return nil
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.timers {
		timer.Stop()
		delete(w.timers, path)
	}
}

// skipPath filters out hidden files and editor temp files.
func skipPath(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") || strings.HasSuffix(base, ".swp") || strings.HasSuffix(base, ".tmp") {
		return true
	}
	return false
}
