// Package watcher следит за файлом датасета и запускает перезагрузку движка при его изменении.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce задаёт паузу после последнего события перед перезагрузкой.
// Редакторы и pandas пишут файл несколькими операциями подряд.
const DefaultDebounce = 500 * time.Millisecond

// ReloadFunc вызывается после изменения файла датасета.
type ReloadFunc func(path string) error

// DatasetWatcher наблюдает за каталогом файла датасета через fsnotify.
// Каталог, а не сам файл: при атомарной замене (rename) наблюдение за файлом теряется.
type DatasetWatcher struct {
	watcher  *fsnotify.Watcher
	path     string
	name     string
	debounce time.Duration
	reload   ReloadFunc
	logger   zerolog.Logger
}

// New создаёт наблюдатель для файла path. debounce <= 0 означает DefaultDebounce.
func New(path string, debounce time.Duration, reload ReloadFunc, logger zerolog.Logger) (*DatasetWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &DatasetWatcher{
		watcher:  w,
		path:     path,
		name:     filepath.Base(path),
		debounce: debounce,
		reload:   reload,
		logger:   logger,
	}, nil
}

// Run блокируется до отмены ctx, вызывая reload после каждой серии изменений файла.
func (w *DatasetWatcher) Run(ctx context.Context) error {
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.logger.Info().Str("path", w.path).Msg("watching dataset for changes")

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != w.name {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug().Str("event", event.Op.String()).Msg("dataset file changed")
			timer.Reset(w.debounce)
		case <-timer.C:
			if err := w.reload(w.path); err != nil {
				w.logger.Error().Err(err).Msg("dataset reload failed")
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("watcher error")
		}
	}
}

// Close освобождает ресурсы наблюдателя.
func (w *DatasetWatcher) Close() error {
	return w.watcher.Close()
}
