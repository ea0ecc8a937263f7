package tables

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/condmon/acmcfg/internal/model"
)

// Watch reports external edits to the data directory. It emits the table
// name for every create/write/rename touching one of the six table files
// until ctx is cancelled. Temp files from in-flight atomic writes are
// filtered out; the rename that lands them is what gets reported.
//
// Callers typically respond by calling Reload before their next read.
func (s *Store) Watch(ctx context.Context) (<-chan string, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, model.WrapIO("create watcher", err)
	}
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return nil, model.WrapIO("watch data dir", err)
	}

	changed := make(chan string)
	go func() {
		defer watcher.Close()
		defer close(changed)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				table, ok := tableForFile(event.Name)
				if !ok {
					continue
				}
				if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
					continue
				}
				s.logger.Debug("external table change",
					zap.String("table", table),
					zap.String("op", event.Op.String()))
				select {
				case changed <- table:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warn("watcher error", zap.Error(err))
			}
		}
	}()
	return changed, nil
}

// tableForFile maps an event path to a table name. Paths that are not
// exactly <table>.csv (temp files included) return false.
func tableForFile(path string) (string, bool) {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, ".csv") {
		return "", false
	}
	name := strings.TrimSuffix(base, ".csv")
	for _, table := range AllTables {
		if name == table {
			return table, true
		}
	}
	return "", false
}
