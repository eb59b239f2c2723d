package dashboard

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceTime = 100 * time.Millisecond

// statusPollInterval catches working-tree-only changes (new files, edits)
// that never touch the metadata directory and so are invisible to fsnotify.
const statusPollInterval = 2 * time.Second

func (d *Dashboard) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	gitDir := d.repo.GitDir()
	if err := watcher.Add(gitDir); err != nil {
		return err
	}

	// fsnotify does not recurse; refs/heads holds the branch pointer files
	// whose changes this dashboard cares about.
	headsDir := filepath.Join(gitDir, "refs", "heads")
	if info, statErr := os.Stat(headsDir); statErr == nil && info.IsDir() {
		if err := watcher.Add(headsDir); err != nil {
			d.logger.Warn("dashboard: failed to watch refs/heads", "err", err)
		}
	}

	d.wg.Add(1)
	go d.statusPollLoop()

	d.wg.Add(1)
	go d.watchLoop(watcher)

	d.logger.Info("dashboard: watching repository for changes", "gitDir", gitDir)
	return nil
}

func (d *Dashboard) statusPollLoop() {
	defer d.wg.Done()

	ticker := time.NewTicker(statusPollInterval)
	defer ticker.Stop()

	var lastJSON []byte

	for {
		select {
		case <-d.ctx.Done():
			return
		case <-ticker.C:
			st, err := d.repo.ComputeStatus()
			if err != nil {
				continue
			}
			cur, err := json.Marshal(st)
			if err != nil {
				continue
			}
			if string(cur) == string(lastJSON) {
				continue
			}
			lastJSON = cur
			d.broadcastUpdate(Update{Status: st})
		}
	}
}

func (d *Dashboard) watchLoop(watcher *fsnotify.Watcher) {
	defer d.wg.Done()
	defer func() {
		if err := watcher.Close(); err != nil {
			d.logger.Error("dashboard: failed to close watcher", "err", err)
		}
	}()

	var debounceTimer *time.Timer

	for {
		select {
		case <-d.ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if shouldIgnoreEvent(event) {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceTime, func() {
				if d.ctx.Err() != nil {
					return
				}
				d.broadcastCurrentState()
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			d.logger.Error("dashboard: watcher error", "err", err)
		}
	}
}

func (d *Dashboard) broadcastCurrentState() {
	st, err := d.repo.ComputeStatus()
	if err != nil {
		d.logger.Error("dashboard: status recompute failed", "err", err)
		return
	}
	log, err := d.commitLog(0)
	if err != nil {
		d.logger.Error("dashboard: log recompute failed", "err", err)
		return
	}
	d.broadcastUpdate(Update{Status: st, Log: log})
}

func shouldIgnoreEvent(event fsnotify.Event) bool {
	base := filepath.Base(event.Name)
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return true
	}
	if strings.HasSuffix(base, ".lock") {
		return true
	}
	return false
}
