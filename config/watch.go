package config

import (
	"io"
	"log"

	"github.com/fsnotify/fsnotify"

	"github.com/apkguard/apkguard/rule"
)

// RulePackWatcher reloads a rule-pack directory whenever fsnotify reports a
// write, create, remove, or rename under it, and hands the freshly loaded
// Pack to OnReload. A failed reload is logged and the previous Pack keeps
// serving; watching never stops because one file was mid-write.
type RulePackWatcher struct {
	dir      string
	watcher  *fsnotify.Watcher
	OnReload func(*rule.Pack)
	log      *log.Logger
}

// NewRulePackWatcher creates a watcher over dir. Call Run to start it.
// A nil logger discards log output, matching how a quiet collaborator
// defaults until the CLI's -v flag requests stderr.
func NewRulePackWatcher(dir string, onReload func(*rule.Pack), logger *log.Logger) (*RulePackWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &RulePackWatcher{dir: dir, watcher: w, OnReload: onReload, log: logger}, nil
}

// Run blocks, reloading the rule pack on every relevant filesystem event,
// until stop is closed or the underlying watcher's channels are closed.
// Errors reported by the watcher are logged and watching continues.
func (w *RulePackWatcher) Run(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			_ = w.watcher.Close()
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Printf("rule pack watcher error: %v", err)
		}
	}
}

func (w *RulePackWatcher) reload() {
	pack, err := rule.LoadDir(w.dir)
	if err != nil {
		w.log.Printf("rule pack reload failed for %s, keeping previous pack: %v", w.dir, err)
		return
	}
	w.log.Printf("rule pack reloaded from %s: %d rules", w.dir, len(pack.Rules))
	if w.OnReload != nil {
		w.OnReload(pack)
	}
}

// Close releases the underlying fsnotify watcher without waiting for Run's
// select loop to observe a stop signal.
func (w *RulePackWatcher) Close() error {
	return w.watcher.Close()
}
