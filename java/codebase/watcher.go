package codebase

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher keeps a Codebase current with the files under its root and
// with its dictionary. OnChange, when set, receives every file whose
// analysis was refreshed. Disk changes to paths for which Ignore reports
// true are dropped.
type FileWatcher struct {
	codebase *Codebase
	watcher  *fsnotify.Watcher
	stopCh   chan struct{}
	doneCh   chan struct{}
	started  bool

	OnChange func(f *FileInfo)
	OnRemove func(path string)
	Ignore   func(path string) bool
}

func NewFileWatcher(c *Codebase) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &FileWatcher{
		codebase: c,
		watcher:  w,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start registers the root directory tree and the dictionary with the
// operating system and begins processing events in the background.
func (w *FileWatcher) Start() error {
	if err := w.addTree(w.codebase.RootDir()); err != nil {
		return err
	}
	if dict := w.codebase.DictionaryPath(); dict != "" {
		// Editors replace files on save, so watch the directory.
		if err := w.watcher.Add(filepath.Dir(dict)); err != nil {
			log.Warningf("cannot watch dictionary %s: %s", dict, err)
		}
	}
	w.started = true
	go w.run()
	return nil
}

// Stop ends event processing and releases the watcher.
func (w *FileWatcher) Stop() error {
	close(w.stopCh)
	err := w.watcher.Close()
	if w.started {
		<-w.doneCh
	}
	return err
}

func (w *FileWatcher) addTree(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(info.Name(), ".") {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

func (w *FileWatcher) run() {
	defer close(w.doneCh)
	for {
		select {
		case <-w.stopCh:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Errorf("watch: %s", err)
		}
	}
}

func (w *FileWatcher) handle(ev fsnotify.Event) {
	log.Debugf("watch event %s", ev)

	if dict := w.codebase.DictionaryPath(); dict != "" && sameFile(ev.Name, dict) {
		if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
			log.Infof("dictionary %s changed, re-analyzing", dict)
			for _, f := range w.codebase.Reanalyze() {
				w.changed(f)
			}
		}
		return
	}

	switch {
	case ev.Op&fsnotify.Create != 0:
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.addTree(ev.Name); err != nil {
				log.Warningf("watch %s: %s", ev.Name, err)
			}
			return
		}
		w.rescan(ev.Name)
	case ev.Op&fsnotify.Write != 0:
		w.rescan(ev.Name)
	case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		if w.codebase.GetFile(ev.Name) == nil {
			return
		}
		w.codebase.RemoveFile(ev.Name)
		if w.OnRemove != nil {
			w.OnRemove(ev.Name)
		}
	}
}

func (w *FileWatcher) rescan(path string) {
	if !IsSource(path) || (w.Ignore != nil && w.Ignore(path)) {
		return
	}
	if err := w.codebase.ScanFile(path); err != nil {
		log.Warningf("rescan %s: %s", path, err)
		return
	}
	w.changed(w.codebase.GetFile(path))
}

func (w *FileWatcher) changed(f *FileInfo) {
	if f != nil && w.OnChange != nil {
		w.OnChange(f)
	}
}

func sameFile(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}
