package prefabs

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultQuiet is how long a file must stay untouched before its change is
// reported.
const DefaultQuiet = 100 * time.Millisecond

type ChangeKind int

const (
	ChangePrefab ChangeKind = iota
	ChangeScript
)

func (k ChangeKind) String() string {
	if k == ChangeScript {
		return "script"
	}
	return "prefab"
}

// Change is one settled edit to a prefab or script on disk.
type Change struct {
	Path string
	// Name is the file's name as Load and LoadScript expect it.
	Name string
	Kind ChangeKind
}

// Watcher reports prefab and script edits once each file has been quiet for
// Quiet, so an editor writing in several chunks yields a single Change.
type Watcher struct {
	Changes chan Change
	Errors  chan error

	fs    *fsnotify.Watcher
	quiet time.Duration
	stop  chan struct{}
	done  chan struct{}
	once  sync.Once
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	return NewWatcherQuiet(DefaultQuiet, dirs...)
}

func NewWatcherQuiet(quiet time.Duration, dirs ...string) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fs.Add(dir); err != nil {
			_ = fs.Close()
			return nil, err
		}
	}
	if quiet <= 0 {
		quiet = DefaultQuiet
	}

	w := &Watcher{
		Changes: make(chan Change, 16),
		Errors:  make(chan error, 1),
		fs:      fs,
		quiet:   quiet,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Close stops the watcher and closes Changes and Errors.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.stop)
		err = w.fs.Close()
		<-w.done
		close(w.Changes)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)

	pending := make(map[string]time.Time)
	timer := time.NewTimer(w.quiet)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if _, ok := classify(event.Name); !ok {
				continue
			}
			pending[event.Name] = time.Now()
			timer.Reset(w.quiet)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-timer.C:
			if !w.flush(pending) {
				return
			}
			if len(pending) > 0 {
				timer.Reset(w.quiet)
			}
		case <-w.stop:
			return
		}
	}
}

// flush emits every pending path that has settled, in path order. It
// returns false once the watcher is stopping.
func (w *Watcher) flush(pending map[string]time.Time) bool {
	now := time.Now()
	settled := make([]string, 0, len(pending))
	for path, at := range pending {
		if now.Sub(at) >= w.quiet {
			settled = append(settled, path)
		}
	}
	sort.Strings(settled)

	for _, path := range settled {
		delete(pending, path)
		kind, _ := classify(path)
		select {
		case w.Changes <- Change{Path: path, Name: Name(path), Kind: kind}:
		case <-w.stop:
			return false
		}
	}
	return true
}

func classify(path string) (ChangeKind, bool) {
	switch {
	case isScriptFile(path):
		return ChangeScript, true
	case isPrefabFile(path):
		return ChangePrefab, true
	}
	return 0, false
}

func isPrefabFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func isScriptFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".tengo"
}
