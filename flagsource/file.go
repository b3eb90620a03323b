package flagsource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"gopkg.in/fsnotify.v1"
	yaml "gopkg.in/yaml.v2"

	boundary "github.com/palisade/boundary.go"
	"github.com/palisade/boundary.go/log"
)

var _ boundary.Settings = (*File)(nil)

// InitialReadInterval is the interval to keep retrying to open the flag
// file when creating a new File, when the file was not initially available.
//
// It's intentionally defined as a variable instead of constant, so that the
// caller can tweak its value when needed.
var InitialReadInterval = time.Second / 2

// FileConfig defines the config to be used in WatchFile.
//
// Can be deserialized from YAML.
type FileConfig struct {
	// The path to the flag file to be watched, required.
	//
	// The file itself is YAML, a flat mapping of flag names to booleans:
	//
	//	debug: false
	//	send_notifications: true
	Path string `yaml:"path"`

	// Optional. When non-nil, it will be used to log errors,
	// either from reparsing the file or from the underlying file system
	// watcher. Errors from the initial read are returned by WatchFile
	// directly instead.
	Logger log.Wrapper `yaml:"-"`
}

// File is a settings source backed by a YAML flag file on disk,
// reloaded automatically whenever the file changes.
//
// Reload failures keep the last good snapshot,
// they never make existing flags disappear mid-flight.
type File struct {
	flags atomic.Value // map[string]bool

	ctx    context.Context
	cancel context.CancelFunc
}

// WatchFile reads the flag file at cfg.Path and starts watching it for
// changes.
//
// If the path is not available at the time of calling,
// it blocks until the file becomes available, or the context is cancelled,
// whichever comes first.
func WatchFile(ctx context.Context, cfg FileConfig) (*File, error) {
	flags, err := loadInitial(ctx, cfg.Path)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the parent directory instead of the file itself,
	// because only watching the file won't give us CREATE events,
	// which happen with atomic renames.
	if err := watcher.Add(filepath.Dir(cfg.Path)); err != nil {
		watcher.Close()
		return nil, err
	}

	f := &File{}
	f.flags.Store(flags)
	f.ctx, f.cancel = context.WithCancel(context.Background())
	go f.watcherLoop(watcher, cfg.Path, cfg.Logger)
	return f, nil
}

func loadInitial(ctx context.Context, path string) (map[string]bool, error) {
	for {
		select {
		default:
		case <-ctx.Done():
			return nil, fmt.Errorf(
				"flagsource: context cancelled while waiting for file under %q to load: %w",
				path,
				ctx.Err(),
			)
		}

		flags, err := readFlags(path)
		if errors.Is(err, os.ErrNotExist) {
			time.Sleep(InitialReadInterval)
			continue
		}
		if err != nil {
			return nil, err
		}
		return flags, nil
	}
}

func readFlags(path string) (map[string]bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() // safe to blindly close read-only files
	return parseFlags(f)
}

func parseFlags(r io.Reader) (map[string]bool, error) {
	flags := make(map[string]bool)
	dec := yaml.NewDecoder(r)
	dec.SetStrict(true)
	if err := dec.Decode(&flags); err != nil {
		return nil, fmt.Errorf("flagsource: parsing flag file: %w", err)
	}
	return flags, nil
}

func (f *File) watcherLoop(watcher *fsnotify.Watcher, path string, logger log.Wrapper) {
	file := filepath.Base(path)
	for {
		select {
		case <-f.ctx.Done():
			watcher.Close()
			return

		case err := <-watcher.Errors:
			logger.Log("flagsource: watcher error: " + err.Error())

		case ev := <-watcher.Events:
			if filepath.Base(ev.Name) != file {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				// Ignore uninterested events.
				continue
			}
			flags, err := readFlags(path)
			if err != nil {
				logger.Log("flagsource: reload error: " + err.Error())
				continue
			}
			f.flags.Store(flags)
		}
	}
}

// Flag implements boundary.Settings against the latest snapshot of the
// flag file.
func (f *File) Flag(name string) (bool, error) {
	flags := f.flags.Load().(map[string]bool)
	value, ok := flags[name]
	if !ok {
		return false, &MissingFlagError{Name: name}
	}
	return value, nil
}

// Stop stops watching the flag file.
//
// After Stop is called you won't get any updates on the file content,
// but Flag keeps serving the last snapshot read before stopping.
//
// It's OK to call Stop multiple times.
// Calls after the first one are essentially no-op.
func (f *File) Stop() {
	f.cancel()
}
