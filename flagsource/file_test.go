package flagsource_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/palisade/boundary.go/flagsource"
	"github.com/palisade/boundary.go/log"
)

func writeFlagFile(tb testing.TB, path, content string) {
	tb.Helper()
	// Write to a temp file then rename, like config pushers do,
	// so the watcher sees a CREATE event.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0644); err != nil {
		tb.Fatal(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		tb.Fatal(err)
	}
}

func TestWatchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flags.yaml")
	writeFlagFile(t, path, "debug: false\nsend_notifications: true\n")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	f, err := flagsource.WatchFile(ctx, flagsource.FileConfig{
		Path:   path,
		Logger: log.TestWrapper(t),
	})
	if err != nil {
		t.Fatal(err)
	}
	defer f.Stop()

	t.Run("initial-read", func(t *testing.T) {
		value, err := f.Flag("send_notifications")
		if err != nil {
			t.Fatal(err)
		}
		if !value {
			t.Error("Expected send_notifications to be true")
		}
		if _, err := f.Flag("no_such_flag"); err == nil {
			t.Error("Expected a missing flag to be an error")
		}
	})

	t.Run("reload", func(t *testing.T) {
		writeFlagFile(t, path, "debug: true\nsend_notifications: true\n")

		deadline := time.Now().Add(2 * time.Second)
		for {
			value, err := f.Flag("debug")
			if err != nil {
				t.Fatal(err)
			}
			if value {
				break
			}
			if time.Now().After(deadline) {
				t.Fatal("Timed out waiting for the flag file reload")
			}
			time.Sleep(10 * time.Millisecond)
		}
	})
}

func TestWatchFileMissing(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := flagsource.WatchFile(ctx, flagsource.FileConfig{
		Path: filepath.Join(t.TempDir(), "never-created.yaml"),
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected a context deadline error while waiting for the file, got %v", err)
	}
}

func TestWatchFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flags.yaml")
	writeFlagFile(t, path, "debug: [not, a, bool]\n")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err := flagsource.WatchFile(ctx, flagsource.FileConfig{Path: path}); err == nil {
		t.Error("Expected a parse error from the initial read")
	}
}
