package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type failingReader struct{}

func (failingReader) Read(p []byte) (int, error) {
	return 0, errors.New("connection reset")
}

func newTestDir(t *testing.T) *TempDir {
	t.Helper()
	d, err := NewTempDir(filepath.Join(t.TempDir(), "uploads"), nil)
	if err != nil {
		t.Fatalf("NewTempDir() error = %v", err)
	}
	return d
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	return len(entries)
}

func TestSaveAndRelease(t *testing.T) {
	d := newTestDir(t)

	tf, err := d.Save("txt", strings.NewReader("Hello world"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if filepath.Ext(tf.Path) != ".txt" {
		t.Errorf("expected .txt extension, got %s", tf.Path)
	}
	if tf.Size != int64(len("Hello world")) {
		t.Errorf("expected size 11, got %d", tf.Size)
	}

	data, err := os.ReadFile(tf.Path)
	if err != nil {
		t.Fatalf("failed to read temp file: %v", err)
	}
	if string(data) != "Hello world" {
		t.Errorf("unexpected content %q", data)
	}

	if err := tf.Release(); err != nil {
		t.Errorf("Release() error = %v", err)
	}
	if err := tf.Release(); err != nil {
		t.Errorf("second Release() error = %v", err)
	}
	if _, err := os.Stat(tf.Path); !os.IsNotExist(err) {
		t.Errorf("expected file to be removed, stat err = %v", err)
	}
}

func TestSaveFailureLeavesNothing(t *testing.T) {
	d := newTestDir(t)

	if _, err := d.Save("mp3", failingReader{}); err == nil {
		t.Fatal("expected error from failing reader")
	}
	if n := countFiles(t, d.Dir()); n != 0 {
		t.Errorf("expected empty temp dir, found %d files", n)
	}
}

func TestUniqueNames(t *testing.T) {
	d := newTestDir(t)

	a, err := d.Save("mp3", strings.NewReader("a"))
	if err != nil {
		t.Fatal(err)
	}
	defer a.Release()
	b, err := d.Save("mp3", strings.NewReader("b"))
	if err != nil {
		t.Fatal(err)
	}
	defer b.Release()

	if a.Path == b.Path {
		t.Errorf("expected distinct paths, both are %s", a.Path)
	}
}

func TestTrackReleasesMissingFile(t *testing.T) {
	d := newTestDir(t)

	tf := d.Track(d.Path(".wav"))
	if !strings.HasSuffix(tf.Path, ".wav") {
		t.Errorf("expected .wav suffix, got %s", tf.Path)
	}
	if err := tf.Release(); err != nil {
		t.Errorf("releasing a file that was never created should not fail: %v", err)
	}

	var nilFile *TempFile
	if err := nilFile.Release(); err != nil {
		t.Errorf("nil Release() error = %v", err)
	}
}

func TestSweep(t *testing.T) {
	d := newTestDir(t)

	old, err := d.Save("wav", strings.NewReader("old"))
	if err != nil {
		t.Fatal(err)
	}
	fresh, err := d.Save("wav", strings.NewReader("fresh"))
	if err != nil {
		t.Fatal(err)
	}
	defer fresh.Release()

	past := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(old.Path, past, past); err != nil {
		t.Fatal(err)
	}

	removed, err := d.Sweep(time.Hour)
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 removed file, got %d", removed)
	}
	if _, err := os.Stat(fresh.Path); err != nil {
		t.Errorf("fresh file should survive: %v", err)
	}
}

func TestNewTempDirRequiresPath(t *testing.T) {
	if _, err := NewTempDir("", nil); err == nil {
		t.Error("expected error for empty dir")
	}
}
