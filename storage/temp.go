package storage

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// TempDir hands out uniquely named files inside one directory. Every file
// belongs to the caller that created it and must be released by that caller.
type TempDir struct {
	dir    string
	logger *logrus.Logger
}

// TempFile is a file on local disk that is removed by Release.
type TempFile struct {
	Path string
	Size int64

	logger *logrus.Logger
	once   sync.Once
	err    error
}

// NewTempDir creates dir if needed and returns a handle for files in it.
func NewTempDir(dir string, logger *logrus.Logger) (*TempDir, error) {
	if dir == "" {
		return nil, errors.New("temp directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create temp directory %s", dir)
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &TempDir{dir: dir, logger: logger}, nil
}

// Dir returns the directory path.
func (d *TempDir) Dir() string {
	return d.dir
}

// Path returns a fresh path in the directory without creating the file.
// Callers that let another program write there wrap it with Track.
func (d *TempDir) Path(ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	name := uuid.New().String()
	if ext != "" {
		name += "." + ext
	}
	return filepath.Join(d.dir, name)
}

// Track takes ownership of path so that Release removes it, whether or not
// the file was ever created.
func (d *TempDir) Track(path string) *TempFile {
	return &TempFile{Path: path, logger: d.logger}
}

// Save copies r into a new file with the given extension. On failure the
// partial file is already gone.
func (d *TempDir) Save(ext string, r io.Reader) (*TempFile, error) {
	tf := d.Track(d.Path(ext))

	f, err := os.OpenFile(tf.Path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create temp file")
	}

	n, copyErr := io.Copy(f, r)
	closeErr := f.Close()
	if copyErr != nil {
		tf.Release()
		return nil, errors.Wrap(copyErr, "failed to write temp file")
	}
	if closeErr != nil {
		tf.Release()
		return nil, errors.Wrap(closeErr, "failed to close temp file")
	}

	tf.Size = n
	d.logger.WithFields(logrus.Fields{
		"path": tf.Path,
		"size": n,
	}).Debug("Stored temp file")

	return tf, nil
}

// Sweep removes files older than maxAge. It is meant for leftovers of a
// previous process that died before releasing its files.
func (d *TempDir) Sweep(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return 0, errors.Wrap(err, "failed to read temp directory")
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(d.dir, entry.Name())
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			d.logger.WithError(err).WithField("path", path).Warn("Failed to sweep temp file")
			continue
		}
		removed++
	}

	if removed > 0 {
		d.logger.WithField("removed", removed).Info("Swept stale temp files")
	}
	return removed, nil
}

// Release deletes the file. It is safe to call more than once and on a nil
// receiver, so it can be deferred right after creation.
func (f *TempFile) Release() error {
	if f == nil {
		return nil
	}
	f.once.Do(func() {
		if err := os.Remove(f.Path); err != nil && !os.IsNotExist(err) {
			f.err = errors.Wrapf(err, "failed to remove temp file %s", f.Path)
			f.logger.WithError(err).WithField("path", f.Path).Warn("Failed to cleanup temp file")
			return
		}
		f.logger.WithField("path", f.Path).Debug("Cleaned up temp file")
	})
	return f.err
}
