package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/santhosh-thouda/podcast-summarizer/config"
	"github.com/sirupsen/logrus"
)

func TestNewWritesToFile(t *testing.T) {
	dir := t.TempDir()

	log, closer, err := New(config.LogConfig{Dir: dir, Level: "debug", Format: "json"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer closer.Close()
	defer logrus.SetOutput(os.Stderr)

	if log.GetLevel() != logrus.DebugLevel {
		t.Errorf("expected debug level, got %s", log.GetLevel())
	}

	log.WithField("component", "test").Info("hello file")

	data, err := os.ReadFile(filepath.Join(dir, "app.log"))
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"hello file"`) {
		t.Errorf("expected JSON entry in log file, got %s", data)
	}
}

func TestNewStdoutOnly(t *testing.T) {
	log, closer, err := New(config.LogConfig{Level: "warn", Format: "text"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer closer.Close()

	if log.GetLevel() != logrus.WarnLevel {
		t.Errorf("expected warn level, got %s", log.GetLevel())
	}
}

func TestNewInvalidLevel(t *testing.T) {
	if _, _, err := New(config.LogConfig{Level: "chatty"}); err == nil {
		t.Error("expected error for invalid level")
	}
}
