package transcription

import (
	"context"
	"fmt"

	"github.com/santhosh-thouda/podcast-summarizer/config"
	"github.com/santhosh-thouda/podcast-summarizer/media"
	"github.com/santhosh-thouda/podcast-summarizer/scripts"
	"github.com/santhosh-thouda/podcast-summarizer/storage"
	"github.com/sirupsen/logrus"
)

// Transcriber turns a local audio file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

// Dependencies are the shared pieces a backend may need besides its config.
type Dependencies struct {
	Runner    scripts.Runner
	Extractor media.Extractor
	TempDir   *storage.TempDir
	Logger    *logrus.Logger
}

// New builds the configured backend. It is called once at startup.
func New(cfg config.TranscriberConfig, deps Dependencies) (Transcriber, error) {
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}

	switch cfg.Backend {
	case config.TranscriberOpenAI:
		return NewOpenAITranscriber(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.Model, deps.Logger), nil
	case config.TranscriberCommand:
		t, err := NewCommandTranscriber(CommandConfig{
			Binary:    cfg.WhisperBinary,
			ModelPath: cfg.ModelPath,
		}, deps)
		if err != nil {
			return nil, err
		}
		return t, nil
	default:
		return nil, fmt.Errorf("unknown transcriber backend %q", cfg.Backend)
	}
}
