package transcription

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

// OpenAITranscriber sends audio to the OpenAI transcription endpoint or to
// any server that speaks the same API.
type OpenAITranscriber struct {
	client *openai.Client
	model  string
	logger *logrus.Logger
}

// NewOpenAITranscriber creates a transcriber. An empty model uses whisper-1.
func NewOpenAITranscriber(apiKey, baseURL, model string, logger *logrus.Logger) *OpenAITranscriber {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimSuffix(baseURL, "/")
	}
	if model == "" {
		model = openai.Whisper1
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &OpenAITranscriber{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		logger: logger,
	}
}

func (t *OpenAITranscriber) Transcribe(ctx context.Context, path string) (string, error) {
	t.logger.WithFields(logrus.Fields{
		"path":  path,
		"model": t.model,
	}).Debug("Starting transcription")

	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		FilePath: path,
	})
	if err != nil {
		return "", errors.Wrap(err, "openai transcription")
	}

	return strings.TrimSpace(resp.Text), nil
}
