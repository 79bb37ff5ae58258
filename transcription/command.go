package transcription

import (
	"context"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/santhosh-thouda/podcast-summarizer/validation"
	"github.com/sirupsen/logrus"
)

// CommandConfig configures the whisper.cpp CLI.
type CommandConfig struct {
	Binary    string // whisper.cpp CLI, e.g. whisper-cli
	ModelPath string // ggml model file
	Language  string // defaults to auto detection
}

// CommandTranscriber runs a local whisper.cpp build. whisper.cpp only reads
// 16kHz WAV, so other inputs are converted first.
type CommandTranscriber struct {
	config CommandConfig
	deps   Dependencies
}

func NewCommandTranscriber(cfg CommandConfig, deps Dependencies) (*CommandTranscriber, error) {
	if cfg.Binary == "" || cfg.ModelPath == "" {
		return nil, errors.New("whisper binary and model path are required")
	}
	if deps.Runner == nil || deps.Extractor == nil || deps.TempDir == nil {
		return nil, errors.New("command transcriber needs a runner, an extractor and a temp dir")
	}
	if cfg.Language == "" {
		cfg.Language = "auto"
	}
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	return &CommandTranscriber{config: cfg, deps: deps}, nil
}

func (t *CommandTranscriber) Transcribe(ctx context.Context, path string) (string, error) {
	input := path
	if validation.Extension(path) != "wav" {
		wav := t.deps.TempDir.Track(t.deps.TempDir.Path("wav"))
		defer wav.Release()

		if err := t.deps.Extractor.ExtractAudio(ctx, path, wav.Path); err != nil {
			return "", errors.Wrap(err, "convert audio for whisper")
		}
		input = wav.Path
	}

	prefix := t.deps.TempDir.Path("")
	out := t.deps.TempDir.Track(prefix + ".txt")
	defer out.Release()

	args := []string{
		"-m", t.config.ModelPath,
		"-f", input,
		"-l", t.config.Language,
		"-otxt",
		"-of", prefix,
		"-np",
	}

	t.deps.Logger.WithFields(logrus.Fields{
		"path":  input,
		"model": t.config.ModelPath,
	}).Debug("Starting whisper.cpp transcription")

	if _, err := t.deps.Runner.Run(ctx, t.config.Binary, args...); err != nil {
		return "", errors.Wrap(err, "whisper transcribe")
	}

	data, err := os.ReadFile(out.Path)
	if err != nil {
		return "", errors.Wrap(err, "read whisper output")
	}

	return joinLines(string(data)), nil
}

// joinLines flattens whisper.cpp's one-segment-per-line output.
func joinLines(text string) string {
	lines := strings.Split(text, "\n")
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " ")
}
