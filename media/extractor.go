package media

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/santhosh-thouda/podcast-summarizer/scripts"
	"github.com/sirupsen/logrus"
)

// Extractor pulls the audio track out of a video file.
type Extractor interface {
	ExtractAudio(ctx context.Context, videoPath, audioPath string) error
}

// FFmpegExtractor writes a 16kHz mono PCM WAV, the input format Whisper
// models are trained on.
type FFmpegExtractor struct {
	binary string
	runner scripts.Runner
	logger *logrus.Logger
}

func NewFFmpegExtractor(binary string, runner scripts.Runner, logger *logrus.Logger) *FFmpegExtractor {
	if binary == "" {
		binary = "ffmpeg"
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &FFmpegExtractor{binary: binary, runner: runner, logger: logger}
}

func (e *FFmpegExtractor) ExtractAudio(ctx context.Context, videoPath, audioPath string) error {
	logger := e.logger.WithFields(logrus.Fields{
		"video": videoPath,
		"audio": audioPath,
	})
	logger.Debug("Extracting audio track")

	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-i", videoPath,
		"-vn",
		"-ar", "16000",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-y",
		audioPath,
	}

	if _, err := e.runner.Run(ctx, e.binary, args...); err != nil {
		return errors.Wrap(err, "ffmpeg extract audio")
	}

	info, err := os.Stat(audioPath)
	if err != nil {
		return errors.Wrap(err, "ffmpeg produced no audio file")
	}
	if info.Size() == 0 {
		return errors.New("video has no audio track")
	}

	logger.WithField("size", info.Size()).Debug("Audio extracted")
	return nil
}
