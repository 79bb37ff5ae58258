package summarize

import (
	"context"
	"os"
	"unicode/utf8"

	"github.com/santhosh-thouda/podcast-summarizer/errors"
	"github.com/santhosh-thouda/podcast-summarizer/media"
	"github.com/santhosh-thouda/podcast-summarizer/middleware"
	"github.com/santhosh-thouda/podcast-summarizer/models"
	"github.com/santhosh-thouda/podcast-summarizer/storage"
	"github.com/santhosh-thouda/podcast-summarizer/summary"
	"github.com/santhosh-thouda/podcast-summarizer/transcription"
	"github.com/santhosh-thouda/podcast-summarizer/validation"
	"github.com/sirupsen/logrus"
)

type service struct {
	transcriber transcription.Transcriber
	summarizer  summary.Summarizer
	extractor   media.Extractor
	tempDir     *storage.TempDir
	config      Config
	logger      *logrus.Logger
}

// NewService creates the summarize pipeline. The transcriber and summarizer
// are shared by all requests and must be safe for concurrent use.
func NewService(
	transcriber transcription.Transcriber,
	summarizer summary.Summarizer,
	extractor media.Extractor,
	tempDir *storage.TempDir,
	config Config,
	logger *logrus.Logger,
) Service {
	if config.Params == (summary.Params{}) {
		config.Params = summary.DefaultParams()
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &service{
		transcriber: transcriber,
		summarizer:  summarizer,
		extractor:   extractor,
		tempDir:     tempDir,
		config:      config,
		logger:      logger,
	}
}

func (s *service) TranscriptFromUpload(ctx context.Context, upload models.Upload) (string, error) {
	const op = "SummarizeService.TranscriptFromUpload"
	logger := s.log(ctx).WithFields(logrus.Fields{
		"filename": upload.Filename,
		"kind":     upload.Kind,
		"size":     upload.Size,
	})

	if !upload.IsSupported() {
		logger.Info("Ignoring upload with unsupported extension")
		return "", nil
	}

	saved, err := s.tempDir.Save(upload.Extension, upload.Content)
	if err != nil {
		return "", errors.Internal(op, err, "")
	}
	defer saved.Release()

	logger.WithField("saved_bytes", saved.Size).Debug("Saved upload")

	switch upload.Kind {
	case models.KindVideo:
		return s.transcribeVideo(ctx, saved.Path)
	case models.KindAudio:
		return s.transcribe(ctx, saved.Path)
	default:
		return readText(saved.Path)
	}
}

func (s *service) transcribeVideo(ctx context.Context, videoPath string) (string, error) {
	const op = "SummarizeService.transcribeVideo"

	audio := s.tempDir.Track(s.tempDir.Path("wav"))
	defer audio.Release()

	if err := s.extractor.ExtractAudio(ctx, videoPath, audio.Path); err != nil {
		return "", errors.Internal(op, err, "")
	}
	return s.transcribe(ctx, audio.Path)
}

func (s *service) transcribe(ctx context.Context, path string) (string, error) {
	const op = "SummarizeService.transcribe"

	text, err := s.transcriber.Transcribe(ctx, path)
	if err != nil {
		return "", errors.Internal(op, err, "")
	}
	return text, nil
}

// log returns an entry tagged with the request id carried by ctx.
func (s *service) log(ctx context.Context) *logrus.Entry {
	entry := s.logger.WithContext(ctx)
	if id := middleware.GetRequestID(ctx); id != "" {
		entry = entry.WithField("request_id", id)
	}
	return entry
}

func readText(path string) (string, error) {
	const op = "SummarizeService.readText"

	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Internal(op, err, "")
	}
	if !utf8.Valid(data) {
		return "", errors.Internal(op, nil, "text file is not valid UTF-8")
	}
	return string(data), nil
}

func (s *service) Summarize(ctx context.Context, transcript string) (*models.SummaryResponse, error) {
	const op = "SummarizeService.Summarize"

	if err := validation.ValidateTranscript(transcript); err != nil {
		return nil, err
	}

	logger := s.log(ctx).WithField("chars", len(transcript))
	logger.Debug("Summarizing transcript")

	segments, err := s.summarizer.Summarize(ctx, transcript, s.config.Params)
	if err != nil {
		logger.WithError(err).Error("Summarization failed")
		return nil, errors.Internal(op, err, "")
	}

	return &models.SummaryResponse{Summary: summary.Join(segments)}, nil
}
