package summarize

import (
	"context"

	"github.com/santhosh-thouda/podcast-summarizer/models"
	"github.com/santhosh-thouda/podcast-summarizer/summary"
)

// Service turns request input into a summary.
type Service interface {
	// TranscriptFromUpload resolves an uploaded file to transcript text.
	// Unsupported uploads resolve to an empty transcript.
	TranscriptFromUpload(ctx context.Context, upload models.Upload) (string, error)
	Summarize(ctx context.Context, transcript string) (*models.SummaryResponse, error)
}

type Config struct {
	Params summary.Params
}
