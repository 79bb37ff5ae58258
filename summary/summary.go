package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/santhosh-thouda/podcast-summarizer/config"
	"github.com/santhosh-thouda/podcast-summarizer/scripts"
	"github.com/sirupsen/logrus"
)

// DefaultChunkWords is used when a backend is built without a chunk size.
const DefaultChunkWords = 600

var errEmptyInput = errors.New("input is empty")

// Summarizer produces an ordered list of summary segments for a text.
type Summarizer interface {
	Summarize(ctx context.Context, text string, params Params) ([]Segment, error)
}

// Params bound the length of each generated segment, in model tokens.
type Params struct {
	MaxLength     int
	MinLength     int
	Deterministic bool
}

// DefaultParams returns the fixed parameters used for every request.
func DefaultParams() Params {
	return Params{MaxLength: 120, MinLength: 30, Deterministic: true}
}

// Segment is one piece of generated summary, shaped like a Hugging Face
// summarization result.
type Segment struct {
	SummaryText string `json:"summary_text"`
}

// Join concatenates segment texts with newlines, keeping their order.
func Join(segments []Segment) string {
	parts := make([]string, len(segments))
	for i, s := range segments {
		parts[i] = s.SummaryText
	}
	return strings.Join(parts, "\n")
}

// SplitText breaks text into chunks of at most size words. Text that already
// fits is returned unchanged as a single chunk.
func SplitText(text string, size int) []string {
	if size <= 0 {
		size = DefaultChunkWords
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if len(words) <= size {
		return []string{strings.TrimSpace(text)}
	}

	chunks := make([]string, 0, (len(words)+size-1)/size)
	for i := 0; i < len(words); i += size {
		end := i + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	return chunks
}

// New builds the configured backend. It is called once at startup.
func New(cfg config.SummarizerConfig, runner scripts.Runner, logger *logrus.Logger) (Summarizer, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	switch cfg.Backend {
	case config.SummarizerHuggingFace:
		return NewHuggingFaceSummarizer(HuggingFaceConfig{
			APIURL:     cfg.HFAPIURL,
			Model:      cfg.HFModel,
			Token:      cfg.HFAPIToken,
			ChunkWords: cfg.ChunkWords,
		}, logger), nil
	case config.SummarizerOpenAI:
		return NewOpenAISummarizer(OpenAIConfig{
			APIKey:     cfg.OpenAIAPIKey,
			BaseURL:    cfg.OpenAIBaseURL,
			Model:      cfg.OpenAIModel,
			ChunkWords: cfg.ChunkWords,
		}, logger), nil
	case config.SummarizerCommand:
		s, err := NewCommandSummarizer(cfg.Command, cfg.ChunkWords, runner, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown summarizer backend %q", cfg.Backend)
	}
}
