package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	DefaultOpenAIModel = "gpt-4o-mini"

	// tokensPerWord is a rough ratio used to turn Params into an output cap.
	tokensPerWord = 2
)

type OpenAIConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	ChunkWords int
}

// OpenAISummarizer summarizes each chunk with one Responses API call.
type OpenAISummarizer struct {
	client     openai.Client
	model      string
	chunkWords int
	logger     *logrus.Logger
}

// NewOpenAISummarizer creates a new summarizer instance. SDK retries are
// disabled.
func NewOpenAISummarizer(cfg OpenAIConfig, logger *logrus.Logger) *OpenAISummarizer {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIModel
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &OpenAISummarizer{
		client:     openai.NewClient(opts...),
		model:      cfg.Model,
		chunkWords: cfg.ChunkWords,
		logger:     logger,
	}
}

func (s *OpenAISummarizer) Summarize(ctx context.Context, text string, params Params) ([]Segment, error) {
	chunks := SplitText(text, s.chunkWords)
	if len(chunks) == 0 {
		return nil, errEmptyInput
	}

	segments := make([]Segment, 0, len(chunks))
	for i, chunk := range chunks {
		s.logger.WithFields(logrus.Fields{
			"chunk": i + 1,
			"total": len(chunks),
			"model": s.model,
		}).Debug("Processing chunk")

		summary, err := s.summarizeChunk(ctx, chunk, params)
		if err != nil {
			return nil, err
		}
		segments = append(segments, Segment{SummaryText: summary})
	}
	return segments, nil
}

func (s *OpenAISummarizer) summarizeChunk(ctx context.Context, chunk string, params Params) (string, error) {
	req := responses.ResponseNewParams{
		Model:        s.model,
		Instructions: openai.String(instructions(params)),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(chunk),
		},
	}
	if params.MaxLength > 0 {
		req.MaxOutputTokens = openai.Int(int64(params.MaxLength * tokensPerWord))
	}
	if params.Deterministic {
		req.Temperature = openai.Float(0)
	}

	resp, err := s.client.Responses.New(ctx, req)
	if err != nil {
		return "", errors.Wrap(err, "openai summarization")
	}

	summary := strings.TrimSpace(resp.OutputText())
	if summary == "" {
		return "", fmt.Errorf("output text is missing (status = %s)", resp.Status)
	}
	return summary, nil
}

func instructions(params Params) string {
	var b strings.Builder
	b.WriteString("Summarize the following podcast transcript excerpt in plain prose.")
	if params.MinLength > 0 && params.MaxLength > 0 {
		fmt.Fprintf(&b, " Use between %d and %d words.", params.MinLength, params.MaxLength)
	} else if params.MaxLength > 0 {
		fmt.Fprintf(&b, " Use at most %d words.", params.MaxLength)
	}
	b.WriteString(" Keep names, numbers and key claims. Do not add information that is not in the text.")
	return b.String()
}
