package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	DefaultHFAPIURL = "https://api-inference.huggingface.co/models"
	DefaultHFModel  = "sshleifer/distilbart-cnn-12-6"

	// maxErrorBody caps how much of a failed response ends up in an error.
	maxErrorBody = 4 << 10
)

type HuggingFaceConfig struct {
	APIURL     string
	Model      string
	Token      string
	ChunkWords int
	Client     *http.Client
}

// HuggingFaceSummarizer calls the Inference API summarization pipeline for a
// hosted seq2seq model.
type HuggingFaceSummarizer struct {
	endpoint   string
	token      string
	chunkWords int
	client     *http.Client
	logger     *logrus.Logger
}

type hfRequest struct {
	Inputs     []string     `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfParameters struct {
	MaxLength int  `json:"max_length"`
	MinLength int  `json:"min_length"`
	DoSample  bool `json:"do_sample"`
}

type hfError struct {
	Error string `json:"error"`
}

// NewHuggingFaceSummarizer creates a summarizer for cfg.Model.
func NewHuggingFaceSummarizer(cfg HuggingFaceConfig, logger *logrus.Logger) *HuggingFaceSummarizer {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultHFAPIURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultHFModel
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{}
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &HuggingFaceSummarizer{
		endpoint:   strings.TrimSuffix(cfg.APIURL, "/") + "/" + cfg.Model,
		token:      cfg.Token,
		chunkWords: cfg.ChunkWords,
		client:     cfg.Client,
		logger:     logger,
	}
}

func (s *HuggingFaceSummarizer) Summarize(ctx context.Context, text string, params Params) ([]Segment, error) {
	chunks := SplitText(text, s.chunkWords)
	if len(chunks) == 0 {
		return nil, errEmptyInput
	}

	body, err := json.Marshal(hfRequest{
		Inputs: chunks,
		Parameters: hfParameters{
			MaxLength: params.MaxLength,
			MinLength: params.MinLength,
			DoSample:  !params.Deterministic,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "encode summarization request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "build summarization request")
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	s.logger.WithFields(logrus.Fields{
		"endpoint": s.endpoint,
		"chunks":   len(chunks),
	}).Debug("Requesting summary")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "summarization request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, s.responseError(resp)
	}

	var segments []Segment
	if err := json.NewDecoder(resp.Body).Decode(&segments); err != nil {
		return nil, errors.Wrap(err, "decode summarization response")
	}
	if len(segments) == 0 {
		return nil, errors.New("summarization returned no segments")
	}
	return segments, nil
}

func (s *HuggingFaceSummarizer) responseError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var apiErr hfError
	if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Error != "" {
		return fmt.Errorf("summarization failed (status %d): %s", resp.StatusCode, apiErr.Error)
	}
	return fmt.Errorf("summarization failed (status %d): %s", resp.StatusCode, strings.TrimSpace(string(raw)))
}
