package summary

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/santhosh-thouda/podcast-summarizer/scripts"
	"github.com/sirupsen/logrus"
)

// CommandSummarizer hands each chunk to a local program on stdin. The program
// prints a JSON array of {"summary_text": ...} objects.
type CommandSummarizer struct {
	name       string
	args       []string
	chunkWords int
	runner     scripts.Runner
	logger     *logrus.Logger
}

// NewCommandSummarizer creates a summarizer running command[0] with the
// remaining elements as arguments.
func NewCommandSummarizer(command []string, chunkWords int, runner scripts.Runner, logger *logrus.Logger) (*CommandSummarizer, error) {
	if len(command) == 0 || command[0] == "" {
		return nil, errors.New("summarizer command is required")
	}
	if runner == nil {
		return nil, errors.New("summarizer command needs a runner")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &CommandSummarizer{
		name:       command[0],
		args:       command[1:],
		chunkWords: chunkWords,
		runner:     runner,
		logger:     logger,
	}, nil
}

func (s *CommandSummarizer) Summarize(ctx context.Context, text string, params Params) ([]Segment, error) {
	chunks := SplitText(text, s.chunkWords)
	if len(chunks) == 0 {
		return nil, errEmptyInput
	}

	args := append(append([]string{}, s.args...),
		"--max-length", strconv.Itoa(params.MaxLength),
		"--min-length", strconv.Itoa(params.MinLength),
	)
	if params.Deterministic {
		args = append(args, "--deterministic")
	}

	var segments []Segment
	for i, chunk := range chunks {
		s.logger.WithFields(logrus.Fields{
			"chunk": i + 1,
			"total": len(chunks),
		}).Debug("Processing chunk")

		out, err := s.runner.RunWithInput(ctx, strings.NewReader(chunk), s.name, args...)
		if err != nil {
			return nil, errors.Wrap(err, "summarizer command")
		}

		var result []Segment
		if err := json.Unmarshal(out, &result); err != nil {
			return nil, errors.Wrap(err, "decode summarizer output")
		}
		segments = append(segments, result...)
	}

	if len(segments) == 0 {
		return nil, errors.New("summarizer command returned no segments")
	}
	return segments, nil
}
