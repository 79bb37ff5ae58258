package validation

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/santhosh-thouda/podcast-summarizer/errors"
	"github.com/santhosh-thouda/podcast-summarizer/models"
)

const EmptyTranscriptMessage = "Transcript is empty or not provided."

var extensionKinds = map[string]models.Kind{
	"mp4":  models.KindVideo,
	"mpeg": models.KindVideo,
	"webm": models.KindVideo,
	"mp3":  models.KindAudio,
	"wav":  models.KindAudio,
	"m4a":  models.KindAudio,
	"mpga": models.KindAudio,
	"txt":  models.KindText,
}

// Extension returns the lower-cased extension of filename without the dot.
// Names without a dot, or ending in one, have no extension.
func Extension(filename string) string {
	ext := filepath.Ext(filepath.Base(filename))
	if len(ext) <= 1 {
		return ""
	}
	return strings.ToLower(ext[1:])
}

// Classify maps a filename to the pipeline branch that handles it.
func Classify(filename string) (string, models.Kind) {
	ext := Extension(filename)
	if kind, ok := extensionKinds[ext]; ok {
		return ext, kind
	}
	return ext, models.KindUnsupported
}

// ValidateTranscript rejects transcripts with no visible content.
func ValidateTranscript(transcript string) error {
	const op = "validation.ValidateTranscript"

	if strings.TrimSpace(transcript) == "" {
		return errors.InvalidInput(op, nil, EmptyTranscriptMessage)
	}
	return nil
}

// RequestValidationOpts holds options for request validation
type RequestValidationOpts struct {
	MaxContentLength int64
}

// ValidateRequest rejects requests whose declared body exceeds the limit.
// Bodies without a Content-Length are capped while they are read.
func ValidateRequest(r *http.Request, opts RequestValidationOpts) error {
	const op = "validation.ValidateRequest"

	if opts.MaxContentLength > 0 && r.ContentLength > opts.MaxContentLength {
		return errors.TooLarge(op, nil, "Request body too large")
	}

	return nil
}

func IsMultipart(r *http.Request) bool {
	return strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "multipart/form-data")
}

func IsJSON(r *http.Request) bool {
	contentType := strings.ToLower(r.Header.Get("Content-Type"))
	return strings.HasPrefix(contentType, "application/json") || strings.Contains(contentType, "+json")
}
