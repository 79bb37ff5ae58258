package api

import (
	"net/http"

	pkgerrors "github.com/pkg/errors"
	"github.com/santhosh-thouda/podcast-summarizer/errors"
	"github.com/santhosh-thouda/podcast-summarizer/models"
	"github.com/santhosh-thouda/podcast-summarizer/services/summarize"
	"github.com/santhosh-thouda/podcast-summarizer/validation"
)

const (
	// multipartMemory is how much of a multipart body is held in memory
	// before parts spill to disk.
	multipartMemory = 32 << 20

	fileField = "file"
)

// SummarizeHandler serves POST /summarize.
type SummarizeHandler struct {
	service summarize.Service
}

// NewSummarizeHandler creates a new summarize handler
func NewSummarizeHandler(service summarize.Service) *SummarizeHandler {
	return &SummarizeHandler{service: service}
}

// HandleSummarize accepts a multipart upload in the "file" field or a JSON
// body with a "transcript" and answers with the summary.
func (h *SummarizeHandler) HandleSummarize(w http.ResponseWriter, r *http.Request) {
	const op = "SummarizeHandler.HandleSummarize"

	transcript, err := h.transcript(r)
	if err != nil {
		respondError(w, r, op, err)
		return
	}

	resp, err := h.service.Summarize(r.Context(), transcript)
	if err != nil {
		respondError(w, r, op, err)
		return
	}

	respondJSON(w, r, http.StatusOK, resp)
}

// transcript resolves the request to transcript text. A request that carries
// neither a file nor a JSON transcript yields an empty transcript.
func (h *SummarizeHandler) transcript(r *http.Request) (string, error) {
	const op = "SummarizeHandler.transcript"

	if validation.IsMultipart(r) {
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return "", bodyError(op, err)
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile(fileField)
		switch {
		case err == nil:
			defer file.Close()
			ext, kind := validation.Classify(header.Filename)
			return h.service.TranscriptFromUpload(r.Context(), models.Upload{
				Filename:  header.Filename,
				Extension: ext,
				Kind:      kind,
				Size:      header.Size,
				Content:   file,
			})
		case pkgerrors.Is(err, http.ErrMissingFile):
			return "", nil
		default:
			return "", errors.Internal(op, err, "")
		}
	}

	if validation.IsJSON(r) {
		var req models.SummarizeRequest
		if err := readJSON(r, &req); err != nil {
			return "", bodyError(op, err)
		}
		if req.Transcript != nil {
			return *req.Transcript, nil
		}
	}

	return "", nil
}

// bodyError reports a body over the size cap as too large. Any other read or
// decode failure is a server error carrying the decoder's message.
func bodyError(op string, err error) error {
	var maxErr *http.MaxBytesError
	if pkgerrors.As(err, &maxErr) {
		return errors.TooLarge(op, err, "Request body too large")
	}
	return errors.Internal(op, err, "")
}
