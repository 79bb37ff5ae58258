package api

import (
	"encoding/json"
	"net/http"

	"github.com/santhosh-thouda/podcast-summarizer/errors"
	"github.com/santhosh-thouda/podcast-summarizer/middleware"
	"github.com/santhosh-thouda/podcast-summarizer/models"
	"github.com/sirupsen/logrus"
)

// respondJSON writes payload as the whole response body.
func respondJSON(w http.ResponseWriter, r *http.Request, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		middleware.GetLogger(r.Context()).WithError(err).Error("Failed to encode response")
	}
}

// respondError maps err to its status and writes {"error": message}.
func respondError(w http.ResponseWriter, r *http.Request, op string, err error) {
	appErr := errors.From(op, err)

	entry := middleware.GetLogger(r.Context()).WithFields(logrus.Fields{
		"error":  err,
		"status": appErr.Code,
		"op":     appErr.Op,
		"kind":   appErr.Kind,
	})
	if appErr.Code >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Info("Request rejected")
	}

	respondJSON(w, r, appErr.Code, models.ErrorResponse{Error: appErr.Message})
}

func readJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
