package models

// SummarizeRequest is the JSON body accepted by POST /summarize.
type SummarizeRequest struct {
	Transcript *string `json:"transcript"`
}

// SummaryResponse is returned on success.
type SummaryResponse struct {
	Summary string `json:"summary"`
}

// ErrorResponse is returned for every failure.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}
