package api

import "github.com/mattjoyce/tsh/internal/jobs"

// JobsResponse is returned by GET /jobs.
type JobsResponse struct {
	Jobs     []jobs.Job `json:"jobs"`
	Count    int        `json:"count"`
	Capacity int        `json:"capacity"`
}

// ErrorResponse is returned on errors
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthzResponse is returned by GET /healthz.
type HealthzResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Session       string `json:"session,omitempty"`
	Jobs          int    `json:"jobs"`
	Watchers      int    `json:"watchers"`
}
