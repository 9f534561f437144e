package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/mattjoyce/tsh/internal/jobs"
)

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthzResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
		Session:       s.config.Session,
		Jobs:          len(s.jobs.Snapshot()),
		Watchers:      s.events.Subscribers(),
	})
}

func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	snap := s.jobs.Snapshot()
	if snap == nil {
		snap = []jobs.Job{}
	}
	respondJSON(w, http.StatusOK, JobsResponse{
		Jobs:     snap,
		Count:    len(snap),
		Capacity: s.jobs.Capacity(),
	})
}

func respondJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response
func (s *Server) writeError(w http.ResponseWriter, statusCode int, message string) {
	respondJSON(w, statusCode, ErrorResponse{Error: message})
}
