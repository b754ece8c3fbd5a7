// internal/handlers/core_handlers.go
package handlers

import (
	"net/http"
	"time"
)

// HandleHealth reports liveness plus a few community counts and runtime
// metrics.
func (s *Server) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireMethod(w, r, http.MethodGet) {
			return
		}

		userCount, err := s.MongoDB.CountUsers(r.Context())
		if err != nil {
			http.Error(w, "Failed to reach database", http.StatusInternalServerError)
			return
		}
		messageCount, err := s.MongoDB.CountGroupMessages(r.Context())
		if err != nil {
			http.Error(w, "Failed to reach database", http.StatusInternalServerError)
			return
		}

		requests, errors, uptime, latency := s.Metrics.Snapshot()
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":          "healthy",
			"user_count":      userCount,
			"message_count":   messageCount,
			"connected_users": s.Hub.ConnectedUsers(),
			"server_time":     time.Now(),
			"metrics": map[string]interface{}{
				"requests":       requests,
				"errors":         errors,
				"uptime_seconds": uptime.Seconds(),
				"avg_latency_ms": latency,
			},
		})
	}
}

// HandleSimpleHealth is the bare liveness endpoint.
func (s *Server) HandleSimpleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
