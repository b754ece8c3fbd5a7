// internal/handlers/upload_handlers.go
package handlers

import (
	"net/http"

	"campus-swamp/internal/middleware"
	"campus-swamp/internal/utils"
)

// PresignRequest asks for a direct-to-bucket upload URL.
type PresignRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// HandlePresignUpload issues a time-limited PUT URL so clients upload
// media straight to the bucket instead of through the API.
func (s *Server) HandlePresignUpload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireMethod(w, r, http.MethodPost) {
			return
		}
		viewerID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		var req PresignRequest
		if !decodeBody(w, r, &req) {
			return
		}

		s.Metrics.IncrementRequests()
		upload, err := s.Storage.GeneratePresignedURL(r.Context(), viewerID, req.Filename, req.ContentType, req.Size)
		if err != nil {
			s.Metrics.IncrementErrors()
			if appErr, ok := err.(*utils.AppError); ok {
				http.Error(w, appErr.Message, utils.AppErrorToHTTPStatus(appErr.Code))
				return
			}
			http.Error(w, "Failed to presign upload", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, upload)
	}
}
