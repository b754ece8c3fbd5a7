// internal/handlers/committee_handlers.go
package handlers

import (
	"net/http"
	"time"

	"campus-swamp/internal/engine/actors"
	"campus-swamp/internal/middleware"
)

// CreateEventRequest is the body for announcing a committee event.
type CreateEventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Date        time.Time `json:"date"`
	Venue       string    `json:"venue,omitempty"`
}

// SaveMediaRequest records an uploaded object in the gallery.
type SaveMediaRequest struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

// HandleCreateEvent announces a new committee event.
func (s *Server) HandleCreateEvent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireMethod(w, r, http.MethodPost) {
			return
		}
		viewerID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		var req CreateEventRequest
		if !decodeBody(w, r, &req) {
			return
		}

		s.Metrics.IncrementRequests()
		result, err := s.ask(s.Engine.GetCommitteeActor(), &actors.CreateEventMsg{
			PostedByID:  viewerID,
			Title:       req.Title,
			Description: req.Description,
			Date:        req.Date,
			Venue:       req.Venue,
		})
		s.respond(w, result, err)
	}
}

// HandleGetEvents lists committee events, newest first.
func (s *Server) HandleGetEvents() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireMethod(w, r, http.MethodGet) {
			return
		}
		s.Metrics.IncrementRequests()
		result, err := s.ask(s.Engine.GetCommitteeActor(), &actors.GetEventsMsg{})
		s.respond(w, result, err)
	}
}

// HandleSaveMedia records an uploaded object in the shared gallery.
func (s *Server) HandleSaveMedia() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireMethod(w, r, http.MethodPost) {
			return
		}
		viewerID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		var req SaveMediaRequest
		if !decodeBody(w, r, &req) {
			return
		}

		s.Metrics.IncrementRequests()
		result, err := s.ask(s.Engine.GetCommitteeActor(), &actors.SaveMediaItemMsg{
			UploadedByID: viewerID,
			URL:          req.URL,
			Type:         req.Type,
		})
		s.respond(w, result, err)
	}
}

// HandleGetMedia lists gallery items, newest first.
func (s *Server) HandleGetMedia() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireMethod(w, r, http.MethodGet) {
			return
		}
		s.Metrics.IncrementRequests()
		result, err := s.ask(s.Engine.GetCommitteeActor(), &actors.GetMediaMsg{})
		s.respond(w, result, err)
	}
}
