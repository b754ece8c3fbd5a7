// internal/handlers/relationship_handlers.go
package handlers

import (
	"net/http"

	"campus-swamp/internal/engine/actors"
	"campus-swamp/internal/middleware"

	"github.com/google/uuid"
)

// FriendRequestBody names the other user of a request or response.
type FriendRequestBody struct {
	UserID string `json:"userId"`
}

// RespondRequestBody carries an accept or decline decision.
type RespondRequestBody struct {
	UserID string `json:"userId"`
	Accept bool   `json:"accept"`
}

// HandleSendFriendRequest creates a pending request from the caller.
func (s *Server) HandleSendFriendRequest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireMethod(w, r, http.MethodPost) {
			return
		}
		viewerID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		var body FriendRequestBody
		if !decodeBody(w, r, &body) {
			return
		}
		otherID, err := uuid.Parse(body.UserID)
		if err != nil {
			http.Error(w, "Invalid user ID", http.StatusBadRequest)
			return
		}

		s.Metrics.IncrementRequests()
		result, askErr := s.ask(s.Engine.GetRelationshipActor(), &actors.SendFriendRequestMsg{
			FromID: viewerID,
			ToID:   otherID,
		})
		s.respond(w, result, askErr)
	}
}

// HandleRespondFriendRequest accepts or declines a pending request
// addressed to the caller.
func (s *Server) HandleRespondFriendRequest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireMethod(w, r, http.MethodPost) {
			return
		}
		viewerID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		var body RespondRequestBody
		if !decodeBody(w, r, &body) {
			return
		}
		otherID, err := uuid.Parse(body.UserID)
		if err != nil {
			http.Error(w, "Invalid user ID", http.StatusBadRequest)
			return
		}

		s.Metrics.IncrementRequests()
		result, askErr := s.ask(s.Engine.GetRelationshipActor(), &actors.RespondFriendRequestMsg{
			ResponderID: viewerID,
			OtherID:     otherID,
			Accept:      body.Accept,
		})
		s.respond(w, result, askErr)
	}
}

// HandleGetPendingRequests lists requests awaiting the caller's response.
func (s *Server) HandleGetPendingRequests() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireMethod(w, r, http.MethodGet) {
			return
		}
		viewerID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		s.Metrics.IncrementRequests()
		result, err := s.ask(s.Engine.GetRelationshipActor(), &actors.GetPendingRequestsMsg{UserID: viewerID})
		s.respond(w, result, err)
	}
}

// HandleGetSentRequests lists the caller's pending outgoing requests.
func (s *Server) HandleGetSentRequests() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireMethod(w, r, http.MethodGet) {
			return
		}
		viewerID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		s.Metrics.IncrementRequests()
		result, err := s.ask(s.Engine.GetRelationshipActor(), &actors.GetSentRequestsMsg{UserID: viewerID})
		s.respond(w, result, err)
	}
}

// HandleGetFriends lists the caller's accepted friendships.
func (s *Server) HandleGetFriends() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireMethod(w, r, http.MethodGet) {
			return
		}
		viewerID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		s.Metrics.IncrementRequests()
		result, err := s.ask(s.Engine.GetRelationshipActor(), &actors.GetFriendsMsg{UserID: viewerID})
		s.respond(w, result, err)
	}
}

// HandleGetRoster returns every user with presence and the caller's
// relationship status toward them.
func (s *Server) HandleGetRoster() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireMethod(w, r, http.MethodGet) {
			return
		}
		viewerID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		s.Metrics.IncrementRequests()
		result, err := s.ask(s.Engine.GetRelationshipActor(), &actors.GetRosterMsg{ViewerID: viewerID})
		s.respond(w, result, err)
	}
}
