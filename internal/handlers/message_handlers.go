// internal/handlers/message_handlers.go
package handlers

import (
	"net/http"

	"campus-swamp/internal/engine/actors"
	"campus-swamp/internal/middleware"
	"campus-swamp/internal/models"

	"github.com/google/uuid"
)

// SendMessageRequest is the body for sending a direct message.
type SendMessageRequest struct {
	ToID string `json:"toId"`
	Text string `json:"text"`
}

// MarkReadRequest marks one message read.
type MarkReadRequest struct {
	MessageID string `json:"messageId"`
}

// HandleSendDirectMessage sends a private message to a friend.
func (s *Server) HandleSendDirectMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireMethod(w, r, http.MethodPost) {
			return
		}
		viewerID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		var req SendMessageRequest
		if !decodeBody(w, r, &req) {
			return
		}
		toID, err := uuid.Parse(req.ToID)
		if err != nil {
			http.Error(w, "Invalid user ID", http.StatusBadRequest)
			return
		}

		s.Metrics.IncrementRequests()
		result, askErr := s.ask(s.Engine.GetDirectMessageActor(), &actors.SendDirectMessageMsg{
			FromID: viewerID,
			ToID:   toID,
			Text:   req.Text,
		})
		s.respond(w, result, askErr)
	}
}

// HandleGetConversation returns the caller's thread with another user,
// oldest first. The other user is named in the userId query parameter.
func (s *Server) HandleGetConversation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireMethod(w, r, http.MethodGet) {
			return
		}
		viewerID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		otherID, err := uuid.Parse(r.URL.Query().Get("userId"))
		if err != nil {
			http.Error(w, "Invalid user ID", http.StatusBadRequest)
			return
		}

		s.Metrics.IncrementRequests()
		result, askErr := s.ask(s.Engine.GetDirectMessageActor(), &actors.GetConversationMsg{
			ViewerID: viewerID,
			OtherID:  otherID,
		})
		s.respond(w, result, askErr)
	}
}

// HandleGetConversations returns the caller's inbox summaries.
func (s *Server) HandleGetConversations() http.HandlerFunc {
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
		result, err := s.ask(s.Engine.GetDirectMessageActor(), &actors.GetConversationSummariesMsg{UserID: viewerID})
		s.respond(w, result, err)
	}
}

// HandleMarkMessageRead marks a single received message as read.
func (s *Server) HandleMarkMessageRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireMethod(w, r, http.MethodPost) {
			return
		}
		viewerID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		var req MarkReadRequest
		if !decodeBody(w, r, &req) {
			return
		}
		messageID, err := uuid.Parse(req.MessageID)
		if err != nil {
			http.Error(w, "Invalid message ID", http.StatusBadRequest)
			return
		}

		s.Metrics.IncrementRequests()
		result, askErr := s.ask(s.Engine.GetDirectMessageActor(), &actors.MarkMessageReadMsg{
			MessageID: messageID,
			ReaderID:  viewerID,
		})
		s.respond(w, result, askErr)
	}
}

// HandleMarkConversationRead marks every received message in a thread as
// read. The other user is named in the userId query parameter.
func (s *Server) HandleMarkConversationRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireMethod(w, r, http.MethodPost) {
			return
		}
		viewerID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		otherID, err := uuid.Parse(r.URL.Query().Get("userId"))
		if err != nil {
			http.Error(w, "Invalid user ID", http.StatusBadRequest)
			return
		}

		s.Metrics.IncrementRequests()
		result, askErr := s.ask(s.Engine.GetDirectMessageActor(), &actors.MarkConversationReadMsg{
			ConversationID: models.ConversationID(viewerID, otherID),
			ReaderID:       viewerID,
		})
		s.respond(w, result, askErr)
	}
}

// HandleGetUnreadCount returns the caller's unread total for one thread.
func (s *Server) HandleGetUnreadCount() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireMethod(w, r, http.MethodGet) {
			return
		}
		viewerID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		otherID, err := uuid.Parse(r.URL.Query().Get("userId"))
		if err != nil {
			http.Error(w, "Invalid user ID", http.StatusBadRequest)
			return
		}

		s.Metrics.IncrementRequests()
		result, askErr := s.ask(s.Engine.GetDirectMessageActor(), &actors.GetUnreadCountMsg{
			ConversationID: models.ConversationID(viewerID, otherID),
			UserID:         viewerID,
		})
		s.respond(w, result, askErr)
	}
}
