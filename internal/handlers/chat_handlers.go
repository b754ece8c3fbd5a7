// internal/handlers/chat_handlers.go
package handlers

import (
	"net/http"
	"strconv"

	"campus-swamp/internal/engine/actors"
	"campus-swamp/internal/middleware"

	"github.com/google/uuid"
)

// SendGroupMessageRequest is the body for posting to the community chat.
// ReplyToID optionally quotes an earlier message.
type SendGroupMessageRequest struct {
	Text      string `json:"text"`
	ReplyToID string `json:"replyToId,omitempty"`
}

// ReactionRequest toggles an emoji reaction.
type ReactionRequest struct {
	MessageID string `json:"messageId"`
	Emoji     string `json:"emoji"`
}

// HandleSendGroupMessage posts a message to the community chat.
func (s *Server) HandleSendGroupMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireMethod(w, r, http.MethodPost) {
			return
		}
		viewerID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		var req SendGroupMessageRequest
		if !decodeBody(w, r, &req) {
			return
		}

		msg := &actors.SendGroupMessageMsg{
			SenderID: viewerID,
			Text:     req.Text,
		}
		if req.ReplyToID != "" {
			replyID, err := uuid.Parse(req.ReplyToID)
			if err != nil {
				http.Error(w, "Invalid message ID", http.StatusBadRequest)
				return
			}
			msg.ReplyToID = &replyID
		}

		s.Metrics.IncrementRequests()
		result, err := s.ask(s.Engine.GetGroupChatActor(), msg)
		s.respond(w, result, err)
	}
}

// HandleGetGroupMessages returns recent chat history, oldest first. The
// limit query parameter caps how many messages come back.
func (s *Server) HandleGetGroupMessages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireMethod(w, r, http.MethodGet) {
			return
		}
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				http.Error(w, "Invalid limit", http.StatusBadRequest)
				return
			}
			limit = parsed
		}

		s.Metrics.IncrementRequests()
		result, err := s.ask(s.Engine.GetGroupChatActor(), &actors.GetGroupMessagesMsg{Limit: limit})
		s.respond(w, result, err)
	}
}

// HandleToggleGroupReaction adds or removes the caller's reaction on a
// chat message.
func (s *Server) HandleToggleGroupReaction() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireMethod(w, r, http.MethodPost) {
			return
		}
		viewerID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		var req ReactionRequest
		if !decodeBody(w, r, &req) {
			return
		}
		messageID, err := uuid.Parse(req.MessageID)
		if err != nil {
			http.Error(w, "Invalid message ID", http.StatusBadRequest)
			return
		}

		s.Metrics.IncrementRequests()
		result, askErr := s.ask(s.Engine.GetGroupChatActor(), &actors.ToggleGroupReactionMsg{
			MessageID: messageID,
			UserID:    viewerID,
			Emoji:     req.Emoji,
		})
		s.respond(w, result, askErr)
	}
}
