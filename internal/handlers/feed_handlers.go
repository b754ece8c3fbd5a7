// internal/handlers/feed_handlers.go
package handlers

import (
	"net/http"
	"strconv"

	"campus-swamp/internal/engine/actors"
	"campus-swamp/internal/middleware"

	"github.com/google/uuid"
)

// CreatePostRequest is the body for a new feed post. MediaURL usually
// points at an object uploaded through a presigned URL.
type CreatePostRequest struct {
	Caption   string `json:"caption,omitempty"`
	MediaURL  string `json:"mediaUrl"`
	MediaType string `json:"mediaType"`
}

// CreateCommentRequest is the body for commenting on a post.
type CreateCommentRequest struct {
	PostID string `json:"postId"`
	Text   string `json:"text"`
}

// PostReactionRequest toggles a reaction on a post.
type PostReactionRequest struct {
	PostID string `json:"postId"`
	Emoji  string `json:"emoji"`
}

// HandleCreateFeedPost publishes a new media post.
func (s *Server) HandleCreateFeedPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireMethod(w, r, http.MethodPost) {
			return
		}
		viewerID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		var req CreatePostRequest
		if !decodeBody(w, r, &req) {
			return
		}

		s.Metrics.IncrementRequests()
		result, err := s.ask(s.Engine.GetFeedActor(), &actors.CreateFeedPostMsg{
			AuthorID:  viewerID,
			Caption:   req.Caption,
			MediaURL:  req.MediaURL,
			MediaType: req.MediaType,
		})
		s.respond(w, result, err)
	}
}

// HandleGetFeed returns recent posts, newest first.
func (s *Server) HandleGetFeed() http.HandlerFunc {
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
		result, err := s.ask(s.Engine.GetFeedActor(), &actors.GetFeedPostsMsg{Limit: limit})
		s.respond(w, result, err)
	}
}

// HandleTogglePostReaction adds or removes the caller's reaction on a
// post.
func (s *Server) HandleTogglePostReaction() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireMethod(w, r, http.MethodPost) {
			return
		}
		viewerID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		var req PostReactionRequest
		if !decodeBody(w, r, &req) {
			return
		}
		postID, err := uuid.Parse(req.PostID)
		if err != nil {
			http.Error(w, "Invalid post ID", http.StatusBadRequest)
			return
		}

		s.Metrics.IncrementRequests()
		result, askErr := s.ask(s.Engine.GetFeedActor(), &actors.TogglePostReactionMsg{
			PostID: postID,
			UserID: viewerID,
			Emoji:  req.Emoji,
		})
		s.respond(w, result, askErr)
	}
}

// HandleCreateComment appends a comment to a post.
func (s *Server) HandleCreateComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireMethod(w, r, http.MethodPost) {
			return
		}
		viewerID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		var req CreateCommentRequest
		if !decodeBody(w, r, &req) {
			return
		}
		postID, err := uuid.Parse(req.PostID)
		if err != nil {
			http.Error(w, "Invalid post ID", http.StatusBadRequest)
			return
		}

		s.Metrics.IncrementRequests()
		result, askErr := s.ask(s.Engine.GetFeedActor(), &actors.CreateCommentMsg{
			PostID:   postID,
			AuthorID: viewerID,
			Text:     req.Text,
		})
		s.respond(w, result, askErr)
	}
}

// HandleGetComments lists a post's comments, oldest first. The post is
// named in the postId query parameter.
func (s *Server) HandleGetComments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireMethod(w, r, http.MethodGet) {
			return
		}
		postID, err := uuid.Parse(r.URL.Query().Get("postId"))
		if err != nil {
			http.Error(w, "Invalid post ID", http.StatusBadRequest)
			return
		}

		s.Metrics.IncrementRequests()
		result, askErr := s.ask(s.Engine.GetFeedActor(), &actors.GetCommentsMsg{PostID: postID})
		s.respond(w, result, askErr)
	}
}
