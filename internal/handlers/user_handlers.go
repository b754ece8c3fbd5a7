// internal/handlers/user_handlers.go
package handlers

import (
	"log"
	"net/http"

	"campus-swamp/internal/engine/actors"
	"campus-swamp/internal/middleware"
	"campus-swamp/internal/models"
)

// RegisterUserRequest is the body for account creation. Email must belong
// to the community's domain.
type RegisterUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Year     string `json:"year,omitempty"`
	Section  string `json:"section,omitempty"`
	Branch   string `json:"branch,omitempty"`
}

// LoginRequest is the body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleUserRegistration creates a new account.
func (s *Server) HandleUserRegistration() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireMethod(w, r, http.MethodPost) {
			return
		}
		var req RegisterUserRequest
		if !decodeBody(w, r, &req) {
			return
		}

		s.Metrics.IncrementRequests()
		result, err := s.ask(s.Engine.GetUserSupervisor(), &actors.RegisterUserMsg{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
			Year:     req.Year,
			Section:  req.Section,
			Branch:   req.Branch,
		})
		s.respond(w, result, err)
	}
}

// HandleUserLogin verifies credentials and issues a token.
func (s *Server) HandleUserLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireMethod(w, r, http.MethodPost) {
			return
		}
		var req LoginRequest
		if !decodeBody(w, r, &req) {
			return
		}

		log.Printf("HTTP: login request for %s", req.Email)
		s.Metrics.IncrementRequests()
		result, err := s.ask(s.Engine.GetUserSupervisor(), &actors.LoginMsg{
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			http.Error(w, "Login failed", http.StatusInternalServerError)
			return
		}
		s.respond(w, result, nil)
	}
}

// HandleUserLogout flips the caller offline immediately.
func (s *Server) HandleUserLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireMethod(w, r, http.MethodPost) {
			return
		}
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		s.Metrics.IncrementRequests()
		result, err := s.ask(s.Engine.GetUserSupervisor(), &actors.LogoutMsg{UserID: userID})
		s.respond(w, result, err)
	}
}

// HandleGetProfile returns the caller's own profile.
func (s *Server) HandleGetProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireMethod(w, r, http.MethodGet) {
			return
		}
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		s.Metrics.IncrementRequests()
		result, err := s.ask(s.Engine.GetUserSupervisor(), &actors.GetUserProfileMsg{UserID: userID})
		s.respond(w, result, err)
	}
}

// HandleUpdateProfile applies a partial profile update.
func (s *Server) HandleUpdateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireMethod(w, r, http.MethodPut) {
			return
		}
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		var update models.ProfileUpdate
		if !decodeBody(w, r, &update) {
			return
		}

		s.Metrics.IncrementRequests()
		result, err := s.ask(s.Engine.GetUserSupervisor(), &actors.UpdateProfileMsg{
			UserID: userID,
			Update: update,
		})
		s.respond(w, result, err)
	}
}

// HandleGetAllUsers lists every registered user.
func (s *Server) HandleGetAllUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireMethod(w, r, http.MethodGet) {
			return
		}
		s.Metrics.IncrementRequests()
		result, err := s.ask(s.Engine.GetUserSupervisor(), &actors.GetAllUsersMsg{})
		s.respond(w, result, err)
	}
}
