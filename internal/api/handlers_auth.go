package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"pivot/internal/auth"
	"pivot/internal/models"
	"pivot/internal/store"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        models.User `json:"user"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	email := auth.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	if _, err := s.repo.UserByEmail(r.Context(), email); err == nil {
		writeError(w, http.StatusBadRequest, "Email already registered")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		s.respondError(w, err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.respondError(w, err)
		return
	}
	user := models.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.CreateUser(r.Context(), user); err != nil {
		s.respondError(w, err)
		return
	}
	s.respondWithToken(w, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := s.repo.UserByEmail(r.Context(), auth.NormalizeEmail(req.Email))
	if err != nil {
		// Same response as a wrong password; no user enumeration.
		s.respondError(w, auth.ErrInvalidCredentials)
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		s.respondError(w, err)
		return
	}
	s.respondWithToken(w, user)
}

func (s *Server) respondWithToken(w http.ResponseWriter, user models.User) {
	token, err := s.tokens.Issue(user.ID, time.Now())
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, currentUser(r))
}
