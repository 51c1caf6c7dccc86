package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"pivot/internal/auth"
	"pivot/internal/content"
	"pivot/internal/objectstore"
	"pivot/internal/speech"
	"pivot/internal/store"
)

type errorBody struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorBody{Detail: detail})
}

// respondError maps service errors to HTTP statuses. Missing resources and
// denied access both come through as ErrNotFound, so nothing here leaks
// resource existence.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, objectstore.ErrInvalidFile):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "Invalid or expired token")
	case errors.Is(err, speech.ErrProvider),
		errors.Is(err, content.ErrStorageUnavailable),
		errors.Is(err, content.ErrSpeechUnavailable):
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		s.log.WithError(err).Error("request failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
