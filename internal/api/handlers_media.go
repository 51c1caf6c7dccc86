package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"pivot/internal/objectstore"
)

type uploadURLRequest struct {
	Filename string `json:"filename"`
	FileSize int64  `json:"file_size"`
}

type confirmRequest struct {
	Language string `json:"language"`
	FileKey  string `json:"file_key"`
}

type generateAudioRequest struct {
	Language string `json:"language"`
	Voice    string `json:"voice"`
}

func (s *Server) handleVideoUploadURL(w http.ResponseWriter, r *http.Request) {
	s.handleUploadURL(w, r, "video")
}

func (s *Server) handleAudioUploadURL(w http.ResponseWriter, r *http.Request) {
	s.handleUploadURL(w, r, "audio")
}

func (s *Server) handleUploadURL(w http.ResponseWriter, r *http.Request, kind string) {
	section, err := s.requireSectionAccess(r, mux.Vars(r)["id"])
	if err != nil {
		s.respondError(w, err)
		return
	}
	var req uploadURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Filename == "" {
		writeError(w, http.StatusBadRequest, "Filename is required")
		return
	}

	var ticket objectstore.UploadTicket
	if kind == "video" {
		ticket, err = s.svc.PresignVideoUpload(r.Context(), section.ID, req.Filename, req.FileSize)
	} else {
		ticket, err = s.svc.PresignAudioUpload(r.Context(), section.ID, req.Filename, req.FileSize)
	}
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}

func (s *Server) handleConfirmVideo(w http.ResponseWriter, r *http.Request) {
	section, err := s.requireSectionAccess(r, mux.Vars(r)["id"])
	if err != nil {
		s.respondError(w, err)
		return
	}
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.FileKey == "" {
		writeError(w, http.StatusBadRequest, "File_key is required")
		return
	}
	video, err := s.svc.ConfirmVideo(r.Context(), section.ID, req.Language, req.FileKey)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, video)
}

func (s *Server) handleConfirmAudio(w http.ResponseWriter, r *http.Request) {
	section, err := s.requireSectionAccess(r, mux.Vars(r)["id"])
	if err != nil {
		s.respondError(w, err)
		return
	}
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.FileKey == "" {
		writeError(w, http.StatusBadRequest, "File_key is required")
		return
	}
	audio, err := s.svc.ConfirmAudio(r.Context(), section.ID, req.Language, req.FileKey)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, audio)
}

func (s *Server) handleGenerateAudio(w http.ResponseWriter, r *http.Request) {
	section, err := s.requireSectionAccess(r, mux.Vars(r)["id"])
	if err != nil {
		s.respondError(w, err)
		return
	}
	var req generateAudioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	audio, err := s.svc.GenerateAudio(r.Context(), section.ID, req.Language, req.Voice)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, audio)
}

func (s *Server) handleListVideos(w http.ResponseWriter, r *http.Request) {
	section, err := s.requireSectionAccess(r, mux.Vars(r)["id"])
	if err != nil {
		s.respondError(w, err)
		return
	}
	videos, err := s.svc.ListVideos(r.Context(), section.ID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, videos)
}

func (s *Server) handleListAudios(w http.ResponseWriter, r *http.Request) {
	section, err := s.requireSectionAccess(r, mux.Vars(r)["id"])
	if err != nil {
		s.respondError(w, err)
		return
	}
	audios, err := s.svc.ListAudios(r.Context(), section.ID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, audios)
}

func (s *Server) handleDeleteVideo(w http.ResponseWriter, r *http.Request) {
	video, err := s.repo.VideoByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondError(w, err)
		return
	}
	if _, err := s.requireSectionAccess(r, video.SectionID); err != nil {
		s.respondError(w, err)
		return
	}
	if err := s.svc.DeleteVideo(r.Context(), video.ID); err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Video deleted"})
}

func (s *Server) handleDeleteAudio(w http.ResponseWriter, r *http.Request) {
	audio, err := s.repo.AudioByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondError(w, err)
		return
	}
	if _, err := s.requireSectionAccess(r, audio.SectionID); err != nil {
		s.respondError(w, err)
		return
	}
	if err := s.svc.DeleteAudio(r.Context(), audio.ID); err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Audio deleted"})
}
