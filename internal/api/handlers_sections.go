package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"pivot/internal/content"
	"pivot/internal/models"
	"pivot/internal/store"
)

type createSectionRequest struct {
	SelectedText  string `json:"selected_text"`
	PositionOrder int    `json:"position_order"`
}

type updateSectionRequest struct {
	SelectedText *string `json:"selected_text"`
	Status       *string `json:"status"`
}

type sectionOrderUpdate struct {
	ID            string `json:"id"`
	PositionOrder int    `json:"position_order"`
}

type reorderRequest struct {
	Sections []sectionOrderUpdate `json:"sections"`
}

func (s *Server) handleListSections(w http.ResponseWriter, r *http.Request) {
	page, err := s.requirePageAccess(r, mux.Vars(r)["id"])
	if err != nil {
		s.respondError(w, err)
		return
	}
	sections, err := s.repo.SectionsForPage(r.Context(), page.ID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sections)
}

func (s *Server) handleCreateSection(w http.ResponseWriter, r *http.Request) {
	page, err := s.requirePageAccess(r, mux.Vars(r)["id"])
	if err != nil {
		s.respondError(w, err)
		return
	}
	var req createSectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.SelectedText == "" {
		writeError(w, http.StatusBadRequest, "Selected_text is required")
		return
	}
	section, err := s.svc.CreateSection(r.Context(), page.ID, req.SelectedText, req.PositionOrder)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, section)
}

func (s *Server) handleReorderSections(w http.ResponseWriter, r *http.Request) {
	page, err := s.requirePageAccess(r, mux.Vars(r)["id"])
	if err != nil {
		s.respondError(w, err)
		return
	}
	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	orders := make(map[string]int, len(req.Sections))
	for _, item := range req.Sections {
		orders[item.ID] = item.PositionOrder
	}
	if err := s.svc.ReorderSections(r.Context(), page.ID, orders); err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Sections reordered successfully"})
}

func (s *Server) handleGetSection(w http.ResponseWriter, r *http.Request) {
	section, err := s.requireSectionAccess(r, mux.Vars(r)["id"])
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		models.Section
		ContentState string `json:"content_state"`
	}{section, content.EffectiveState(section)})
}

func (s *Server) handleUpdateSection(w http.ResponseWriter, r *http.Request) {
	section, err := s.requireSectionAccess(r, mux.Vars(r)["id"])
	if err != nil {
		s.respondError(w, err)
		return
	}
	var req updateSectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Status != nil {
		switch *req.Status {
		case models.StatusNotSetup, models.StatusNeedsReview, models.StatusActive:
		default:
			writeError(w, http.StatusBadRequest, "Invalid section status")
			return
		}
	}
	upd := store.SectionUpdate{Text: req.SelectedText, Status: req.Status}
	if err := s.repo.UpdateSection(r.Context(), section.ID, upd); err != nil {
		s.respondError(w, err)
		return
	}
	updated, err := s.repo.SectionByID(r.Context(), section.ID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteSection(w http.ResponseWriter, r *http.Request) {
	section, err := s.requireSectionAccess(r, mux.Vars(r)["id"])
	if err != nil {
		s.respondError(w, err)
		return
	}
	if err := s.svc.DeleteSection(r.Context(), section.ID); err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Section deleted"})
}

type createTranslationRequest struct {
	Language     string `json:"language"`
	LanguageCode string `json:"language_code"`
	TextContent  string `json:"text_content"`
}

func (s *Server) handleListTranslations(w http.ResponseWriter, r *http.Request) {
	section, err := s.requireSectionAccess(r, mux.Vars(r)["id"])
	if err != nil {
		s.respondError(w, err)
		return
	}
	translations, err := s.repo.TranslationsForSection(r.Context(), section.ID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, translations)
}

func (s *Server) handleCreateTranslation(w http.ResponseWriter, r *http.Request) {
	section, err := s.requireSectionAccess(r, mux.Vars(r)["id"])
	if err != nil {
		s.respondError(w, err)
		return
	}
	var req createTranslationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.TextContent == "" || req.Language == "" {
		writeError(w, http.StatusBadRequest, "Language and text_content are required")
		return
	}
	translation := models.TextTranslation{
		ID:           uuid.New().String(),
		SectionID:    section.ID,
		Language:     req.Language,
		LanguageCode: req.LanguageCode,
		TextContent:  req.TextContent,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.CreateTranslation(r.Context(), translation); err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, translation)
}

func (s *Server) handleDeleteTranslation(w http.ResponseWriter, r *http.Request) {
	section, err := s.requireSectionAccess(r, mux.Vars(r)["id"])
	if err != nil {
		s.respondError(w, err)
		return
	}
	translation, err := s.repo.TranslationByID(r.Context(), mux.Vars(r)["tid"])
	if err != nil || translation.SectionID != section.ID {
		s.respondError(w, store.ErrNotFound)
		return
	}
	if err := s.repo.DeleteTranslation(r.Context(), translation.ID); err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Translation deleted"})
}
