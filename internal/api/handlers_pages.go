package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"pivot/internal/models"
)

type createPageRequest struct {
	URL string `json:"url"`
}

type updatePageStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleListPages(w http.ResponseWriter, r *http.Request) {
	website, err := s.requireWebsiteAccess(r, mux.Vars(r)["id"])
	if err != nil {
		s.respondError(w, err)
		return
	}
	pages, err := s.repo.PagesForWebsite(r.Context(), website.ID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pages)
}

// handleCreatePage creates the page and scrapes its content into sections.
// A failed scrape still creates the page, with zero sections.
func (s *Server) handleCreatePage(w http.ResponseWriter, r *http.Request) {
	website, err := s.requireWebsiteAccess(r, mux.Vars(r)["id"])
	if err != nil {
		s.respondError(w, err)
		return
	}
	var req createPageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "Url is required")
		return
	}
	page, _, err := s.svc.CreatePageFromURL(r.Context(), website.ID, req.URL)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleGetPage(w http.ResponseWriter, r *http.Request) {
	page, err := s.requirePageAccess(r, mux.Vars(r)["id"])
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleUpdatePageStatus(w http.ResponseWriter, r *http.Request) {
	page, err := s.requirePageAccess(r, mux.Vars(r)["id"])
	if err != nil {
		s.respondError(w, err)
		return
	}
	var req updatePageStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	switch req.Status {
	case models.StatusNotSetup, models.StatusActive, models.StatusInactive:
	default:
		writeError(w, http.StatusBadRequest, "Invalid page status")
		return
	}
	if err := s.repo.UpdatePageStatus(r.Context(), page.ID, req.Status); err != nil {
		s.respondError(w, err)
		return
	}
	page.Status = req.Status
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleDeletePage(w http.ResponseWriter, r *http.Request) {
	page, err := s.requirePageAccess(r, mux.Vars(r)["id"])
	if err != nil {
		s.respondError(w, err)
		return
	}
	if err := s.svc.DeletePage(r.Context(), page.ID); err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Page deleted"})
}
