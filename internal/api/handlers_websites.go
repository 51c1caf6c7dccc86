package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"pivot/internal/auth"
	"pivot/internal/models"
	"pivot/internal/store"
)

type createWebsiteRequest struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	ImageURL string `json:"image_url"`
}

// withEmbedCode fills the derived embed snippet; it is computed on every
// read and never persisted.
func (s *Server) withEmbedCode(w models.Website) models.Website {
	w.EmbedCode = models.EmbedCode(w.ID, s.widgetBaseURL)
	return w
}

func (s *Server) handleListWebsites(w http.ResponseWriter, r *http.Request) {
	websites, err := s.repo.WebsitesForUser(r.Context(), currentUser(r).ID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	for i := range websites {
		websites[i] = s.withEmbedCode(websites[i])
	}
	writeJSON(w, http.StatusOK, websites)
}

func (s *Server) handleCreateWebsite(w http.ResponseWriter, r *http.Request) {
	var req createWebsiteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.URL == "" {
		writeError(w, http.StatusBadRequest, "Name and url are required")
		return
	}
	website := models.Website{
		ID:            uuid.New().String(),
		OwnerID:       currentUser(r).ID,
		Name:          req.Name,
		URL:           req.URL,
		ImageURL:      req.ImageURL,
		Collaborators: []string{},
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.repo.CreateWebsite(r.Context(), website); err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.withEmbedCode(website))
}

func (s *Server) handleGetWebsite(w http.ResponseWriter, r *http.Request) {
	website, err := s.requireWebsiteAccess(r, mux.Vars(r)["id"])
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.withEmbedCode(website))
}

func (s *Server) handleDeleteWebsite(w http.ResponseWriter, r *http.Request) {
	website, err := s.requireWebsiteAccess(r, mux.Vars(r)["id"])
	if err != nil {
		s.respondError(w, err)
		return
	}
	// Only the owner can delete the website itself.
	if website.OwnerID != currentUser(r).ID {
		s.respondError(w, store.ErrNotFound)
		return
	}
	if err := s.svc.DeleteWebsite(r.Context(), website.ID); err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Website deleted"})
}

type inviteRequest struct {
	Email string `json:"email"`
}

func (s *Server) handleInviteCollaborator(w http.ResponseWriter, r *http.Request) {
	website, err := s.requireWebsiteAccess(r, mux.Vars(r)["id"])
	if err != nil {
		s.respondError(w, err)
		return
	}
	var req inviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	email := auth.NormalizeEmail(req.Email)
	if email == "" {
		writeError(w, http.StatusBadRequest, "Email is required")
		return
	}
	inv := models.Invitation{
		ID:        uuid.New().String(),
		WebsiteID: website.ID,
		Email:     email,
		Token:     uuid.New().String(),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateInvitation(r.Context(), inv); err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (s *Server) handleAcceptInvitation(w http.ResponseWriter, r *http.Request) {
	inv, err := s.repo.InvitationByToken(r.Context(), mux.Vars(r)["token"])
	if err != nil {
		s.respondError(w, err)
		return
	}
	user := currentUser(r)
	if inv.Email != user.Email {
		s.respondError(w, store.ErrNotFound)
		return
	}
	if err := s.repo.AddCollaborator(r.Context(), inv.WebsiteID, user.ID); err != nil {
		s.respondError(w, err)
		return
	}
	if err := s.repo.DeleteInvitation(r.Context(), inv.ID); err != nil {
		s.log.WithError(err).Warn("failed to delete accepted invitation")
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Invitation accepted", "website_id": inv.WebsiteID})
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	website, err := s.requireWebsiteAccess(r, mux.Vars(r)["id"])
	if err != nil {
		s.respondError(w, err)
		return
	}
	analytics, err := s.repo.AnalyticsForWebsite(r.Context(), website.ID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analytics)
}

func (s *Server) handleReconcile(w http.ResponseWriter, r *http.Request) {
	website, err := s.requireWebsiteAccess(r, mux.Vars(r)["id"])
	if err != nil {
		s.respondError(w, err)
		return
	}
	if website.OwnerID != currentUser(r).ID {
		s.respondError(w, store.ErrNotFound)
		return
	}
	if err := s.svc.ReconcileWebsite(r.Context(), website.ID); err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Counts reconciled"})
}
