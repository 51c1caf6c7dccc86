package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// handleWidgetContent is the one unauthenticated read the embed script
// calls. It degrades to an empty sections list rather than erroring so it
// never breaks the host page.
func (s *Server) handleWidgetContent(w http.ResponseWriter, r *http.Request) {
	websiteID := mux.Vars(r)["id"]
	pageURL := r.URL.Query().Get("page_url")

	payload, err := s.svc.WidgetContent(r.Context(), websiteID, pageURL)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleWidgetInteraction(w http.ResponseWriter, r *http.Request) {
	websiteID := mux.Vars(r)["id"]
	pageURL := r.URL.Query().Get("page_url")

	if _, err := s.repo.WebsiteByID(r.Context(), websiteID); err != nil {
		s.respondError(w, err)
		return
	}
	if err := s.repo.IncrementInteractions(r.Context(), websiteID, pageURL); err != nil {
		s.log.WithError(err).WithField("website_id", websiteID).Warn("failed to record widget interaction")
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
}
