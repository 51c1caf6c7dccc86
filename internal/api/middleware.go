package api

import (
	"context"
	"net/http"
	"strings"

	"pivot/internal/models"
	"pivot/internal/store"
)

type contextKey string

const userKey contextKey = "user"

// authed wraps a handler with bearer-token verification and loads the
// current user into the request context.
func (s *Server) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "Missing bearer token")
			return
		}
		userID, err := s.tokens.Verify(token)
		if err != nil {
			s.respondError(w, err)
			return
		}
		user, err := s.repo.UserByID(r.Context(), userID)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		ctx := context.WithValue(r.Context(), userKey, user)
		next(w, r.WithContext(ctx))
	}
}

func currentUser(r *http.Request) models.User {
	u, _ := r.Context().Value(userKey).(models.User)
	return u
}

// requireWebsiteAccess resolves the website and checks the user is its
// owner or a collaborator. Denial is ErrNotFound, uniformly, so members and
// strangers see the same 404 for websites they cannot touch.
func (s *Server) requireWebsiteAccess(r *http.Request, websiteID string) (models.Website, error) {
	website, err := s.repo.WebsiteByID(r.Context(), websiteID)
	if err != nil {
		return models.Website{}, err
	}
	if !checkAccess(website, currentUser(r).ID) {
		return models.Website{}, store.ErrNotFound
	}
	return website, nil
}

func checkAccess(website models.Website, userID string) bool {
	if website.OwnerID == userID {
		return true
	}
	for _, c := range website.Collaborators {
		if c == userID {
			return true
		}
	}
	return false
}

// requirePageAccess resolves a page and checks access on its website.
func (s *Server) requirePageAccess(r *http.Request, pageID string) (models.Page, error) {
	page, err := s.repo.PageByID(r.Context(), pageID)
	if err != nil {
		return models.Page{}, err
	}
	if _, err := s.requireWebsiteAccess(r, page.WebsiteID); err != nil {
		return models.Page{}, err
	}
	return page, nil
}

// requireSectionAccess walks section -> page -> website.
func (s *Server) requireSectionAccess(r *http.Request, sectionID string) (models.Section, error) {
	section, err := s.repo.SectionByID(r.Context(), sectionID)
	if err != nil {
		return models.Section{}, err
	}
	if _, err := s.requirePageAccess(r, section.PageID); err != nil {
		return models.Section{}, err
	}
	return section, nil
}
