// Package api exposes the HTTP surface: auth, website/page/section CRUD,
// media upload flows, and the public widget endpoint.
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"pivot/internal/auth"
	"pivot/internal/content"
	"pivot/internal/store"
)

type Server struct {
	router *mux.Router
	repo   store.Repository
	svc    *content.Service
	tokens *auth.Tokens
	log    logrus.FieldLogger

	// widgetBaseURL is the origin embed codes point at.
	widgetBaseURL string
}

func NewServer(repo store.Repository, svc *content.Service, tokens *auth.Tokens, widgetBaseURL string, log logrus.FieldLogger) *Server {
	s := &Server{
		router:        mux.NewRouter(),
		repo:          repo,
		svc:           svc,
		tokens:        tokens,
		log:           log.WithField("component", "api"),
		widgetBaseURL: widgetBaseURL,
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/", s.handleRoot).Methods("GET")
	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	api.HandleFunc("/auth/register", s.handleRegister).Methods("POST")
	api.HandleFunc("/auth/login", s.handleLogin).Methods("POST")
	api.HandleFunc("/auth/me", s.authed(s.handleMe)).Methods("GET")

	api.HandleFunc("/websites", s.authed(s.handleListWebsites)).Methods("GET")
	api.HandleFunc("/websites", s.authed(s.handleCreateWebsite)).Methods("POST")
	api.HandleFunc("/websites/{id}", s.authed(s.handleGetWebsite)).Methods("GET")
	api.HandleFunc("/websites/{id}", s.authed(s.handleDeleteWebsite)).Methods("DELETE")
	api.HandleFunc("/websites/{id}/collaborators/invite", s.authed(s.handleInviteCollaborator)).Methods("POST")
	api.HandleFunc("/invitations/{token}/accept", s.authed(s.handleAcceptInvitation)).Methods("POST")

	api.HandleFunc("/websites/{id}/pages", s.authed(s.handleListPages)).Methods("GET")
	api.HandleFunc("/websites/{id}/pages", s.authed(s.handleCreatePage)).Methods("POST")
	api.HandleFunc("/pages/{id}", s.authed(s.handleGetPage)).Methods("GET")
	api.HandleFunc("/pages/{id}/status", s.authed(s.handleUpdatePageStatus)).Methods("PATCH")
	api.HandleFunc("/pages/{id}", s.authed(s.handleDeletePage)).Methods("DELETE")

	api.HandleFunc("/pages/{id}/sections", s.authed(s.handleListSections)).Methods("GET")
	api.HandleFunc("/pages/{id}/sections", s.authed(s.handleCreateSection)).Methods("POST")
	api.HandleFunc("/pages/{id}/sections/reorder", s.authed(s.handleReorderSections)).Methods("PUT")
	api.HandleFunc("/sections/{id}", s.authed(s.handleGetSection)).Methods("GET")
	api.HandleFunc("/sections/{id}", s.authed(s.handleUpdateSection)).Methods("PATCH")
	api.HandleFunc("/sections/{id}", s.authed(s.handleDeleteSection)).Methods("DELETE")

	api.HandleFunc("/sections/{id}/video/upload-url", s.authed(s.handleVideoUploadURL)).Methods("POST")
	api.HandleFunc("/sections/{id}/video/confirm", s.authed(s.handleConfirmVideo)).Methods("POST")
	api.HandleFunc("/sections/{id}/audio/upload-url", s.authed(s.handleAudioUploadURL)).Methods("POST")
	api.HandleFunc("/sections/{id}/audio/confirm", s.authed(s.handleConfirmAudio)).Methods("POST")
	api.HandleFunc("/sections/{id}/audio/generate", s.authed(s.handleGenerateAudio)).Methods("POST")
	api.HandleFunc("/sections/{id}/videos", s.authed(s.handleListVideos)).Methods("GET")
	api.HandleFunc("/sections/{id}/audio", s.authed(s.handleListAudios)).Methods("GET")
	api.HandleFunc("/videos/{id}", s.authed(s.handleDeleteVideo)).Methods("DELETE")
	api.HandleFunc("/audios/{id}", s.authed(s.handleDeleteAudio)).Methods("DELETE")

	api.HandleFunc("/sections/{id}/translations", s.authed(s.handleListTranslations)).Methods("GET")
	api.HandleFunc("/sections/{id}/translations", s.authed(s.handleCreateTranslation)).Methods("POST")
	api.HandleFunc("/sections/{id}/translations/{tid}", s.authed(s.handleDeleteTranslation)).Methods("DELETE")

	api.HandleFunc("/analytics/{id}", s.authed(s.handleAnalytics)).Methods("GET")
	api.HandleFunc("/admin/websites/{id}/reconcile", s.authed(s.handleReconcile)).Methods("POST")

	api.HandleFunc("/widget/{id}/content", s.handleWidgetContent).Methods("GET")
	api.HandleFunc("/widget/{id}/interaction", s.handleWidgetInteraction).Methods("POST")
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "PIVOT API"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
