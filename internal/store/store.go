// Package store defines the persistence interface for PIVOT documents and
// provides a MongoDB-backed implementation plus an in-memory one for tests.
package store

import (
	"context"
	"errors"

	"pivot/internal/models"
)

// ErrNotFound is returned whenever a referenced document does not exist.
var ErrNotFound = errors.New("not found")

// SectionUpdate carries the patchable section fields; nil means unchanged.
type SectionUpdate struct {
	Text   *string
	Status *string
}

// Repository is the storage interface for all collections. Keeping it as an
// interface lets the HTTP layer and the content service run against either
// MongoDB or the in-memory implementation without changes.
type Repository interface {
	// Users
	CreateUser(ctx context.Context, u models.User) error
	UserByEmail(ctx context.Context, email string) (models.User, error)
	UserByID(ctx context.Context, id string) (models.User, error)

	// Websites
	CreateWebsite(ctx context.Context, w models.Website) error
	WebsiteByID(ctx context.Context, id string) (models.Website, error)
	WebsitesForUser(ctx context.Context, userID string) ([]models.Website, error)
	AddCollaborator(ctx context.Context, websiteID, userID string) error
	DeleteWebsite(ctx context.Context, id string) error

	// Pages
	CreatePage(ctx context.Context, p models.Page) error
	PageByID(ctx context.Context, id string) (models.Page, error)
	PageByURL(ctx context.Context, websiteID, url string) (models.Page, error)
	PagesForWebsite(ctx context.Context, websiteID string) ([]models.Page, error)
	UpdatePageStatus(ctx context.Context, id, status string) error
	SetSectionsCount(ctx context.Context, pageID string, n int) error
	DeletePage(ctx context.Context, id string) error

	// Sections
	CreateSection(ctx context.Context, s models.Section) error
	SectionByID(ctx context.Context, id string) (models.Section, error)
	SectionsForPage(ctx context.Context, pageID string) ([]models.Section, error)
	CountSections(ctx context.Context, pageID string) (int, error)
	UpdateSection(ctx context.Context, id string, upd SectionUpdate) error
	SetSectionOrder(ctx context.Context, pageID, sectionID string, order int) error
	SetVideosCount(ctx context.Context, sectionID string, n int) error
	SetAudiosCount(ctx context.Context, sectionID string, n int) error
	DeleteSection(ctx context.Context, id string) error

	// Videos
	CreateVideo(ctx context.Context, v models.Video) error
	VideoByID(ctx context.Context, id string) (models.Video, error)
	VideosForSection(ctx context.Context, sectionID string) ([]models.Video, error)
	VideosForSections(ctx context.Context, sectionIDs []string) ([]models.Video, error)
	CountVideos(ctx context.Context, sectionID string) (int, error)
	DeleteVideo(ctx context.Context, id string) error

	// Audios
	CreateAudio(ctx context.Context, a models.Audio) error
	AudioByID(ctx context.Context, id string) (models.Audio, error)
	AudiosForSection(ctx context.Context, sectionID string) ([]models.Audio, error)
	AudiosForSections(ctx context.Context, sectionIDs []string) ([]models.Audio, error)
	CountAudios(ctx context.Context, sectionID string) (int, error)
	DeleteAudio(ctx context.Context, id string) error

	// Translations
	CreateTranslation(ctx context.Context, t models.TextTranslation) error
	TranslationByID(ctx context.Context, id string) (models.TextTranslation, error)
	TranslationsForSection(ctx context.Context, sectionID string) ([]models.TextTranslation, error)
	TranslationsForSections(ctx context.Context, sectionIDs []string) ([]models.TextTranslation, error)
	DeleteTranslation(ctx context.Context, id string) error

	// Analytics
	IncrementViews(ctx context.Context, websiteID, pageURL string) error
	IncrementInteractions(ctx context.Context, websiteID, pageURL string) error
	AnalyticsForWebsite(ctx context.Context, websiteID string) ([]models.Analytics, error)

	// Invitations
	CreateInvitation(ctx context.Context, inv models.Invitation) error
	InvitationByToken(ctx context.Context, token string) (models.Invitation, error)
	DeleteInvitation(ctx context.Context, id string) error
}
