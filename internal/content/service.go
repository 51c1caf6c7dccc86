// Package content implements the operations that span multiple collections:
// the scrape-to-sections pipeline, media attachment with count upkeep,
// cascading deletes and the widget aggregation read.
package content

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"pivot/internal/extractor"
	"pivot/internal/models"
	"pivot/internal/objectstore"
	"pivot/internal/speech"
	"pivot/internal/store"
)

// ErrStorageUnavailable is returned when an operation needs the object
// store and none is configured.
var ErrStorageUnavailable = errors.New("object storage not configured")

// ErrSpeechUnavailable is returned when TTS generation is requested but no
// provider is configured.
var ErrSpeechUnavailable = errors.New("speech synthesis not configured")

// Service wires the repository, extractor, object store and synthesizer
// together. Object store and synthesizer may be nil when unconfigured; the
// operations that need them fail with the sentinel errors above.
type Service struct {
	repo    store.Repository
	extract extractor.Extractor
	objects objectstore.ObjectStore
	synth   speech.Synthesizer
	log     logrus.FieldLogger
}

func NewService(repo store.Repository, ex extractor.Extractor, obj objectstore.ObjectStore, synth speech.Synthesizer, log logrus.FieldLogger) *Service {
	return &Service{
		repo:    repo,
		extract: ex,
		objects: obj,
		synth:   synth,
		log:     log.WithField("component", "content"),
	}
}

// CreatePageFromURL creates a page and bulk-creates its sections from the
// scraped content. Scrape failures are logged and produce a page with zero
// sections; page creation itself never fails on them.
func (s *Service) CreatePageFromURL(ctx context.Context, websiteID, pageURL string) (models.Page, []models.Section, error) {
	page := models.Page{
		ID:        uuid.New().String(),
		WebsiteID: websiteID,
		URL:       pageURL,
		Status:    models.StatusNotSetup,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreatePage(ctx, page); err != nil {
		return models.Page{}, nil, fmt.Errorf("create page: %w", err)
	}

	var chunks []string
	if s.extract != nil {
		chunks = s.extract.Extract(ctx, pageURL)
	}
	sections, err := s.CreateSections(ctx, page.ID, chunks)
	if err != nil {
		return models.Page{}, nil, err
	}
	page.SectionsCount = len(sections)
	return page, sections, nil
}

// CreateSections bulk-inserts chunks as sections ordered 1..N. Calling it
// twice for the same page duplicates sections; callers own idempotency.
func (s *Service) CreateSections(ctx context.Context, pageID string, chunks []string) ([]models.Section, error) {
	sections := make([]models.Section, 0, len(chunks))
	for i, chunk := range chunks {
		sec := models.Section{
			ID:            uuid.New().String(),
			PageID:        pageID,
			SelectedText:  chunk,
			TextContent:   chunk,
			PositionOrder: i + 1,
			Status:        models.StatusNotSetup,
			CreatedAt:     time.Now().UTC(),
		}
		if err := s.repo.CreateSection(ctx, sec); err != nil {
			return nil, fmt.Errorf("create section %d: %w", i+1, err)
		}
		sections = append(sections, sec)
	}
	if err := s.recountSections(ctx, pageID); err != nil {
		return nil, err
	}
	return sections, nil
}

// CreateSection adds one section. A zero order means "append after the
// current maximum".
func (s *Service) CreateSection(ctx context.Context, pageID, text string, order int) (models.Section, error) {
	if _, err := s.repo.PageByID(ctx, pageID); err != nil {
		return models.Section{}, err
	}
	if order == 0 {
		existing, err := s.repo.SectionsForPage(ctx, pageID)
		if err != nil {
			return models.Section{}, err
		}
		for _, sec := range existing {
			if sec.PositionOrder >= order {
				order = sec.PositionOrder + 1
			}
		}
		if order == 0 {
			order = 1
		}
	}
	sec := models.Section{
		ID:            uuid.New().String(),
		PageID:        pageID,
		SelectedText:  text,
		TextContent:   text,
		PositionOrder: order,
		Status:        models.StatusNotSetup,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.repo.CreateSection(ctx, sec); err != nil {
		return models.Section{}, fmt.Errorf("create section: %w", err)
	}
	if err := s.recountSections(ctx, pageID); err != nil {
		return models.Section{}, err
	}
	return sec, nil
}

// ReorderSections applies each new order independently. Reapplying the same
// input is a no-op, but nothing validates uniqueness or contiguity.
func (s *Service) ReorderSections(ctx context.Context, pageID string, orders map[string]int) error {
	for id, order := range orders {
		if err := s.repo.SetSectionOrder(ctx, pageID, id, order); err != nil {
			return fmt.Errorf("reorder section %s: %w", id, err)
		}
	}
	return nil
}

// DeleteSection removes the section and all media and translations
// attached to it. The steps are sequential, not transactional.
func (s *Service) DeleteSection(ctx context.Context, sectionID string) error {
	sec, err := s.repo.SectionByID(ctx, sectionID)
	if err != nil {
		return err
	}
	if err := s.deleteSectionChildren(ctx, sectionID); err != nil {
		return err
	}
	if err := s.repo.DeleteSection(ctx, sectionID); err != nil {
		return err
	}
	return s.recountSections(ctx, sec.PageID)
}

// DeletePage removes the page and cascades over its sections.
func (s *Service) DeletePage(ctx context.Context, pageID string) error {
	sections, err := s.repo.SectionsForPage(ctx, pageID)
	if err != nil {
		return err
	}
	for _, sec := range sections {
		if err := s.deleteSectionChildren(ctx, sec.ID); err != nil {
			return err
		}
		if err := s.repo.DeleteSection(ctx, sec.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
	}
	return s.repo.DeletePage(ctx, pageID)
}

// DeleteWebsite cascades over all pages of the website before removing it.
func (s *Service) DeleteWebsite(ctx context.Context, websiteID string) error {
	pages, err := s.repo.PagesForWebsite(ctx, websiteID)
	if err != nil {
		return err
	}
	for _, p := range pages {
		if err := s.DeletePage(ctx, p.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
	}
	return s.repo.DeleteWebsite(ctx, websiteID)
}

func (s *Service) deleteSectionChildren(ctx context.Context, sectionID string) error {
	videos, err := s.repo.VideosForSection(ctx, sectionID)
	if err != nil {
		return err
	}
	for _, v := range videos {
		s.removeObject(ctx, v.FilePath)
		if err := s.repo.DeleteVideo(ctx, v.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
	}
	audios, err := s.repo.AudiosForSection(ctx, sectionID)
	if err != nil {
		return err
	}
	for _, a := range audios {
		s.removeObject(ctx, a.FilePath)
		if err := s.repo.DeleteAudio(ctx, a.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
	}
	translations, err := s.repo.TranslationsForSection(ctx, sectionID)
	if err != nil {
		return err
	}
	for _, t := range translations {
		if err := s.repo.DeleteTranslation(ctx, t.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
	}
	return nil
}

func (s *Service) removeObject(ctx context.Context, fileKey string) {
	if s.objects == nil || fileKey == "" {
		return
	}
	if err := s.objects.Remove(ctx, fileKey); err != nil {
		// The DB row wins; a leftover object is cheaper than a broken delete.
		s.log.WithError(err).WithField("key", fileKey).Warn("failed to remove stored object")
	}
}

// recountSections refreshes the page's cached sections_count from a fresh
// count query. Counts are always recomputed, never incremented, so they
// cannot drift.
func (s *Service) recountSections(ctx context.Context, pageID string) error {
	n, err := s.repo.CountSections(ctx, pageID)
	if err != nil {
		return err
	}
	return s.repo.SetSectionsCount(ctx, pageID, n)
}

func (s *Service) recountVideos(ctx context.Context, sectionID string) error {
	n, err := s.repo.CountVideos(ctx, sectionID)
	if err != nil {
		return err
	}
	return s.repo.SetVideosCount(ctx, sectionID, n)
}

func (s *Service) recountAudios(ctx context.Context, sectionID string) error {
	n, err := s.repo.CountAudios(ctx, sectionID)
	if err != nil {
		return err
	}
	return s.repo.SetAudiosCount(ctx, sectionID, n)
}

// ReconcileWebsite recomputes every cached count under the website from the
// actual child rows. The in-band replacement for the old one-off
// reconciliation scripts.
func (s *Service) ReconcileWebsite(ctx context.Context, websiteID string) error {
	pages, err := s.repo.PagesForWebsite(ctx, websiteID)
	if err != nil {
		return err
	}
	for _, p := range pages {
		if err := s.recountSections(ctx, p.ID); err != nil {
			return err
		}
		sections, err := s.repo.SectionsForPage(ctx, p.ID)
		if err != nil {
			return err
		}
		for _, sec := range sections {
			if err := s.recountVideos(ctx, sec.ID); err != nil {
				return err
			}
			if err := s.recountAudios(ctx, sec.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

// EffectiveState derives a section's content state; it is never stored.
func EffectiveState(sec models.Section) string {
	hasMedia := sec.VideosCount > 0 || sec.AudiosCount > 0
	switch {
	case !hasMedia:
		return "Empty"
	case sec.Status == models.StatusActive:
		return "Ready"
	default:
		return "Partial"
	}
}

// resolveMediaURL returns the URL a client should actually fetch. Public
// bucket URLs pass through; everything else gets a fresh signed URL so
// expiry always reflects current policy.
func (s *Service) resolveMediaURL(ctx context.Context, storedURL, fileKey string) string {
	if s.objects == nil || fileKey == "" {
		return storedURL
	}
	if public, ok := s.objects.PublicURL(fileKey); ok {
		if strings.HasPrefix(storedURL, "http") {
			return storedURL
		}
		return public
	}
	signed, err := s.objects.SignedDownloadURL(ctx, fileKey)
	if err != nil {
		s.log.WithError(err).WithField("key", fileKey).Warn("failed to sign media URL")
		return storedURL
	}
	return signed
}
