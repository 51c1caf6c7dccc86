package content

import (
	"context"
	"errors"

	"pivot/internal/models"
	"pivot/internal/store"
)

// WidgetSection is one section plus everything the embed script needs to
// render it.
type WidgetSection struct {
	models.Section
	Videos       []models.Video           `json:"videos"`
	Audios       []models.Audio           `json:"audios"`
	Translations []models.TextTranslation `json:"translations"`
}

// WidgetPayload is the full response for one (website, page URL) pair.
type WidgetPayload struct {
	WebsiteID string          `json:"website_id"`
	PageURL   string          `json:"page_url"`
	Sections  []WidgetSection `json:"sections"`
}

// WidgetContent aggregates the displayable content for a page. A missing
// website is ErrNotFound; a website without a matching Active page is a
// success with an empty sections list, so the widget on the host page can
// tell "wrong id" from "no content yet". The view counter increment is
// best-effort and never fails the read.
func (s *Service) WidgetContent(ctx context.Context, websiteID, pageURL string) (WidgetPayload, error) {
	if _, err := s.repo.WebsiteByID(ctx, websiteID); err != nil {
		return WidgetPayload{}, err
	}

	payload := WidgetPayload{WebsiteID: websiteID, PageURL: pageURL, Sections: []WidgetSection{}}

	defer func() {
		if err := s.repo.IncrementViews(ctx, websiteID, pageURL); err != nil {
			s.log.WithError(err).WithField("website_id", websiteID).Warn("failed to record widget view")
		}
	}()

	// Exact string match against the stored page URL, by design.
	page, err := s.repo.PageByURL(ctx, websiteID, pageURL)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return payload, nil
		}
		return WidgetPayload{}, err
	}
	if page.Status != models.StatusActive {
		return payload, nil
	}

	sections, err := s.repo.SectionsForPage(ctx, page.ID)
	if err != nil {
		return WidgetPayload{}, err
	}

	active := make([]models.Section, 0, len(sections))
	ids := make([]string, 0, len(sections))
	for _, sec := range sections {
		if sec.Status == models.StatusActive {
			active = append(active, sec)
			ids = append(ids, sec.ID)
		}
	}
	if len(active) == 0 {
		return payload, nil
	}

	// One query per media collection for the whole page, not one per section.
	videos, err := s.repo.VideosForSections(ctx, ids)
	if err != nil {
		return WidgetPayload{}, err
	}
	audios, err := s.repo.AudiosForSections(ctx, ids)
	if err != nil {
		return WidgetPayload{}, err
	}
	translations, err := s.repo.TranslationsForSections(ctx, ids)
	if err != nil {
		return WidgetPayload{}, err
	}

	videosBySection := map[string][]models.Video{}
	for _, v := range videos {
		v.VideoURL = s.resolveMediaURL(ctx, v.VideoURL, v.FilePath)
		videosBySection[v.SectionID] = append(videosBySection[v.SectionID], v)
	}
	audiosBySection := map[string][]models.Audio{}
	for _, a := range audios {
		a.AudioURL = s.resolveMediaURL(ctx, a.AudioURL, a.FilePath)
		audiosBySection[a.SectionID] = append(audiosBySection[a.SectionID], a)
	}
	translationsBySection := map[string][]models.TextTranslation{}
	for _, t := range translations {
		translationsBySection[t.SectionID] = append(translationsBySection[t.SectionID], t)
	}

	for _, sec := range active {
		ws := WidgetSection{
			Section:      sec,
			Videos:       videosBySection[sec.ID],
			Audios:       audiosBySection[sec.ID],
			Translations: translationsBySection[sec.ID],
		}
		if ws.Videos == nil {
			ws.Videos = []models.Video{}
		}
		if ws.Audios == nil {
			ws.Audios = []models.Audio{}
		}
		if ws.Translations == nil {
			ws.Translations = []models.TextTranslation{}
		}
		payload.Sections = append(payload.Sections, ws)
	}
	return payload, nil
}
