package store

import (
	"context"
	"sort"
	"sync"

	"pivot/internal/models"
)

// Memory is an in-memory Repository used by tests and local development.
// Collections are slices in insertion order, which also gives sections the
// same tie-breaking behavior Mongo exhibits for equal position_order.
type Memory struct {
	mu           sync.Mutex
	users        []models.User
	websites     []models.Website
	pages        []models.Page
	sections     []models.Section
	videos       []models.Video
	audios       []models.Audio
	translations []models.TextTranslation
	analytics    []models.Analytics
	invitations  []models.Invitation
}

var _ Repository = (*Memory)(nil)

func NewMemory() *Memory { return &Memory{} }

// Users

func (m *Memory) CreateUser(_ context.Context, u models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = append(m.users, u)
	return nil
}

func (m *Memory) UserByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (m *Memory) UserByID(_ context.Context, id string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}

// Websites

func (m *Memory) CreateWebsite(_ context.Context, w models.Website) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.websites = append(m.websites, w)
	return nil
}

func (m *Memory) WebsiteByID(_ context.Context, id string) (models.Website, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.websites {
		if w.ID == id {
			return w, nil
		}
	}
	return models.Website{}, ErrNotFound
}

func (m *Memory) WebsitesForUser(_ context.Context, userID string) ([]models.Website, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Website{}
	for _, w := range m.websites {
		if w.OwnerID == userID {
			out = append(out, w)
			continue
		}
		for _, c := range w.Collaborators {
			if c == userID {
				out = append(out, w)
				break
			}
		}
	}
	return out, nil
}

func (m *Memory) AddCollaborator(_ context.Context, websiteID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, w := range m.websites {
		if w.ID != websiteID {
			continue
		}
		for _, c := range w.Collaborators {
			if c == userID {
				return nil
			}
		}
		m.websites[i].Collaborators = append(m.websites[i].Collaborators, userID)
		return nil
	}
	return ErrNotFound
}

func (m *Memory) DeleteWebsite(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, w := range m.websites {
		if w.ID == id {
			m.websites = append(m.websites[:i], m.websites[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// Pages

func (m *Memory) CreatePage(_ context.Context, p models.Page) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages = append(m.pages, p)
	return nil
}

func (m *Memory) PageByID(_ context.Context, id string) (models.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.pages {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Page{}, ErrNotFound
}

func (m *Memory) PageByURL(_ context.Context, websiteID, url string) (models.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.pages {
		if p.WebsiteID == websiteID && p.URL == url {
			return p, nil
		}
	}
	return models.Page{}, ErrNotFound
}

func (m *Memory) PagesForWebsite(_ context.Context, websiteID string) ([]models.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Page{}
	for _, p := range m.pages {
		if p.WebsiteID == websiteID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *Memory) UpdatePageStatus(_ context.Context, id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.pages {
		if p.ID == id {
			m.pages[i].Status = status
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) SetSectionsCount(_ context.Context, pageID string, n int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.pages {
		if p.ID == pageID {
			m.pages[i].SectionsCount = n
			return nil
		}
	}
	return nil
}

func (m *Memory) DeletePage(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.pages {
		if p.ID == id {
			m.pages = append(m.pages[:i], m.pages[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// Sections

func (m *Memory) CreateSection(_ context.Context, s models.Section) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sections = append(m.sections, s)
	return nil
}

func (m *Memory) SectionByID(_ context.Context, id string) (models.Section, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sections {
		if s.ID == id {
			return s, nil
		}
	}
	return models.Section{}, ErrNotFound
}

func (m *Memory) SectionsForPage(_ context.Context, pageID string) ([]models.Section, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Section{}
	for _, s := range m.sections {
		if s.PageID == pageID {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PositionOrder < out[j].PositionOrder })
	return out, nil
}

func (m *Memory) CountSections(_ context.Context, pageID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.sections {
		if s.PageID == pageID {
			n++
		}
	}
	return n, nil
}

func (m *Memory) UpdateSection(_ context.Context, id string, upd SectionUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, s := range m.sections {
		if s.ID != id {
			continue
		}
		if upd.Text != nil {
			m.sections[i].SelectedText = *upd.Text
			m.sections[i].TextContent = *upd.Text
		}
		if upd.Status != nil {
			m.sections[i].Status = *upd.Status
		}
		return nil
	}
	return ErrNotFound
}

func (m *Memory) SetSectionOrder(_ context.Context, pageID, sectionID string, order int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, s := range m.sections {
		if s.ID == sectionID && s.PageID == pageID {
			m.sections[i].PositionOrder = order
			return nil
		}
	}
	return nil
}

func (m *Memory) SetVideosCount(_ context.Context, sectionID string, n int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, s := range m.sections {
		if s.ID == sectionID {
			m.sections[i].VideosCount = n
			return nil
		}
	}
	return nil
}

func (m *Memory) SetAudiosCount(_ context.Context, sectionID string, n int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, s := range m.sections {
		if s.ID == sectionID {
			m.sections[i].AudiosCount = n
			return nil
		}
	}
	return nil
}

func (m *Memory) DeleteSection(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, s := range m.sections {
		if s.ID == id {
			m.sections = append(m.sections[:i], m.sections[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// Videos

func (m *Memory) CreateVideo(_ context.Context, v models.Video) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.videos = append(m.videos, v)
	return nil
}

func (m *Memory) VideoByID(_ context.Context, id string) (models.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.videos {
		if v.ID == id {
			return v, nil
		}
	}
	return models.Video{}, ErrNotFound
}

func (m *Memory) VideosForSection(_ context.Context, sectionID string) ([]models.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Video{}
	for _, v := range m.videos {
		if v.SectionID == sectionID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *Memory) VideosForSections(_ context.Context, sectionIDs []string) ([]models.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := toSet(sectionIDs)
	out := []models.Video{}
	for _, v := range m.videos {
		if want[v.SectionID] {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *Memory) CountVideos(_ context.Context, sectionID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, v := range m.videos {
		if v.SectionID == sectionID {
			n++
		}
	}
	return n, nil
}

func (m *Memory) DeleteVideo(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, v := range m.videos {
		if v.ID == id {
			m.videos = append(m.videos[:i], m.videos[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// Audios

func (m *Memory) CreateAudio(_ context.Context, a models.Audio) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.audios = append(m.audios, a)
	return nil
}

func (m *Memory) AudioByID(_ context.Context, id string) (models.Audio, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.audios {
		if a.ID == id {
			return a, nil
		}
	}
	return models.Audio{}, ErrNotFound
}

func (m *Memory) AudiosForSection(_ context.Context, sectionID string) ([]models.Audio, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Audio{}
	for _, a := range m.audios {
		if a.SectionID == sectionID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *Memory) AudiosForSections(_ context.Context, sectionIDs []string) ([]models.Audio, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := toSet(sectionIDs)
	out := []models.Audio{}
	for _, a := range m.audios {
		if want[a.SectionID] {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *Memory) CountAudios(_ context.Context, sectionID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, a := range m.audios {
		if a.SectionID == sectionID {
			n++
		}
	}
	return n, nil
}

func (m *Memory) DeleteAudio(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, a := range m.audios {
		if a.ID == id {
			m.audios = append(m.audios[:i], m.audios[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// Translations

func (m *Memory) CreateTranslation(_ context.Context, t models.TextTranslation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.translations = append(m.translations, t)
	return nil
}

func (m *Memory) TranslationByID(_ context.Context, id string) (models.TextTranslation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.translations {
		if t.ID == id {
			return t, nil
		}
	}
	return models.TextTranslation{}, ErrNotFound
}

func (m *Memory) TranslationsForSection(_ context.Context, sectionID string) ([]models.TextTranslation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.TextTranslation{}
	for _, t := range m.translations {
		if t.SectionID == sectionID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *Memory) TranslationsForSections(_ context.Context, sectionIDs []string) ([]models.TextTranslation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := toSet(sectionIDs)
	out := []models.TextTranslation{}
	for _, t := range m.translations {
		if want[t.SectionID] {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *Memory) DeleteTranslation(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, t := range m.translations {
		if t.ID == id {
			m.translations = append(m.translations[:i], m.translations[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// Analytics

func (m *Memory) incrementCounter(websiteID, pageURL string, views, interactions int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, a := range m.analytics {
		if a.WebsiteID == websiteID && a.PageURL == pageURL {
			m.analytics[i].Views += views
			m.analytics[i].Interactions += interactions
			return nil
		}
	}
	m.analytics = append(m.analytics, models.Analytics{
		WebsiteID:    websiteID,
		PageURL:      pageURL,
		Views:        views,
		Interactions: interactions,
	})
	return nil
}

func (m *Memory) IncrementViews(_ context.Context, websiteID, pageURL string) error {
	return m.incrementCounter(websiteID, pageURL, 1, 0)
}

func (m *Memory) IncrementInteractions(_ context.Context, websiteID, pageURL string) error {
	return m.incrementCounter(websiteID, pageURL, 0, 1)
}

func (m *Memory) AnalyticsForWebsite(_ context.Context, websiteID string) ([]models.Analytics, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Analytics{}
	for _, a := range m.analytics {
		if a.WebsiteID == websiteID {
			out = append(out, a)
		}
	}
	return out, nil
}

// Invitations

func (m *Memory) CreateInvitation(_ context.Context, inv models.Invitation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invitations = append(m.invitations, inv)
	return nil
}

func (m *Memory) InvitationByToken(_ context.Context, token string) (models.Invitation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inv := range m.invitations {
		if inv.Token == token {
			return inv, nil
		}
	}
	return models.Invitation{}, ErrNotFound
}

func (m *Memory) DeleteInvitation(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, inv := range m.invitations {
		if inv.ID == id {
			m.invitations = append(m.invitations[:i], m.invitations[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
