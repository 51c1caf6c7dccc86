package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pivot/internal/models"
)

func TestMemoryWebsitesForUser(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.CreateWebsite(ctx, models.Website{ID: "w1", OwnerID: "alice"}))
	require.NoError(t, m.CreateWebsite(ctx, models.Website{ID: "w2", OwnerID: "bob"}))
	require.NoError(t, m.AddCollaborator(ctx, "w2", "alice"))

	sites, err := m.WebsitesForUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, sites, 2)

	sites, err = m.WebsitesForUser(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, sites, 1)
	assert.Equal(t, "w2", sites[0].ID)
}

func TestMemoryAddCollaboratorIdempotent(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.CreateWebsite(ctx, models.Website{ID: "w1", OwnerID: "alice"}))
	require.NoError(t, m.AddCollaborator(ctx, "w1", "carol"))
	require.NoError(t, m.AddCollaborator(ctx, "w1", "carol"))

	w, err := m.WebsiteByID(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, []string{"carol"}, w.Collaborators)

	assert.ErrorIs(t, m.AddCollaborator(ctx, "missing", "carol"), ErrNotFound)
}

func TestMemorySectionsOrderedWithTies(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.CreateSection(ctx, models.Section{ID: "s1", PageID: "p1", PositionOrder: 2}))
	require.NoError(t, m.CreateSection(ctx, models.Section{ID: "s2", PageID: "p1", PositionOrder: 1}))
	require.NoError(t, m.CreateSection(ctx, models.Section{ID: "s3", PageID: "p1", PositionOrder: 1}))

	sections, err := m.SectionsForPage(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, sections, 3)
	// Equal orders keep insertion order.
	assert.Equal(t, "s2", sections[0].ID)
	assert.Equal(t, "s3", sections[1].ID)
	assert.Equal(t, "s1", sections[2].ID)
}

func TestMemoryBatchFetchAcrossSections(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.CreateVideo(ctx, models.Video{ID: "v1", SectionID: "s1"}))
	require.NoError(t, m.CreateVideo(ctx, models.Video{ID: "v2", SectionID: "s2"}))
	require.NoError(t, m.CreateVideo(ctx, models.Video{ID: "v3", SectionID: "s3"}))

	videos, err := m.VideosForSections(ctx, []string{"s1", "s3"})
	require.NoError(t, err)
	require.Len(t, videos, 2)

	videos, err = m.VideosForSections(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, videos)
}

func TestMemoryAnalyticsKeyedByPageURL(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.IncrementViews(ctx, "w1", "https://ex.com/a"))
	require.NoError(t, m.IncrementViews(ctx, "w1", "https://ex.com/a"))
	require.NoError(t, m.IncrementInteractions(ctx, "w1", "https://ex.com/a"))
	require.NoError(t, m.IncrementViews(ctx, "w1", "https://ex.com/b"))

	rows, err := m.AnalyticsForWebsite(ctx, "w1")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byURL := map[string]models.Analytics{}
	for _, row := range rows {
		byURL[row.PageURL] = row
	}
	assert.Equal(t, int64(2), byURL["https://ex.com/a"].Views)
	assert.Equal(t, int64(1), byURL["https://ex.com/a"].Interactions)
	assert.Equal(t, int64(1), byURL["https://ex.com/b"].Views)
}
