package content

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pivot/internal/models"
	"pivot/internal/store"
)

func TestWidgetContentAggregation(t *testing.T) {
	repo := store.NewMemory()
	svc := NewService(repo, nil, nil, nil, testLogger())
	ctx := context.Background()

	w := seedWebsite(t, repo)
	p := seedPage(t, repo, w.ID, "https://ex.com/a", models.StatusActive)
	s1 := seedSection(t, repo, p.ID, 1, models.StatusActive)
	s2 := seedSection(t, repo, p.ID, 2, models.StatusActive)
	require.NoError(t, repo.CreateVideo(ctx, models.Video{
		ID: uuid.New().String(), SectionID: s1.ID, Language: "English", VideoURL: "https://cdn/x.mp4",
	}))

	payload, err := svc.WidgetContent(ctx, w.ID, "https://ex.com/a")
	require.NoError(t, err)
	require.Len(t, payload.Sections, 2)

	assert.Equal(t, s1.ID, payload.Sections[0].ID)
	assert.Equal(t, s2.ID, payload.Sections[1].ID)
	require.Len(t, payload.Sections[0].Videos, 1)
	assert.Equal(t, "https://cdn/x.mp4", payload.Sections[0].Videos[0].VideoURL)
	assert.Empty(t, payload.Sections[1].Videos)
	assert.NotNil(t, payload.Sections[1].Videos)

	analytics, err := repo.AnalyticsForWebsite(ctx, w.ID)
	require.NoError(t, err)
	require.Len(t, analytics, 1)
	assert.Equal(t, "https://ex.com/a", analytics[0].PageURL)
	assert.Equal(t, int64(1), analytics[0].Views)
}

func TestWidgetContentMissingWebsite(t *testing.T) {
	repo := store.NewMemory()
	svc := NewService(repo, nil, nil, nil, testLogger())

	_, err := svc.WidgetContent(context.Background(), "no-such-website", "https://ex.com/a")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestWidgetContentNoMatchingPage(t *testing.T) {
	repo := store.NewMemory()
	svc := NewService(repo, nil, nil, nil, testLogger())
	ctx := context.Background()

	w := seedWebsite(t, repo)
	seedPage(t, repo, w.ID, "https://ex.com/a", models.StatusActive)

	// Exact string match only; a trailing slash is a different URL.
	payload, err := svc.WidgetContent(ctx, w.ID, "https://ex.com/a/")
	require.NoError(t, err)
	assert.Empty(t, payload.Sections)
	assert.NotNil(t, payload.Sections)
}

func TestWidgetContentInactivePage(t *testing.T) {
	repo := store.NewMemory()
	svc := NewService(repo, nil, nil, nil, testLogger())
	ctx := context.Background()

	w := seedWebsite(t, repo)
	p := seedPage(t, repo, w.ID, "https://ex.com/a", models.StatusInactive)
	seedSection(t, repo, p.ID, 1, models.StatusActive)

	payload, err := svc.WidgetContent(ctx, w.ID, "https://ex.com/a")
	require.NoError(t, err)
	assert.Empty(t, payload.Sections)
}

func TestWidgetContentSkipsInactiveSections(t *testing.T) {
	repo := store.NewMemory()
	svc := NewService(repo, nil, nil, nil, testLogger())
	ctx := context.Background()

	w := seedWebsite(t, repo)
	p := seedPage(t, repo, w.ID, "https://ex.com/a", models.StatusActive)
	seedSection(t, repo, p.ID, 1, models.StatusActive)
	seedSection(t, repo, p.ID, 2, models.StatusNotSetup)
	seedSection(t, repo, p.ID, 3, models.StatusNeedsReview)

	payload, err := svc.WidgetContent(ctx, w.ID, "https://ex.com/a")
	require.NoError(t, err)
	require.Len(t, payload.Sections, 1)
	assert.Equal(t, 1, payload.Sections[0].PositionOrder)
}

func TestWidgetViewCountAccumulates(t *testing.T) {
	repo := store.NewMemory()
	svc := NewService(repo, nil, nil, nil, testLogger())
	ctx := context.Background()

	w := seedWebsite(t, repo)
	for i := 0; i < 3; i++ {
		_, err := svc.WidgetContent(ctx, w.ID, "https://ex.com/a")
		require.NoError(t, err)
	}

	analytics, err := repo.AnalyticsForWebsite(ctx, w.ID)
	require.NoError(t, err)
	require.Len(t, analytics, 1)
	assert.Equal(t, int64(3), analytics[0].Views)
}
