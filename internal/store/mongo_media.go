package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pivot/internal/models"
)

// Videos

func (m *Mongo) CreateVideo(ctx context.Context, v models.Video) error {
	_, err := m.col("videos").InsertOne(ctx, v)
	return err
}

func (m *Mongo) VideoByID(ctx context.Context, id string) (models.Video, error) {
	var v models.Video
	err := m.col("videos").FindOne(ctx, bson.M{"id": id}).Decode(&v)
	return v, notFound(err)
}

func (m *Mongo) VideosForSection(ctx context.Context, sectionID string) ([]models.Video, error) {
	cur, err := m.col("videos").Find(ctx, bson.M{"section_id": sectionID})
	if err != nil {
		return nil, fmt.Errorf("find videos: %w", err)
	}
	out := []models.Video{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Mongo) VideosForSections(ctx context.Context, sectionIDs []string) ([]models.Video, error) {
	cur, err := m.col("videos").Find(ctx, bson.M{"section_id": bson.M{"$in": sectionIDs}})
	if err != nil {
		return nil, fmt.Errorf("find videos: %w", err)
	}
	out := []models.Video{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Mongo) CountVideos(ctx context.Context, sectionID string) (int, error) {
	n, err := m.col("videos").CountDocuments(ctx, bson.M{"section_id": sectionID})
	return int(n), err
}

func (m *Mongo) DeleteVideo(ctx context.Context, id string) error {
	res, err := m.col("videos").DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Audios

func (m *Mongo) CreateAudio(ctx context.Context, a models.Audio) error {
	_, err := m.col("audios").InsertOne(ctx, a)
	return err
}

func (m *Mongo) AudioByID(ctx context.Context, id string) (models.Audio, error) {
	var a models.Audio
	err := m.col("audios").FindOne(ctx, bson.M{"id": id}).Decode(&a)
	return a, notFound(err)
}

func (m *Mongo) AudiosForSection(ctx context.Context, sectionID string) ([]models.Audio, error) {
	cur, err := m.col("audios").Find(ctx, bson.M{"section_id": sectionID})
	if err != nil {
		return nil, fmt.Errorf("find audios: %w", err)
	}
	out := []models.Audio{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Mongo) AudiosForSections(ctx context.Context, sectionIDs []string) ([]models.Audio, error) {
	cur, err := m.col("audios").Find(ctx, bson.M{"section_id": bson.M{"$in": sectionIDs}})
	if err != nil {
		return nil, fmt.Errorf("find audios: %w", err)
	}
	out := []models.Audio{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Mongo) CountAudios(ctx context.Context, sectionID string) (int, error) {
	n, err := m.col("audios").CountDocuments(ctx, bson.M{"section_id": sectionID})
	return int(n), err
}

func (m *Mongo) DeleteAudio(ctx context.Context, id string) error {
	res, err := m.col("audios").DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Translations

func (m *Mongo) CreateTranslation(ctx context.Context, t models.TextTranslation) error {
	_, err := m.col("text_translations").InsertOne(ctx, t)
	return err
}

func (m *Mongo) TranslationByID(ctx context.Context, id string) (models.TextTranslation, error) {
	var t models.TextTranslation
	err := m.col("text_translations").FindOne(ctx, bson.M{"id": id}).Decode(&t)
	return t, notFound(err)
}

func (m *Mongo) TranslationsForSection(ctx context.Context, sectionID string) ([]models.TextTranslation, error) {
	cur, err := m.col("text_translations").Find(ctx, bson.M{"section_id": sectionID})
	if err != nil {
		return nil, fmt.Errorf("find translations: %w", err)
	}
	out := []models.TextTranslation{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Mongo) TranslationsForSections(ctx context.Context, sectionIDs []string) ([]models.TextTranslation, error) {
	cur, err := m.col("text_translations").Find(ctx, bson.M{"section_id": bson.M{"$in": sectionIDs}})
	if err != nil {
		return nil, fmt.Errorf("find translations: %w", err)
	}
	out := []models.TextTranslation{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Mongo) DeleteTranslation(ctx context.Context, id string) error {
	res, err := m.col("text_translations").DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Analytics

func (m *Mongo) incrementCounter(ctx context.Context, websiteID, pageURL, field string) error {
	opts := options.Update().SetUpsert(true)
	_, err := m.col("analytics").UpdateOne(ctx,
		bson.M{"website_id": websiteID, "page_url": pageURL},
		bson.M{"$inc": bson.M{field: 1}},
		opts,
	)
	return err
}

func (m *Mongo) IncrementViews(ctx context.Context, websiteID, pageURL string) error {
	return m.incrementCounter(ctx, websiteID, pageURL, "views")
}

func (m *Mongo) IncrementInteractions(ctx context.Context, websiteID, pageURL string) error {
	return m.incrementCounter(ctx, websiteID, pageURL, "interactions")
}

func (m *Mongo) AnalyticsForWebsite(ctx context.Context, websiteID string) ([]models.Analytics, error) {
	cur, err := m.col("analytics").Find(ctx, bson.M{"website_id": websiteID})
	if err != nil {
		return nil, fmt.Errorf("find analytics: %w", err)
	}
	out := []models.Analytics{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Invitations

func (m *Mongo) CreateInvitation(ctx context.Context, inv models.Invitation) error {
	_, err := m.col("invitations").InsertOne(ctx, inv)
	return err
}

func (m *Mongo) InvitationByToken(ctx context.Context, token string) (models.Invitation, error) {
	var inv models.Invitation
	err := m.col("invitations").FindOne(ctx, bson.M{"token": token}).Decode(&inv)
	return inv, notFound(err)
}

func (m *Mongo) DeleteInvitation(ctx context.Context, id string) error {
	res, err := m.col("invitations").DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
