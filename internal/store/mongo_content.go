package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pivot/internal/models"
)

// Pages

func (m *Mongo) CreatePage(ctx context.Context, p models.Page) error {
	_, err := m.col("pages").InsertOne(ctx, p)
	return err
}

func (m *Mongo) PageByID(ctx context.Context, id string) (models.Page, error) {
	var p models.Page
	err := m.col("pages").FindOne(ctx, bson.M{"id": id}).Decode(&p)
	return p, notFound(err)
}

func (m *Mongo) PageByURL(ctx context.Context, websiteID, url string) (models.Page, error) {
	var p models.Page
	err := m.col("pages").FindOne(ctx, bson.M{"website_id": websiteID, "url": url}).Decode(&p)
	return p, notFound(err)
}

func (m *Mongo) PagesForWebsite(ctx context.Context, websiteID string) ([]models.Page, error) {
	cur, err := m.col("pages").Find(ctx, bson.M{"website_id": websiteID})
	if err != nil {
		return nil, fmt.Errorf("find pages: %w", err)
	}
	out := []models.Page{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Mongo) UpdatePageStatus(ctx context.Context, id, status string) error {
	res, err := m.col("pages").UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) SetSectionsCount(ctx context.Context, pageID string, n int) error {
	_, err := m.col("pages").UpdateOne(ctx, bson.M{"id": pageID}, bson.M{"$set": bson.M{"sections_count": n}})
	return err
}

func (m *Mongo) DeletePage(ctx context.Context, id string) error {
	res, err := m.col("pages").DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Sections

// sectionDoc widens models.Section with the legacy field names some stored
// rows still carry (text/title/order). Reads normalize into the current
// schema so the rest of the code never branches on field presence.
type sectionDoc struct {
	models.Section `bson:",inline"`

	LegacyText  string `bson:"text,omitempty"`
	LegacyTitle string `bson:"title,omitempty"`
	LegacyOrder int    `bson:"order,omitempty"`
}

func (d sectionDoc) normalized() models.Section {
	s := d.Section
	if s.SelectedText == "" {
		if d.LegacyText != "" {
			s.SelectedText = d.LegacyText
		} else {
			s.SelectedText = d.LegacyTitle
		}
	}
	if s.TextContent == "" {
		s.TextContent = s.SelectedText
	}
	if s.PositionOrder == 0 && d.LegacyOrder != 0 {
		s.PositionOrder = d.LegacyOrder
	}
	if s.Status == "" {
		s.Status = models.StatusNotSetup
	}
	return s
}

func (m *Mongo) CreateSection(ctx context.Context, s models.Section) error {
	_, err := m.col("sections").InsertOne(ctx, s)
	return err
}

func (m *Mongo) SectionByID(ctx context.Context, id string) (models.Section, error) {
	var d sectionDoc
	if err := m.col("sections").FindOne(ctx, bson.M{"id": id}).Decode(&d); err != nil {
		return models.Section{}, notFound(err)
	}
	return d.normalized(), nil
}

func (m *Mongo) SectionsForPage(ctx context.Context, pageID string) ([]models.Section, error) {
	opts := options.Find().SetSort(bson.D{{Key: "position_order", Value: 1}})
	cur, err := m.col("sections").Find(ctx, bson.M{"page_id": pageID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find sections: %w", err)
	}
	var docs []sectionDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]models.Section, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.normalized())
	}
	return out, nil
}

func (m *Mongo) CountSections(ctx context.Context, pageID string) (int, error) {
	n, err := m.col("sections").CountDocuments(ctx, bson.M{"page_id": pageID})
	return int(n), err
}

func (m *Mongo) UpdateSection(ctx context.Context, id string, upd SectionUpdate) error {
	set := bson.M{}
	if upd.Text != nil {
		set["selected_text"] = *upd.Text
		set["text_content"] = *upd.Text
	}
	if upd.Status != nil {
		set["status"] = *upd.Status
	}
	if len(set) == 0 {
		return nil
	}
	res, err := m.col("sections").UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) SetSectionOrder(ctx context.Context, pageID, sectionID string, order int) error {
	_, err := m.col("sections").UpdateOne(ctx,
		bson.M{"id": sectionID, "page_id": pageID},
		bson.M{"$set": bson.M{"position_order": order}},
	)
	return err
}

func (m *Mongo) SetVideosCount(ctx context.Context, sectionID string, n int) error {
	_, err := m.col("sections").UpdateOne(ctx, bson.M{"id": sectionID}, bson.M{"$set": bson.M{"videos_count": n}})
	return err
}

func (m *Mongo) SetAudiosCount(ctx context.Context, sectionID string, n int) error {
	_, err := m.col("sections").UpdateOne(ctx, bson.M{"id": sectionID}, bson.M{"$set": bson.M{"audios_count": n}})
	return err
}

func (m *Mongo) DeleteSection(ctx context.Context, id string) error {
	res, err := m.col("sections").DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
