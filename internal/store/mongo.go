package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"pivot/internal/models"
)

// Mongo implements Repository on top of a MongoDB database. One document per
// entity, application-assigned "id" field; Mongo's own _id is left alone.
type Mongo struct {
	db  *mongo.Database
	log logrus.FieldLogger
}

var _ Repository = (*Mongo)(nil)

func NewMongo(db *mongo.Database, log logrus.FieldLogger) *Mongo {
	return &Mongo{db: db, log: log.WithField("component", "store")}
}

func (m *Mongo) col(name string) *mongo.Collection { return m.db.Collection(name) }

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

// Users

func (m *Mongo) CreateUser(ctx context.Context, u models.User) error {
	_, err := m.col("users").InsertOne(ctx, u)
	return err
}

func (m *Mongo) UserByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := m.col("users").FindOne(ctx, bson.M{"email": email}).Decode(&u)
	return u, notFound(err)
}

func (m *Mongo) UserByID(ctx context.Context, id string) (models.User, error) {
	var u models.User
	err := m.col("users").FindOne(ctx, bson.M{"id": id}).Decode(&u)
	return u, notFound(err)
}

// Websites

func (m *Mongo) CreateWebsite(ctx context.Context, w models.Website) error {
	_, err := m.col("websites").InsertOne(ctx, w)
	return err
}

func (m *Mongo) WebsiteByID(ctx context.Context, id string) (models.Website, error) {
	var w models.Website
	err := m.col("websites").FindOne(ctx, bson.M{"id": id}).Decode(&w)
	return w, notFound(err)
}

func (m *Mongo) WebsitesForUser(ctx context.Context, userID string) ([]models.Website, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"owner_id": userID},
		bson.M{"collaborators": userID},
	}}
	cur, err := m.col("websites").Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find websites: %w", err)
	}
	out := []models.Website{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Mongo) AddCollaborator(ctx context.Context, websiteID, userID string) error {
	res, err := m.col("websites").UpdateOne(ctx,
		bson.M{"id": websiteID},
		bson.M{"$addToSet": bson.M{"collaborators": userID}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) DeleteWebsite(ctx context.Context, id string) error {
	res, err := m.col("websites").DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
