package repository

import (
	"context"
	"errors"

	"github.com/gogotex/docregistry/internal/document"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo implements a MongoDB-backed repository for documents.
// Documents are keyed by _id; ids are time-ordered so sorting on _id
// yields insertion order.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	return &MongoRepo{col: col}
}

func (m *MongoRepo) Insert(ctx context.Context, doc *document.Document) error {
	_, err := m.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateID
		}
		return err
	}
	return nil
}

func (m *MongoRepo) Get(ctx context.Context, id string) (*document.Document, error) {
	var d document.Document
	err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, document.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (m *MongoRepo) List(ctx context.Context) ([]*document.Document, error) {
	cur, err := m.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*document.Document{}
	for cur.Next(ctx) {
		var d document.Document
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	return out, cur.Err()
}

func (m *MongoRepo) Update(ctx context.Context, doc *document.Document) error {
	set := bson.M{"name": doc.Name, "description": doc.Description}
	if doc.UpdatedAt != nil {
		set["updatedAt"] = *doc.UpdatedAt
	}
	res, err := m.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return document.ErrNotFound
	}
	return nil
}

func (m *MongoRepo) Delete(ctx context.Context, id string) (*document.Document, error) {
	var d document.Document
	err := m.col.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, document.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (m *MongoRepo) Ping(ctx context.Context) error {
	return m.col.Database().Client().Ping(ctx, nil)
}

// Close is a no-op; the client is owned by whoever connected it.
func (m *MongoRepo) Close() error { return nil }
