package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"memoir/backend/internal/apperrors"
	"memoir/backend/internal/models"
)

// EntryStore wraps the journal entries collection.
type EntryStore struct {
	coll *mongo.Collection
}

func NewEntryStore(coll *mongo.Collection) *EntryStore {
	return &EntryStore{coll: coll}
}

// Insert stores the entry and returns the identifier Mongo assigned to it.
func (s *EntryStore) Insert(ctx context.Context, entry models.JournalEntry) (primitive.ObjectID, error) {
	result, err := s.coll.InsertOne(ctx, entry)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("%w: unexpected inserted id type %T", apperrors.ErrStorage, result.InsertedID)
	}
	return id, nil
}

// FindAllSortedDesc returns every stored entry, most recent first.
// An empty store yields an empty slice, not an error.
func (s *EntryStore) FindAllSortedDesc(ctx context.Context) ([]models.JournalEntry, error) {
	findOptions := options.Find()
	findOptions.SetSort(bson.M{"timestamp": -1})

	cursor, err := s.coll.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	defer cursor.Close(ctx)

	entries := []models.JournalEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	return entries, nil
}

// FindByID looks up a single entry by its hex identifier.
func (s *EntryStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.JournalEntry, error) {
	var entry models.JournalEntry
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	return &entry, nil
}
