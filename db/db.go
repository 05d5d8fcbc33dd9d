package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/HavenSelph/NamelessBot/types"
)

const collectionName = "whitelist"

// Service represents struct that deals with database level operations
type Service struct {
	client   *mongo.Client
	database string
}

// NewService creates a new mongoDb service that handles database level operations
func NewService(client *mongo.Client, database string) *Service {
	return &Service{
		client:   client,
		database: database,
	}
}

// Ping checks for db connection
func (s *Service) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Service) entries() *mongo.Collection {
	return s.client.Database(s.database).Collection(collectionName)
}

// DeleteResult reports the outcome of a delete operation
type DeleteResult struct {
	Acknowledged bool
	DeletedCount int64
}

// Insert stores a new whitelist entry and returns it with its generated id
func (s *Service) Insert(ctx context.Context, entry types.WhitelistEntry) (types.WhitelistEntry, error) {
	entry.ID = primitive.NewObjectID()
	if _, err := s.entries().InsertOne(ctx, entry); err != nil {
		return types.WhitelistEntry{}, err
	}
	return entry, nil
}

// FindOne returns the first entry matching the filter, or nil when none matches
func (s *Service) FindOne(ctx context.Context, filter Filter) (*types.WhitelistEntry, error) {
	var entry types.WhitelistEntry
	err := s.entries().FindOne(ctx, filter.bson()).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Find returns all entries matching the filter in insertion order
func (s *Service) Find(ctx context.Context, filter Filter) ([]types.WhitelistEntry, error) {
	cur, err := s.entries().Find(ctx, filter.bson(), findOptions())
	if err != nil {
		return nil, err
	}
	return decodeAll(ctx, cur)
}

// FindPaginated returns one offset-based page of entries matching the filter
func (s *Service) FindPaginated(ctx context.Context, filter Filter, skip, limit int64) ([]types.WhitelistEntry, error) {
	cur, err := s.entries().Find(ctx, filter.bson(), findOptions().SetSkip(skip).SetLimit(limit))
	if err != nil {
		return nil, err
	}
	return decodeAll(ctx, cur)
}

// Each streams entries matching the filter through fn, one at a time
func (s *Service) Each(ctx context.Context, filter Filter, fn func(types.WhitelistEntry) error) error {
	cur, err := s.entries().Find(ctx, filter.bson(), findOptions())
	if err != nil {
		return err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var entry types.WhitelistEntry
		if err := cur.Decode(&entry); err != nil {
			return err
		}
		if err := fn(entry); err != nil {
			return err
		}
	}
	return cur.Err()
}

// Count returns the number of entries matching the filter. The unfiltered
// count is an estimate; it only feeds pagination totals
func (s *Service) Count(ctx context.Context, filter Filter) (int64, error) {
	if len(filter) == 0 {
		return s.entries().EstimatedDocumentCount(ctx)
	}
	return s.entries().CountDocuments(ctx, filter.bson())
}

// DeleteOne removes the first entry matching the filter
func (s *Service) DeleteOne(ctx context.Context, filter Filter) (DeleteResult, error) {
	res, err := s.entries().DeleteOne(ctx, filter.bson())
	if err != nil {
		return DeleteResult{}, err
	}
	return DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

// DeleteMany removes every entry matching the filter
func (s *Service) DeleteMany(ctx context.Context, filter Filter) (DeleteResult, error) {
	res, err := s.entries().DeleteMany(ctx, filter.bson())
	if err != nil {
		return DeleteResult{}, err
	}
	return DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

// DeleteByID removes one entry by identity. Matching zero documents is not an
// error; the entry may have been removed concurrently
func (s *Service) DeleteByID(ctx context.Context, id primitive.ObjectID) (DeleteResult, error) {
	res, err := s.entries().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return DeleteResult{}, err
	}
	return DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

// Paginated reads sort by creation time so that concurrent writes can not
// shuffle pages mid-scroll
func findOptions() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "added_on", Value: 1}})
}

func decodeAll(ctx context.Context, cur *mongo.Cursor) ([]types.WhitelistEntry, error) {
	defer cur.Close(ctx)
	entries := make([]types.WhitelistEntry, 0)
	for cur.Next(ctx) {
		var entry types.WhitelistEntry
		if err := cur.Decode(&entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, cur.Err()
}
