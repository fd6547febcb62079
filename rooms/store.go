// Package rooms serves the room catalog and its admin edits.
package rooms

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"goodnight/models"
	"goodnight/rdx"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("room type not found")

const (
	cacheKey = "rooms:catalog"
	cacheTTL = 10 * time.Minute
)

// Store reads and edits room types.
type Store interface {
	RoomTypes(ctx context.Context) ([]models.RoomType, error)
	Update(ctx context.Context, id string, fields map[string]any) error
}

// MongoStore keeps room types in MongoDB and caches the catalog in Redis
// when it is configured.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

// RoomTypes returns the catalog. An empty collection reads as the default
// layout.
func (s *MongoStore) RoomTypes(ctx context.Context) ([]models.RoomType, error) {
	var cached []models.RoomType
	if ok, err := rdx.GetJSON(ctx, cacheKey, &cached); err != nil {
		log.Printf("[Rooms] cache read: %v", err)
	} else if ok {
		return cached, nil
	}

	cur, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list room types: %w", err)
	}
	defer cur.Close(ctx)

	var out []models.RoomType
	for cur.Next(ctx) {
		out = append(out, models.DecodeRoomType(cur.Current))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list room types: %w", err)
	}
	if len(out) == 0 {
		out = models.DefaultRoomTypes()
	}

	if err := rdx.SetJSON(ctx, cacheKey, out, cacheTTL); err != nil && !errors.Is(err, rdx.ErrDisabled) {
		log.Printf("[Rooms] cache write: %v", err)
	}
	return out, nil
}

// Seed writes the default layout into an empty collection so admin edits
// have documents to change.
func (s *MongoStore) Seed(ctx context.Context) error {
	n, err := s.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("count room types: %w", err)
	}
	if n > 0 {
		return nil
	}
	docs := []any{}
	for _, rt := range models.DefaultRoomTypes() {
		docs = append(docs, rt)
	}
	if _, err := s.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("seed room types: %w", err)
	}
	log.Printf("[Rooms] seeded %d default room types", len(docs))
	s.invalidate(ctx)
	return nil
}

func (s *MongoStore) Update(ctx context.Context, id string, fields map[string]any) error {
	filter := bson.M{"id": id}
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		filter = bson.M{"$or": bson.A{filter, bson.M{"_id": oid}}}
	}
	res, err := s.coll.UpdateOne(ctx, filter, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("update room type %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	s.invalidate(ctx)
	return nil
}

func (s *MongoStore) invalidate(ctx context.Context) {
	if err := rdx.RdxDel(ctx, cacheKey); err != nil && !errors.Is(err, rdx.ErrDisabled) {
		log.Printf("[Rooms] cache invalidate: %v", err)
	}
}
