package reservations

import (
	"context"
	"errors"
	"fmt"

	"goodnight/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("reservation not found")

// Store persists reservations. List returns every reservation, newest first.
type Store interface {
	List(ctx context.Context) ([]models.Reservation, error)
	Get(ctx context.Context, id string) (models.Reservation, error)
	Insert(ctx context.Context, r models.Reservation) error
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
}

// MongoStore keeps reservations in a MongoDB collection. Documents written
// by older versions of the booking forms are read through
// models.DecodeReservation.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

// legacyKeys are rewritten to their current names when a document is edited.
var legacyKeys = bson.M{
	"pname": "", "roomId": "", "roomName": "", "checkIn": "", "checkOut": "", "adults": "", "kids": "",
}

func (s *MongoStore) List(ctx context.Context) ([]models.Reservation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer cur.Close(ctx)

	out := []models.Reservation{}
	for cur.Next(ctx) {
		out = append(out, models.DecodeReservation(cur.Current))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return out, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (models.Reservation, error) {
	raw, err := s.coll.FindOne(ctx, idFilter(id)).Raw()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Reservation{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Reservation{}, fmt.Errorf("get reservation %s: %w", id, err)
	}
	return models.DecodeReservation(raw), nil
}

func (s *MongoStore) Insert(ctx context.Context, r models.Reservation) error {
	if _, err := s.coll.InsertOne(ctx, r); err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}
	return nil
}

func (s *MongoStore) Update(ctx context.Context, id string, fields map[string]any) error {
	update := bson.M{"$set": fields}
	if _, edit := fields["guestName"]; edit {
		update["$unset"] = legacyKeys
	}
	res, err := s.coll.UpdateOne(ctx, idFilter(id), update)
	if err != nil {
		return fmt.Errorf("update reservation %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, idFilter(id))
	if err != nil {
		return fmt.Errorf("delete reservation %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return nil
}

// idFilter matches the id field, or the ObjectID of documents created
// before ids were assigned by the service.
func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"$or": bson.A{bson.M{"id": id}, bson.M{"_id": oid}}}
	}
	return bson.M{"id": id}
}
