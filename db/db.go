package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ReservationsCollection *mongo.Collection
	RoomsCollection        *mongo.Collection
	GalleryCollection      *mongo.Collection
	ContactsCollection     *mongo.Collection
	UserCollection         *mongo.Collection
	Client                 *mongo.Client
)

// Connect opens the MongoDB client and binds the collections.
func Connect(ctx context.Context, uri, database string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var err error
	Client, err = mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := Client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("ping MongoDB: %w", err)
	}

	d := Client.Database(database)
	ReservationsCollection = d.Collection("reservations")
	RoomsCollection = d.Collection("rooms")
	GalleryCollection = d.Collection("gallery")
	ContactsCollection = d.Collection("contacts")
	UserCollection = d.Collection("users")

	CreateIndexes(ctx)
	return nil
}

// CreateIndexes is best effort; a failure is logged and startup continues.
func CreateIndexes(ctx context.Context) {
	indexes := []struct {
		coll  *mongo.Collection
		model mongo.IndexModel
	}{
		{ReservationsCollection, mongo.IndexModel{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)}},
		{ReservationsCollection, mongo.IndexModel{Keys: bson.D{{Key: "createdAt", Value: -1}}}},
		{RoomsCollection, mongo.IndexModel{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)}},
		{GalleryCollection, mongo.IndexModel{Keys: bson.D{{Key: "createdAt", Value: -1}}}},
		{UserCollection, mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)}},
	}
	for _, ix := range indexes {
		if _, err := ix.coll.Indexes().CreateOne(ctx, ix.model); err != nil {
			log.Printf("[DB] index on %s: %v", ix.coll.Name(), err)
		}
	}
}

func Disconnect(ctx context.Context) {
	if Client == nil {
		return
	}
	if err := Client.Disconnect(ctx); err != nil {
		log.Printf("[DB] disconnect: %v", err)
	}
}
