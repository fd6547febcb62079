// Package gallery stores the hotel photos shown on the public site.
package gallery

import (
	"context"
	"errors"
	"fmt"

	"goodnight/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("image not found")

type Store interface {
	List(ctx context.Context) ([]models.GalleryImage, error)
	Get(ctx context.Context, id string) (models.GalleryImage, error)
	Insert(ctx context.Context, img models.GalleryImage) error
	Delete(ctx context.Context, id string) error
}

type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

func (s *MongoStore) List(ctx context.Context) ([]models.GalleryImage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list gallery: %w", err)
	}
	images := []models.GalleryImage{}
	if err := cur.All(ctx, &images); err != nil {
		return nil, fmt.Errorf("list gallery: %w", err)
	}
	return images, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (models.GalleryImage, error) {
	var img models.GalleryImage
	err := s.coll.FindOne(ctx, bson.M{"id": id}).Decode(&img)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return img, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		return img, fmt.Errorf("get image %s: %w", id, err)
	}
	return img, nil
}

func (s *MongoStore) Insert(ctx context.Context, img models.GalleryImage) error {
	if _, err := s.coll.InsertOne(ctx, img); err != nil {
		return fmt.Errorf("insert image: %w", err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("delete image %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return nil
}
