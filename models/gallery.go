package models

import "time"

type GalleryImage struct {
	ID        string    `json:"id" bson:"id"`
	Path      string    `json:"path" bson:"path"`
	ThumbPath string    `json:"thumbPath" bson:"thumbPath"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

type ContactMessage struct {
	ID        string    `json:"id" bson:"id"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Message   string    `json:"message" bson:"message"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
