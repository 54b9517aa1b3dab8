package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document carries the identity and timestamps shared by every collection
// stored in MongoDB. Embed it inline.
type Document struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// Base exposes the embedded Document of any content type.
func (d *Document) Base() *Document {
	return d
}

// Touch stamps UpdatedAt and fills CreatedAt on first save.
func (d *Document) Touch(now time.Time) {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = now
}
