package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Pin represents an image post document stored in MongoDB. Save and
// comment entries are embedded in the pin document itself; mutations on
// them go through the content store's patch builder.
type Pin struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	About       string             `json:"about" bson:"about"`
	Destination string             `json:"destination" bson:"destination"`
	Category    string             `json:"category" bson:"category"`
	Image       ImageRef           `json:"image" bson:"image"`
	UserID      string             `json:"user_id" bson:"user_id"` // Firebase UID of the pin owner
	PostedBy    PostedByRef        `json:"posted_by" bson:"posted_by"`
	Saves       []SaveEntry        `json:"save" bson:"save,omitempty"`
	Comments    []Comment          `json:"comments" bson:"comments,omitempty"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// ImageRef points a pin at its uploaded asset.
type ImageRef struct {
	AssetID string `json:"asset_id" bson:"asset_id"`
	URL     string `json:"url" bson:"url"`
}

// PostedByRef is a reference from a pin or comment to its authoring user.
type PostedByRef struct {
	UserID string `json:"user_id" bson:"user_id"`
}

// SaveEntry is a per-user bookmark embedded in a pin's save collection.
// Key is unique per append; UserID matching a session means "saved".
type SaveEntry struct {
	Key    string `json:"_key" bson:"_key"`
	UserID string `json:"user_id" bson:"user_id"`
}

// Comment is embedded in a pin's comment collection, append-only and
// ordered by insertion.
type Comment struct {
	Key       string      `json:"_key" bson:"_key"`
	Text      string      `json:"comment" bson:"comment"`
	PostedBy  PostedByRef `json:"posted_by" bson:"posted_by"`
	CreatedAt time.Time   `json:"created_at" bson:"created_at"`
}

// ArrayKey returns the save entry's unique key.
func (s *SaveEntry) ArrayKey() string { return s.Key }

// SetArrayKey assigns the save entry's unique key.
func (s *SaveEntry) SetArrayKey(key string) { s.Key = key }

// ArrayKey returns the comment's unique key.
func (c *Comment) ArrayKey() string { return c.Key }

// SetArrayKey assigns the comment's unique key.
func (c *Comment) SetArrayKey(key string) { c.Key = key }

// SavedBy reports whether the given user has a save entry on the pin.
func (p *Pin) SavedBy(userID string) bool {
	for _, s := range p.Saves {
		if s.UserID == userID {
			return true
		}
	}
	return false
}

// CreatePinRequest defines the request body for creating a new pin. The
// image must already be uploaded; AssetID references the stored asset.
type CreatePinRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=100"`
	About       string `json:"about" validate:"required,min=1,max=500"`
	Destination string `json:"destination" validate:"required,url"`
	Category    string `json:"category" validate:"required,min=1,max=50"`
	AssetID     string `json:"asset_id" validate:"required"`
	AssetURL    string `json:"asset_url" validate:"required,url"`
}

// CreateCommentRequest defines the request body for commenting on a pin.
type CreateCommentRequest struct {
	Text string `json:"comment" validate:"required,min=1,max=500"`
}
