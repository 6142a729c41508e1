package repositories

import (
	"context"
	"time"

	"github.com/pinstash/pinstash/backend/internal/content"
	"github.com/pinstash/pinstash/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// PinRepository defines the interface for pin document operations
type PinRepository interface {
	CreatePin(ctx context.Context, pin *models.Pin) error
	GetPinByID(ctx context.Context, id string) (*models.Pin, error)
	GetFeed(ctx context.Context) ([]models.Pin, error)
	GetPinsByCategory(ctx context.Context, category string) ([]models.Pin, error)
	SearchPins(ctx context.Context, term string) ([]models.Pin, error)
	GetPinsByUserID(ctx context.Context, userID string) ([]models.Pin, error)
	GetSavedPinsByUserID(ctx context.Context, userID string) ([]models.Pin, error)
	GetComments(ctx context.Context, pinID string) ([]models.Comment, error)
	AddComment(ctx context.Context, pinID, userID, text string) error
	SavePin(ctx context.Context, pinID, userID string) error
	UnsavePin(ctx context.Context, pinID, userID string) error
	DeletePin(ctx context.Context, id string) error
}

// ContentPinRepository implements PinRepository over the content store
type ContentPinRepository struct {
	store *content.Store
}

// NewContentPinRepository creates a new ContentPinRepository
func NewContentPinRepository(store *content.Store) *ContentPinRepository {
	return &ContentPinRepository{store: store}
}

// CreatePin creates a new pin document with a store-assigned id
func (r *ContentPinRepository) CreatePin(ctx context.Context, pin *models.Pin) error {
	pin.CreatedAt = time.Now().UTC()
	pin.UpdatedAt = pin.CreatedAt
	id, err := r.store.Create(ctx, content.CollectionPins, pin)
	if err != nil {
		return err
	}
	pin.ID = id
	return nil
}

// GetPinByID retrieves a single pin document
func (r *ContentPinRepository) GetPinByID(ctx context.Context, id string) (*models.Pin, error) {
	q, err := content.PinDetailQuery(id)
	if err != nil {
		return nil, err
	}
	var pin models.Pin
	if err := r.store.FetchOne(ctx, q, &pin); err != nil {
		return nil, err
	}
	return &pin, nil
}

// GetFeed retrieves the full feed, newest first
func (r *ContentPinRepository) GetFeed(ctx context.Context) ([]models.Pin, error) {
	return r.fetchPins(ctx, content.FeedQuery())
}

// GetPinsByCategory retrieves the category-filtered feed
func (r *ContentPinRepository) GetPinsByCategory(ctx context.Context, category string) ([]models.Pin, error) {
	return r.fetchPins(ctx, content.CategoryQuery(category))
}

// SearchPins retrieves pins matching a search term
func (r *ContentPinRepository) SearchPins(ctx context.Context, term string) ([]models.Pin, error) {
	return r.fetchPins(ctx, content.SearchQuery(term))
}

// GetPinsByUserID retrieves pins created by a user
func (r *ContentPinRepository) GetPinsByUserID(ctx context.Context, userID string) ([]models.Pin, error) {
	return r.fetchPins(ctx, content.UserCreatedPinsQuery(userID))
}

// GetSavedPinsByUserID retrieves pins the user has saved
func (r *ContentPinRepository) GetSavedPinsByUserID(ctx context.Context, userID string) ([]models.Pin, error) {
	return r.fetchPins(ctx, content.UserSavedPinsQuery(userID))
}

func (r *ContentPinRepository) fetchPins(ctx context.Context, q content.Query) ([]models.Pin, error) {
	pins := []models.Pin{}
	if err := r.store.Fetch(ctx, q, &pins); err != nil {
		return nil, err
	}
	return pins, nil
}

// GetComments retrieves a pin's comment collection in insertion order
func (r *ContentPinRepository) GetComments(ctx context.Context, pinID string) ([]models.Comment, error) {
	q, err := content.PinCommentsQuery(pinID)
	if err != nil {
		return nil, err
	}
	var doc struct {
		Comments []models.Comment `bson:"comments"`
	}
	if err := r.store.FetchOne(ctx, q, &doc); err != nil {
		return nil, err
	}
	if doc.Comments == nil {
		return []models.Comment{}, nil
	}
	return doc.Comments, nil
}

// AddComment appends a comment with a server-generated timestamp and a
// generated unique key
func (r *ContentPinRepository) AddComment(ctx context.Context, pinID, userID, text string) error {
	comment := &models.Comment{
		Text:      text,
		PostedBy:  models.PostedByRef{UserID: userID},
		CreatedAt: time.Now().UTC(),
	}
	_, err := r.store.Patch(content.CollectionPins, pinID).
		SetIfMissing(bson.D{{Key: "comments", Value: bson.A{}}}).
		Append("comments", comment).
		Commit(ctx, content.CommitOptions{AutoGenerateArrayKeys: true})
	return err
}

// SavePin appends a save entry for the user. The guard keeps the append
// exactly-once: a pin already carrying the user's entry is left
// untouched and the commit reports ErrNotFound.
func (r *ContentPinRepository) SavePin(ctx context.Context, pinID, userID string) error {
	_, err := r.store.Patch(content.CollectionPins, pinID).
		SetIfMissing(bson.D{{Key: "save", Value: bson.A{}}}).
		Append("save", &models.SaveEntry{UserID: userID}).
		Where(bson.D{{Key: "save.user_id", Value: bson.M{"$ne": userID}}}).
		Commit(ctx, content.CommitOptions{AutoGenerateArrayKeys: true})
	return err
}

// UnsavePin removes exactly the save entry matching the user. An absent
// entry is a no-op, never an error.
func (r *ContentPinRepository) UnsavePin(ctx context.Context, pinID, userID string) error {
	_, err := r.store.Patch(content.CollectionPins, pinID).
		RemoveFromArray("save", bson.D{{Key: "user_id", Value: userID}}).
		Commit(ctx, content.CommitOptions{})
	return err
}

// DeletePin deletes a pin document by id
func (r *ContentPinRepository) DeletePin(ctx context.Context, id string) error {
	return r.store.Delete(ctx, content.CollectionPins, id)
}
