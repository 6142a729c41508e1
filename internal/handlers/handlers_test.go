package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pinstash/pinstash/backend/internal/content"
	"github.com/pinstash/pinstash/backend/internal/middleware"
	"github.com/pinstash/pinstash/backend/internal/models"
	"github.com/pinstash/pinstash/backend/validators"
	"gorm.io/gorm"
)

// fakePinRepository is an in-memory PinRepository recording mutation
// calls, so tests can assert which operations reached the content store.
type fakePinRepository struct {
	pins map[string]*models.Pin

	saveCalls    int
	unsaveCalls  int
	commentCalls int
	createCalls  int
	deleteCalls  int
	searchTerms  []string
	keySeq       int
}

func newFakePinRepository(pins ...*models.Pin) *fakePinRepository {
	repo := &fakePinRepository{pins: make(map[string]*models.Pin)}
	for _, p := range pins {
		repo.pins[p.ID.Hex()] = p
	}
	return repo
}

func (r *fakePinRepository) nextKey() string {
	r.keySeq++
	return fmt.Sprintf("key-%d", r.keySeq)
}

func (r *fakePinRepository) CreatePin(_ context.Context, pin *models.Pin) error {
	r.createCalls++
	pin.CreatedAt = time.Now().UTC()
	r.pins[pin.ID.Hex()] = pin
	return nil
}

func (r *fakePinRepository) GetPinByID(_ context.Context, id string) (*models.Pin, error) {
	pin, ok := r.pins[id]
	if !ok {
		return nil, content.ErrNotFound
	}
	return pin, nil
}

func (r *fakePinRepository) GetFeed(_ context.Context) ([]models.Pin, error) {
	pins := []models.Pin{}
	for _, p := range r.pins {
		pins = append(pins, *p)
	}
	return pins, nil
}

func (r *fakePinRepository) GetPinsByCategory(_ context.Context, category string) ([]models.Pin, error) {
	pins := []models.Pin{}
	for _, p := range r.pins {
		if p.Category == category {
			pins = append(pins, *p)
		}
	}
	return pins, nil
}

func (r *fakePinRepository) SearchPins(_ context.Context, term string) ([]models.Pin, error) {
	r.searchTerms = append(r.searchTerms, term)
	return []models.Pin{}, nil
}

func (r *fakePinRepository) GetPinsByUserID(_ context.Context, userID string) ([]models.Pin, error) {
	pins := []models.Pin{}
	for _, p := range r.pins {
		if p.UserID == userID {
			pins = append(pins, *p)
		}
	}
	return pins, nil
}

func (r *fakePinRepository) GetSavedPinsByUserID(_ context.Context, userID string) ([]models.Pin, error) {
	pins := []models.Pin{}
	for _, p := range r.pins {
		if p.SavedBy(userID) {
			pins = append(pins, *p)
		}
	}
	return pins, nil
}

func (r *fakePinRepository) GetComments(_ context.Context, pinID string) ([]models.Comment, error) {
	pin, ok := r.pins[pinID]
	if !ok {
		return nil, content.ErrNotFound
	}
	return pin.Comments, nil
}

func (r *fakePinRepository) AddComment(_ context.Context, pinID, userID, text string) error {
	r.commentCalls++
	pin, ok := r.pins[pinID]
	if !ok {
		return content.ErrNotFound
	}
	pin.Comments = append(pin.Comments, models.Comment{
		Key:       r.nextKey(),
		Text:      text,
		PostedBy:  models.PostedByRef{UserID: userID},
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

func (r *fakePinRepository) SavePin(_ context.Context, pinID, userID string) error {
	r.saveCalls++
	pin, ok := r.pins[pinID]
	if !ok {
		return content.ErrNotFound
	}
	if pin.SavedBy(userID) {
		// Guard miss: the entry already exists.
		return content.ErrNotFound
	}
	pin.Saves = append(pin.Saves, models.SaveEntry{Key: r.nextKey(), UserID: userID})
	return nil
}

func (r *fakePinRepository) UnsavePin(_ context.Context, pinID, userID string) error {
	r.unsaveCalls++
	pin, ok := r.pins[pinID]
	if !ok {
		return content.ErrNotFound
	}
	kept := pin.Saves[:0]
	for _, s := range pin.Saves {
		if s.UserID != userID {
			kept = append(kept, s)
		}
	}
	pin.Saves = kept
	return nil
}

func (r *fakePinRepository) DeletePin(_ context.Context, id string) error {
	r.deleteCalls++
	if _, ok := r.pins[id]; !ok {
		return content.ErrNotFound
	}
	delete(r.pins, id)
	return nil
}

// fakeUserRepository is an in-memory UserRepository keyed by public id.
type fakeUserRepository struct {
	users map[string]*models.User
}

func newFakeUserRepository(users ...*models.User) *fakeUserRepository {
	repo := &fakeUserRepository{users: make(map[string]*models.User)}
	for _, u := range users {
		repo.users[u.FirebaseUID] = u
	}
	return repo
}

func (r *fakeUserRepository) CreateUser(user *models.User) error {
	r.users[user.FirebaseUID] = user
	return nil
}

func (r *fakeUserRepository) GetUserByPublicID(publicID string) (*models.User, error) {
	user, ok := r.users[publicID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *fakeUserRepository) GetUserByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepository) UpdateUser(user *models.User) error {
	r.users[user.FirebaseUID] = user
	return nil
}

func (r *fakeUserRepository) GetUsersByPublicIDs(publicIDs []string) (map[string]models.UserCompact, error) {
	result := make(map[string]models.UserCompact)
	for _, id := range publicIDs {
		if u, ok := r.users[id]; ok {
			result[id] = u.ToCompact()
		}
	}
	return result, nil
}

// newTestContext builds an Echo context around an optional JSON body.
func newTestContext(method, target string, body any) (echo.Context, *httptest.ResponseRecorder) {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e := echo.New()
	e.Validator = validators.NewValidator()
	c := e.NewContext(req, rec)
	return c, rec
}

// withSession mimics the auth middleware for handler-level tests.
func withSession(c echo.Context, userID string) {
	c.Set(middleware.SessionContextKey, &models.Session{UserID: userID, Name: "Test User"})
}

// httpStatus extracts the status a handler error would produce.
func httpStatus(err error) int {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	if err == nil {
		return http.StatusOK
	}
	return http.StatusInternalServerError
}
