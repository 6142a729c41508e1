package handlers

import (
	"net/http"
	"testing"

	"github.com/pinstash/pinstash/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUserSavedPinsOnlyOnOwnProfile(t *testing.T) {
	pin := newTestPin("owner", models.SaveEntry{Key: "k1", UserID: "u1"})
	pinRepo := newFakePinRepository(pin)
	userRepo := newFakeUserRepository(&models.User{FirebaseUID: "owner", Name: "Owner"})
	h := NewUserHandler(userRepo, pinRepo)

	// Another user's saved list is not visible.
	c, _ := newTestContext(http.MethodGet, "/users/u1/saved", nil)
	c.SetParamNames("id")
	c.SetParamValues("u1")
	withSession(c, "u2")

	err := h.GetUserSavedPins(c)
	assert.Equal(t, http.StatusForbidden, httpStatus(err))

	// The owner sees exactly the pins carrying their save entry.
	c2, rec := newTestContext(http.MethodGet, "/users/u1/saved", nil)
	c2.SetParamNames("id")
	c2.SetParamValues("u1")
	withSession(c2, "u1")

	require.NoError(t, h.GetUserSavedPins(c2))
	resp := decodePinList(t, rec)
	require.Len(t, resp.Data.Pins, 1)
	assert.True(t, resp.Data.Pins[0].IsSaved)
}

func TestGetUserPinsListsCreatedPins(t *testing.T) {
	mine := newTestPin("u1")
	other := newTestPin("u2")
	pinRepo := newFakePinRepository(mine, other)
	userRepo := newFakeUserRepository(&models.User{FirebaseUID: "u1", Name: "Creator"})
	h := NewUserHandler(userRepo, pinRepo)

	c, rec := newTestContext(http.MethodGet, "/users/u1/pins", nil)
	c.SetParamNames("id")
	c.SetParamValues("u1")
	withSession(c, "u2")

	require.NoError(t, h.GetUserPins(c))
	resp := decodePinList(t, rec)
	require.Len(t, resp.Data.Pins, 1)
	assert.Equal(t, "u1", resp.Data.Pins[0].UserID)
	assert.Equal(t, "Creator", resp.Data.Pins[0].Author.Name)
}

func TestGetUserProfile(t *testing.T) {
	userRepo := newFakeUserRepository(&models.User{FirebaseUID: "u1", Name: "Someone", Image: "https://example.com/a.png"})
	h := NewUserHandler(userRepo, newFakePinRepository())

	c, rec := newTestContext(http.MethodGet, "/users/u1", nil)
	c.SetParamNames("id")
	c.SetParamValues("u1")
	withSession(c, "u2")

	require.NoError(t, h.GetUser(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Someone")

	// Unknown users are a 404, not an empty record.
	c2, _ := newTestContext(http.MethodGet, "/users/nope", nil)
	c2.SetParamNames("id")
	c2.SetParamValues("nope")
	withSession(c2, "u2")

	err := h.GetUser(c2)
	assert.Equal(t, http.StatusNotFound, httpStatus(err))
}
