package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/pinstash/pinstash/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCommentEmptyTextNeverReachesStore(t *testing.T) {
	pin := newTestPin("owner")
	pinRepo := newFakePinRepository(pin)
	h := NewCommentHandler(pinRepo, newFakeUserRepository())

	for _, text := range []string{"", "   "} {
		c, _ := newTestContext(http.MethodPost, "/pins/"+pin.ID.Hex()+"/comments",
			models.CreateCommentRequest{Text: text})
		c.SetParamNames("id")
		c.SetParamValues(pin.ID.Hex())
		withSession(c, "u2")

		err := h.CreateComment(c)
		assert.Equal(t, http.StatusBadRequest, httpStatus(err))
	}

	assert.Equal(t, 0, pinRepo.commentCalls)
	assert.Empty(t, pin.Comments)
}

func TestCreateCommentUnauthenticatedNeverReachesStore(t *testing.T) {
	pin := newTestPin("owner")
	pinRepo := newFakePinRepository(pin)
	h := NewCommentHandler(pinRepo, newFakeUserRepository())

	c, _ := newTestContext(http.MethodPost, "/pins/"+pin.ID.Hex()+"/comments",
		models.CreateCommentRequest{Text: "nice shot"})
	c.SetParamNames("id")
	c.SetParamValues(pin.ID.Hex())

	err := h.CreateComment(c)
	assert.Equal(t, http.StatusUnauthorized, httpStatus(err))
	assert.Equal(t, 0, pinRepo.commentCalls)
}

func TestCreateCommentReturnsRefetchedCollection(t *testing.T) {
	pin := newTestPin("owner")
	pin.Comments = []models.Comment{
		{Key: "k0", Text: "first", PostedBy: models.PostedByRef{UserID: "u3"}},
	}
	pinRepo := newFakePinRepository(pin)
	userRepo := newFakeUserRepository(
		&models.User{FirebaseUID: "u2", Name: "Commenter"},
		&models.User{FirebaseUID: "u3", Name: "Earlier"},
	)
	h := NewCommentHandler(pinRepo, userRepo)

	c, rec := newTestContext(http.MethodPost, "/pins/"+pin.ID.Hex()+"/comments",
		models.CreateCommentRequest{Text: "nice shot"})
	c.SetParamNames("id")
	c.SetParamValues(pin.ID.Hex())
	withSession(c, "u2")

	require.NoError(t, h.CreateComment(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, pinRepo.commentCalls)

	var resp struct {
		Data struct {
			Comments []EnrichedComment `json:"comments"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	// Insertion order preserved, new comment last with author resolved.
	require.Len(t, resp.Data.Comments, 2)
	assert.Equal(t, "first", resp.Data.Comments[0].Text)
	assert.Equal(t, "nice shot", resp.Data.Comments[1].Text)
	assert.Equal(t, "Commenter", resp.Data.Comments[1].Author.Name)
	assert.NotEmpty(t, resp.Data.Comments[1].Key)
}

func TestGetCommentsEmptyCollection(t *testing.T) {
	pin := newTestPin("owner")
	h := NewCommentHandler(newFakePinRepository(pin), newFakeUserRepository())

	c, rec := newTestContext(http.MethodGet, "/pins/"+pin.ID.Hex()+"/comments", nil)
	c.SetParamNames("id")
	c.SetParamValues(pin.ID.Hex())
	withSession(c, "u2")

	require.NoError(t, h.GetComments(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Comments []EnrichedComment `json:"comments"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data.Comments)
}
