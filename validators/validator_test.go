package validators

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name  string `validate:"required,min=2"`
	Email string `validate:"required,email"`
}

func TestValidatePassesValidStruct(t *testing.T) {
	v := NewValidator()
	err := v.Validate(&sampleRequest{Name: "Alice", Email: "alice@example.com"})
	assert.NoError(t, err)
}

func TestValidateRejectsInvalidStruct(t *testing.T) {
	v := NewValidator()
	err := v.Validate(&sampleRequest{Name: "A", Email: "not-an-email"})
	require.Error(t, err)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestValidateRunsThroughEchoContext(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	assert.NoError(t, c.Validate(&sampleRequest{Name: "Alice", Email: "alice@example.com"}))
	assert.Error(t, c.Validate(&sampleRequest{Email: "missing-name"}))
}
