package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/pinstash/pinstash/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func signToken(t *testing.T, secret string, expires time.Time) string {
	t.Helper()
	claims := &models.JwtCustomClaims{
		UserID: "u1",
		Name:   "Test User",
		Image:  "https://example.com/avatar.png",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func runProtected(authHeader string) (*httptest.ResponseRecorder, *models.Session) {
	e := echo.New()
	var session *models.Session
	e.GET("/protected", func(c echo.Context) error {
		session = SessionFromContext(c)
		return c.NoContent(http.StatusOK)
	}, SessionMiddleware(testSecret))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec, session
}

func TestSessionMiddlewareRejectsMissingHeader(t *testing.T) {
	rec, session := runProtected("")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, session)
}

func TestSessionMiddlewareRejectsMalformedHeader(t *testing.T) {
	rec, _ := runProtected("Token abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionMiddlewareRejectsWrongSecret(t *testing.T) {
	token := signToken(t, "some-other-secret", time.Now().Add(time.Hour))
	rec, _ := runProtected("Bearer " + token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionMiddlewareRejectsExpiredToken(t *testing.T) {
	token := signToken(t, testSecret, time.Now().Add(-time.Hour))
	rec, _ := runProtected("Bearer " + token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionMiddlewareSetsSession(t *testing.T) {
	token := signToken(t, testSecret, time.Now().Add(time.Hour))
	rec, session := runProtected("Bearer " + token)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, session)
	assert.Equal(t, "u1", session.UserID)
	assert.Equal(t, "Test User", session.Name)
	assert.Equal(t, "https://example.com/avatar.png", session.Image)
}
