package handlers

import (
	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/pinstash/pinstash/backend/internal/middleware"
	"github.com/pinstash/pinstash/backend/internal/models"
)

// getSessionFromContext returns the session placed on the context by the
// auth middleware, or nil when unauthenticated.
func getSessionFromContext(c echo.Context) *models.Session {
	return middleware.SessionFromContext(c)
}

// newLocalUserID generates a public id for a local account.
func newLocalUserID() (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", err
	}
	return "local-" + id, nil
}
