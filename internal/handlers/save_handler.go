package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pinstash/pinstash/backend/internal/content"
	"github.com/pinstash/pinstash/backend/internal/repositories"
)

// SaveHandler handles save/unsave requests on pins
type SaveHandler struct {
	pinRepository repositories.PinRepository
}

// NewSaveHandler creates a new SaveHandler
func NewSaveHandler(pinRepo repositories.PinRepository) *SaveHandler {
	return &SaveHandler{pinRepository: pinRepo}
}

// RegisterSaveRoutes registers save/unsave routes
func (h *SaveHandler) RegisterSaveRoutes(g *echo.Group) {
	g.POST("/pins/:id/save", h.SavePin)
	g.DELETE("/pins/:id/save", h.UnsavePin)
}

// SavePin appends a save entry for the session user. Saving an already
// saved pin is a no-op; saving your own pin is rejected.
func (h *SaveHandler) SavePin(c echo.Context) error {
	session := getSessionFromContext(c)
	if session == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	pinID := c.Param("id")
	pin, err := h.pinRepository.GetPinByID(c.Request().Context(), pinID)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Pin not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if pin.UserID == session.UserID {
		return echo.NewHTTPError(http.StatusForbidden, "You cannot save your own pin")
	}

	if pin.SavedBy(session.UserID) {
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"saved": true}})
	}

	if err := h.pinRepository.SavePin(c.Request().Context(), pinID, session.UserID); err != nil {
		// The guarded append misses when another request saved the pin
		// for this user between the check and the commit. The entry
		// exists either way.
		if errors.Is(err, content.ErrNotFound) {
			return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"saved": true}})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"saved": true}})
}

// UnsavePin removes the session user's save entry. An absent entry is a
// no-op, not an error.
func (h *SaveHandler) UnsavePin(c echo.Context) error {
	session := getSessionFromContext(c)
	if session == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	pinID := c.Param("id")
	if err := h.pinRepository.UnsavePin(c.Request().Context(), pinID, session.UserID); err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Pin not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"saved": false}})
}
