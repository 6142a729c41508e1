package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pinstash/pinstash/backend/internal/content"
	"github.com/pinstash/pinstash/backend/internal/models"
	"github.com/pinstash/pinstash/backend/internal/repositories"
)

// PinHandler handles pin detail, creation and deletion
type PinHandler struct {
	pinRepository  repositories.PinRepository
	userRepository repositories.UserRepository
}

// NewPinHandler creates a new PinHandler
func NewPinHandler(pinRepo repositories.PinRepository, userRepo repositories.UserRepository) *PinHandler {
	return &PinHandler{
		pinRepository:  pinRepo,
		userRepository: userRepo,
	}
}

// RegisterPinRoutes registers pin-related routes
func (h *PinHandler) RegisterPinRoutes(g *echo.Group) {
	g.GET("/pins/:id", h.GetPin)
	g.POST("/pins", h.CreatePin)
	g.DELETE("/pins/:id", h.DeletePin)
}

// GetPin returns a single pin with its author resolved
func (h *PinHandler) GetPin(c echo.Context) error {
	pin, err := h.pinRepository.GetPinByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Pin not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	enriched, err := enrichPins([]models.Pin{*pin}, h.userRepository, getSessionFromContext(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": enriched[0]})
}

// CreatePin creates a new pin. Every field is required and the image
// must already be uploaded; a missing asset reference is rejected before
// any create is issued.
func (h *PinHandler) CreatePin(c echo.Context) error {
	session := getSessionFromContext(c)
	if session == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreatePinRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	pin := &models.Pin{
		Title:       req.Title,
		About:       req.About,
		Destination: req.Destination,
		Category:    req.Category,
		Image: models.ImageRef{
			AssetID: req.AssetID,
			URL:     req.AssetURL,
		},
		UserID:   session.UserID,
		PostedBy: models.PostedByRef{UserID: session.UserID},
	}

	if err := h.pinRepository.CreatePin(c.Request().Context(), pin); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": pin})
}

// DeletePin deletes a pin. Only the owner may delete; the client's
// confirm dialog precedes this call, the ownership gate lives here.
func (h *PinHandler) DeletePin(c echo.Context) error {
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

	if pin.UserID != session.UserID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this pin")
	}

	if err := h.pinRepository.DeletePin(c.Request().Context(), pinID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}
