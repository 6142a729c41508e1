package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pinstash/pinstash/backend/internal/repositories"
	"gorm.io/gorm"
)

// UserHandler handles HTTP requests related to user profiles
type UserHandler struct {
	userRepository repositories.UserRepository
	pinRepository  repositories.PinRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, pinRepo repositories.PinRepository) *UserHandler {
	return &UserHandler{
		userRepository: userRepo,
		pinRepository:  pinRepo,
	}
}

// RegisterUserRoutes registers user profile routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/users/:id", h.GetUser)
	g.GET("/users/:id/pins", h.GetUserPins)
	g.GET("/users/:id/saved", h.GetUserSavedPins)
}

// GetUser returns a user's profile record
func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.userRepository.GetUserByPublicID(c.Param("id"))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": user.ToCompact()})
}

// GetUserPins returns the pins a user created, newest first
func (h *UserHandler) GetUserPins(c echo.Context) error {
	pins, err := h.pinRepository.GetPinsByUserID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	enriched, err := enrichPins(pins, h.userRepository, getSessionFromContext(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"pins": enriched}})
}

// GetUserSavedPins returns the pins a user saved. Saved pins are only
// listed on the user's own profile.
func (h *UserHandler) GetUserSavedPins(c echo.Context) error {
	session := getSessionFromContext(c)
	if session == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	if session.UserID != c.Param("id") {
		return echo.NewHTTPError(http.StatusForbidden, "Saved pins are only visible on your own profile")
	}

	pins, err := h.pinRepository.GetSavedPinsByUserID(c.Request().Context(), session.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	enriched, err := enrichPins(pins, h.userRepository, session)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"pins": enriched}})
}
