package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pinstash/pinstash/backend/internal/models"
	"github.com/pinstash/pinstash/backend/internal/repositories"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	pinRepository  repositories.PinRepository
	userRepository repositories.UserRepository
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(pinRepo repositories.PinRepository, userRepo repositories.UserRepository) *FeedHandler {
	return &FeedHandler{
		pinRepository:  pinRepo,
		userRepository: userRepo,
	}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
	g.GET("/feed/category/:category", h.GetCategoryFeed)
	g.GET("/feed/search", h.SearchFeed)
}

// EnrichedPin is a pin with author info and the session's saved flag
type EnrichedPin struct {
	models.Pin
	Author  models.UserCompact `json:"author"`
	IsSaved bool               `json:"is_saved"`
}

// GetFeed returns the full feed, newest first. An empty feed is a normal
// state, returned as an empty list.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	pins, err := h.pinRepository.GetFeed(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return h.respondWithPins(c, pins)
}

// GetCategoryFeed returns the feed filtered to a single category
func (h *FeedHandler) GetCategoryFeed(c echo.Context) error {
	category := c.Param("category")
	if category == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Category is required")
	}

	pins, err := h.pinRepository.GetPinsByCategory(c.Request().Context(), category)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return h.respondWithPins(c, pins)
}

// SearchFeed returns pins matching the search term. The term is
// lower-cased before the query is built, so casing never changes the
// result set.
func (h *FeedHandler) SearchFeed(c echo.Context) error {
	term := strings.ToLower(strings.TrimSpace(c.QueryParam("q")))
	if term == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Search query 'q' is required")
	}

	pins, err := h.pinRepository.SearchPins(c.Request().Context(), term)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return h.respondWithPins(c, pins)
}

func (h *FeedHandler) respondWithPins(c echo.Context, pins []models.Pin) error {
	enriched, err := enrichPins(pins, h.userRepository, getSessionFromContext(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"pins": enriched},
	})
}

// enrichPins attaches author records and the session's saved flag to a
// pin list.
func enrichPins(pins []models.Pin, userRepo repositories.UserRepository, session *models.Session) ([]EnrichedPin, error) {
	authorIDs := make([]string, 0, len(pins))
	seen := make(map[string]bool)
	for _, p := range pins {
		if !seen[p.UserID] {
			seen[p.UserID] = true
			authorIDs = append(authorIDs, p.UserID)
		}
	}

	userMap, err := userRepo.GetUsersByPublicIDs(authorIDs)
	if err != nil {
		return nil, err
	}

	enriched := make([]EnrichedPin, len(pins))
	for i, p := range pins {
		saved := false
		if session != nil {
			saved = p.SavedBy(session.UserID)
		}
		enriched[i] = EnrichedPin{
			Pin:     p,
			Author:  userMap[p.UserID],
			IsSaved: saved,
		}
	}
	return enriched, nil
}
