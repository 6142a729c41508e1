package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pinstash/pinstash/backend/internal/content"
	"github.com/pinstash/pinstash/backend/internal/models"
	"github.com/pinstash/pinstash/backend/internal/repositories"
)

// CommentHandler handles HTTP requests related to pin comments
type CommentHandler struct {
	pinRepository  repositories.PinRepository
	userRepository repositories.UserRepository
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(pinRepo repositories.PinRepository, userRepo repositories.UserRepository) *CommentHandler {
	return &CommentHandler{
		pinRepository:  pinRepo,
		userRepository: userRepo,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.GET("/pins/:id/comments", h.GetComments)
	g.POST("/pins/:id/comments", h.CreateComment)
}

// EnrichedComment is a comment with its author record resolved
type EnrichedComment struct {
	models.Comment
	Author models.UserCompact `json:"author"`
}

// GetComments returns a pin's comment collection in insertion order
func (h *CommentHandler) GetComments(c echo.Context) error {
	comments, err := h.fetchComments(c, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"comments": comments}})
}

// CreateComment appends a comment to a pin. Empty text is rejected
// before any content mutation, and the response carries the refetched
// comment collection so the client's list matches store-assigned
// ordering and keys.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	session := getSessionFromContext(c)
	if session == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	pinID := c.Param("id")

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	req.Text = strings.TrimSpace(req.Text)

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Comment text is required")
	}

	if err := h.pinRepository.AddComment(c.Request().Context(), pinID, session.UserID, req.Text); err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Pin not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	comments, err := h.fetchComments(c, pinID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"comments": comments}})
}

func (h *CommentHandler) fetchComments(c echo.Context, pinID string) ([]EnrichedComment, error) {
	comments, err := h.pinRepository.GetComments(c.Request().Context(), pinID)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Pin not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	authorIDs := make([]string, 0, len(comments))
	seen := make(map[string]bool)
	for _, cm := range comments {
		if !seen[cm.PostedBy.UserID] {
			seen[cm.PostedBy.UserID] = true
			authorIDs = append(authorIDs, cm.PostedBy.UserID)
		}
	}

	userMap, err := h.userRepository.GetUsersByPublicIDs(authorIDs)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	enriched := make([]EnrichedComment, len(comments))
	for i, cm := range comments {
		enriched[i] = EnrichedComment{Comment: cm, Author: userMap[cm.PostedBy.UserID]}
	}
	return enriched, nil
}
