package handlers

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pinstash/pinstash/backend/internal/content"
)

// UploadHandler handles asset uploads
type UploadHandler struct {
	assets content.AssetStore
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(assets content.AssetStore) *UploadHandler {
	return &UploadHandler{assets: assets}
}

// RegisterUploadRoutes registers the asset upload route
func (h *UploadHandler) RegisterUploadRoutes(g *echo.Group) {
	g.POST("/assets", h.UploadAsset)
}

// UploadAsset stores an image and returns its asset descriptor. The
// content type is checked before the store is touched, so a rejected
// file never triggers an upload.
func (h *UploadHandler) UploadAsset(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Image file is required")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !content.AllowedImageType(contentType) {
		return echo.NewHTTPError(http.StatusBadRequest, "Unsupported image format")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to read image file")
	}
	defer file.Close()

	asset, err := h.assets.UploadAsset(c.Request().Context(), file, contentType, fileHeader.Filename)
	if err != nil {
		log.Printf("Asset upload failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Image upload failed")
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": asset})
}
