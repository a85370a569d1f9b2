package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"stature-backend/internal/generation"
	"stature-backend/internal/middleware"
	"stature-backend/internal/models"
)

// GalleryStore is implemented by services.GalleryService.
type GalleryStore interface {
	SaveFavorites(ctx context.Context, uid string, images []generation.GeneratedImage) ([]models.GalleryFile, error)
	List(ctx context.Context, uid string) ([]models.GalleryFile, error)
}

type GalleryHandler struct {
	gallery GalleryStore
}

func NewGalleryHandler(gallery GalleryStore) *GalleryHandler {
	return &GalleryHandler{gallery: gallery}
}

// SaveGallery godoc
// @Summary     Save headshots
// @Description Stores favorited headshots (base64 data URLs) in the caller's gallery
// @Tags        gallery
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.SaveGalleryRequest true "Images to store"
// @Success     201 {object} models.GalleryResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     503 {object} models.ErrorResponse
// @Router      /gallery [post]
func (h *GalleryHandler) SaveGallery(c *gin.Context) {
	var req models.SaveGalleryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body.", Message: err.Error()})
		return
	}

	images := make([]generation.GeneratedImage, len(req.Images))
	for i, img := range req.Images {
		images[i] = generation.GeneratedImage{ID: img.ID, Src: img.Src, StyleName: img.StyleName, IsFavorite: true}
	}

	files, err := h.gallery.SaveFavorites(c.Request.Context(), middleware.GetUserID(c), images)
	if err != nil {
		respondError(c, err, "Failed to save headshots.")
		return
	}

	c.JSON(http.StatusCreated, models.GalleryResponse{Files: files})
}

// ListGallery godoc
// @Summary     List saved headshots
// @Tags        gallery
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.GalleryResponse
// @Failure     503 {object} models.ErrorResponse
// @Router      /gallery [get]
func (h *GalleryHandler) ListGallery(c *gin.Context) {
	files, err := h.gallery.List(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err, "Failed to list headshots.")
		return
	}
	c.JSON(http.StatusOK, models.GalleryResponse{Files: files})
}
