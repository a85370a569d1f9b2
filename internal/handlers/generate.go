package handlers

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"stature-backend/internal/catalog"
	"stature-backend/internal/generation"
	"stature-backend/internal/imagen"
	"stature-backend/internal/models"
	"stature-backend/internal/services"
)

// maxMultipartMemory bounds the in-memory part of an upload form.
const maxMultipartMemory = 64 << 20

// HeadshotGenerator is implemented by services.GenerationService.
type HeadshotGenerator interface {
	Generate(ctx context.Context, in services.GenerateInput) ([]string, error)
	SuggestStyle(ctx context.Context, profession string) (catalog.HeadshotStyle, error)
}

type GenerationHandler struct {
	generator HeadshotGenerator
}

func NewGenerationHandler(generator HeadshotGenerator) *GenerationHandler {
	return &GenerationHandler{generator: generator}
}

// GenerateHeadshots godoc
// @Summary     Generate headshots
// @Description Generates imageCount headshots of the person in the uploaded photos in one style.
// @Description Units that fail are skipped; the request fails only when none succeed.
// @Tags        generation
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       images          formData file   true  "Photos of the subject (PNG or JPEG, multiple allowed)"
// @Param       style           formData string true  "Style id, style name or free-text style"
// @Param       profession      formData string false "Profession used to tailor the setting"
// @Param       imageCount      formData int    true  "Number of headshots to generate"
// @Param       removePiercings formData bool   false "Remove facial piercings"
// @Success     200 {object} models.GenerateResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /generate-headshots [post]
func (h *GenerationHandler) GenerateHeadshots(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(maxMultipartMemory); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to parse multipart form",
			Message: err.Error(),
		})
		return
	}
	form := c.Request.MultipartForm

	var files []*multipart.FileHeader
	for _, fieldName := range []string{"images", "images[]", "image"} {
		if f := form.File[fieldName]; len(f) > 0 {
			files = f
			break
		}
	}
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "No images uploaded."})
		return
	}

	images := make([]imagen.Image, 0, len(files))
	for _, fh := range files {
		img, err := readImage(fh)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "failed to read uploaded image",
				Message: err.Error(),
			})
			return
		}
		images = append(images, img)
	}

	imageCount, err := strconv.Atoi(strings.TrimSpace(c.PostForm("imageCount")))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "imageCount must be a number"})
		return
	}
	removePiercings, _ := strconv.ParseBool(c.DefaultPostForm("removePiercings", "false"))

	result, err := h.generator.Generate(c.Request.Context(), services.GenerateInput{
		Images:          images,
		Style:           strings.TrimSpace(c.PostForm("style")),
		Profession:      strings.TrimSpace(c.PostForm("profession")),
		ImageCount:      imageCount,
		RemovePiercings: removePiercings,
	})
	if err != nil {
		respondError(c, err, "Failed to generate headshots.")
		return
	}

	c.JSON(http.StatusOK, models.GenerateResponse{Images: result})
}

// SuggestStyle godoc
// @Summary     Suggest a style
// @Description Picks the catalog style that best suits a profession
// @Tags        generation
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.SuggestStyleRequest true "Profession"
// @Success     200 {object} models.SuggestStyleResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /suggest-style [post]
func (h *GenerationHandler) SuggestStyle(c *gin.Context) {
	var req models.SuggestStyleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Profession is required.", Message: err.Error()})
		return
	}

	style, err := h.generator.SuggestStyle(c.Request.Context(), req.Profession)
	if err != nil {
		respondError(c, err, "Failed to suggest style.")
		return
	}

	c.JSON(http.StatusOK, models.SuggestStyleResponse{Style: style})
}

func readImage(fh *multipart.FileHeader) (imagen.Image, error) {
	src, err := fh.Open()
	if err != nil {
		return imagen.Image{}, fmt.Errorf("%s: %w", fh.Filename, err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return imagen.Image{}, fmt.Errorf("%s: %w", fh.Filename, err)
	}

	return imagen.Image{
		MimeType: generation.DetectMimeType(fh.Header.Get("Content-Type"), data),
		Data:     data,
	}, nil
}
