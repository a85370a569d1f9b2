package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"stature-backend/internal/catalog"
	"stature-backend/internal/models"
)

// StylesHandler godoc
// @Summary     List headshot styles
// @Description Returns the built-in style catalog in display order
// @Tags        styles
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.StylesResponse
// @Router      /styles [get]
func StylesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, models.StylesResponse{Styles: catalog.Styles()})
}
