package handlers

import (
	"github.com/gin-gonic/gin"
	"stature-backend/internal/config"
	"stature-backend/internal/middleware"
)

type Routes struct {
	Generation *GenerationHandler
	Orders     *OrdersHandler
	Users      *UsersHandler
	Gallery    *GalleryHandler
}

// Register mounts the public health routes and the authenticated /api group.
func Register(router *gin.Engine, cfg *config.Config, r Routes) {
	router.GET("/health", HealthHandler)

	api := router.Group("/api")
	api.GET("/status", HealthHandler)

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(cfg))

	authed.GET("/styles", StylesHandler)
	authed.GET("/me", r.Users.Me)
	authed.POST("/suggest-style", r.Generation.SuggestStyle)
	authed.POST("/generate-headshots", r.Generation.GenerateHeadshots)
	authed.POST("/createOrder", r.Orders.CreateOrder)
	authed.GET("/orders/:uid", middleware.RequireSelfOrAdmin("uid"), r.Orders.ListUserOrders)
	authed.POST("/gallery", r.Gallery.SaveGallery)
	authed.GET("/gallery", r.Gallery.ListGallery)

	admin := authed.Group("")
	admin.Use(middleware.RequireAdmin())
	admin.GET("/users", r.Users.ListUsers)
	admin.POST("/setAdmin", r.Users.SetAdmin)
	admin.GET("/orders", r.Orders.ListOrders)
	admin.POST("/cancelOrder", r.Orders.CancelOrder)
}
