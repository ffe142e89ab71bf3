package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/picshare/picshare/gallery/application"
)

// NewApi registers all routes on the given engine.
func NewApi(router *gin.Engine, service *application.GalleryService, indexPath, uploadsDir string) {
	images := NewImagesHandler(service, indexPath)

	router.GET("/", images.UploadForm)
	router.POST("/", images.Upload)
	router.GET("/picture/:id", images.GetPicture)
	router.GET("/pictures", images.ListPictures)
	router.Static("/uploads", uploadsDir)

	router.GET("/healthz", Health)
}

// Health reports liveness.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
