package rest

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/picshare/picshare/api"
	"github.com/picshare/picshare/gallery/application"
	"github.com/picshare/picshare/gallery/domain"
	"github.com/rs/zerolog/log"
)

type ImagesHandler struct {
	service   *application.GalleryService
	indexPath string
}

func NewImagesHandler(service *application.GalleryService, indexPath string) *ImagesHandler {
	return &ImagesHandler{
		service:   service,
		indexPath: indexPath,
	}
}

// UploadForm serves the static upload page.
func (h *ImagesHandler) UploadForm(c *gin.Context) {
	c.File(h.indexPath)
}

// Upload accepts a multipart form with fields imageTitle and imageFile and
// redirects to the picture page on success.
func (h *ImagesHandler) Upload(c *gin.Context) {
	title := c.PostForm("imageTitle")

	var filename string
	var content io.Reader
	file, header, err := c.Request.FormFile("imageFile")
	if err == nil {
		defer file.Close()
		filename = filepath.Base(header.Filename)
		content = file
	}

	record, err := h.service.Upload(c.Request.Context(), title, filename, content)
	if err != nil {
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
			return
		}

		log.Error().Err(err).Msg("Upload failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage failure"})
		return
	}

	c.Redirect(http.StatusSeeOther, "/picture/"+record.ID)
}

// GetPicture renders the detail page for one image.
func (h *ImagesHandler) GetPicture(c *gin.Context) {
	id := c.Param("id")

	page, err := h.service.GetPicture(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}

		log.Error().Err(err).Str("id", id).Msg("Failed to load picture")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage failure"})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

// ListPictures returns all stored records in upload order.
func (h *ImagesHandler) ListPictures(c *gin.Context) {
	records, err := h.service.ListPictures(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list pictures")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage failure"})
		return
	}

	images := make([]api.Image, 0, len(records))
	for _, r := range records {
		images = append(images, api.Image{ID: r.ID, Title: r.Title, Path: r.Path})
	}

	c.JSON(http.StatusOK, images)
}
