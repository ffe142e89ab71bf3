package application

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/picshare/picshare/gallery/domain"
	"github.com/rs/zerolog/log"
)

var allowedExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
}

// GalleryService orchestrates the upload pipeline: validate the submission,
// mint an identifier, write the blob, then append the metadata record. The
// record is only appended after the blob is durably on disk, so the store
// never points at a missing file.
type GalleryService struct {
	blobs   domain.BlobStore
	records domain.MetadataStore

	// newID mints record identifiers. Overridable so tests can pin ids.
	newID func() string
}

func NewGalleryService(blobs domain.BlobStore, records domain.MetadataStore) *GalleryService {
	return &GalleryService{
		blobs:   blobs,
		records: records,
		newID:   func() string { return uuid.New().String() },
	}
}

// Upload validates and stores one submitted image, returning its record.
// Validation failures are *domain.ValidationError; anything else is a
// storage failure and no record was committed.
func (s *GalleryService) Upload(ctx context.Context, title, filename string, content io.Reader) (*domain.ImageRecord, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.NewValidationError("Empty title string")
	}

	if filename == "" || content == nil {
		return nil, domain.NewValidationError("No file uploaded")
	}

	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if !isAllowedExtension(ext) {
		return nil, domain.NewValidationError("Invalid uploaded format")
	}

	id := s.newID()

	path, err := s.blobs.Put(ctx, id+ext, content)
	if err != nil {
		return nil, fmt.Errorf("failed to store image %s: %w", id, err)
	}

	record := domain.ImageRecord{
		ID:    id,
		Title: title,
		Path:  path,
	}

	if err := s.records.Append(ctx, record); err != nil {
		// The blob is already on disk with no record pointing at it. Leave
		// it for offline cleanup rather than risking a record without bytes.
		log.Error().Err(err).Str("blob", path).Msg("Metadata append failed, blob orphaned")
		return nil, fmt.Errorf("failed to record image %s: %w", id, err)
	}

	return &record, nil
}

// GetPicture looks up a record and renders its detail page. Returns
// domain.ErrNotFound for unknown ids.
func (s *GalleryService) GetPicture(ctx context.Context, id string) (string, error) {
	record, err := s.records.FindByID(ctx, id)
	if err != nil {
		return "", err
	}

	return RenderPicture(record)
}

// ListPictures returns every stored record in upload order.
func (s *GalleryService) ListPictures(ctx context.Context) ([]domain.ImageRecord, error) {
	return s.records.List(ctx)
}

func isAllowedExtension(ext string) bool {
	_, ok := allowedExtensions[ext]
	return ok
}
