package domain

import (
	"context"
	"io"
)

// ImageRecord describes one stored image.
// Records are immutable once appended; the ID doubles as the blob filename
// stem, so `{ID}{ext}` under the content root is the backing file.
type ImageRecord struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Path  string `json:"path"`
}

type MetadataStore interface {
	// Append adds a record to the collection and persists the result as one
	// atomic unit. Two concurrent appends never lose each other's record.
	Append(ctx context.Context, record ImageRecord) error

	// FindByID returns the record with the given id, or ErrNotFound.
	FindByID(ctx context.Context, id string) (*ImageRecord, error)

	// List returns every record in insertion order.
	List(ctx context.Context) ([]ImageRecord, error)
}

type BlobStore interface {
	// Put writes content under the given filename inside the content root and
	// returns the public path for serving it. Filenames are caller-generated
	// and unique; an existing file is never overwritten.
	Put(ctx context.Context, filename string, content io.Reader) (string, error)
}
