package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/picshare/picshare/gallery/domain"
)

var _ domain.MetadataStore = (*FileMetadataStore)(nil)

// FileMetadataStore keeps the full record collection in a single JSON
// document on disk. Every append rewrites the whole document; a temp-file
// write followed by a rename commits it, so readers and crash recovery only
// ever see a complete, previously-committed document.
type FileMetadataStore struct {
	path string
	mu   sync.RWMutex
}

// NewFileMetadataStore creates a store backed by the JSON document at path.
// A missing document is an empty store.
func NewFileMetadataStore(path string) (*FileMetadataStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create metadata directory: %w", err)
	}
	return &FileMetadataStore{path: path}, nil
}

// Append loads the current collection, adds the record, and replaces the
// document. The write lock spans the whole read-modify-write including the
// on-disk rename, so concurrent appends serialize end-to-end.
func (s *FileMetadataStore) Append(ctx context.Context, record domain.ImageRecord) error {
	if record.ID == "" {
		return fmt.Errorf("record id cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}

	records = append(records, record)

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize metadata: %w", err)
	}

	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create metadata temp file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to write metadata: %w", err)
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to sync metadata: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close metadata temp file: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to commit metadata: %w", err)
	}

	return nil
}

// FindByID returns the record with the given id, or domain.ErrNotFound.
func (s *FileMetadataStore) FindByID(ctx context.Context, id string) (*domain.ImageRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}

	for i := range records {
		if records[i].ID == id {
			record := records[i]
			return &record, nil
		}
	}

	return nil, domain.ErrNotFound
}

// List returns all records in insertion order.
func (s *FileMetadataStore) List(ctx context.Context) ([]domain.ImageRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.load()
}

// load reads the committed document. Callers must hold s.mu.
func (s *FileMetadataStore) load() ([]domain.ImageRecord, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return []domain.ImageRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	var records []domain.ImageRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}

	return records, nil
}
