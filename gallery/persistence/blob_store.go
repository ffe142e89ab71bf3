package persistence

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/picshare/picshare/gallery/domain"
)

var _ domain.BlobStore = (*DiskBlobStore)(nil)

// publicPrefix is the URL prefix the content root is served under.
const publicPrefix = "/uploads/"

// DiskBlobStore writes uploaded bytes into a flat content directory. Names
// are caller-generated and unique, so concurrent puts never contend with
// each other.
type DiskBlobStore struct {
	root string
}

func NewDiskBlobStore(root string) *DiskBlobStore {
	return &DiskBlobStore{root: root}
}

// Put streams content to `{root}/{filename}`, creating the root if absent,
// and returns the public path. The bytes land in a temp file first and are
// renamed into place, so a failed write leaves no partial blob under the
// final name.
func (s *DiskBlobStore) Put(ctx context.Context, filename string, content io.Reader) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("blob filename cannot be empty")
	}

	if err := os.MkdirAll(s.root, 0755); err != nil {
		return "", fmt.Errorf("failed to create content directory: %w", err)
	}

	dst := filepath.Join(s.root, filename)
	if _, err := os.Stat(dst); err == nil {
		return "", fmt.Errorf("blob %s already exists", filename)
	}

	tmp := dst + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("failed to create blob file: %w", err)
	}

	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("failed to write blob: %w", err)
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("failed to sync blob: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to close blob file: %w", err)
	}

	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to commit blob: %w", err)
	}

	return publicPrefix + filename, nil
}
