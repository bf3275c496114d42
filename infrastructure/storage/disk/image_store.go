package disk

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ImageStore writes image bytes under a base directory and returns a URL
// path the HTTP layer serves as static content.
type ImageStore struct {
	basePath string
	baseURL  string
}

func NewImageStore(basePath, baseURL string) (*ImageStore, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}
	return &ImageStore{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *ImageStore) Store(ctx context.Context, name string, data []byte) (string, error) {
	clean := filepath.Clean(name)
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid image name: %s", name)
	}

	fullPath := filepath.Join(s.basePath, clean)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create image subdirectory: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	return s.baseURL + "/" + filepath.ToSlash(clean), nil
}

// BasePath returns the directory served by the static file handler.
func (s *ImageStore) BasePath() string {
	return s.basePath
}
