package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"rently-backend/internal/config"

	"github.com/google/uuid"
)

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// SaveImage stores an uploaded property image under the configured directory
// with a uuid filename and returns its public URL.
func SaveImage(cfg *config.Config, file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		return "", fmt.Errorf("unsupported image type %q", ext)
	}

	if err := os.MkdirAll(cfg.ImagePath, 0o755); err != nil {
		return "", fmt.Errorf("could not create image directory: %w", err)
	}

	name := uuid.New().String() + ext
	dstPath := filepath.Join(cfg.ImagePath, name)

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("could not open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("could not create image file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dstPath)
		return "", fmt.Errorf("could not write image file: %w", err)
	}

	return strings.TrimRight(cfg.ImageBaseURL, "/") + "/" + name, nil
}
