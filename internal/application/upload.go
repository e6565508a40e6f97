package app

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/Jeevanbnj/F-Glu/internal/domain/entity"
	"github.com/Jeevanbnj/F-Glu/internal/domain/port"
)

// UploadService принимает снимки глазного дна и кладёт их в хранилище.
type UploadService struct {
	store   port.ArtifactStore
	maxSize int64
	newID   func() string
}

func NewUploadService(store port.ArtifactStore, maxSize int64) *UploadService {
	return &UploadService{
		store:   store,
		maxSize: maxSize,
		newID:   func() string { return uuid.NewString() },
	}
}

// Save сохраняет файл как "<uuid>-<name>" и возвращает публичный путь.
func (s *UploadService) Save(ctx context.Context, filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", entity.ErrNoImage
	}
	if s.maxSize > 0 && int64(len(data)) > s.maxSize {
		return "", fmt.Errorf("%w: file exceeds %d bytes", entity.ErrInvalidInput, s.maxSize)
	}

	name := sanitizeFilename(filename)
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		// TIFF сниффер net/http не распознаёт.
		switch strings.ToLower(path.Ext(name)) {
		case ".tif", ".tiff":
			contentType = "image/tiff"
		default:
			return "", fmt.Errorf("%w: %s is not an image", entity.ErrDecodeImage, contentType)
		}
	}

	return s.store.Put(ctx, s.newID()+"-"+name, data, contentType)
}

func sanitizeFilename(filename string) string {
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(filename), "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "fundus.png"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
}
