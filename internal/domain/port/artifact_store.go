package port

import (
	"context"
	"image"
)

// ArtifactStore хранилище загруженных снимков и наложений Grad-CAM.
// Пути, которые возвращает хранилище, публичные: "/uploads/<name>".
type ArtifactStore interface {
	// SaveImage кодирует изображение по расширению имени и сохраняет его
	SaveImage(ctx context.Context, name string, img image.Image) (string, []byte, error)

	// Put сохраняет произвольные байты
	Put(ctx context.Context, name string, data []byte, contentType string) (string, error)

	// Get читает ранее сохранённый объект по публичному пути
	Get(ctx context.Context, publicPath string) ([]byte, error)
}
