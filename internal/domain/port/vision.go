package port

import (
	"image"

	"github.com/Jeevanbnj/F-Glu/internal/domain/entity"
)

// ImageLoader читает и нормализует изображение для модели
type ImageLoader interface {
	// Load читает файл с диска
	Load(path string) (*entity.InputImage, error)

	// Decode разбирает изображение из байтов
	Decode(name string, data []byte) (*entity.InputImage, error)
}

// OverlayCompositor накладывает тепловую карту на изображение
type OverlayCompositor interface {
	Compose(raw *image.RGBA, heatmap *entity.Heatmap) (image.Image, error)
}

// QualityGate проверяет, пригоден ли снимок для анализа
type QualityGate interface {
	Check(img image.Image) error
}

// Explainer строит карту значимости для выбранного класса
type Explainer interface {
	Explain(features *entity.FeatureMaps, classIdx int) (*entity.Heatmap, error)
}
