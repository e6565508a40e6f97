package port

import (
	"context"

	"github.com/Jeevanbnj/F-Glu/internal/domain/entity"
)

// Classifier интерфейс классификатора снимков глазного дна
type Classifier interface {
	// Classes возвращает метки классов в порядке выхода модели
	Classes() []string

	// Predict выполняет прямой проход и возвращает вероятности,
	// а также активации и градиенты целевого свёрточного слоя
	Predict(ctx context.Context, input *entity.InputImage) (*entity.Inference, error)

	// Close освобождает ресурсы модели
	Close() error
}
