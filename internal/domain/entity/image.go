package entity

import "image"

// InputImage подготовленное для модели изображение.
// Не изменяется после подготовки и живёт в пределах одного вызова.
type InputImage struct {
	Name     string      // имя исходного файла
	Size     int         // сторона квадрата после ресайза
	Tensor   []float32   // NHWC [1, Size, Size, 3], значения в [0,1]
	Raw      *image.RGBA // пиксели после ресайза, для наложения
	Original image.Image // декодированный снимок до ресайза
}

// Shape форма тензора с ведущей батч-размерностью.
func (i *InputImage) Shape() []int64 {
	return []int64{1, int64(i.Size), int64(i.Size), 3}
}

// FeatureMaps активации целевого свёрточного слоя и градиенты
// оценки каждого класса по этим активациям.
type FeatureMaps struct {
	Layer       string
	Height      int
	Width       int
	Channels    int
	Activations []float32   // [Height*Width*Channels], HWC
	Gradients   [][]float32 // по классам, каждый [Height*Width*Channels]
}

// Inference сырой выход классификатора за один прямой проход.
type Inference struct {
	Probabilities []float32
	Features      *FeatureMaps // nil, если у модели нет свёрточного слоя
}
