package vision

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/nfnt/resize"

	"github.com/Jeevanbnj/F-Glu/internal/domain/entity"
	"github.com/Jeevanbnj/F-Glu/internal/domain/port"
)

// GradCAM строит карту важности для класса classIdx.
// Вес канала равен среднему его градиента по пространству, карта равна
// взвешенной сумме активаций с отсечением отрицательных значений
// и нормировкой на максимум.
func GradCAM(features *entity.FeatureMaps, classIdx int) (*entity.Heatmap, error) {
	if features == nil {
		return nil, entity.ErrNoConvLayer
	}
	if classIdx < 0 || classIdx >= len(features.Gradients) {
		return nil, fmt.Errorf("class index %d out of range [0,%d)", classIdx, len(features.Gradients))
	}

	n := features.Height * features.Width
	k := features.Channels
	if n <= 0 || k <= 0 {
		return nil, fmt.Errorf("invalid feature map shape %dx%dx%d", features.Height, features.Width, k)
	}
	grads := features.Gradients[classIdx]
	if len(features.Activations) != n*k || len(grads) != n*k {
		return nil, fmt.Errorf("feature map size mismatch: activations=%d gradients=%d want=%d",
			len(features.Activations), len(grads), n*k)
	}

	weights := make([]float64, k)
	for i := 0; i < n; i++ {
		for c := 0; c < k; c++ {
			weights[c] += float64(grads[i*k+c])
		}
	}
	for c := range weights {
		weights[c] /= float64(n)
	}

	heatmap := entity.NewHeatmap(features.Width, features.Height)
	for i := 0; i < n; i++ {
		var sum float64
		act := features.Activations[i*k : (i+1)*k]
		for c, a := range act {
			sum += float64(a) * weights[c]
		}
		heatmap.Values[i] = float32(math.Max(sum, 0))
	}

	Normalize(heatmap)
	return heatmap, nil
}

// Normalize делит карту на максимум. Нулевой или нечисловой максимум
// даёт полностью нулевую карту.
func Normalize(h *entity.Heatmap) {
	m := h.Max()
	if m <= 0 || math.IsNaN(float64(m)) || math.IsInf(float64(m), 0) {
		for i := range h.Values {
			h.Values[i] = 0
		}
		return
	}
	for i, v := range h.Values {
		h.Values[i] = v / m
	}
}

// ResizeHeatmap масштабирует карту билинейной интерполяцией.
func ResizeHeatmap(h *entity.Heatmap, width, height int) *entity.Heatmap {
	if h.Width == width && h.Height == height {
		return &entity.Heatmap{Width: width, Height: height, Values: append([]float32(nil), h.Values...)}
	}
	if h.IsZero() {
		return entity.NewHeatmap(width, height)
	}

	plane := image.NewGray16(image.Rect(0, 0, h.Width, h.Height))
	for y := 0; y < h.Height; y++ {
		for x := 0; x < h.Width; x++ {
			v := clamp01(h.At(x, y))
			plane.SetGray16(x, y, color.Gray16{Y: uint16(math.Round(float64(v) * 0xffff))})
		}
	}

	scaled := resize.Resize(uint(width), uint(height), plane, resize.Bilinear)
	out := entity.NewHeatmap(width, height)
	b := scaled.Bounds()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			g := color.Gray16Model.Convert(scaled.At(b.Min.X+x, b.Min.Y+y)).(color.Gray16)
			out.Values[y*width+x] = float32(g.Y) / 0xffff
		}
	}
	return out
}

func clamp01(v float32) float32 {
	if v < 0 || math.IsNaN(float64(v)) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// GradCAMExplainer реализация port.Explainer поверх GradCAM.
type GradCAMExplainer struct{}

func (GradCAMExplainer) Explain(features *entity.FeatureMaps, classIdx int) (*entity.Heatmap, error) {
	return GradCAM(features, classIdx)
}

var _ port.Explainer = GradCAMExplainer{}
