//go:build !gocv
// +build !gocv

package vision

import (
	"image"
	"image/color"
	"math"

	"github.com/Jeevanbnj/F-Glu/internal/domain/port"
)

// QualityGate отсеивает снимки без поля глазного дна, мелкие, размытые,
// пересвеченные, тёмные и бликующие.
type QualityGate struct {
	QualityThresholds
}

// NewQualityGate создаёт проверку с порогами по умолчанию.
func NewQualityGate() *QualityGate {
	return &QualityGate{QualityThresholds: DefaultQualityThresholds()}
}

// Check возвращает ErrLowQuality с причиной, если снимок не годится.
func (g *QualityGate) Check(img image.Image) error {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if err := g.checkSize(w, h); err != nil {
		return err
	}

	gray := make([]float64, w*h)
	field := make([]bool, w*h)
	var fieldN, bright, dark, glare int
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			l := 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
			i := y*w + x
			gray[i] = l
			if c.R <= fieldLevel {
				continue
			}

			field[i] = true
			fieldN++
			if l > brightLevel {
				bright++
			}
			if l < darkLevel {
				dark++
			}
			if s, v := saturationValue(c); s < glareSat && v > glareVal {
				glare++
			}
		}
	}

	return g.verdict(fundusStats{
		field:  ratio(fieldN, w*h),
		edges:  ratio(innerEdges(gray, field, w, h), fieldN),
		bright: ratio(bright, fieldN),
		dark:   ratio(dark, fieldN),
		glare:  ratio(glare, fieldN),
	})
}

// innerEdges число пикселей с модулем градиента Собеля выше порога,
// не ближе fieldMargin к краю поля.
func innerEdges(gray []float64, field []bool, w, h int) int {
	at := func(x, y int) float64 { return gray[y*w+x] }
	in := func(x, y int) bool { return x >= 0 && y >= 0 && x < w && y < h && field[y*w+x] }
	inner := func(x, y int) bool {
		for _, d := range [][2]int{{0, 0}, {-1, -1}, {1, -1}, {-1, 1}, {1, 1}, {0, -1}, {0, 1}, {-1, 0}, {1, 0}} {
			if !in(x+d[0]*fieldMargin, y+d[1]*fieldMargin) {
				return false
			}
		}
		return true
	}

	var edges int
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			if !inner(x, y) {
				continue
			}
			gx := at(x+1, y-1) + 2*at(x+1, y) + at(x+1, y+1) - at(x-1, y-1) - 2*at(x-1, y) - at(x-1, y+1)
			gy := at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1) - at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1)
			if math.Hypot(gx, gy) > sobelEdgeLevel {
				edges++
			}
		}
	}
	return edges
}

// saturationValue каналы S и V в шкале 0..255.
func saturationValue(c color.NRGBA) (float64, float64) {
	maxC := math.Max(float64(c.R), math.Max(float64(c.G), float64(c.B)))
	minC := math.Min(float64(c.R), math.Min(float64(c.G), float64(c.B)))
	if maxC == 0 {
		return 0, 0
	}
	return (maxC - minC) / maxC * 255, maxC
}

var _ port.QualityGate = (*QualityGate)(nil)
