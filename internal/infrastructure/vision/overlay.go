//go:build !gocv
// +build !gocv

package vision

import (
	"errors"
	"image"
	"image/draw"

	"github.com/Jeevanbnj/F-Glu/internal/domain/entity"
	"github.com/Jeevanbnj/F-Glu/internal/domain/port"
)

// Compositor накладывает тепловую карту на снимок средствами Go.
type Compositor struct{}

// NewCompositor создаёт компоновщик наложения.
func NewCompositor() *Compositor {
	return &Compositor{}
}

// Compose окрашивает карту палитрой jet и смешивает её с исходником 60/40.
// Нулевая карта возвращает копию исходника без подсветки.
func (c *Compositor) Compose(raw *image.RGBA, heatmap *entity.Heatmap) (image.Image, error) {
	if raw == nil || heatmap == nil {
		return nil, errors.New("nothing to compose")
	}

	b := raw.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), raw, b.Min, draw.Src)
	if heatmap.IsZero() {
		return out, nil
	}

	scaled := ResizeHeatmap(heatmap, b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			heat := Jet(scaled.At(x, y))
			i := out.PixOffset(x, y)
			out.Pix[i+0] = blend(out.Pix[i+0], heat.R)
			out.Pix[i+1] = blend(out.Pix[i+1], heat.G)
			out.Pix[i+2] = blend(out.Pix[i+2], heat.B)
			out.Pix[i+3] = 0xff
		}
	}

	return out, nil
}

var _ port.OverlayCompositor = (*Compositor)(nil)
