//go:build gocv
// +build gocv

package vision

import (
	"errors"
	"image"
	"image/draw"

	"gocv.io/x/gocv"

	"github.com/Jeevanbnj/F-Glu/internal/domain/entity"
	"github.com/Jeevanbnj/F-Glu/internal/domain/port"
)

// Compositor накладывает тепловую карту средствами OpenCV.
type Compositor struct{}

// NewCompositor создаёт компоновщик наложения на OpenCV.
func NewCompositor() *Compositor {
	return &Compositor{}
}

// Compose повторяет цепочку resize -> applyColorMap(JET) -> addWeighted.
func (c *Compositor) Compose(raw *image.RGBA, heatmap *entity.Heatmap) (image.Image, error) {
	if raw == nil || heatmap == nil {
		return nil, errors.New("nothing to compose")
	}

	b := raw.Bounds()
	if heatmap.IsZero() {
		out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(out, out.Bounds(), raw, b.Min, draw.Src)
		return out, nil
	}

	src, err := gocv.ImageToMatRGB(raw)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	cam := gocv.NewMatWithSize(heatmap.Height, heatmap.Width, gocv.MatTypeCV32F)
	defer cam.Close()
	for y := 0; y < heatmap.Height; y++ {
		for x := 0; x < heatmap.Width; x++ {
			cam.SetFloatAt(y, x, heatmap.At(x, y))
		}
	}

	scaled := gocv.NewMat()
	defer scaled.Close()
	gocv.Resize(cam, &scaled, image.Pt(b.Dx(), b.Dy()), 0, 0, gocv.InterpolationLinear)

	levels := gocv.NewMat()
	defer levels.Close()
	scaled.ConvertToWithParams(&levels, gocv.MatTypeCV8U, 255, 0)

	colored := gocv.NewMat()
	defer colored.Close()
	gocv.ApplyColorMap(levels, &colored, gocv.ColormapJet)

	overlay := gocv.NewMat()
	defer overlay.Close()
	gocv.AddWeighted(src, OriginalWeight, colored, HeatmapWeight, 0, &overlay)

	return overlay.ToImage()
}

var _ port.OverlayCompositor = (*Compositor)(nil)
