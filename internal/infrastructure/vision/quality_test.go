package vision

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Jeevanbnj/F-Glu/internal/domain/entity"
)

var (
	vessel = color.RGBA{R: 200, G: 80, B: 40, A: 255}
	retina = color.RGBA{R: 120, G: 40, B: 20, A: 255}
)

// fundusImage рисует поле радиуса r на чёрном кадре.
func fundusImage(side, r int, fill func(x, y int) color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, side, side))
	c := side / 2
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			px := color.RGBA{A: 255}
			if dx, dy := x-c, y-c; dx*dx+dy*dy <= r*r {
				px = fill(x, y)
			}
			img.SetRGBA(x, y, px)
		}
	}
	return img
}

func checker(x, y int) color.RGBA {
	if (x/8+y/8)%2 == 0 {
		return vessel
	}
	return retina
}

func uniform(c color.RGBA) func(int, int) color.RGBA {
	return func(int, int) color.RGBA { return c }
}

func TestQualityGate_AcceptsFundus(t *testing.T) {
	require.NoError(t, NewQualityGate().Check(fundusImage(300, 140, checker)))
}

func TestQualityGate_Rejects(t *testing.T) {
	glare := func(x, y int) color.RGBA {
		if dx, dy := x-150, y-150; dx*dx+dy*dy <= 70*70 {
			return color.RGBA{R: 250, G: 246, B: 246, A: 255}
		}
		return checker(x, y)
	}

	cases := []struct {
		name   string
		img    image.Image
		reason string
	}{
		{"too small", fundusImage(100, 45, checker), "too small"},
		{"black frame", fundusImage(300, 0, checker), "field not found"},
		{"tiny field", fundusImage(300, 50, checker), "field not found"},
		{"overexposed", fundusImage(300, 140, uniform(color.RGBA{R: 255, G: 255, B: 255, A: 255})), "overexposed"},
		{"underexposed", fundusImage(300, 140, uniform(color.RGBA{R: 25, G: 5, B: 5, A: 255})), "underexposed"},
		{"glare", fundusImage(300, 140, glare), "glare"},
		{"blurry", fundusImage(300, 140, uniform(vessel)), "blurry"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := NewQualityGate().Check(tc.img)
			require.ErrorIs(t, err, entity.ErrLowQuality)
			require.ErrorContains(t, err, tc.reason)
		})
	}
}

func TestQualityGate_BorderIsNotUnderexposure(t *testing.T) {
	// Поле занимает меньше половины кадра: по всему кадру тёмных пикселей
	// было бы больше порога.
	img := fundusImage(300, 110, checker)
	require.NoError(t, NewQualityGate().Check(img))
}
