package vision

import (
	"image/color"
	"math"
)

// Веса смешивания: исходник и тепловая карта.
const (
	OriginalWeight = 0.6
	HeatmapWeight  = 0.4
)

// Jet переводит значение [0,1] в цвет палитры jet: синий для малых
// значений, красный для больших. Значение квантуется до 8 бит.
func Jet(v float32) color.RGBA {
	level := uint8(clamp01(v) * 255)
	return jetTable[level]
}

var jetTable = buildJetTable()

func buildJetTable() [256]color.RGBA {
	var t [256]color.RGBA
	for i := range t {
		x := float64(i) / 255
		t[i] = color.RGBA{
			R: channel(1.5 - math.Abs(4*x-3)),
			G: channel(1.5 - math.Abs(4*x-2)),
			B: channel(1.5 - math.Abs(4*x-1)),
			A: 0xff,
		}
	}
	return t
}

func channel(v float64) uint8 {
	return saturate(math.Min(math.Max(v, 0), 1) * 255)
}

// blend смешивает два канала с насыщением, как addWeighted.
func blend(orig, heat uint8) uint8 {
	return saturate(OriginalWeight*float64(orig) + HeatmapWeight*float64(heat))
}

func saturate(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
