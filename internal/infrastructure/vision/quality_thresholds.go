package vision

import (
	"fmt"

	"github.com/Jeevanbnj/F-Glu/internal/domain/entity"
)

// Уровни яркости 0..255, общие для обеих реализаций проверки.
const (
	fieldLevel  = 20 // красный канал выше порога: пиксель внутри поля глазного дна
	darkLevel   = 20
	brightLevel = 250
	glareSat    = 40
	glareVal    = 245
	fieldMargin = 3 // край поля не считается резкостью

	sobelEdgeLevel = 160
	cannyLow       = 80
	cannyHigh      = 160
)

// QualityThresholds пороги проверки снимка глазного дна.
// Все доли, кроме MinFieldRatio, считаются от площади поля, а не кадра:
// чёрная рамка вокруг диска на них не влияет.
type QualityThresholds struct {
	MinImageSide          int
	MinFieldRatio         float64
	MinSharpnessEdgeRatio float64
	MaxOverexposedRatio   float64
	MaxUnderexposedRatio  float64
	MaxGlareRatio         float64
}

func DefaultQualityThresholds() QualityThresholds {
	return QualityThresholds{
		MinImageSide:          224,
		MinFieldRatio:         0.25,
		MinSharpnessEdgeRatio: 0.004,
		MaxOverexposedRatio:   0.35,
		MaxUnderexposedRatio:  0.5,
		MaxGlareRatio:         0.08,
	}
}

// fundusStats измерения снимка, по которым выносится решение.
type fundusStats struct {
	field  float64 // доля кадра
	edges  float64
	bright float64
	dark   float64
	glare  float64
}

func (t QualityThresholds) checkSize(w, h int) error {
	if w < t.MinImageSide || h < t.MinImageSide {
		return fmt.Errorf("%w: image is too small (%dx%d)", entity.ErrLowQuality, w, h)
	}
	return nil
}

// verdict порядок важен: без поля остальные доли не имеют смысла,
// а пересвет и блики сами по себе снижают резкость.
func (t QualityThresholds) verdict(s fundusStats) error {
	switch {
	case s.field < t.MinFieldRatio:
		return fmt.Errorf("%w: fundus field not found (field_ratio=%.4f)", entity.ErrLowQuality, s.field)
	case s.bright > t.MaxOverexposedRatio:
		return fmt.Errorf("%w: overexposed image (ratio=%.4f)", entity.ErrLowQuality, s.bright)
	case s.dark > t.MaxUnderexposedRatio:
		return fmt.Errorf("%w: underexposed image (ratio=%.4f)", entity.ErrLowQuality, s.dark)
	case s.glare > t.MaxGlareRatio:
		return fmt.Errorf("%w: too much glare (ratio=%.4f)", entity.ErrLowQuality, s.glare)
	case s.edges < t.MinSharpnessEdgeRatio:
		return fmt.Errorf("%w: image is blurry (edge_ratio=%.4f)", entity.ErrLowQuality, s.edges)
	}
	return nil
}

func ratio(n, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(n) / float64(total)
}
