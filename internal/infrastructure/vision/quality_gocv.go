//go:build gocv
// +build gocv

package vision

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/Jeevanbnj/F-Glu/internal/domain/entity"
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
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrDecodeImage, err)
	}
	defer mat.Close()
	if mat.Empty() {
		return fmt.Errorf("%w: empty image", entity.ErrLowQuality)
	}
	if err := g.checkSize(mat.Cols(), mat.Rows()); err != nil {
		return err
	}

	bgr := gocv.Split(mat)
	for i := range bgr {
		defer bgr[i].Close()
	}

	// Маска поля по красному каналу: рамка вокруг диска чёрная.
	field := gocv.NewMat()
	defer field.Close()
	gocv.Threshold(bgr[2], &field, fieldLevel, 255, gocv.ThresholdBinary)
	fieldN := gocv.CountNonZero(field)

	m := fieldMeter{field: field, total: fieldN}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	stats := fundusStats{field: ratio(fieldN, mat.Cols()*mat.Rows())}
	stats.bright = m.thresholdRatio(gray, brightLevel, gocv.ThresholdBinary)
	stats.dark = m.thresholdRatio(gray, darkLevel, gocv.ThresholdBinaryInv)
	stats.glare = m.glareRatio(mat)
	stats.edges = m.edgeRatio(gray)

	return g.verdict(stats)
}

// fieldMeter считает доли пикселей маски внутри поля глазного дна.
type fieldMeter struct {
	field gocv.Mat
	total int
}

func (m fieldMeter) ratio(mask gocv.Mat) float64 {
	in := gocv.NewMat()
	defer in.Close()
	gocv.BitwiseAnd(mask, m.field, &in)
	return ratio(gocv.CountNonZero(in), m.total)
}

func (m fieldMeter) thresholdRatio(gray gocv.Mat, level float32, typ gocv.ThresholdType) float64 {
	mask := gocv.NewMat()
	defer mask.Close()
	gocv.Threshold(gray, &mask, level, 255, typ)
	return m.ratio(mask)
}

// glareRatio блик: низкая насыщенность при высокой яркости.
func (m fieldMeter) glareRatio(bgr gocv.Mat) float64 {
	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(bgr, &hsv, gocv.ColorBGRToHSV)
	channels := gocv.Split(hsv)
	for i := range channels {
		defer channels[i].Close()
	}

	lowSat := gocv.NewMat()
	defer lowSat.Close()
	gocv.Threshold(channels[1], &lowSat, glareSat, 255, gocv.ThresholdBinaryInv)

	highVal := gocv.NewMat()
	defer highVal.Close()
	gocv.Threshold(channels[2], &highVal, glareVal, 255, gocv.ThresholdBinary)

	glare := gocv.NewMat()
	defer glare.Close()
	gocv.BitwiseAnd(lowSat, highVal, &glare)
	return m.ratio(glare)
}

// edgeRatio контуры Canny внутри поля, сжатого на fieldMargin.
func (m fieldMeter) edgeRatio(gray gocv.Mat) float64 {
	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(gray, &edges, cannyLow, cannyHigh)

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(2*fieldMargin+1, 2*fieldMargin+1))
	defer kernel.Close()
	inner := gocv.NewMat()
	defer inner.Close()
	gocv.Erode(m.field, &inner, kernel)

	in := gocv.NewMat()
	defer in.Close()
	gocv.BitwiseAnd(edges, inner, &in)
	return ratio(gocv.CountNonZero(in), m.total)
}

var _ port.QualityGate = (*QualityGate)(nil)
