package entity

import (
	"fmt"
	"math"
	"strconv"
)

// Stage стадия глаукомы, которую различает классификатор.
type Stage string

const (
	StageAdvanced Stage = "advanced"
	StageEarly    Stage = "early"
	StageNormal   Stage = "normal"
)

// DefaultClasses порядок классов на выходе модели.
var DefaultClasses = []string{string(StageAdvanced), string(StageEarly), string(StageNormal)}

// Valid сообщает, входит ли стадия в фиксированный набор классов.
func (s Stage) Valid() bool {
	switch s {
	case StageAdvanced, StageEarly, StageNormal:
		return true
	}
	return false
}

// Prediction результат классификации одного изображения.
type Prediction struct {
	Label         Stage     `json:"label"`
	Index         int       `json:"index"`
	Confidence    float64   `json:"confidence"`
	Probabilities []float32 `json:"probabilities"`
}

// NewPrediction выбирает класс с максимальной вероятностью.
// При равенстве побеждает первый индекс.
func NewPrediction(classes []string, probs []float32) (*Prediction, error) {
	if len(probs) == 0 {
		return nil, fmt.Errorf("empty probability vector")
	}
	if len(probs) != len(classes) {
		return nil, fmt.Errorf("got %d probabilities for %d classes", len(probs), len(classes))
	}

	idx := ArgMax(probs)
	label := Stage(classes[idx])
	if !label.Valid() {
		return nil, fmt.Errorf("unknown class label %q", classes[idx])
	}

	conf := float64(probs[idx])
	if math.IsNaN(conf) {
		conf = 0
	}
	conf = math.Min(math.Max(conf, 0), 1)

	return &Prediction{
		Label:         label,
		Index:         idx,
		Confidence:    conf,
		Probabilities: append([]float32(nil), probs...),
	}, nil
}

// ArgMax возвращает индекс первого максимального элемента.
func ArgMax(values []float32) int {
	best := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[best] {
			best = i
		}
	}
	return best
}

// RoundedConfidence уверенность, округлённая до двух знаков.
func (p *Prediction) RoundedConfidence() float64 {
	return math.Round(p.Confidence*100) / 100
}

// FormatConfidence уверенность в виде "0.87".
// Форматируется напрямую из Confidence: точные половины округляются к чётному.
func (p *Prediction) FormatConfidence() string {
	return strconv.FormatFloat(p.Confidence, 'f', 2, 64)
}
