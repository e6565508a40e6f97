package entity

// Heatmap двумерная карта важности, значения в [0,1].
type Heatmap struct {
	Width  int
	Height int
	Values []float32 // построчно, Width*Height
}

// NewHeatmap создаёт нулевую карту.
func NewHeatmap(width, height int) *Heatmap {
	return &Heatmap{Width: width, Height: height, Values: make([]float32, width*height)}
}

// At значение в точке (x, y).
func (h *Heatmap) At(x, y int) float32 {
	return h.Values[y*h.Width+x]
}

// Max максимальное значение карты.
func (h *Heatmap) Max() float32 {
	var m float32
	for i, v := range h.Values {
		if i == 0 || v > m {
			m = v
		}
	}
	return m
}

// IsZero true, если карта целиком нулевая.
func (h *Heatmap) IsZero() bool {
	for _, v := range h.Values {
		if v != 0 {
			return false
		}
	}
	return true
}
