package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeatmap_MaxAndZero(t *testing.T) {
	h := NewHeatmap(2, 2)
	require.True(t, h.IsZero())
	require.Equal(t, float32(0), h.Max())

	h.Values[3] = 0.5
	require.False(t, h.IsZero())
	require.Equal(t, float32(0.5), h.Max())
	require.Equal(t, float32(0.5), h.At(1, 1))
}

func TestPatientStage(t *testing.T) {
	p := &Patient{Diagnosis: " Advanced "}
	s, ok := p.Stage()
	require.True(t, ok)
	require.Equal(t, StageAdvanced, s)

	p.Diagnosis = "unknown"
	_, ok = p.Stage()
	require.False(t, ok)
}
