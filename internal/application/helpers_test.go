package app

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Jeevanbnj/F-Glu/internal/domain/entity"
	"github.com/Jeevanbnj/F-Glu/internal/infrastructure/storage"
	"github.com/Jeevanbnj/F-Glu/internal/infrastructure/vision"
)

// fakeClassifier отдаёт заранее заданные вероятности и карты признаков.
type fakeClassifier struct {
	probs    []float32
	features *entity.FeatureMaps
	err      error
	calls    int
}

func (f *fakeClassifier) Classes() []string { return entity.DefaultClasses }

func (f *fakeClassifier) Predict(ctx context.Context, input *entity.InputImage) (*entity.Inference, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &entity.Inference{Probabilities: f.probs, Features: f.features}, nil
}

func (f *fakeClassifier) Close() error { return nil }

// featureMaps 2x2x1; знак градиента класса задаёт, будет ли карта нулевой.
func featureMaps(gradSign float32) *entity.FeatureMaps {
	grads := make([][]float32, len(entity.DefaultClasses))
	for i := range grads {
		grads[i] = []float32{gradSign, gradSign, gradSign, gradSign}
	}
	return &entity.FeatureMaps{
		Layer:       "conv_last",
		Height:      2,
		Width:       2,
		Channels:    1,
		Activations: []float32{1, 0.5, 0.25, 0},
		Gradients:   grads,
	}
}

type rejectGate struct{}

func (rejectGate) Check(image.Image) error { return entity.ErrLowQuality }

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 8), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func writeImage(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, encodePNG(t, 24, 24), 0o644))
	return p
}

func newDiagnosisService(t *testing.T, clf *fakeClassifier) (*DiagnosisService, string) {
	t.Helper()
	uploads := filepath.Join(t.TempDir(), "uploads")
	svc := NewDiagnosisService(
		vision.NewLoader(16),
		clf,
		vision.GradCAMExplainer{},
		vision.NewCompositor(),
		storage.NewLocalArtifactStore(uploads, "/uploads"),
	)
	return svc, uploads
}
