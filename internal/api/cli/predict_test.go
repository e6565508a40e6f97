package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Jeevanbnj/F-Glu/config"
	"github.com/Jeevanbnj/F-Glu/internal/domain/entity"
	"github.com/Jeevanbnj/F-Glu/internal/domain/port"
)

type stubClassifier struct {
	features *entity.FeatureMaps
}

func (s *stubClassifier) Classes() []string { return entity.DefaultClasses }

func (s *stubClassifier) Predict(context.Context, *entity.InputImage) (*entity.Inference, error) {
	return &entity.Inference{Probabilities: []float32{0.05, 0.874, 0.076}, Features: s.features}, nil
}

func (s *stubClassifier) Close() error { return nil }

func convFeatures() *entity.FeatureMaps {
	grads := [][]float32{{1, 1, 1, 1}, {1, 1, 1, 1}, {1, 1, 1, 1}}
	return &entity.FeatureMaps{Height: 2, Width: 2, Channels: 1, Activations: []float32{0, 1, 1, 0}, Gradients: grads}
}

type harness struct {
	cfg        *config.Config
	loads      int
	classifier port.Classifier
	loadErr    error
}

func newHarness(t *testing.T, clf port.Classifier) *harness {
	return &harness{
		cfg: &config.Config{
			LogLevel: "error",
			Vision:   config.VisionConfig{ImageSize: 16},
			Uploads:  config.UploadsConfig{Dir: filepath.Join(t.TempDir(), "uploads"), PublicPrefix: "/uploads"},
		},
		classifier: clf,
	}
}

func (h *harness) run(args ...string) (string, int) {
	var out bytes.Buffer
	code := Execute(context.Background(), args, Options{
		Config: h.cfg,
		NewClassifier: func(*config.Config) (port.Classifier, error) {
			h.loads++
			if h.loadErr != nil {
				return nil, h.loadErr
			}
			return h.classifier, nil
		},
		Stdout: &out,
		Stderr: &bytes.Buffer{},
	})
	return out.String(), code
}

func writeFundus(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			img.Set(x, y, color.RGBA{R: 180, G: uint8(x * 10), B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	p := filepath.Join(t.TempDir(), "fundus.png")
	require.NoError(t, os.WriteFile(p, buf.Bytes(), 0o644))
	return p
}

func TestPredict_NoImage(t *testing.T) {
	h := newHarness(t, &stubClassifier{})
	out, code := h.run()
	require.Equal(t, 1, code)
	require.Equal(t, "ERROR|NO_IMAGE\n", out)
	require.Zero(t, h.loads)
}

func TestPredict_ImageNotFound(t *testing.T) {
	h := newHarness(t, &stubClassifier{})
	out, code := h.run(filepath.Join(t.TempDir(), "missing.jpg"))
	require.Equal(t, 1, code)
	require.Equal(t, "ERROR|IMAGE_NOT_FOUND\n", out)
	require.Zero(t, h.loads)

	out, code = h.run(t.TempDir())
	require.Equal(t, 1, code)
	require.Equal(t, "ERROR|IMAGE_NOT_FOUND\n", out)
}

func TestPredict_Success(t *testing.T) {
	h := newHarness(t, &stubClassifier{features: convFeatures()})
	out, code := h.run(writeFundus(t))
	require.Equal(t, 0, code)
	require.Equal(t, "early|0.87|/uploads/gradcam_fundus.png\n", out)
	require.FileExists(t, filepath.Join(h.cfg.Uploads.Dir, "gradcam_fundus.png"))
}

func TestPredict_NoGradCAM(t *testing.T) {
	h := newHarness(t, &stubClassifier{})
	out, code := h.run("--no-gradcam", writeFundus(t))
	require.Equal(t, 0, code)
	require.Equal(t, "early|0.87\n", out)

	_, err := os.Stat(h.cfg.Uploads.Dir)
	require.True(t, os.IsNotExist(err))
}

func TestPredict_NoConvLayer(t *testing.T) {
	h := newHarness(t, &stubClassifier{})
	out, code := h.run(writeFundus(t))
	require.Equal(t, 1, code)
	require.Equal(t, "ERROR|NO_CONV_LAYER\n", out)
}

func TestPredict_ModelLoadFailed(t *testing.T) {
	h := newHarness(t, nil)
	h.loadErr = errors.New("no such model")
	out, code := h.run(writeFundus(t))
	require.Equal(t, 1, code)
	require.Equal(t, "ERROR|MODEL_LOAD_FAILED\n", out)
	require.Equal(t, 1, h.loads)
}

func TestPredict_DecodeFailed(t *testing.T) {
	p := filepath.Join(t.TempDir(), "broken.png")
	require.NoError(t, os.WriteFile(p, []byte("not a png"), 0o644))

	h := newHarness(t, &stubClassifier{})
	out, code := h.run(p)
	require.Equal(t, 1, code)
	require.Equal(t, "ERROR|DECODE_FAILED\n", out)
}

func TestPredict_DashedPathIsImage(t *testing.T) {
	h := newHarness(t, &stubClassifier{})
	for _, arg := range []string{"-missing.png", "--bogus", "--help", "-h"} {
		out, code := h.run(arg)
		require.Equal(t, 1, code, arg)
		require.Equal(t, "ERROR|IMAGE_NOT_FOUND\n", out, arg)
	}
	require.Zero(t, h.loads)
}

func TestPredict_FlagAfterPath(t *testing.T) {
	h := newHarness(t, &stubClassifier{})
	out, code := h.run(writeFundus(t), "--no-gradcam")
	require.Equal(t, 0, code)
	require.Equal(t, "early|0.87\n", out)
}

func TestPredict_UploadsDirFlag(t *testing.T) {
	h := newHarness(t, &stubClassifier{features: convFeatures()})
	dir := filepath.Join(t.TempDir(), "overlays")
	out, code := h.run("--uploads-dir", dir, writeFundus(t))
	require.Equal(t, 0, code)
	require.Equal(t, "early|0.87|/uploads/gradcam_fundus.png\n", out)
	require.FileExists(t, filepath.Join(dir, "gradcam_fundus.png"))
}

func TestPredict_BadFlagValue(t *testing.T) {
	h := newHarness(t, &stubClassifier{})
	out, code := h.run("--no-gradcam=maybe", writeFundus(t))
	require.Equal(t, 1, code)
	require.Equal(t, "ERROR|USAGE\n", out)
}

func TestErrorCode(t *testing.T) {
	cases := map[error]string{
		entity.ErrNoImage:           CodeNoImage,
		entity.ErrImageNotFound:     CodeImageNotFound,
		entity.ErrDecodeImage:       CodeDecodeFailed,
		entity.ErrModelLoad:         CodeModelLoadFailed,
		entity.ErrNoConvLayer:       CodeNoConvLayer,
		entity.ErrOutputNotWritable: CodeOutputNotWritable,
		entity.ErrLowQuality:        CodeLowQuality,
		errors.New("boom"):          CodeInferenceFailed,
	}
	for err, want := range cases {
		require.Equal(t, want, ErrorCode(fmt.Errorf("wrapped: %w", err)))
	}
}
