package vision

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Jeevanbnj/F-Glu/internal/domain/entity"
)

func writePNG(t *testing.T, dir, name string, w, h int, fill color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, fill)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestLoader_LoadResizesAndNormalizes(t *testing.T) {
	path := writePNG(t, t.TempDir(), "eye.png", 64, 32, color.RGBA{R: 255, G: 0, B: 51, A: 255})

	img, err := NewLoader(16).Load(path)
	require.NoError(t, err)
	require.Equal(t, "eye.png", img.Name)
	require.Equal(t, []int64{1, 16, 16, 3}, img.Shape())
	require.Len(t, img.Tensor, 16*16*3)
	require.Equal(t, image.Rect(0, 0, 16, 16), img.Raw.Bounds())

	for _, v := range img.Tensor {
		require.GreaterOrEqual(t, v, float32(0))
		require.LessOrEqual(t, v, float32(1))
	}
	require.InDelta(t, 1.0, img.Tensor[0], 1e-6)
	require.InDelta(t, 0.0, img.Tensor[1], 1e-6)
	require.InDelta(t, 0.2, img.Tensor[2], 1e-6)
}

func TestLoader_DefaultSize(t *testing.T) {
	require.Equal(t, DefaultImageSize, NewLoader(0).Size)
}

func TestLoader_MissingFile(t *testing.T) {
	_, err := NewLoader(16).Load(filepath.Join(t.TempDir(), "missing.png"))
	require.ErrorIs(t, err, entity.ErrImageNotFound)
}

func TestLoader_DirectoryIsNotAnImage(t *testing.T) {
	_, err := NewLoader(16).Load(t.TempDir())
	require.ErrorIs(t, err, entity.ErrImageNotFound)
}

func TestLoader_DecodeFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))

	_, err := NewLoader(16).Load(path)
	require.ErrorIs(t, err, entity.ErrDecodeImage)

	_, err = NewLoader(16).Decode("empty.png", nil)
	require.ErrorIs(t, err, entity.ErrDecodeImage)
}

func TestLoader_DropsAlpha(t *testing.T) {
	path := writePNG(t, t.TempDir(), "alpha.png", 4, 4, color.NRGBA{R: 200, G: 100, B: 50, A: 0})

	img, err := NewLoader(4).Load(path)
	require.NoError(t, err)
	require.Equal(t, uint8(0xff), img.Raw.Pix[3])
}

func TestLoader_Deterministic(t *testing.T) {
	path := writePNG(t, t.TempDir(), "eye.png", 40, 40, color.RGBA{R: 10, G: 120, B: 200, A: 255})
	l := NewLoader(20)

	a, err := l.Load(path)
	require.NoError(t, err)
	b, err := l.Load(path)
	require.NoError(t, err)
	require.Equal(t, a.Tensor, b.Tensor)
}
