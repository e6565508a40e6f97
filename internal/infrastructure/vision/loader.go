package vision

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/Jeevanbnj/F-Glu/internal/domain/entity"
	"github.com/Jeevanbnj/F-Glu/internal/domain/port"
)

// DefaultImageSize сторона входа модели.
const DefaultImageSize = 320

// Loader читает изображение, приводит к RGB и квадрату Size×Size.
// Пропорции не сохраняются: неквадратные снимки растягиваются.
type Loader struct {
	Size int
}

// NewLoader создаёт загрузчик под заданный размер входа.
func NewLoader(size int) *Loader {
	if size <= 0 {
		size = DefaultImageSize
	}
	return &Loader{Size: size}
}

// Load читает файл с диска.
func (l *Loader) Load(path string) (*entity.InputImage, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", entity.ErrImageNotFound, path)
		}
		return nil, fmt.Errorf("stat image: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", entity.ErrImageNotFound, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	return l.Decode(filepath.Base(path), data)
}

// Decode разбирает изображение из байтов.
func (l *Loader) Decode(name string, data []byte) (*entity.InputImage, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", entity.ErrDecodeImage, name)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", entity.ErrDecodeImage, name, err)
	}

	raw := l.Prepare(img)
	return &entity.InputImage{
		Name:     name,
		Size:     l.Size,
		Tensor:   ToTensor(raw),
		Raw:      raw,
		Original: img,
	}, nil
}

// Prepare приводит изображение к RGB и нужному размеру.
func (l *Loader) Prepare(img image.Image) *image.RGBA {
	rgb := toOpaqueRGBA(img)
	size := uint(l.Size)
	resized := resize.Resize(size, size, rgb, resize.Bilinear)
	return toOpaqueRGBA(resized)
}

// ToTensor превращает пиксели в NHWC-тензор [1,H,W,3] со значениями в [0,1].
func ToTensor(img *image.RGBA) []float32 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]float32, 0, w*h*3)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			p := row[x*4 : x*4+3]
			out = append(out, float32(p[0])/255, float32(p[1])/255, float32(p[2])/255)
		}
	}
	return out
}

// toOpaqueRGBA отбрасывает альфа-канал так же, как конвертация в RGB:
// цвет берётся без премультипликации, альфа ставится в 255.
func toOpaqueRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			i := out.PixOffset(x, y)
			out.Pix[i+0] = c.R
			out.Pix[i+1] = c.G
			out.Pix[i+2] = c.B
			out.Pix[i+3] = 0xff
		}
	}
	return out
}

var _ port.ImageLoader = (*Loader)(nil)
