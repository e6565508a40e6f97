package vision

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// EncodedName имя файла, под которым Encode сохранит изображение.
// Для форматов без кодировщика (webp и прочих) расширение меняется на .png.
func EncodedName(name string) string {
	ext := filepath.Ext(name)
	switch strings.ToLower(ext) {
	case ".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff", ".gif":
		return name
	}
	return strings.TrimSuffix(name, ext) + ".png"
}

// Encode кодирует изображение в формат, заданный расширением имени.
// Неизвестные расширения сохраняются в PNG.
func Encode(name string, img image.Image) ([]byte, string, error) {
	var buf bytes.Buffer
	var (
		contentType string
		err         error
	)

	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		contentType = "image/jpeg"
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95})
	case ".bmp":
		contentType = "image/bmp"
		err = bmp.Encode(&buf, img)
	case ".tif", ".tiff":
		contentType = "image/tiff"
		err = tiff.Encode(&buf, img, nil)
	case ".gif":
		contentType = "image/gif"
		err = gif.Encode(&buf, img, nil)
	default:
		contentType = "image/png"
		err = png.Encode(&buf, img)
	}
	if err != nil {
		return nil, "", fmt.Errorf("encode %s: %w", name, err)
	}

	return buf.Bytes(), contentType, nil
}
