package vision

import (
	"image"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodedName(t *testing.T) {
	cases := map[string]string{
		"gradcam_eye.png":  "gradcam_eye.png",
		"gradcam_eye.JPG":  "gradcam_eye.JPG",
		"gradcam_eye.tiff": "gradcam_eye.tiff",
		"gradcam_eye.webp": "gradcam_eye.png",
		"gradcam_eye":      "gradcam_eye.png",
	}
	for in, want := range cases {
		require.Equal(t, want, EncodedName(in), in)
	}
}

func TestEncode_ContentMatchesName(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for _, name := range []string{"a.png", "a.jpg", "a.gif", "a.bmp", "a.webp"} {
		name = EncodedName(name)
		data, contentType, err := Encode(name, img)
		require.NoError(t, err, name)
		require.Equal(t, contentType, http.DetectContentType(data), name)
	}
}
