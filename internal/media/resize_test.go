package media

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func decodeDataURI(t *testing.T, uri string) image.Image {
	t.Helper()
	require.True(t, strings.HasPrefix(uri, "data:image/jpeg;base64,"))
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:image/jpeg;base64,"))
	require.NoError(t, err)
	img, err := jpeg.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	return img
}

func TestTargetSize(t *testing.T) {
	tests := []struct {
		w, h, max    int
		wantW, wantH int
	}{
		{1600, 800, 800, 800, 400},
		{800, 1600, 800, 400, 800},
		{400, 300, 800, 400, 300}, // never upscale
		{800, 800, 800, 800, 800},
		{1000, 1000, 800, 800, 800},
	}

	for _, tt := range tests {
		w, h := targetSize(tt.w, tt.h, tt.max)
		assert.Equal(t, tt.wantW, w, "%dx%d max %d", tt.w, tt.h, tt.max)
		assert.Equal(t, tt.wantH, h, "%dx%d max %d", tt.w, tt.h, tt.max)
	}
}

func TestResizeToDataURICapsLongestSide(t *testing.T) {
	uri, err := ResizeToDataURI(encodePNG(t, 1600, 400), 800)
	require.NoError(t, err)

	img := decodeDataURI(t, uri)
	assert.Equal(t, 800, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())
}

func TestResizeToDataURINeverUpscales(t *testing.T) {
	uri, err := ResizeToDataURI(encodePNG(t, 200, 100), 800)
	require.NoError(t, err)

	img := decodeDataURI(t, uri)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())
}

func TestResizeToDataURIRejectsGarbage(t *testing.T) {
	_, err := ResizeToDataURI([]byte("not an image"), 800)
	assert.Error(t, err)
}
