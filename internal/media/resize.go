package media

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"math"
	"time"

	"storefront-service/internal/util"

	"golang.org/x/image/draw"
)

// DefaultMaxSize caps the longest side of an ingested image
const DefaultMaxSize = 800

const jpegQuality = 85

// ResizeToDataURI decodes an uploaded image, scales it into a bounding
// box (longest side capped, aspect preserved, never upscaled),
// re-encodes as JPEG and returns a base64 data URI. Images are embedded
// as data strings; there is no external storage.
func ResizeToDataURI(data []byte, maxSize int) (string, error) {
	start := time.Now()
	defer func() {
		util.ImageResizeLatency.Observe(time.Since(start).Seconds())
	}()

	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	width, height := targetSize(src.Bounds().Dx(), src.Bounds().Dy(), maxSize)

	out := src
	if width != src.Bounds().Dx() || height != src.Bounds().Dy() {
		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
		out = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// targetSize fits (w, h) into the bounding box, preserving aspect ratio
// and never scaling up
func targetSize(w, h, maxSize int) (int, int) {
	if w <= maxSize && h <= maxSize {
		return w, h
	}

	if w > h {
		return maxSize, int(math.Round(float64(h) * float64(maxSize) / float64(w)))
	}
	return int(math.Round(float64(w) * float64(maxSize) / float64(h))), maxSize
}
