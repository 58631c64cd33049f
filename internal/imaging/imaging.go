// Package imaging turns uploaded image files into embeddable data URIs.
package imaging

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoding
	"image/jpeg"
	_ "image/png" // register PNG decoding
	"net/http"
	"strings"

	_ "golang.org/x/image/bmp" // register BMP decoding
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // register TIFF decoding
	_ "golang.org/x/image/webp" // register WebP decoding

	"github.com/vyrodovalexey/rental-inventory/internal/model"
)

// MaxDimension is the maximum width or height of an embedded image.
const MaxDimension = 1024

// MaxPixels is the largest declared pixel count that is decoded.
const MaxPixels = 50_000_000

// JPEGQuality is the compression quality used when an image is downscaled.
const JPEGQuality = 85

// Image errors.
var (
	ErrEmptyImage       = errors.New("image file is empty")
	ErrUnsupportedImage = errors.New("file is not a readable image")
)

// Encoder produces data URIs from uploads.
type Encoder struct {
	maxDimension int
}

// NewEncoder creates an Encoder that downscales to maxDimension.
// A non-positive value uses MaxDimension.
func NewEncoder(maxDimension int) *Encoder {
	if maxDimension <= 0 {
		maxDimension = MaxDimension
	}
	return &Encoder{maxDimension: maxDimension}
}

// EncodeDataURI validates the upload by decoding it and returns it as a
// base64 data URI. Images larger than the configured dimension are
// downscaled and re-encoded as JPEG; others keep their original bytes.
func (e *Encoder) EncodeDataURI(ctx context.Context, upload *model.Upload) (string, error) {
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("encode image: %w", ctx.Err())
	default:
	}

	if upload == nil || len(upload.Data) == 0 {
		return "", ErrEmptyImage
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(upload.Data))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrUnsupportedImage, upload.Filename, err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return "", fmt.Errorf("%w: %s: %dx%d exceeds %d pixels",
			ErrUnsupportedImage, upload.Filename, cfg.Width, cfg.Height, MaxPixels)
	}

	img, format, err := image.Decode(bytes.NewReader(upload.Data))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrUnsupportedImage, upload.Filename, err)
	}

	data := upload.Data
	mime := mimeForFormat(format, data)

	if scaled, resized := downscale(img, e.maxDimension); resized {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: JPEGQuality}); err != nil {
			return "", fmt.Errorf("encoding JPEG: %w", err)
		}
		data = buf.Bytes()
		mime = "image/jpeg"
	}

	return DataURI(mime, data), nil
}

// DataURI formats data as a base64 data URI.
func DataURI(mime string, data []byte) string {
	var b strings.Builder
	b.Grow(len("data:;base64,") + len(mime) + base64.StdEncoding.EncodedLen(len(data)))
	b.WriteString("data:")
	b.WriteString(mime)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String()
}

// IsDataURI reports whether s is an image data URI.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:image/")
}

func mimeForFormat(format string, data []byte) string {
	switch format {
	case "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "bmp":
		return "image/bmp"
	case "tiff":
		return "image/tiff"
	case "webp":
		return "image/webp"
	default:
		return http.DetectContentType(data)
	}
}

// downscale resizes the image so neither dimension exceeds maxDim, using
// Catmull-Rom interpolation over a white background, since the result is
// stored as JPEG. It reports whether a resize happened.
func downscale(img image.Image, maxDim int) (image.Image, bool) {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	if w <= maxDim && h <= maxDim {
		return img, false
	}

	newW, newH := w, h
	if w > h {
		newW = maxDim
		newH = int(float64(h) * float64(maxDim) / float64(w))
	} else {
		newH = maxDim
		newW = int(float64(w) * float64(maxDim) / float64(h))
	}

	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst, true
}

