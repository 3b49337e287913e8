package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"strings"

	"golang.org/x/image/draw"
)

// maxImagePixels caps the decoded size; a small file can declare huge
// dimensions and decoding it would allocate width*height*4 bytes.
const maxImagePixels = 100_000_000

// LimitImage scales a JPEG or PNG down so neither side exceeds limit,
// keeping the aspect ratio. Images already within bounds and formats it
// cannot re-encode faithfully (GIF animations) are returned unchanged.
func LimitImage(data []byte, contentType string, limit int) ([]byte, error) {
	var encode func(*bytes.Buffer, image.Image) error
	switch strings.ToLower(contentType) {
	case "image/jpeg", "image/jpg":
		encode = func(buf *bytes.Buffer, img image.Image) error {
			return jpeg.Encode(buf, img, &jpeg.Options{Quality: 90})
		}
	case "image/png":
		encode = func(buf *bytes.Buffer, img image.Image) error {
			return png.Encode(buf, img)
		}
	default:
		return data, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image header: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
		return nil, fmt.Errorf("%w: image is %dx%d pixels", ErrInvalidFormat, cfg.Width, cfg.Height)
	}
	w, h := FitWithin(cfg.Width, cfg.Height, limit)
	if w == cfg.Width && h == cfg.Height {
		return data, nil
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// FitWithin returns the largest size with the same aspect ratio as w×h that
// fits in limit×limit. It never upscales.
func FitWithin(w, h, limit int) (int, int) {
	if w <= limit && h <= limit {
		return w, h
	}
	if w >= h {
		nh := h * limit / w
		return limit, max(nh, 1)
	}
	nw := w * limit / h
	return max(nw, 1), limit
}
