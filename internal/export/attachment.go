package export

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/draw"

	"github.com/existflow/lifelist/internal/model"
)

// MaxAttachmentBytes caps a completion photo before compression
const MaxAttachmentBytes = 5 << 20

// MaxAttachmentPixels caps decoded dimensions; small files can declare huge images
const MaxAttachmentPixels = 40_000_000

var (
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrImageTooLarge    = errors.New("image too large")
)

var acceptedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// PrepareImage validates a photo, shrinks it to the configured max width and
// re-encodes it as JPEG. The result is a data URL suitable for a goal's
// completion image.
func PrepareImage(data []byte, settings model.ImageSettings) (string, error) {
	if len(data) > MaxAttachmentBytes {
		return "", fmt.Errorf("%w: %d bytes (max %d)", ErrImageTooLarge, len(data), MaxAttachmentBytes)
	}
	mt := mimetype.Detect(data)
	if !acceptedTypes[mt.String()] {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedImage, mt.String())
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > MaxAttachmentPixels {
		return "", fmt.Errorf("%w: %dx%d pixels (max %d)", ErrImageTooLarge, cfg.Width, cfg.Height, MaxAttachmentPixels)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	img := Downscale(src, settings.MaxWidth)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality(settings.Quality)}); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Downscale resizes src to maxWidth keeping its aspect ratio. Images already
// narrow enough are returned unchanged.
func Downscale(src image.Image, maxWidth int) image.Image {
	b := src.Bounds()
	if maxWidth <= 0 || b.Dx() <= maxWidth {
		return src
	}
	h := max(1, b.Dy()*maxWidth/b.Dx())
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
