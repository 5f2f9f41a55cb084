package utils

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ErrInvalidImage is returned when an upload cannot be decoded as an image.
var ErrInvalidImage = errors.New("invalid image file")

// ImageExtension picks the stored extension for an uploaded filename. Formats
// other than png are re-encoded as jpeg.
func ImageExtension(filename string) string {
	if strings.EqualFold(filepath.Ext(filename), ".png") {
		return "png"
	}
	return "jpg"
}

// SaveThumbnail decodes r, shrinks it to fit within maxSide x maxSide keeping the
// aspect ratio, and writes it to dst. Images already small enough are re-encoded as is.
func SaveThumbnail(r io.Reader, dst string, maxSide int) error {
	src, _, err := image.Decode(r)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	out := src
	b := src.Bounds()
	if w, h := b.Dx(), b.Dy(); w > maxSide || h > maxSide {
		nw, nh := maxSide, maxSide
		if w > h {
			nh = max(1, h*maxSide/w)
		} else {
			nw = max(1, w*maxSide/h)
		}
		scaled := image.NewRGBA(image.Rect(0, 0, nw, nh))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, b, draw.Over, nil)
		out = scaled
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer f.Close()

	if strings.HasSuffix(dst, ".png") {
		return png.Encode(f, out)
	}
	return jpeg.Encode(f, out, &jpeg.Options{Quality: 85})
}
