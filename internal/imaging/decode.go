// Package imaging decodes uploaded medication photos and derives the variants
// handed to the OCR engine.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"medlookup/pkg"
)

// Decode turns an uploaded file or camera capture into an Image. When
// maxDim is positive, images whose longer side exceeds it are scaled down
// before any further processing.
func Decode(data []byte, maxDim int) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %w", pkg.ErrImageDecode, errors.New("no image data"))
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pkg.ErrImageDecode, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: %w", pkg.ErrImageDecode, errors.New("image has no pixels"))
	}
	if maxDim > 0 {
		img = downscale(img, maxDim)
	}
	return img, nil
}

// EncodePNG serialises an image for engines that take encoded bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func downscale(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	longest := max(w, h)
	if longest <= maxDim {
		return img
	}
	nw := max(1, w*maxDim/longest)
	nh := max(1, h*maxDim/longest)
	dst := image.NewNRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// toNRGBA copies img into a fresh zero-origin NRGBA buffer. The source is
// never written to.
func toNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
