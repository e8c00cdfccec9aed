package imaging

import (
	"image"
	"image/color"
)

const (
	// EnhanceFactor is applied first to contrast, then to sharpness.
	EnhanceFactor = 1.5
	// Threshold splits grayscale intensities into black (below) and white.
	Threshold = 128
)

// BinaryPalette is the two-colour palette of binarized images.
var BinaryPalette = color.Palette{color.Black, color.White}

// Enhance returns a copy of img with contrast and then sharpness boosted by
// EnhanceFactor. Each step works on the previous step's output.
func Enhance(img image.Image) *image.NRGBA {
	out := adjustContrast(toNRGBA(img), EnhanceFactor)
	return adjustSharpness(out, EnhanceFactor)
}

// Grayscale converts img to 8-bit luma using the ITU-R 601-2 weights.
func Grayscale(img image.Image) *image.Gray {
	src := toNRGBA(img)
	dst := image.NewGray(src.Rect)
	for i, j := 0, 0; i < len(src.Pix); i, j = i+4, j+1 {
		dst.Pix[j] = luma(src.Pix[i], src.Pix[i+1], src.Pix[i+2])
	}
	return dst
}

// Binarize converts img to grayscale and maps every pixel to pure black when
// its intensity is below Threshold and pure white otherwise.
func Binarize(img image.Image) *image.Paletted {
	gray := Grayscale(img)
	dst := image.NewPaletted(gray.Rect, BinaryPalette)
	for i, v := range gray.Pix {
		if v >= Threshold {
			dst.Pix[i] = 1
		}
	}
	return dst
}

func luma(r, g, b uint8) uint8 {
	return uint8((uint32(r)*19595 + uint32(g)*38470 + uint32(b)*7471 + 0x8000) >> 16)
}

// adjustContrast blends img away from a flat grey image at the mean luma.
func adjustContrast(img *image.NRGBA, factor float64) *image.NRGBA {
	var sum uint64
	n := 0
	for i := 0; i < len(img.Pix); i += 4 {
		sum += uint64(luma(img.Pix[i], img.Pix[i+1], img.Pix[i+2]))
		n++
	}
	if n == 0 {
		return img
	}
	mean := uint8(float64(sum)/float64(n) + 0.5)

	out := image.NewNRGBA(img.Rect)
	for i := 0; i < len(img.Pix); i += 4 {
		out.Pix[i] = blend(mean, img.Pix[i], factor)
		out.Pix[i+1] = blend(mean, img.Pix[i+1], factor)
		out.Pix[i+2] = blend(mean, img.Pix[i+2], factor)
		out.Pix[i+3] = img.Pix[i+3]
	}
	return out
}

// adjustSharpness blends img away from its smoothed copy.
func adjustSharpness(img *image.NRGBA, factor float64) *image.NRGBA {
	smooth := smooth3x3(img)
	out := image.NewNRGBA(img.Rect)
	for i := 0; i < len(img.Pix); i += 4 {
		out.Pix[i] = blend(smooth.Pix[i], img.Pix[i], factor)
		out.Pix[i+1] = blend(smooth.Pix[i+1], img.Pix[i+1], factor)
		out.Pix[i+2] = blend(smooth.Pix[i+2], img.Pix[i+2], factor)
		out.Pix[i+3] = img.Pix[i+3]
	}
	return out
}

// smooth3x3 applies the 1,1,1 / 1,5,1 / 1,1,1 kernel (divisor 13) to the
// colour channels. The outermost rows and columns are copied unchanged.
func smooth3x3(img *image.NRGBA) *image.NRGBA {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	out := image.NewNRGBA(img.Rect)
	copy(out.Pix, img.Pix)
	if w < 3 || h < 3 {
		return out
	}
	stride := img.Stride
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			base := y*stride + x*4
			for c := 0; c < 3; c++ {
				sum := 4 * int(img.Pix[base+c])
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						sum += int(img.Pix[base+dy*stride+dx*4+c])
					}
				}
				out.Pix[base+c] = clamp8(float64(sum)/13 + 0.5)
			}
		}
	}
	return out
}

// blend computes degenerate + factor*(src-degenerate), truncated into 0..255.
func blend(degenerate, src uint8, factor float64) uint8 {
	d := float64(degenerate)
	return clamp8(d + factor*(float64(src)-d))
}

func clamp8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}
