// Package ocr extracts text from medication photos. Fuse runs the recognizer
// over the original image and its two prepared variants and concatenates
// everything it reads.
package ocr

import (
	"context"
	"fmt"
	"image"
	"strings"

	"medlookup/internal/imaging"
	"medlookup/pkg"
)

// Recognizer is an opaque image-to-text primitive.
type Recognizer interface {
	RecognizeText(ctx context.Context, img image.Image) (string, error)
}

// RecognizerFunc adapts a function to Recognizer.
type RecognizerFunc func(ctx context.Context, img image.Image) (string, error)

func (f RecognizerFunc) RecognizeText(ctx context.Context, img image.Image) (string, error) {
	return f(ctx, img)
}

// Pass names one of the fused OCR passes.
type Pass string

const (
	PassOriginal  Pass = "original"
	PassEnhanced  Pass = "enhanced"
	PassBinarized Pass = "binarized"
)

// Result holds the fused text and the text of each pass in run order.
type Result struct {
	Text   string
	Passes []PassText
}

type PassText struct {
	Pass Pass
	Text string
}

// Fuse recognises text on img, on Enhance(img) and on Binarize(img), in that
// order, appending a newline after each pass. The first failing pass aborts
// the fusion; no partial text is returned.
func Fuse(ctx context.Context, r Recognizer, img image.Image) (Result, error) {
	variants := []struct {
		pass    Pass
		prepare func(image.Image) image.Image
	}{
		{PassOriginal, func(i image.Image) image.Image { return i }},
		{PassEnhanced, func(i image.Image) image.Image { return imaging.Enhance(i) }},
		{PassBinarized, func(i image.Image) image.Image { return imaging.Binarize(i) }},
	}

	var sb strings.Builder
	res := Result{Passes: make([]PassText, 0, len(variants))}
	for _, v := range variants {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("%w: %s pass: %w", pkg.ErrOCREngine, v.pass, err)
		}
		text, err := r.RecognizeText(ctx, v.prepare(img))
		if err != nil {
			return Result{}, fmt.Errorf("%w: %s pass: %w", pkg.ErrOCREngine, v.pass, err)
		}
		sb.WriteString(text)
		sb.WriteString("\n")
		res.Passes = append(res.Passes, PassText{Pass: v.pass, Text: text})
	}
	res.Text = sb.String()
	return res, nil
}
