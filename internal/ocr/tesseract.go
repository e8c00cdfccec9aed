package ocr

import (
	"context"
	"fmt"
	"image"

	"github.com/otiai10/gosseract/v2"

	"medlookup/internal/imaging"
)

// TesseractEngine implements Recognizer with the gosseract client. A fresh
// client is created per call so the engine is safe to share between sessions.
type TesseractEngine struct {
	clientFactory func() *gosseract.Client
	languages     []string
}

// NewTesseractEngine constructs a Tesseract-backed recognizer. With no
// languages Tesseract falls back to its own default (eng).
func NewTesseractEngine(languages ...string) *TesseractEngine {
	return &TesseractEngine{
		clientFactory: gosseract.NewClient,
		languages:     append([]string(nil), languages...),
	}
}

func (e *TesseractEngine) Name() string { return "tesseract" }

// Version reports the linked Tesseract library version.
func (e *TesseractEngine) Version() string {
	c := e.clientFactory()
	defer c.Close()
	return c.Version()
}

// RecognizeText returns the plain text Tesseract reads from img.
func (e *TesseractEngine) RecognizeText(ctx context.Context, img image.Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := imaging.EncodePNG(img)
	if err != nil {
		return "", err
	}

	c := e.clientFactory()
	defer c.Close()

	if len(e.languages) > 0 {
		if err := c.SetLanguage(e.languages...); err != nil {
			return "", fmt.Errorf("set languages: %w", err)
		}
	}
	if err := c.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return text, nil
}
