package ocr

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// ensureTesseractAvailable checks that the tesseract binary is reachable.
func ensureTesseractAvailable(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("tesseract"); err != nil {
		t.Skip("tesseract not installed in PATH")
	}
}

func renderLabel(text string) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 260, 80))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	d := &font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(10, 50),
	}
	d.DrawString(text)
	return img
}

func TestTesseractEngineRecognize(t *testing.T) {
	ensureTesseractAvailable(t)

	e := NewTesseractEngine("eng")
	got, err := e.RecognizeText(context.Background(), renderLabel("IBUPROFEN 200 MG"))
	require.NoError(t, err)
	require.Contains(t, strings.ToUpper(got), "IBUPROFEN")
}

func TestTesseractEngineFuse(t *testing.T) {
	ensureTesseractAvailable(t)

	res, err := Fuse(context.Background(), NewTesseractEngine("eng"), renderLabel("PARACETAMOL"))
	require.NoError(t, err)
	require.Len(t, res.Passes, 3)
	require.Contains(t, strings.ToUpper(res.Text), "PARACETAMOL")
}
