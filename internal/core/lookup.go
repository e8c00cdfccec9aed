package core

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"medlookup/internal/imaging"
	"medlookup/internal/llm"
	"medlookup/internal/ocr"
	"medlookup/pkg"
)

// HistoryPreviewRunes is how much extracted text an image lookup keeps in
// the query history.
const HistoryPreviewRunes = 50

// Outcome is a finished lookup: what was asked, what the model answered and
// the line to append to the session's query history.
type Outcome struct {
	pkg.Result
	HistoryEntry string
}

// LookupService performs exactly one round trip to the completion service per
// submitted query. Image queries are decoded and run through OCR fusion first.
type LookupService struct {
	LLM         llm.Completer
	OCR         ocr.Recognizer
	Log         *zap.Logger
	MaxImageDim int
}

// NewLookupService constructs a LookupService.
func NewLookupService(completer llm.Completer, recognizer ocr.Recognizer, log *zap.Logger, maxImageDim int) *LookupService {
	if log == nil {
		log = zap.NewNop()
	}
	return &LookupService{LLM: completer, OCR: recognizer, Log: log, MaxImageDim: maxImageDim}
}

// LookupText describes the named medication.
func (s *LookupService) LookupText(ctx context.Context, name string) (Outcome, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Outcome{}, pkg.ErrEmptyInput
	}
	info, err := s.LLM.Complete(ctx, SystemPrompt, fmt.Sprintf(TextLookupPrompt, name))
	if err != nil {
		s.Log.Warn("text lookup failed", zap.String("medication", name), zap.Error(err))
		return Outcome{}, err
	}
	return Outcome{
		Result: pkg.Result{
			Method:   pkg.MethodText,
			Query:    name,
			Markdown: info,
		},
		HistoryEntry: pkg.MethodText.Label() + ": " + name,
	}, nil
}

// LookupImage extracts text from an uploaded image or camera snapshot and asks
// the model to identify and describe the medications it mentions.
func (s *LookupService) LookupImage(ctx context.Context, method pkg.Method, data []byte) (Outcome, error) {
	if len(data) == 0 {
		return Outcome{}, pkg.ErrEmptyInput
	}
	log := s.Log.With(zap.String("method", string(method)))

	img, err := imaging.Decode(data, s.MaxImageDim)
	if err != nil {
		log.Warn("image decode failed", zap.Int("bytes", len(data)), zap.Error(err))
		return Outcome{}, err
	}

	fused, err := ocr.Fuse(ctx, s.OCR, img)
	if err != nil {
		log.Error("ocr failed", zap.Error(err))
		return Outcome{}, err
	}
	for _, p := range fused.Passes {
		log.Debug("ocr pass", zap.String("pass", string(p.Pass)), zap.Int("chars", len(p.Text)))
	}

	info, err := s.LLM.Complete(ctx, SystemPrompt, fmt.Sprintf(ImageLookupPrompt, fused.Text))
	if err != nil {
		log.Warn("image lookup failed", zap.Error(err))
		return Outcome{}, err
	}
	return Outcome{
		Result: pkg.Result{
			Method:        method,
			ExtractedText: fused.Text,
			Markdown:      info,
		},
		HistoryEntry: method.Label() + ": " + preview(fused.Text, HistoryPreviewRunes) + "...",
	}, nil
}

// preview returns the first n runes of s.
func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
