package pkg

import "errors"

// Error kinds surfaced to the user. Components wrap the underlying cause with
// one of these so callers can branch with errors.Is.
var (
	ErrImageDecode       = errors.New("image decode failed")
	ErrOCREngine         = errors.New("ocr engine failed")
	ErrCompletionService = errors.New("completion service failed")
	ErrAuthentication    = errors.New("invalid credentials")
	ErrInvalidTransition = errors.New("action not available in current view")
	ErrEmptyInput        = errors.New("empty input")
)

// UserMessage returns the inline message shown for a failed action.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAuthentication):
		return "Invalid credentials"
	case errors.Is(err, ErrImageDecode):
		return "The image could not be read. Please upload a JPG, PNG or WebP file."
	case errors.Is(err, ErrOCREngine):
		return "Text could not be extracted from the image. Please try again."
	case errors.Is(err, ErrCompletionService):
		return "Medication information is unavailable right now. Please try again later."
	case errors.Is(err, ErrEmptyInput):
		return "Please provide a medication name or image first."
	case errors.Is(err, ErrInvalidTransition):
		return "That action is not available here."
	}
	return "Something went wrong."
}
