package pkg

// Method identifies one of the three lookup modes offered once a user is past
// the landing page.
type Method string

const (
	MethodText   Method = "text"
	MethodImage  Method = "image"
	MethodCamera Method = "camera"
)

// Methods lists the lookup modes in the order they are offered to the user.
var Methods = []Method{MethodText, MethodImage, MethodCamera}

// ParseMethod maps a form value onto a Method.
func ParseMethod(s string) (Method, bool) {
	for _, m := range Methods {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

// Label is the human readable name of the method. It doubles as the prefix of
// query history entries.
func (m Method) Label() string {
	switch m {
	case MethodText:
		return "Text Lookup"
	case MethodImage:
		return "Image Upload"
	case MethodCamera:
		return "Camera Snapshot"
	}
	return string(m)
}

// NavTag is the tag written to the navigation history when a user enters the
// lookup view for the method.
func (m Method) NavTag() string {
	switch m {
	case MethodText:
		return "text_lookup"
	case MethodImage:
		return "image_upload"
	case MethodCamera:
		return "camera_snapshot"
	}
	return string(m)
}

// View is the page presented to the user, derived from session state.
type View string

const (
	ViewLoggedOut      View = "logged_out"
	ViewLanding        View = "landing_page"
	ViewTextLookup     View = "text_lookup"
	ViewImageUpload    View = "image_upload"
	ViewCameraSnapshot View = "camera_snapshot"
)

// ViewFor returns the lookup view that belongs to a method.
func ViewFor(m Method) View {
	switch m {
	case MethodImage:
		return ViewImageUpload
	case MethodCamera:
		return ViewCameraSnapshot
	}
	return ViewTextLookup
}

// Result is the latest lookup answer shown below the lookup form.
type Result struct {
	Method        Method `json:"method"`
	Query         string `json:"query,omitempty"`
	ExtractedText string `json:"extracted_text,omitempty"`
	Markdown      string `json:"markdown"`
}
