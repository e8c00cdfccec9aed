package http

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"go.uber.org/zap"

	"medlookup/internal/session"
	"medlookup/pkg"
)

//go:embed templates/*.html
var templateFS embed.FS

func parseTemplates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}

// newMarkdown returns the renderer for model answers. Raw HTML in the answer
// is dropped, never passed through.
func newMarkdown() goldmark.Markdown {
	return goldmark.New(goldmark.WithExtensions(extension.GFM))
}

type methodTab struct {
	Method   pkg.Method
	Label    string
	Selected bool
}

type resultView struct {
	Method        string
	Query         string
	ExtractedText string
	HTML          template.HTML
}

// pageData is everything a template may read. It is built from a snapshot of
// the session so rendering never races with a concurrent action.
type pageData struct {
	View         pkg.View
	Notice       string
	Tabs         []methodTab
	Method       pkg.Method
	Result       *resultView
	QueryHistory []string
	MaxUploadMB  int64
}

func (s *Server) buildPage(st *session.State, last *pkg.Result, notice string) pageData {
	data := pageData{
		View:         st.View(),
		Notice:       notice,
		Method:       st.Method,
		QueryHistory: st.QueryHistory,
		MaxUploadMB:  s.MaxUpload >> 20,
	}
	for _, m := range pkg.Methods {
		data.Tabs = append(data.Tabs, methodTab{Method: m, Label: m.Label(), Selected: m == st.Method})
	}
	if last != nil && st.InLookup() && last.Method == st.Method {
		data.Result = &resultView{
			Method:        last.Method.Label(),
			Query:         last.Query,
			ExtractedText: last.ExtractedText,
			HTML:          s.renderMarkdown(last.Markdown),
		}
	}
	return data
}

func (s *Server) renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := s.Markdown.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

func templateFor(v pkg.View) string {
	switch v {
	case pkg.ViewLoggedOut:
		return "login.html"
	case pkg.ViewLanding:
		return "landing.html"
	}
	return "lookup.html"
}

func (s *Server) render(w http.ResponseWriter, data pageData) {
	var buf bytes.Buffer
	if err := s.Templates.ExecuteTemplate(&buf, templateFor(data.View), data); err != nil {
		s.Log.Error("render failed", zap.String("view", string(data.View)), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
