package http

import (
	"errors"
	"html/template"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"go.uber.org/zap"

	"medlookup/internal/auth"
	"medlookup/internal/core"
	"medlookup/internal/session"
	"medlookup/pkg"
)

// SessionCookie carries the visitor's session ID.
const SessionCookie = "medlookup_session"

// Server bundles together the dependencies required by HTTP handlers.  It
// implements http.Handler so it can be passed to http.ListenAndServe.
type Server struct {
	Auth      auth.Verifier
	Lookup    *core.LookupService
	Sessions  *session.Store
	Templates *template.Template
	Markdown  goldmark.Markdown
	Log       *zap.Logger
	MaxUpload int64
	// SecureCookies marks the session cookie HTTPS-only.
	SecureCookies bool
}

// NewServer constructs a Server. Templates are embedded in the binary.
func NewServer(verifier auth.Verifier, lookup *core.LookupService, sessions *session.Store, log *zap.Logger, maxUpload int64) (*Server, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	if maxUpload <= 0 {
		maxUpload = 10 << 20
	}
	return &Server{
		Auth:      verifier,
		Lookup:    lookup,
		Sessions:  sessions,
		Templates: tmpl,
		Markdown:  newMarkdown(),
		Log:       log,
		MaxUpload: maxUpload,
	}, nil
}

// ServeHTTP dispatches incoming requests based on the URL path. Every POST
// answers with a redirect to / so a browser refresh never repeats an action.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch {
	case path == "/healthz" && r.Method == http.MethodGet:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, "ok")
	case path == "/" && r.Method == http.MethodGet:
		s.handleIndex(w, r)
	case path == "/login" && r.Method == http.MethodPost:
		s.handleLogin(w, r)
	case path == "/start" && r.Method == http.MethodPost:
		s.handleAction(w, r, "get_started", (*session.State).GetStarted)
	case path == "/home" && r.Method == http.MethodPost:
		s.handleAction(w, r, "home", (*session.State).GoHome)
	case path == "/logout" && r.Method == http.MethodPost:
		s.handleAction(w, r, "logout", (*session.State).Logout)
	case path == "/method" && r.Method == http.MethodPost:
		s.handleSelectMethod(w, r)
	case path == "/lookup/text" && r.Method == http.MethodPost:
		s.handleTextLookup(w, r)
	case path == "/lookup/image" && r.Method == http.MethodPost:
		s.handleImageLookup(w, r, pkg.MethodImage, "image")
	case path == "/lookup/camera" && r.Method == http.MethodPost:
		s.handleImageLookup(w, r, pkg.MethodCamera, "snapshot")
	default:
		http.NotFound(w, r)
	}
}

// session returns the visitor's session, issuing a cookie for new visitors.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *session.Session {
	var id string
	if c, err := r.Cookie(SessionCookie); err == nil {
		id = c.Value
	}
	sess, created := s.Sessions.GetOrCreate(id)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			Secure:   s.SecureCookies,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   int(s.Sessions.TTL() / time.Second),
		})
		s.Log.Debug("session created", zap.String("session_id", sess.ID))
	}
	return sess
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleIndex renders the view the session is currently in.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	sess.Lock()
	st := sess.State.Clone()
	last := sess.Last
	notice := sess.TakeNotice()
	sess.Unlock()

	s.render(w, s.buildPage(st, last, notice))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	defer redirectHome(w, r)
	if err := r.ParseForm(); err != nil {
		return
	}
	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")

	sess.Lock()
	defer sess.Unlock()
	if sess.State.LoggedIn {
		return
	}
	log := s.Log.With(zap.String("session_id", sess.ID))

	ok, err := s.Auth.Verify(r.Context(), username, password)
	if err != nil {
		log.Error("credential check failed", zap.Error(err))
		sess.Notice = "Login is unavailable right now. Please try again later."
		return
	}
	if err := sess.State.Login(ok); err != nil {
		log.Info("login rejected", zap.String("username", username))
		sess.Notice = pkg.UserMessage(err)
		return
	}
	log.Info("login successful", zap.String("username", username))
	sess.Notice = "Login successful!"
}

// handleAction applies a navigation action. Actions that do not fit the
// current view leave the session untouched.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request, name string, act func(*session.State) error) {
	sess := s.session(w, r)
	sess.Lock()
	err := act(sess.State)
	if err == nil && !sess.State.InLookup() {
		sess.Last = nil
	}
	s.logTransition(sess, name, err)
	sess.Unlock()
	redirectHome(w, r)
}

func (s *Server) handleSelectMethod(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	defer redirectHome(w, r)
	if err := r.ParseForm(); err != nil {
		return
	}
	m, ok := pkg.ParseMethod(r.PostFormValue("method"))
	if !ok {
		return
	}
	sess.Lock()
	defer sess.Unlock()
	s.logTransition(sess, "select_method", sess.State.SelectMethod(m))
}

func (s *Server) logTransition(sess *session.Session, action string, err error) {
	fields := []zap.Field{
		zap.String("session_id", sess.ID),
		zap.String("action", action),
		zap.String("view", string(sess.State.View())),
	}
	if err != nil {
		s.Log.Debug("action ignored", append(fields, zap.Error(err))...)
		return
	}
	s.Log.Debug("navigation", append(fields, zap.Strings("navigation_history", sess.State.NavigationHistory))...)
}

func (s *Server) handleTextLookup(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	defer redirectHome(w, r)
	if err := r.ParseForm(); err != nil {
		return
	}
	name := r.PostFormValue("name")

	sess.Lock()
	defer sess.Unlock()
	if !sess.State.CanSubmit(pkg.MethodText) {
		return
	}
	outcome, err := s.Lookup.LookupText(r.Context(), name)
	s.finishLookup(sess, pkg.MethodText, outcome, err)
}

func (s *Server) handleImageLookup(w http.ResponseWriter, r *http.Request, method pkg.Method, field string) {
	sess := s.session(w, r)
	defer redirectHome(w, r)

	sess.Lock()
	defer sess.Unlock()
	if !sess.State.CanSubmit(method) {
		return
	}
	data, err := s.readUpload(w, r, field)
	if err != nil {
		s.finishLookup(sess, method, core.Outcome{}, err)
		return
	}
	outcome, err := s.Lookup.LookupImage(r.Context(), method, data)
	s.finishLookup(sess, method, outcome, err)
}

// readUpload returns the bytes of one multipart file field. A missing file is
// empty input; anything else that prevents reading it counts as an unreadable
// image.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request, field string) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.MaxUpload+(1<<20))
	if err := r.ParseMultipartForm(s.MaxUpload); err != nil {
		return nil, errors.Join(pkg.ErrImageDecode, err)
	}
	file, _, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, pkg.ErrEmptyInput
	}
	if err != nil {
		return nil, errors.Join(pkg.ErrImageDecode, err)
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, s.MaxUpload+1))
	if err != nil {
		return nil, errors.Join(pkg.ErrImageDecode, err)
	}
	if int64(len(data)) > s.MaxUpload {
		return nil, errors.Join(pkg.ErrImageDecode, errors.New("upload too large"))
	}
	return data, nil
}

// finishLookup records a successful lookup or surfaces the failure. Failed
// lookups leave the query history alone and clear any previous answer.
func (s *Server) finishLookup(sess *session.Session, method pkg.Method, outcome core.Outcome, err error) {
	log := s.Log.With(zap.String("session_id", sess.ID), zap.String("method", string(method)))
	if err != nil {
		sess.Last = nil
		sess.Notice = pkg.UserMessage(err)
		log.Info("lookup failed", zap.Error(err))
		return
	}
	if err := sess.State.RecordQuery(method, outcome.HistoryEntry); err != nil {
		log.Warn("query not recorded", zap.Error(err))
		return
	}
	result := outcome.Result
	sess.Last = &result
	log.Info("lookup completed", zap.Int("history_len", len(sess.State.QueryHistory)))
}
