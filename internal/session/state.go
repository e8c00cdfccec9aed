// Package session holds the per-visitor navigation state machine and the
// in-memory store that keeps it between requests.
package session

import (
	"fmt"

	"medlookup/pkg"
)

// LandingTag is written to the navigation history when the user leaves the
// landing page.
const LandingTag = "landing_page"

// State is everything one visit remembers. It is changed only through the
// action methods below; an action that is not allowed in the current view
// returns an error and leaves the state untouched.
type State struct {
	LoggedIn      bool       `json:"logged_in"`
	OnLandingPage bool       `json:"on_landing_page"`
	Method        pkg.Method `json:"method"`

	// QueryHistory only grows, most recent last.
	QueryHistory []string `json:"query_history"`
	// NavigationHistory is an audit trail of views entered since the last
	// home or logout. Nothing reads it to make decisions.
	NavigationHistory []string `json:"navigation_history"`
}

// New returns the state of a fresh visit: logged out, landing page pending,
// text lookup preselected.
func New() *State {
	return &State{
		OnLandingPage:     true,
		Method:            pkg.MethodText,
		QueryHistory:      []string{},
		NavigationHistory: []string{},
	}
}

// View derives the page to present.
func (s *State) View() pkg.View {
	switch {
	case !s.LoggedIn:
		return pkg.ViewLoggedOut
	case s.OnLandingPage:
		return pkg.ViewLanding
	}
	return pkg.ViewFor(s.Method)
}

// InLookup reports whether one of the three lookup views is active.
func (s *State) InLookup() bool {
	return s.LoggedIn && !s.OnLandingPage
}

// Login applies the outcome of a credential check.
func (s *State) Login(verified bool) error {
	if s.LoggedIn {
		return s.invalid("login")
	}
	if !verified {
		return pkg.ErrAuthentication
	}
	s.LoggedIn = true
	return nil
}

// GetStarted leaves the landing page for the currently selected lookup view.
func (s *State) GetStarted() error {
	if s.View() != pkg.ViewLanding {
		return s.invalid("get started")
	}
	s.OnLandingPage = false
	s.NavigationHistory = append(s.NavigationHistory, LandingTag, s.Method.NavTag())
	return nil
}

// SelectMethod switches directly between lookup views.
func (s *State) SelectMethod(m pkg.Method) error {
	if !s.InLookup() {
		return s.invalid("select method")
	}
	if _, ok := pkg.ParseMethod(string(m)); !ok {
		return fmt.Errorf("%w: unknown method %q", pkg.ErrInvalidTransition, m)
	}
	s.Method = m
	s.NavigationHistory = append(s.NavigationHistory, m.NavTag())
	return nil
}

// GoHome returns from a lookup view to the landing page.
func (s *State) GoHome() error {
	if !s.InLookup() {
		return s.invalid("home")
	}
	s.OnLandingPage = true
	s.NavigationHistory = []string{}
	return nil
}

// Logout ends the authenticated part of the visit. The query history is kept
// for the life of the session.
func (s *State) Logout() error {
	s.LoggedIn = false
	s.OnLandingPage = true
	s.NavigationHistory = []string{}
	return nil
}

// RecordQuery appends a finished lookup to the query history. It is only
// accepted while the lookup view for method is active.
func (s *State) RecordQuery(method pkg.Method, entry string) error {
	if !s.InLookup() || s.Method != method {
		return s.invalid("submit " + string(method))
	}
	s.QueryHistory = append(s.QueryHistory, entry)
	return nil
}

// CanSubmit reports whether a query for method may be run right now.
func (s *State) CanSubmit(method pkg.Method) bool {
	return s.InLookup() && s.Method == method
}

// Clone returns a deep copy, handy for rendering outside the session lock.
func (s *State) Clone() *State {
	c := *s
	c.QueryHistory = append([]string{}, s.QueryHistory...)
	c.NavigationHistory = append([]string{}, s.NavigationHistory...)
	return &c
}

func (s *State) invalid(action string) error {
	return fmt.Errorf("%w: %s from %s", pkg.ErrInvalidTransition, action, s.View())
}
