package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medlookup/pkg"
)

func loggedIn(t *testing.T) *State {
	t.Helper()
	s := New()
	require.NoError(t, s.Login(true))
	return s
}

func inLookup(t *testing.T) *State {
	t.Helper()
	s := loggedIn(t)
	require.NoError(t, s.GetStarted())
	return s
}

func TestNewState(t *testing.T) {
	s := New()
	assert.Equal(t, pkg.ViewLoggedOut, s.View())
	assert.False(t, s.LoggedIn)
	assert.True(t, s.OnLandingPage)
	assert.Empty(t, s.QueryHistory)
	assert.Empty(t, s.NavigationHistory)
}

func TestLoggedOutRejectsEverythingButLogin(t *testing.T) {
	actions := map[string]func(*State) error{
		"get started": (*State).GetStarted,
		"home":        (*State).GoHome,
		"select":      func(s *State) error { return s.SelectMethod(pkg.MethodImage) },
		"record":      func(s *State) error { return s.RecordQuery(pkg.MethodText, "Text Lookup: x") },
		"bad login":   func(s *State) error { return s.Login(false) },
		"logout":      (*State).Logout,
	}
	for name, act := range actions {
		t.Run(name, func(t *testing.T) {
			s := New()
			before := s.Clone()
			_ = act(s)
			assert.Equal(t, before, s)
			assert.Equal(t, pkg.ViewLoggedOut, s.View())
		})
	}
}

func TestLogin(t *testing.T) {
	s := New()
	assert.ErrorIs(t, s.Login(false), pkg.ErrAuthentication)
	assert.Equal(t, pkg.ViewLoggedOut, s.View())

	require.NoError(t, s.Login(true))
	assert.Equal(t, pkg.ViewLanding, s.View())

	assert.ErrorIs(t, s.Login(true), pkg.ErrInvalidTransition)
}

func TestGetStartedEntersSelectedMethod(t *testing.T) {
	s := loggedIn(t)
	require.NoError(t, s.GetStarted())
	assert.Equal(t, pkg.ViewTextLookup, s.View())
	assert.Equal(t, []string{"landing_page", "text_lookup"}, s.NavigationHistory)

	assert.ErrorIs(t, s.GetStarted(), pkg.ErrInvalidTransition)
}

func TestSelectMethodSwitchesDirectly(t *testing.T) {
	s := inLookup(t)

	require.NoError(t, s.SelectMethod(pkg.MethodImage))
	assert.Equal(t, pkg.ViewImageUpload, s.View())
	require.NoError(t, s.SelectMethod(pkg.MethodCamera))
	assert.Equal(t, pkg.ViewCameraSnapshot, s.View())
	require.NoError(t, s.SelectMethod(pkg.MethodText))
	assert.Equal(t, pkg.ViewTextLookup, s.View())

	assert.Equal(t, []string{"landing_page", "text_lookup", "image_upload", "camera_snapshot", "text_lookup"}, s.NavigationHistory)
	assert.False(t, s.OnLandingPage)

	assert.ErrorIs(t, s.SelectMethod("fax"), pkg.ErrInvalidTransition)
	assert.Equal(t, pkg.ViewTextLookup, s.View())
}

func TestSelectMethodNeedsLookupView(t *testing.T) {
	s := loggedIn(t)
	assert.ErrorIs(t, s.SelectMethod(pkg.MethodImage), pkg.ErrInvalidTransition)
	assert.Equal(t, pkg.ViewLanding, s.View())
	assert.Empty(t, s.NavigationHistory)
}

func TestGoHomeFromEveryLookupView(t *testing.T) {
	for _, m := range pkg.Methods {
		t.Run(string(m), func(t *testing.T) {
			s := inLookup(t)
			require.NoError(t, s.SelectMethod(m))
			require.NoError(t, s.RecordQuery(m, "q"))

			require.NoError(t, s.GoHome())
			assert.True(t, s.OnLandingPage)
			assert.Empty(t, s.NavigationHistory)
			assert.Equal(t, pkg.ViewLanding, s.View())
			assert.Equal(t, []string{"q"}, s.QueryHistory)
			// the selected method survives a trip home
			require.NoError(t, s.GetStarted())
			assert.Equal(t, pkg.ViewFor(m), s.View())
		})
	}
}

func TestGoHomeFromLandingIsRejected(t *testing.T) {
	s := loggedIn(t)
	assert.ErrorIs(t, s.GoHome(), pkg.ErrInvalidTransition)
}

func TestLogoutFromAnyView(t *testing.T) {
	build := map[string]func(*testing.T) *State{
		"landing": loggedIn,
		"text":    inLookup,
		"camera": func(t *testing.T) *State {
			s := inLookup(t)
			require.NoError(t, s.SelectMethod(pkg.MethodCamera))
			return s
		},
	}
	for name, mk := range build {
		t.Run(name, func(t *testing.T) {
			s := mk(t)
			require.NoError(t, s.Logout())
			assert.False(t, s.LoggedIn)
			assert.True(t, s.OnLandingPage)
			assert.Empty(t, s.NavigationHistory)
			assert.Equal(t, pkg.ViewLoggedOut, s.View())
		})
	}
}

func TestQueryHistoryOnlyGrows(t *testing.T) {
	s := inLookup(t)
	require.NoError(t, s.RecordQuery(pkg.MethodText, "Text Lookup: Paracetamol"))
	require.NoError(t, s.SelectMethod(pkg.MethodImage))
	require.NoError(t, s.RecordQuery(pkg.MethodImage, "Image Upload: IBU..."))

	// wrong view: rejected, history untouched
	assert.ErrorIs(t, s.RecordQuery(pkg.MethodText, "Text Lookup: x"), pkg.ErrInvalidTransition)

	require.NoError(t, s.GoHome())
	require.NoError(t, s.Logout())
	require.NoError(t, s.Login(true))
	assert.Equal(t, []string{"Text Lookup: Paracetamol", "Image Upload: IBU..."}, s.QueryHistory)
}

func TestCanSubmit(t *testing.T) {
	s := loggedIn(t)
	assert.False(t, s.CanSubmit(pkg.MethodText))
	require.NoError(t, s.GetStarted())
	assert.True(t, s.CanSubmit(pkg.MethodText))
	assert.False(t, s.CanSubmit(pkg.MethodCamera))
}

func TestCloneIsDeep(t *testing.T) {
	s := inLookup(t)
	c := s.Clone()
	c.QueryHistory = append(c.QueryHistory, "x")
	c.NavigationHistory[0] = "changed"
	assert.Empty(t, s.QueryHistory)
	assert.Equal(t, "landing_page", s.NavigationHistory[0])
}
