package cli

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evidenthq/evident/internal/domain"
)

func TestTUI_StartsOnAuthWhenSignedOut(t *testing.T) {
	app, _ := testApp(t)
	d := NewTestDriver(t, app)

	assert.Equal(t, ViewAuth, d.ActiveViewID())
	assert.Contains(t, d.View(), "Welcome to Evident")
}

func TestTUI_StartsOnDashboardWhenSignedIn(t *testing.T) {
	app, svc := signedInApp(t)
	svc.seed(domain.ViewToday, aLog("l1", "Reviewed contracts", 9))

	d := NewTestDriver(t, app)

	assert.Equal(t, ViewDashboard, d.ActiveViewID())
	assert.Equal(t, 1, d.ViewStackLen())
	assert.Contains(t, d.View(), "Reviewed contracts")
}

func TestTUI_HeaderShowsSignedInEmail(t *testing.T) {
	app, _ := signedInApp(t)
	d := NewTestDriver(t, app)

	assert.Contains(t, d.View(), "dev@example.com")
}

func TestTUI_QuitKeys(t *testing.T) {
	app, _ := signedInApp(t)

	d := NewTestDriver(t, app)
	d.PressKey('q')
	assert.True(t, d.Quitting)

	d = NewTestDriver(t, app)
	d.Press(tea.KeyCtrlC)
	assert.True(t, d.Quitting)
}

func TestTUI_AuthFailureStaysOnAuthScreen(t *testing.T) {
	app, _ := testApp(t)
	d := NewTestDriver(t, app)

	d.Send(authResultMsg{err: errors.New("Invalid credentials")})

	assert.Equal(t, ViewAuth, d.ActiveViewID())
	assert.Contains(t, d.View(), "Invalid credentials")
}

func TestTUI_AuthSuccessReplacesWithDashboard(t *testing.T) {
	app, svc := testApp(t)
	svc.seed(domain.ViewToday, aLog("l1", "Morning standup", 9))

	d := NewTestDriver(t, app)
	require.Equal(t, ViewAuth, d.ActiveViewID())

	// Sign the session in and deliver the result the submit cmd would send.
	require.NoError(t, app.Session.Login(context.Background(), "dev@example.com", "hunter2-long"))
	d.Send(authResultMsg{})

	assert.Equal(t, ViewDashboard, d.ActiveViewID())
	assert.Contains(t, d.View(), "Morning standup")
}

func TestTUI_WindowKeysSwitchTheDashboard(t *testing.T) {
	app, svc := signedInApp(t)
	svc.seed(domain.ViewToday, aLog("l1", "Today only entry", 9))
	svc.seed(domain.ViewThisWeek, aLog("l2", "Week wide entry", 10))

	d := NewTestDriver(t, app)
	assert.Contains(t, d.View(), "Today only entry")

	d.PressKey('w')
	view := d.View()
	assert.Contains(t, view, "Week wide entry")
	assert.NotContains(t, view, "Today only entry")

	d.PressKey('t')
	assert.Contains(t, d.View(), "Today only entry")
}

func TestTUI_AddPushesLogFormAndEscCancels(t *testing.T) {
	app, _ := signedInApp(t)
	d := NewTestDriver(t, app)

	d.PressKey('a')
	assert.Equal(t, []ViewID{ViewDashboard, ViewForm}, d.ViewStackIDs())

	d.Press(tea.KeyEsc)
	assert.Equal(t, ViewDashboard, d.ActiveViewID())
	assert.Equal(t, 1, d.ViewStackLen())
}

func TestTUI_DeleteRemovesSelectedLog(t *testing.T) {
	app, svc := signedInApp(t)
	svc.seed(domain.ViewToday, aLog("l1", "First entry", 9), aLog("l2", "Second entry", 11))

	d := NewTestDriver(t, app)
	require.Contains(t, d.View(), "First entry")

	d.PressKey('x')

	view := d.View()
	assert.NotContains(t, view, "First entry")
	assert.Contains(t, view, "Second entry")
}

func TestTUI_SignOutReturnsToAuth(t *testing.T) {
	app, _ := signedInApp(t)
	d := NewTestDriver(t, app)

	d.PressKey('s')

	assert.Equal(t, ViewAuth, d.ActiveViewID())
	assert.False(t, app.Session.Snapshot().Authenticated())
}

func TestTUI_GenerateOpensSummaryView(t *testing.T) {
	app, _ := signedInApp(t)
	d := NewTestDriver(t, app)

	d.PressKey('g')

	assert.Equal(t, ViewGenerate, d.ActiveViewID())
	assert.Contains(t, d.View(), "generate a summary")
}
