package cli

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evidenthq/evident/internal/domain"
	"github.com/evidenthq/evident/internal/export"
)

// openGenerate signs in, opens the summary view, and returns the driver.
func openGenerate(t *testing.T, app *App) *TestDriver {
	t.Helper()
	d := NewTestDriver(t, app)
	d.PressKey('g')
	require.Equal(t, ViewGenerate, d.ActiveViewID())
	return d
}

func TestGenerateView_SuccessShowsSummary(t *testing.T) {
	app, svc := signedInApp(t)
	svc.summary = "Three productive days."

	d := openGenerate(t, app)
	d.PressKey('g')

	view := d.View()
	assert.Contains(t, view, "SUMMARY")
	assert.Contains(t, view, "Three productive days.")
}

func TestGenerateView_RangeKeysSwitchSelector(t *testing.T) {
	app, _ := signedInApp(t)

	d := openGenerate(t, app)
	d.PressKey('l')

	assert.Equal(t, domain.ViewLastWeek, app.Export.Snapshot().Range)
}

func TestGenerateView_DenialShowsUpgradePrompt(t *testing.T) {
	app, svc := signedInApp(t)
	svc.deny("Active subscription required")

	d := openGenerate(t, app)
	d.PressKey('g')

	assert.Contains(t, d.View(), "subscription is required")
}

func TestGenerateView_SubscribeKeyShowsCheckoutURL(t *testing.T) {
	app, svc := signedInApp(t)
	svc.deny("Active subscription required")

	d := openGenerate(t, app)
	d.PressKey('g')
	d.PressKey('s')

	assert.Contains(t, d.View(), "https://pay.example.com/cs_123")
}

func TestGenerateView_TrialExhaustedPrompt(t *testing.T) {
	app, svc := signedInApp(t)
	svc.deny("Free trial export already used")

	d := openGenerate(t, app)
	d.PressKey('g')

	assert.Contains(t, d.View(), "trial export has been used")
}

func TestGenerateView_ReopenStartsFresh(t *testing.T) {
	app, svc := signedInApp(t)
	svc.summary = "Last session's summary."

	d := openGenerate(t, app)
	d.PressKey('g')
	require.Contains(t, d.View(), "Last session's summary.")

	d.Press(tea.KeyEsc)
	require.Equal(t, ViewDashboard, d.ActiveViewID())

	d.PressKey('g')
	require.Equal(t, ViewGenerate, d.ActiveViewID())

	view := d.View()
	assert.NotContains(t, view, "Last session's summary.")
	assert.Contains(t, view, "Press 'g' to generate")
	assert.Equal(t, export.PhaseIdle, app.Export.Snapshot().Phase)
}

func TestGenerateView_SavePDFWritesFile(t *testing.T) {
	app, svc := signedInApp(t)
	svc.pdf = []byte("%PDF-1.4 generated")

	d := openGenerate(t, app)
	d.PressKey('g')
	d.PressKey('p')

	assert.Contains(t, d.View(), "Saved ")

	matches, err := filepath.Glob(filepath.Join(app.DownloadDir, "evident-summary-*.pdf"))
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4 generated"), data)
}
