package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/evidenthq/evident/internal/cli/formatter"
	"github.com/evidenthq/evident/internal/domain"
	"github.com/evidenthq/evident/internal/export"
)

// ── messages ─────────────────────────────────────────────────────────────────

// exportUpdatedMsg carries a fresh workflow snapshot after an operation.
type exportUpdatedMsg struct {
	snap export.State
}

// exportNoticeMsg carries a transient confirmation or failure line,
// e.g. after copying the summary or saving a PDF.
type exportNoticeMsg struct {
	text string
	err  error
}

// checkoutMsg carries the payment URL created for an upgrade.
type checkoutMsg struct {
	url string
	err error
}

// ── view ─────────────────────────────────────────────────────────────────────

// generateView drives the summary generation workflow: pick a range,
// run the entitlement check and generation, then copy the text or save
// a PDF. A denial renders the upgrade prompt instead of a summary.
type generateView struct {
	state *SharedState
	snap  export.State

	vp          viewport.Model
	notice      string
	noticeErr   bool
	checkoutURL string
}

func newGenerateView(state *SharedState) *generateView {
	// Each modal session starts fresh; a summary generated last time this
	// view was open must not resurface.
	state.App.Export.Reset()

	return &generateView{
		state: state,
		snap:  state.App.Export.Snapshot(),
		vp:    viewport.New(0, 0),
	}
}

func (v *generateView) ID() ViewID    { return ViewGenerate }
func (v *generateView) Title() string { return "Summary" }

func (v *generateView) ShortHelp() []key.Binding {
	bindings := []key.Binding{
		key.NewBinding(key.WithKeys("t"), key.WithHelp("t/w/l", "range")),
		key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "generate")),
	}
	if v.snap.Phase == export.PhaseGenerated {
		bindings = append(bindings,
			key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy")),
			key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "save pdf")),
		)
	}
	if v.snap.Phase == export.PhaseDenied && v.snap.Denial.Code == domain.DenialSubscriptionRequired {
		bindings = append(bindings,
			key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "subscribe")),
		)
	}
	return bindings
}

func (v *generateView) Init() tea.Cmd {
	return nil
}

// ── commands ─────────────────────────────────────────────────────────────────

func (v *generateView) generate() tea.Cmd {
	wf := v.state.App.Export
	return func() tea.Msg {
		_ = wf.Generate(context.Background())
		return exportUpdatedMsg{snap: wf.Snapshot()}
	}
}

func (v *generateView) setRange(r domain.View) tea.Cmd {
	wf := v.state.App.Export
	return func() tea.Msg {
		wf.SetRange(r)
		return exportUpdatedMsg{snap: wf.Snapshot()}
	}
}

func (v *generateView) copySummary() tea.Cmd {
	wf := v.state.App.Export
	return func() tea.Msg {
		if err := wf.CopyText(); err != nil {
			return exportNoticeMsg{err: err}
		}
		return exportNoticeMsg{text: "Summary copied to clipboard."}
	}
}

func (v *generateView) savePDF() tea.Cmd {
	wf := v.state.App.Export
	return func() tea.Msg {
		path, err := wf.DownloadPDF(context.Background())
		if err != nil {
			return exportNoticeMsg{err: err}
		}
		return exportNoticeMsg{text: "Saved " + path}
	}
}

func (v *generateView) startCheckout() tea.Cmd {
	app := v.state.App
	return func() tea.Msg {
		session, err := app.API.Checkout(context.Background(), app.Session.Token(),
			"https://evident.app/billing/success", "https://evident.app/billing/cancel")
		if err != nil {
			return checkoutMsg{err: err}
		}
		return checkoutMsg{url: session.URL}
	}
}

// ── update ───────────────────────────────────────────────────────────────────

func (v *generateView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case exportUpdatedMsg:
		v.snap = msg.snap
		v.notice = ""
		if v.snap.Phase == export.PhaseGenerated && v.snap.Result != nil {
			v.vp.Width = max(v.state.Width-4, 20)
			v.vp.Height = max(v.state.ContentHeight()-6, 3)
			v.vp.SetContent(v.snap.Result.TextContent)
			v.vp.GotoTop()
		}
		return v, nil

	case exportNoticeMsg:
		if msg.err != nil {
			v.notice = msg.err.Error()
			v.noticeErr = true
		} else {
			v.notice = msg.text
			v.noticeErr = false
		}
		// PDF failures also land in the workflow state; refresh it.
		v.snap = v.state.App.Export.Snapshot()
		return v, nil

	case checkoutMsg:
		if msg.err != nil {
			v.notice = msg.err.Error()
			v.noticeErr = true
			return v, nil
		}
		v.checkoutURL = msg.url
		return v, nil

	case tea.WindowSizeMsg:
		v.vp.Width = max(msg.Width-4, 20)
		v.vp.Height = max(v.state.ContentHeight()-6, 3)
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "t":
			return v, v.setRange(domain.ViewToday)
		case "w":
			return v, v.setRange(domain.ViewThisWeek)
		case "l":
			return v, v.setRange(domain.ViewLastWeek)
		case "g", "enter":
			if v.snap.Phase == export.PhaseChecking || v.snap.Phase == export.PhaseGenerating {
				return v, nil
			}
			v.snap.Phase = export.PhaseChecking
			return v, v.generate()
		case "c":
			if v.snap.Phase == export.PhaseGenerated {
				return v, v.copySummary()
			}
		case "p":
			if v.snap.Phase == export.PhaseGenerated {
				return v, v.savePDF()
			}
		case "s":
			if v.snap.Phase == export.PhaseDenied && v.snap.Denial.Code == domain.DenialSubscriptionRequired {
				return v, v.startCheckout()
			}
		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			v.vp, cmd = v.vp.Update(msg)
			return v, cmd
		}
	}

	return v, nil
}

// ── rendering ────────────────────────────────────────────────────────────────

func (v *generateView) View() string {
	var b strings.Builder

	b.WriteString("\n  " + v.renderRangeTabs() + "\n\n")

	switch v.snap.Phase {
	case export.PhaseIdle:
		b.WriteString("  " + formatter.Dim("Press 'g' to generate a summary for this range.") + "\n")

	case export.PhaseChecking:
		b.WriteString("  " + formatter.Dim("Checking subscription...") + "\n")

	case export.PhaseGenerating:
		b.WriteString("  " + formatter.Dim("Generating summary...") + "\n")

	case export.PhaseDenied:
		b.WriteString(v.renderDenial())

	case export.PhaseFailed:
		b.WriteString("  " + formatter.Errorf("Generation failed: %v", v.snap.Err) + "\n")
		b.WriteString("  " + formatter.Dim("Press 'g' to try again.") + "\n")

	case export.PhaseGenerated:
		b.WriteString(v.renderResult())
	}

	if v.notice != "" {
		b.WriteString("\n")
		if v.noticeErr {
			b.WriteString("  " + formatter.Errorf("%s", v.notice) + "\n")
		} else {
			b.WriteString("  " + formatter.StyleGreen.Render("✔ "+v.notice) + "\n")
		}
	}

	return b.String()
}

func (v *generateView) renderRangeTabs() string {
	var tabs []string
	for _, w := range domain.Views {
		label := w.Label()
		if w == v.snap.Range {
			tabs = append(tabs, formatter.StyleGreen.Render("["+label+"]"))
		} else {
			tabs = append(tabs, formatter.Dim(" "+label+" "))
		}
	}
	return strings.Join(tabs, " ")
}

func (v *generateView) renderDenial() string {
	var b strings.Builder
	switch v.snap.Denial.Code {
	case domain.DenialSubscriptionRequired:
		b.WriteString("  " + formatter.StyleYellow.Render("A subscription is required to generate summaries.") + "\n\n")
		if v.checkoutURL != "" {
			b.WriteString("  " + formatter.Dim("Open this link to subscribe:") + "\n")
			b.WriteString("  " + formatter.StyleBlue.Render(v.checkoutURL) + "\n")
		} else {
			b.WriteString("  " + formatter.Dim("Press 's' to start the upgrade.") + "\n")
		}
	case domain.DenialTrialExhausted:
		b.WriteString("  " + formatter.StyleYellow.Render("Your free trial export has been used.") + "\n")
		b.WriteString("  " + formatter.Dim("Subscribe to keep generating summaries.") + "\n")
	default:
		b.WriteString("  " + formatter.Errorf("Export not allowed: %s", v.snap.Denial.Reason) + "\n")
	}
	return b.String()
}

func (v *generateView) renderResult() string {
	var b strings.Builder
	r := v.snap.Result
	if r == nil {
		return ""
	}

	caption := fmt.Sprintf("%s → %s · %d logs",
		v.snap.Resolved.StartDate(), v.snap.Resolved.EndDate(), r.LogCount)
	b.WriteString("  " + formatter.Header("Summary") + "\n")
	b.WriteString("  " + formatter.Dim(caption) + "\n\n")
	b.WriteString(v.vp.View() + "\n")

	if v.snap.Err != nil {
		b.WriteString("\n  " + formatter.Errorf("PDF failed: %v", v.snap.Err) + "\n")
	}
	return b.String()
}
