package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/evidenthq/evident/internal/cli/formatter"
	"github.com/evidenthq/evident/internal/domain"
	"github.com/evidenthq/evident/internal/store"
)

// ── messages ─────────────────────────────────────────────────────────────────

// logsLoadedMsg carries a fresh log store snapshot after a fetch or mutation.
type logsLoadedMsg struct {
	snap store.LogsState
}

// signedOutMsg signals that the session has been cleared.
type signedOutMsg struct{}

// ── view ─────────────────────────────────────────────────────────────────────

// dashboardView is the home screen of the TUI. It shows the work logs for
// the selected window (today, this week, last week) grouped by day, with a
// cursor for selecting a log to edit or delete.
type dashboardView struct {
	state *SharedState
	snap  store.LogsState

	cursor  int
	loading bool
}

func newDashboardView(state *SharedState) *dashboardView {
	return &dashboardView{
		state:   state,
		loading: true,
	}
}

func (v *dashboardView) ID() ViewID    { return ViewDashboard }
func (v *dashboardView) Title() string { return "Logs" }

func (v *dashboardView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("t"), key.WithHelp("t/w/l", "window")),
		key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
		key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "summary")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sign out")),
		key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

func (v *dashboardView) Init() tea.Cmd {
	return v.fetchLogs()
}

// ── data loading ─────────────────────────────────────────────────────────────

func (v *dashboardView) fetchLogs() tea.Cmd {
	logs := v.state.App.Logs
	return func() tea.Msg {
		_ = logs.Fetch(context.Background())
		return logsLoadedMsg{snap: logs.Snapshot()}
	}
}

func (v *dashboardView) setWindow(view domain.View) tea.Cmd {
	logs := v.state.App.Logs
	return func() tea.Msg {
		_ = logs.SetView(context.Background(), view)
		return logsLoadedMsg{snap: logs.Snapshot()}
	}
}

func (v *dashboardView) deleteSelected() tea.Cmd {
	logs := v.state.App.Logs
	sel := v.selectedLog()
	if sel == nil {
		return nil
	}
	id := sel.ID
	return func() tea.Msg {
		_ = logs.Delete(context.Background(), id)
		return logsLoadedMsg{snap: logs.Snapshot()}
	}
}

func (v *dashboardView) signOut() tea.Cmd {
	app := v.state.App
	return func() tea.Msg {
		app.Session.Logout(context.Background())
		return signedOutMsg{}
	}
}

// selectedLog returns the log under the cursor, or nil.
func (v *dashboardView) selectedLog() *domain.Log {
	i := 0
	for _, g := range domain.GroupByDay(v.snap.Logs) {
		for _, l := range g.Logs {
			if i == v.cursor {
				log := l
				return &log
			}
			i++
		}
	}
	return nil
}

// ── update ───────────────────────────────────────────────────────────────────

func (v *dashboardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case logsLoadedMsg:
		v.loading = false
		v.snap = msg.snap
		if n := len(v.snap.Logs); v.cursor >= n {
			v.cursor = max(0, n-1)
		}
		return v, nil

	case signedOutMsg:
		return v, replaceView(newAuthView(v.state))

	case refreshViewMsg:
		v.loading = true
		return v, v.fetchLogs()

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if v.cursor > 0 {
				v.cursor--
			}
		case "down", "j":
			if v.cursor < len(v.snap.Logs)-1 {
				v.cursor++
			}
		case "t":
			v.loading = true
			return v, v.setWindow(domain.ViewToday)
		case "w":
			v.loading = true
			return v, v.setWindow(domain.ViewThisWeek)
		case "l":
			v.loading = true
			return v, v.setWindow(domain.ViewLastWeek)
		case "a":
			return v, pushView(newLogFormView(v.state, nil))
		case "e":
			if sel := v.selectedLog(); sel != nil {
				return v, pushView(newLogFormView(v.state, sel))
			}
		case "x":
			if cmd := v.deleteSelected(); cmd != nil {
				v.loading = true
				return v, cmd
			}
		case "g":
			return v, pushView(newGenerateView(v.state))
		case "r":
			v.loading = true
			return v, v.fetchLogs()
		case "s":
			return v, v.signOut()
		}
	}

	return v, nil
}

// ── view rendering ───────────────────────────────────────────────────────────

func (v *dashboardView) View() string {
	var b strings.Builder

	b.WriteString("\n  " + v.renderWindowTabs() + "\n\n")

	if v.loading && len(v.snap.Logs) == 0 {
		b.WriteString("  " + formatter.Dim("Loading...") + "\n")
		return b.String()
	}
	if v.snap.Err != nil {
		b.WriteString("  " + formatter.Errorf("Error: %v", v.snap.Err) + "\n\n")
	}

	groups := domain.GroupByDay(v.snap.Logs)
	if len(groups) == 0 {
		b.WriteString("  " + formatter.Dim("No logs in this window. Press 'a' to add one.") + "\n")
		return b.String()
	}

	// The today window is a single day, so per-day headers are noise.
	showHeaders := v.snap.View != domain.ViewToday

	i := 0
	for _, g := range groups {
		if showHeaders {
			b.WriteString("  " + formatter.StyleHeader.Render(formatDayHeading(g.Date)) + "\n")
		}
		for _, l := range g.Logs {
			b.WriteString(v.renderLogRow(l, i == v.cursor))
			i++
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (v *dashboardView) renderWindowTabs() string {
	var tabs []string
	for _, w := range domain.Views {
		label := w.Label()
		if w == v.snap.View {
			tabs = append(tabs, formatter.StyleGreen.Render("["+label+"]"))
		} else {
			tabs = append(tabs, formatter.Dim(" "+label+" "))
		}
	}
	return strings.Join(tabs, " ")
}

func (v *dashboardView) renderLogRow(l domain.Log, selected bool) string {
	cursor := "  "
	descStyle := formatter.StyleFg
	if selected {
		cursor = formatter.StyleGreen.Render("▸ ")
		descStyle = formatter.StyleBold
	}

	span := fmt.Sprintf("%s–%s", l.StartTime.Format("15:04"), l.EndTime.Format("15:04"))

	row := fmt.Sprintf("  %s%s  %s  %s",
		cursor,
		formatter.Dim(span),
		formatter.ActivityBadge(l.ActivityType),
		descStyle.Render(l.Description),
	)
	if l.Reference != "" {
		row += "  " + formatter.StyleBlue.Render("("+l.Reference+")")
	}
	return row + "\n"
}

// formatDayHeading renders a date key like "2024-01-10" as "Wed, Jan 10".
func formatDayHeading(date string) string {
	t, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("Mon, Jan 2")
}
