package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/evidenthq/evident/internal/api"
	"github.com/evidenthq/evident/internal/export"
	"github.com/evidenthq/evident/internal/store"
)

// App holds the wired client, stores, and workflow used by both the
// cobra subcommands and the TUI views.
type App struct {
	API     *api.Client
	Session *store.SessionStore
	Logs    *store.LogStore
	Export  *export.Workflow

	// DownloadDir is where generated PDFs are written.
	DownloadDir string

	// IsInteractive reports whether stdin is a terminal; when true the
	// bare "evident" invocation starts the TUI instead of printing help.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "evident" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "evident",
		Short: "Track work logs and generate summaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && app.IsInteractive() {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	root.AddCommand(
		newLoginCmd(app),
		newRegisterCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newLogCmd(app),
		newExportCmd(app),
		newSubscribeCmd(app),
		newSubscriptionCmd(app),
	)

	return root
}

// runTUI starts the full-screen bubbletea program.
func runTUI(app *App) error {
	p := tea.NewProgram(newAppModel(app), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
