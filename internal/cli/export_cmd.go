package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evidenthq/evident/internal/cli/formatter"
	"github.com/evidenthq/evident/internal/domain"
	"github.com/evidenthq/evident/internal/export"
)

func newExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Generate and download work summaries",
	}

	cmd.AddCommand(
		newExportGenerateCmd(app),
		newExportPDFCmd(app),
		newExportHistoryCmd(app),
	)

	return cmd
}

// runGeneration drives the workflow to a terminal phase for the given window
// and returns its snapshot. A denial is reported as an error with upgrade
// guidance rather than a summary.
func runGeneration(app *App, window string) (export.State, error) {
	view := domain.View(window)
	if !view.Valid() {
		return export.State{}, fmt.Errorf("unknown window %q (today, this-week, last-week)", window)
	}

	app.Export.SetRange(view)
	_ = app.Export.Generate(context.Background())

	snap := app.Export.Snapshot()
	switch snap.Phase {
	case export.PhaseDenied:
		return snap, denialError(snap.Denial)
	case export.PhaseFailed:
		return snap, snap.Err
	}
	return snap, nil
}

func denialError(e domain.Entitlement) error {
	switch e.Code {
	case domain.DenialSubscriptionRequired:
		return fmt.Errorf("a subscription is required to generate summaries; run 'evident subscribe'")
	case domain.DenialTrialExhausted:
		return fmt.Errorf("your free trial export has been used; run 'evident subscribe'")
	default:
		return fmt.Errorf("export not allowed: %s", e.Reason)
	}
}

func newExportGenerateCmd(app *App) *cobra.Command {
	var window string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a text summary for a window",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := runGeneration(app, window)
			if err != nil {
				return err
			}

			r := snap.Result
			fmt.Println(formatter.Header("Summary"))
			fmt.Println(formatter.Dim(fmt.Sprintf("%s → %s · %d logs",
				snap.Resolved.StartDate(), snap.Resolved.EndDate(), r.LogCount)))
			fmt.Println()
			fmt.Println(r.TextContent)
			return nil
		},
	}

	cmd.Flags().StringVar(&window, "window", string(domain.ViewThisWeek), "Window: today, this-week, last-week")
	return cmd
}

func newExportPDFCmd(app *App) *cobra.Command {
	var window string

	cmd := &cobra.Command{
		Use:   "pdf",
		Short: "Generate a summary and save it as a PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := runGeneration(app, window); err != nil {
				return err
			}

			path, err := app.Export.DownloadPDF(context.Background())
			if err != nil {
				return err
			}
			fmt.Printf("Saved %s\n", formatter.Bold(path))
			return nil
		},
	}

	cmd.Flags().StringVar(&window, "window", string(domain.ViewThisWeek), "Window: today, this-week, last-week")
	return cmd
}

func newExportHistoryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List past exports",
		RunE: func(cmd *cobra.Command, args []string) error {
			history, err := app.API.ExportHistory(context.Background(), app.Session.Token())
			if err != nil {
				return err
			}
			if len(history) == 0 {
				fmt.Println(formatter.Dim("No exports yet."))
				return nil
			}

			rows := make([][]string, 0, len(history))
			for _, h := range history {
				rows = append(rows, []string{
					h.CreatedAt.Format("2006-01-02 15:04"),
					fmt.Sprintf("%s → %s", h.StartDate, h.EndDate),
					h.Format,
				})
			}
			fmt.Println(formatter.RenderTable([]string{"CREATED", "RANGE", "FORMAT"}, rows))
			return nil
		},
	}
}
