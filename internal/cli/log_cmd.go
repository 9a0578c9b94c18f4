package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/evidenthq/evident/internal/cli/formatter"
	"github.com/evidenthq/evident/internal/domain"
)

func newLogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Manage work logs",
	}

	cmd.AddCommand(
		newLogAddCmd(app),
		newLogListCmd(app),
		newLogUpdateCmd(app),
		newLogDeleteCmd(app),
	)

	return cmd
}

func newLogAddCmd(app *App) *cobra.Command {
	var start, end, activity, description, reference string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a work log",
		RunE: func(cmd *cobra.Command, args []string) error {
			startAt, endAt, err := parseSpan(start, end)
			if err != nil {
				return err
			}

			payload := domain.CreateLog{
				Date:         startAt.Format(domain.DateLayout),
				StartTime:    startAt,
				EndTime:      endAt,
				ActivityType: domain.ActivityType(activity),
				Description:  description,
				Reference:    reference,
			}
			if err := app.Logs.Create(context.Background(), payload); err != nil {
				return err
			}

			fmt.Printf("Logged %s %s\n",
				formatter.ActivityBadge(payload.ActivityType),
				formatter.Bold(description))
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Start time (YYYY-MM-DD HH:MM, default now)")
	cmd.Flags().StringVar(&end, "end", "", "End time (YYYY-MM-DD HH:MM, default start+30m)")
	cmd.Flags().StringVar(&activity, "activity", string(domain.ActivityWork), "Activity type (WORK, MEETING, FIELD, TRAVEL, ADMIN)")
	cmd.Flags().StringVar(&description, "desc", "", "What you worked on")
	cmd.Flags().StringVar(&reference, "ref", "", "Optional reference (ticket, client, case number)")
	_ = cmd.MarkFlagRequired("desc")

	return cmd
}

func newLogListCmd(app *App) *cobra.Command {
	var window string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List work logs for a window",
		RunE: func(cmd *cobra.Command, args []string) error {
			view := domain.View(window)
			if !view.Valid() {
				return fmt.Errorf("unknown window %q (today, this-week, last-week)", window)
			}

			ctx := context.Background()
			if err := app.Logs.SetView(ctx, view); err != nil {
				return err
			}
			snap := app.Logs.Snapshot()
			if snap.Err != nil {
				return snap.Err
			}

			groups := domain.GroupByDay(snap.Logs)
			if len(groups) == 0 {
				fmt.Println(formatter.Dim("No logs in this window."))
				return nil
			}

			for _, g := range groups {
				if view != domain.ViewToday {
					fmt.Println(formatter.Header(formatDayHeading(g.Date)))
				}
				rows := make([][]string, 0, len(g.Logs))
				for _, l := range g.Logs {
					rows = append(rows, []string{
						l.ID,
						fmt.Sprintf("%s–%s", l.StartTime.Format("15:04"), l.EndTime.Format("15:04")),
						formatter.ActivityBadge(l.ActivityType),
						l.Description,
						formatter.Dim(l.Reference),
					})
				}
				fmt.Println(formatter.RenderTable(
					[]string{"ID", "TIME", "ACTIVITY", "DESCRIPTION", "REF"}, rows))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&window, "window", string(domain.ViewToday), "Window: today, this-week, last-week")
	return cmd
}

func newLogUpdateCmd(app *App) *cobra.Command {
	var start, end, activity, description, reference string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update fields of a work log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch domain.UpdateLog

			if start != "" {
				t, err := parseCmdTime(start)
				if err != nil {
					return err
				}
				date := t.Format(domain.DateLayout)
				patch.StartTime = &t
				patch.Date = &date
			}
			if end != "" {
				t, err := parseCmdTime(end)
				if err != nil {
					return err
				}
				patch.EndTime = &t
			}
			if activity != "" {
				a := domain.ActivityType(activity)
				patch.ActivityType = &a
			}
			if cmd.Flags().Changed("desc") {
				patch.Description = &description
			}
			if cmd.Flags().Changed("ref") {
				patch.Reference = &reference
			}

			if err := app.Logs.Update(context.Background(), args[0], patch); err != nil {
				return err
			}
			fmt.Printf("Updated log %s\n", formatter.Bold(args[0]))
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "New start time (YYYY-MM-DD HH:MM)")
	cmd.Flags().StringVar(&end, "end", "", "New end time (YYYY-MM-DD HH:MM)")
	cmd.Flags().StringVar(&activity, "activity", "", "New activity type")
	cmd.Flags().StringVar(&description, "desc", "", "New description")
	cmd.Flags().StringVar(&reference, "ref", "", "New reference (empty clears it)")

	return cmd
}

func newLogDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a work log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Logs.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted log %s\n", formatter.Bold(args[0]))
			return nil
		},
	}
}

// parseSpan resolves the add command's start/end flags, defaulting to a
// thirty-minute block starting now.
func parseSpan(start, end string) (time.Time, time.Time, error) {
	startAt := time.Now().Truncate(time.Minute)
	if start != "" {
		t, err := parseCmdTime(start)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		startAt = t
	}

	endAt := startAt.Add(30 * time.Minute)
	if end != "" {
		t, err := parseCmdTime(end)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		endAt = t
	}

	return startAt, endAt, nil
}

func parseCmdTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(formTimeLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: use the format 2024-01-10 15:04", s)
	}
	return t, nil
}
