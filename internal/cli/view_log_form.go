package cli

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/evidenthq/evident/internal/domain"
)

const formTimeLayout = "2006-01-02 15:04"

// logFormFields holds form-bound values for the add/edit log form.
type logFormFields struct {
	start       string
	end         string
	activity    string
	description string
	reference   string
}

// newLogFormView creates a form for adding a new work log, or editing an
// existing one when existing is non-nil. New logs default to starting now
// and ending thirty minutes later.
func newLogFormView(state *SharedState, existing *domain.Log) View {
	f := &logFormFields{}
	title := "Add Log"

	if existing != nil {
		title = "Edit Log"
		f.start = existing.StartTime.Format(formTimeLayout)
		f.end = existing.EndTime.Format(formTimeLayout)
		f.activity = string(existing.ActivityType)
		f.description = existing.Description
		f.reference = existing.Reference
	} else {
		now := time.Now()
		f.start = now.Format(formTimeLayout)
		f.end = now.Add(30 * time.Minute).Format(formTimeLayout)
		f.activity = string(domain.ActivityWork)
	}

	activityOptions := make([]huh.Option[string], 0, len(domain.ActivityTypes))
	for _, t := range domain.ActivityTypes {
		activityOptions = append(activityOptions, huh.NewOption(t.Label(), string(t)))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Start (YYYY-MM-DD HH:MM)").
				Value(&f.start).
				Validate(validateDateTime),
			huh.NewInput().
				Title("End (YYYY-MM-DD HH:MM)").
				Value(&f.end).
				Validate(validateDateTime),
			huh.NewSelect[string]().
				Title("Activity").
				Options(activityOptions...).
				Value(&f.activity),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Description").
				Placeholder("What did you work on?").
				Value(&f.description).
				Validate(validateDescription),
			huh.NewInput().
				Title("Reference (optional)").
				Placeholder("ticket, client, case number").
				Value(&f.reference).
				Validate(validateReference),
		),
	).WithTheme(evidentHuhTheme()).WithShowHelp(false)

	done := func() tea.Cmd {
		return func() tea.Msg {
			if existing != nil {
				return applyLogEdit(state.App, existing.ID, f)
			}
			return applyLogCreate(state.App, f)
		}
	}

	return newFormView(state, title, form, done)
}

// applyLogCreate submits a new log through the log store. Store errors are
// recorded in its state, which the dashboard renders after the refresh.
func applyLogCreate(app *App, f *logFormFields) tea.Msg {
	start, _ := time.ParseInLocation(formTimeLayout, f.start, time.Local)
	end, _ := time.ParseInLocation(formTimeLayout, f.end, time.Local)

	payload := domain.CreateLog{
		Date:         start.Format(domain.DateLayout),
		StartTime:    start,
		EndTime:      end,
		ActivityType: domain.ActivityType(f.activity),
		Description:  f.description,
		Reference:    f.reference,
	}
	_ = app.Logs.Create(context.Background(), payload)
	return logsLoadedMsg{snap: app.Logs.Snapshot()}
}

func applyLogEdit(app *App, id string, f *logFormFields) tea.Msg {
	start, _ := time.ParseInLocation(formTimeLayout, f.start, time.Local)
	end, _ := time.ParseInLocation(formTimeLayout, f.end, time.Local)

	date := start.Format(domain.DateLayout)
	activity := domain.ActivityType(f.activity)
	patch := domain.UpdateLog{
		Date:         &date,
		StartTime:    &start,
		EndTime:      &end,
		ActivityType: &activity,
		Description:  &f.description,
		Reference:    &f.reference,
	}
	_ = app.Logs.Update(context.Background(), id, patch)
	return logsLoadedMsg{snap: app.Logs.Snapshot()}
}

func validateDateTime(s string) error {
	if _, err := time.ParseInLocation(formTimeLayout, s, time.Local); err != nil {
		return fmt.Errorf("use the format 2024-01-10 15:04")
	}
	return nil
}

func validateDescription(s string) error {
	if s == "" {
		return fmt.Errorf("description is required")
	}
	if utf8.RuneCountInString(s) > domain.MaxDescriptionLen {
		return fmt.Errorf("keep it under %d characters", domain.MaxDescriptionLen)
	}
	return nil
}

func validateReference(s string) error {
	if utf8.RuneCountInString(s) > domain.MaxReferenceLen {
		return fmt.Errorf("keep it under %d characters", domain.MaxReferenceLen)
	}
	return nil
}
