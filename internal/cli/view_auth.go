package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/evidenthq/evident/internal/cli/formatter"
)

const (
	authModeLogin    = "login"
	authModeRegister = "register"
)

// authResultMsg carries the outcome of a sign-in or registration attempt.
type authResultMsg struct {
	err error
}

// authView is the sign-in screen shown when no session is active.
// It wraps a huh form collecting mode, email, and password; a failed
// attempt rebuilds the form with the error shown above it.
type authView struct {
	state *SharedState
	form  *huh.Form

	mode     string
	email    string
	password string

	submitting bool
	lastErr    error
}

func newAuthView(state *SharedState) *authView {
	v := &authView{
		state: state,
		mode:  authModeLogin,
	}
	v.form = v.buildForm()
	return v
}

func (v *authView) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Welcome to Evident").
				Options(
					huh.NewOption("Sign in", authModeLogin),
					huh.NewOption("Create account", authModeRegister),
				).
				Value(&v.mode),
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(&v.email).
				Validate(validateEmail),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&v.password).
				Validate(validatePassword),
		),
	).WithTheme(evidentHuhTheme()).WithShowHelp(false)
}

func (v *authView) ID() ViewID    { return ViewAuth }
func (v *authView) Title() string { return "Sign In" }

func (v *authView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "next")),
		key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (v *authView) Init() tea.Cmd {
	return v.form.Init()
}

func (v *authView) submit() tea.Cmd {
	app := v.state.App
	mode, email, password := v.mode, v.email, v.password
	return func() tea.Msg {
		ctx := context.Background()
		var err error
		if mode == authModeRegister {
			err = app.Session.Register(ctx, email, password)
		} else {
			err = app.Session.Login(ctx, email, password)
		}
		return authResultMsg{err: err}
	}
}

func (v *authView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case authResultMsg:
		v.submitting = false
		if msg.err != nil {
			v.lastErr = msg.err
			v.password = ""
			v.form = v.buildForm()
			return v, v.form.Init()
		}
		dash := newDashboardView(v.state)
		return v, replaceView(dash)

	case tea.KeyMsg:
		if v.submitting {
			return v, nil
		}
	}

	form, cmd := v.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		v.form = f
	}

	if v.form.State == huh.StateCompleted && !v.submitting {
		v.submitting = true
		return v, tea.Batch(cmd, v.submit())
	}

	return v, cmd
}

func (v *authView) View() string {
	var b strings.Builder
	b.WriteString("\n")
	if v.lastErr != nil {
		b.WriteString("  " + formatter.Errorf("Sign-in failed: %v", v.lastErr) + "\n\n")
	}
	if v.submitting {
		b.WriteString("  " + formatter.Dim("Signing in...") + "\n")
		return b.String()
	}
	b.WriteString(v.form.View())
	return b.String()
}

func validateEmail(s string) error {
	if s == "" || !strings.Contains(s, "@") {
		return fmt.Errorf("enter a valid email address")
	}
	return nil
}

func validatePassword(s string) error {
	if len(s) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	return nil
}
