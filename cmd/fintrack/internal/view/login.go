package view

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/fintrack/fintrack/internal/api"
	"github.com/fintrack/fintrack/internal/model"
)

type loginState int

const (
	loginStateForm loginState = iota
	loginStateSubmitting
)

// LoginSuccessMsg tells the root model the session is established.
type LoginSuccessMsg struct{}

type LoginModel struct {
	CommonModel
	deps *Deps

	state      loginState
	signup     bool
	form       *huh.Form
	spinner    spinner.Model
	errMessage string
	status     string

	formName     string
	formEmail    string
	formPassword string
	formImage    string
}

func NewLoginModel(deps *Deps) LoginModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := LoginModel{deps: deps, spinner: s}
	m.form = m.buildForm()

	return m
}

func (m LoginModel) Title() string { return "Login" }

func (m LoginModel) ShortHelp() string {
	if m.signup {
		return "Enter: create account | Ctrl+N: back to login | Ctrl+C: quit"
	}

	return "Enter: sign in | Ctrl+N: create account | Ctrl+C: quit"
}

func (m LoginModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case authResultMsg:
		if msg.err != nil {
			m.state = loginStateForm
			m.errMessage = api.UserMessage(msg.err, "Login failed. Please try again.")
			m.form = m.buildForm()

			return m, m.form.Init()
		}

		return m, func() tea.Msg { return LoginSuccessMsg{} }

	case registerResultMsg:
		m.state = loginStateForm
		if msg.err != nil {
			m.errMessage = api.UserMessage(msg.err, "Registration failed. Please try again.")
		} else {
			m.signup = false
			m.errMessage = ""
			m.status = "Account created. Please sign in."
		}

		m.form = m.buildForm()

		return m, m.form.Init()
	}

	if m.state == loginStateSubmitting {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "ctrl+n" {
		m.signup = !m.signup
		m.errMessage = ""
		m.status = ""
		m.form = m.buildForm()

		return m, m.form.Init()
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	// Copy the results out of the completed form; the Value bindings
	// point at an older copy of the model.
	if m.signup {
		m.formName = m.form.GetString("fullName")
		m.formImage = m.form.GetString("profileImage")
	}
	m.formEmail = m.form.GetString("email")
	m.formPassword = m.form.GetString("password")

	m.state = loginStateSubmitting
	m.errMessage = ""

	if m.signup {
		return m, tea.Batch(m.spinner.Tick, m.registerCmd())
	}

	return m, tea.Batch(m.spinner.Tick, m.loginCmd())
}

func (m LoginModel) buildForm() *huh.Form {
	fields := []huh.Field{}

	if m.signup {
		fields = append(fields,
			huh.NewInput().
				Key("fullName").
				Title("Full Name").
				Value(&m.formName).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("full name cannot be empty")
					}
					return nil
				}),
		)
	}

	fields = append(fields,
		huh.NewInput().
			Key("email").
			Title("Email").
			Placeholder("you@example.com").
			Value(&m.formEmail).
			Validate(model.ValidateEmail),

		huh.NewInput().
			Key("password").
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&m.formPassword).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return model.ErrPasswordRequired
				}
				return nil
			}),
	)

	if m.signup {
		fields = append(fields,
			huh.NewInput().
				Key("profileImage").
				Title("Profile Image (optional)").
				Description("Image URL or a local image path to upload").
				Value(&m.formImage),
		)
	}

	return huh.NewForm(huh.NewGroup(fields...)).WithWidth(44).WithShowHelp(false)
}

func (m LoginModel) View() string {
	header := "Money Manager"
	if m.signup {
		header = "Create Account"
	}

	if m.state == loginStateSubmitting {
		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("%s Signing in...", m.spinner.View()),
		)
	}

	lines := []string{titleStyle.Render(header), ""}

	if m.errMessage != "" {
		lines = append(lines, errStyle.Render(m.errMessage), "")
	}

	if m.status != "" {
		lines = append(lines, okStyle.Render(m.status), "")
	}

	lines = append(lines, m.form.View(), "", faintStyle.Render(m.ShortHelp()))

	return lipgloss.NewStyle().Padding(1, 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, lines...),
	)
}

// Messages

type authResultMsg struct {
	err error
}

func (m LoginModel) loginCmd() tea.Cmd {
	creds := model.Credentials{Email: m.formEmail, Password: m.formPassword}
	deps := m.deps

	return func() tea.Msg {
		if err := creds.Validate(); err != nil {
			return authResultMsg{err: err}
		}

		ctx, cancel := deps.APICtx()
		defer cancel()

		auth, err := deps.API.Login(ctx, creds)
		if err != nil {
			return authResultMsg{err: err}
		}

		if err := deps.Session.Login(auth.Token, &auth.User); err != nil {
			return authResultMsg{err: err}
		}

		return authResultMsg{}
	}
}

type registerResultMsg struct {
	err error
}

func (m LoginModel) registerCmd() tea.Cmd {
	params := model.RegisterParams{
		FullName:        m.formName,
		Email:           m.formEmail,
		Password:        m.formPassword,
		ProfileImageURL: strings.TrimSpace(m.formImage),
	}
	deps := m.deps

	return func() tea.Msg {
		ctx, cancel := deps.APICtx()
		defer cancel()

		// A local image path becomes a hosted URL first.
		if params.ProfileImageURL != "" && deps.Uploads.Enabled() {
			if _, statErr := os.Stat(params.ProfileImageURL); statErr == nil {
				url, err := deps.Uploads.Image(ctx, params.ProfileImageURL)
				if err != nil {
					return registerResultMsg{err: err}
				}

				params.ProfileImageURL = url
			}
		}

		return registerResultMsg{err: deps.API.Register(ctx, params)}
	}
}
