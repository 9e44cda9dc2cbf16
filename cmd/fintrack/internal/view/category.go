package view

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/fintrack/fintrack/internal/api"
	"github.com/fintrack/fintrack/internal/model"
)

type categoryState int

const (
	categoryStateBrowse categoryState = iota
	categoryStateEditing
	categoryStateSubmitting
)

// CategoryModel manages the category page: list, add and edit. Categories
// are never deleted through this client.
type CategoryModel struct {
	CommonModel
	deps *Deps

	state      categoryState
	table      table.Model
	spinner    spinner.Model
	loading    bool
	status     string
	errMessage string

	editing *model.Category // nil when adding

	form     *huh.Form
	formName string
	formType model.Type
	formIcon string
}

func NewCategoryModel(deps *Deps) CategoryModel {
	columns := []table.Column{
		{Title: "Name", Width: 28},
		{Title: "Type", Width: 10},
		{Title: "Icon", Width: 20},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(14),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return CategoryModel{deps: deps, table: t, spinner: sp, loading: true}
}

func (m CategoryModel) Title() string { return "Categories" }

func (m CategoryModel) ShortHelp() string {
	if m.state == categoryStateEditing {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | a: add | e: edit | r: refresh"
}

func (m CategoryModel) Init() tea.Cmd {
	return m.refreshCmd()
}

func (m CategoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case categoriesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errMessage = api.UserMessage(msg.err, "Failed to fetch categories.")
			return m, nil
		}

		m.errMessage = ""
		m.refreshTable()

		return m, nil

	case categorySavedMsg:
		if msg.err != nil {
			// Reopen the form so the input can be corrected. The
			// completed form would submit again on the next message.
			m.state = categoryStateEditing
			m.errMessage = api.UserMessage(msg.err, "Failed to save category!")
			m.form = m.buildEditForm()

			return m, m.form.Init()
		}

		verb := "added"
		if m.editing != nil {
			verb = "updated"
		}

		m.state = categoryStateBrowse
		m.form = nil
		m.editing = nil
		m.table.Focus()
		m.errMessage = ""
		m.status = fmt.Sprintf("Category %s successfully", verb)
		m.loading = true

		return m, m.refreshCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case categoryStateBrowse:
		return m.updateBrowse(msg)
	case categoryStateEditing:
		return m.updateEditing(msg)
	case categoryStateSubmitting:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m CategoryModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			if m.deps.Categories.Loading() {
				return m, nil
			}

			m.loading = true
			m.status = ""

			return m, m.refreshCmd()
		case "a":
			m.editing = nil
			return m.enterEditMode()
		case "e":
			categories := m.deps.Categories.Get()
			idx := m.table.Cursor()
			if idx < 0 || idx >= len(categories) {
				return m, nil
			}

			selected := categories[idx]
			m.editing = &selected

			return m.enterEditMode()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m CategoryModel) enterEditMode() (tea.Model, tea.Cmd) {
	if m.editing != nil {
		m.formName = m.editing.Name
		m.formType = m.editing.Type
		m.formIcon = m.editing.Icon
	} else {
		m.formName = ""
		m.formType = model.TypeIncome
		m.formIcon = ""
	}

	m.form = m.buildEditForm()
	m.state = categoryStateEditing
	m.table.Blur()

	return m, m.form.Init()
}

// buildEditForm pre-fills from the saved field copies, so rebuilding after
// a failed save keeps the entered values.
func (m CategoryModel) buildEditForm() *huh.Form {
	existing := m.deps.Categories.Get()

	var selfID int64
	if m.editing != nil {
		selfID = m.editing.ID
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Category Name").
				Value(&m.formName).
				Validate(func(s string) error {
					params := model.AddCategoryParams{Name: s}
					return params.Validate(existing, selfID)
				}),

			huh.NewSelect[model.Type]().
				Key("type").
				Title("Type").
				Options(
					huh.NewOption("Income", model.TypeIncome),
					huh.NewOption("Expense", model.TypeExpense),
				).
				Value(&m.formType),

			huh.NewInput().
				Key("icon").
				Title("Icon").
				Description("Emoji, image URL, or a local image path to upload").
				Value(&m.formIcon),
		),
	).WithWidth(48).WithShowHelp(false)
}

func (m CategoryModel) updateEditing(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = categoryStateBrowse
			m.form = nil
			m.editing = nil
			m.table.Focus()

			return m, nil
		}
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
	m.formName = m.form.GetString("name")
	m.formIcon = m.form.GetString("icon")
	if t, ok := m.form.Get("type").(model.Type); ok {
		m.formType = t
	}

	m.state = categoryStateSubmitting

	return m, tea.Batch(m.spinner.Tick, m.saveCmd())
}

func (m CategoryModel) View() string {
	switch m.state {
	case categoryStateSubmitting:
		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("%s Saving category...", m.spinner.View()),
		)

	case categoryStateEditing:
		if m.form == nil {
			return ""
		}

		header := "Add New Category"
		if m.editing != nil {
			header = "Update Category"
		}

		body := titleStyle.Render(header) + "\n\n" + m.form.View()
		if m.errMessage != "" {
			body = errStyle.Render(m.errMessage) + "\n\n" + body
		}

		return lipgloss.NewStyle().Padding(1, 2).Render(body)
	}

	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading categories...")
	}

	content := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	switch {
	case m.errMessage != "":
		content = errStyle.Render(m.errMessage) + "\n" + content
	case m.status != "":
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *CategoryModel) refreshTable() {
	categories := m.deps.Categories.Get()

	rows := make([]table.Row, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, table.Row{c.Name, string(c.Type), c.Icon})
	}

	m.table.SetRows(rows)
}

// Messages

type categoriesLoadedMsg struct {
	err error
}

func (m CategoryModel) refreshCmd() tea.Cmd {
	deps := m.deps
	categories := deps.Categories

	return func() tea.Msg {
		ctx, cancel := deps.APICtx()
		defer cancel()

		_, err := categories.Refresh(ctx)

		return categoriesLoadedMsg{err: err}
	}
}

type categorySavedMsg struct {
	err error
}

func (m CategoryModel) saveCmd() tea.Cmd {
	params := model.AddCategoryParams{
		Name: strings.TrimSpace(m.formName),
		Type: m.formType,
		Icon: strings.TrimSpace(m.formIcon),
	}
	deps := m.deps
	existing := deps.Categories.Get()

	var editingID int64
	if m.editing != nil {
		editingID = m.editing.ID
	}

	return func() tea.Msg {
		// Duplicate names are rejected here, before any request is sent,
		// as defense in depth alongside the server's own check.
		if err := params.Validate(existing, editingID); err != nil {
			return categorySavedMsg{err: err}
		}

		ctx, cancel := deps.APICtx()
		defer cancel()

		// A local image path becomes a hosted URL first.
		if params.Icon != "" && deps.Uploads.Enabled() {
			if _, statErr := os.Stat(params.Icon); statErr == nil {
				url, err := deps.Uploads.Image(ctx, params.Icon)
				if err != nil {
					return categorySavedMsg{err: err}
				}

				params.Icon = url
			}
		}

		var err error
		if editingID != 0 {
			err = deps.API.UpdateCategory(ctx, editingID, params)
		} else {
			_, err = deps.API.AddCategory(ctx, params)
		}

		return categorySavedMsg{err: err}
	}
}
