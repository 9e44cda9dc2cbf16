package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/fintrack/fintrack/internal/api"
	"github.com/fintrack/fintrack/internal/chart"
	"github.com/fintrack/fintrack/internal/model"
)

type filterState int

const (
	filterStateForm filterState = iota
	filterStateQuerying
	filterStateResults
)

// FilterModel is the transaction search page. The query lives only here
// and is never persisted; the server does the filtering and sorting.
type FilterModel struct {
	CommonModel
	deps *Deps

	state      filterState
	form       *huh.Form
	table      table.Model
	spinner    spinner.Model
	errMessage string

	query    model.FilterQuery
	results  []model.Transaction
	searched bool

	formType      model.Type
	formStart     string
	formEnd       string
	formKeyword   string
	formSortField model.SortField
	formSortOrder model.SortOrder
}

func NewFilterModel(deps *Deps) FilterModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Amount", Width: 14},
		{Title: "Name", Width: 32},
		{Title: "Icon", Width: 8},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
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

	m := FilterModel{
		deps:    deps,
		table:   t,
		spinner: sp,
		query:   model.DefaultFilterQuery(),
	}
	m.resetFormFields()
	m.form = m.buildForm()

	return m
}

func (m FilterModel) Title() string { return "Filter Transactions" }

func (m FilterModel) ShortHelp() string {
	switch m.state {
	case filterStateResults:
		return "Esc: back to filters | c: clear filters | q: back to menu"
	case filterStateQuerying:
		return "Searching..."
	}

	return "Navigate form | Enter: search | Ctrl+L: clear | Esc: back"
}

func (m FilterModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m *FilterModel) resetFormFields() {
	m.formType = m.query.Type
	m.formStart = ""
	m.formEnd = ""
	m.formKeyword = m.query.Keyword
	m.formSortField = m.query.SortField
	m.formSortOrder = m.query.SortOrder

	if m.query.StartDate != nil {
		m.formStart = m.query.StartDate.String()
	}

	if m.query.EndDate != nil {
		m.formEnd = m.query.EndDate.String()
	}
}

// clear resets the query to its defaults and empties the result set. It
// does not re-trigger a search.
func (m *FilterModel) clear() tea.Cmd {
	m.query = model.DefaultFilterQuery()
	m.results = nil
	m.searched = false
	m.errMessage = ""
	m.table.SetRows(nil)
	m.resetFormFields()
	m.form = m.buildForm()
	m.state = filterStateForm

	return m.form.Init()
}

func (m FilterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case filterResultMsg:
		if msg.err != nil {
			// Keep the previous result set; only the notification changes.
			m.state = filterStateForm
			m.errMessage = api.UserMessage(msg.err, "Failed to fetch transactions, please try again.")
			m.form = m.buildForm()

			return m, m.form.Init()
		}

		m.state = filterStateResults
		m.errMessage = ""
		m.searched = true
		m.results = msg.transactions
		m.refreshTable()
		m.table.Focus()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 12)
		return m, nil
	}

	switch m.state {
	case filterStateForm:
		return m.updateForm(msg)
	case filterStateQuerying:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	case filterStateResults:
		return m.updateResults(msg)
	}

	return m, nil
}

func (m FilterModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "ctrl+l":
			cmd := m.clear()
			return m, cmd
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
	m.formStart = m.form.GetString("startDate")
	m.formEnd = m.form.GetString("endDate")
	m.formKeyword = m.form.GetString("keyword")
	if t, ok := m.form.Get("type").(model.Type); ok {
		m.formType = t
	}
	if f, ok := m.form.Get("sortField").(model.SortField); ok {
		m.formSortField = f
	}
	if o, ok := m.form.Get("sortOrder").(model.SortOrder); ok {
		m.formSortOrder = o
	}

	query, err := m.buildQuery()
	if err != nil {
		// Blocked before any request is sent.
		m.errMessage = err.Error()
		m.form = m.buildForm()

		return m, m.form.Init()
	}

	m.query = query
	m.state = filterStateQuerying
	m.errMessage = ""

	return m, tea.Batch(m.spinner.Tick, m.searchCmd(query))
}

func (m FilterModel) updateResults(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.state = filterStateForm
			m.form = m.buildForm()

			return m, m.form.Init()
		case "c":
			cmd := m.clear()
			return m, cmd
		case "q":
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m FilterModel) buildQuery() (model.FilterQuery, error) {
	query := model.FilterQuery{
		Type:      m.formType,
		Keyword:   strings.TrimSpace(m.formKeyword),
		SortField: m.formSortField,
		SortOrder: m.formSortOrder,
	}

	if s := strings.TrimSpace(m.formStart); s != "" {
		d, err := model.ParseDate(s)
		if err != nil {
			return query, fmt.Errorf("invalid start date %q", s)
		}

		query.StartDate = &d
	}

	if s := strings.TrimSpace(m.formEnd); s != "" {
		d, err := model.ParseDate(s)
		if err != nil {
			return query, fmt.Errorf("invalid end date %q", s)
		}

		query.EndDate = &d
	}

	if err := query.Validate(); err != nil {
		return query, err
	}

	return query, nil
}

func (m FilterModel) buildForm() *huh.Form {
	dateValidate := func(s string) error {
		if strings.TrimSpace(s) == "" {
			return nil
		}

		if _, err := model.ParseDate(strings.TrimSpace(s)); err != nil {
			return fmt.Errorf("use YYYY-MM-DD")
		}

		return nil
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[model.Type]().
				Key("type").
				Title("Transaction Type").
				Options(
					huh.NewOption("Income", model.TypeIncome),
					huh.NewOption("Expense", model.TypeExpense),
				).
				Value(&m.formType),

			huh.NewInput().
				Key("startDate").
				Title("Start Date").
				Placeholder("YYYY-MM-DD").
				Value(&m.formStart).
				Validate(dateValidate),

			huh.NewInput().
				Key("endDate").
				Title("End Date").
				Placeholder("YYYY-MM-DD").
				Value(&m.formEnd).
				Validate(dateValidate),

			huh.NewInput().
				Key("keyword").
				Title("Search Keyword").
				Placeholder("Enter keyword...").
				Value(&m.formKeyword),

			huh.NewSelect[model.SortField]().
				Key("sortField").
				Title("Sort By").
				Options(
					huh.NewOption("Date", model.SortByDate),
					huh.NewOption("Amount", model.SortByAmount),
					huh.NewOption("Category", model.SortByCategory),
				).
				Value(&m.formSortField),

			huh.NewSelect[model.SortOrder]().
				Key("sortOrder").
				Title("Sort Order").
				Options(
					huh.NewOption("Ascending", model.SortAsc),
					huh.NewOption("Descending", model.SortDesc),
				).
				Value(&m.formSortOrder),
		),
	).WithWidth(48).WithShowHelp(false)
}

func (m FilterModel) View() string {
	switch m.state {
	case filterStateQuerying:
		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("%s Searching transactions...", m.spinner.View()),
		)

	case filterStateResults:
		return m.viewResults()
	}

	body := titleStyle.Render("Filter Transactions") + "\n\n" + m.form.View()

	if m.errMessage != "" {
		body = errStyle.Render(m.errMessage) + "\n\n" + body
	}

	if m.searched {
		body += "\n" + faintStyle.Render(fmt.Sprintf("Previous search: %d result(s)", len(m.results)))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(body)
}

func (m FilterModel) viewResults() string {
	header := fmt.Sprintf("Found %d transaction(s) | Total: %s",
		len(m.results), chart.FormatAmount(chart.Sum(m.results)))

	if len(m.results) == 0 {
		header = "No transactions found with the selected filters"
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(titleCase(m.query.Type)+" Results"),
		faintStyle.Render(header),
		lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Render(m.table.View()),
	)

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *FilterModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.results))
	for _, tx := range m.results {
		rows = append(rows, table.Row{
			FormatDate(tx.Date.Time),
			chart.FormatAmount(tx.Amount),
			tx.Name,
			tx.Icon,
		})
	}

	m.table.SetRows(rows)
}

// Messages

type filterResultMsg struct {
	transactions []model.Transaction
	err          error
}

func (m FilterModel) searchCmd(query model.FilterQuery) tea.Cmd {
	deps := m.deps

	return func() tea.Msg {
		ctx, cancel := deps.APICtx()
		defer cancel()

		txs, err := deps.API.Filter(ctx, query)

		return filterResultMsg{transactions: txs, err: err}
	}
}
