package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack/internal/api"
	"github.com/fintrack/fintrack/internal/chart"
	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/store"
)

type txState int

const (
	txStateBrowse txState = iota
	txStateAdding
	txStateSubmitting
	txStateConfirmDelete
)

// TransactionsModel is the page for one transaction type. Income and
// expense records share the shape, so one model serves both pages.
type TransactionsModel struct {
	CommonModel
	deps *Deps
	kind model.Type

	state      txState
	table      table.Model
	spinner    spinner.Model
	loading    bool
	reportBusy bool
	status     string
	errMessage string

	pickCategories []model.Category
	deleteTarget   *model.Transaction

	form       *huh.Form
	formName   string
	formAmount string
	formDate   string
	formIcon   string
	formCatID  int64
}

func NewTransactionsModel(deps *Deps, kind model.Type) TransactionsModel {
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

	return TransactionsModel{
		deps:    deps,
		kind:    kind,
		table:   t,
		spinner: sp,
		loading: true,
	}
}

func (m TransactionsModel) store() *store.Store[[]model.Transaction] {
	if m.kind == model.TypeIncome {
		return m.deps.Incomes
	}

	return m.deps.Expenses
}

func (m TransactionsModel) Title() string {
	if m.kind == model.TypeIncome {
		return "Income"
	}

	return "Expense"
}

func (m TransactionsModel) ShortHelp() string {
	switch m.state {
	case txStateAdding:
		return "Navigate form | Esc: cancel"
	case txStateConfirmDelete:
		return "y: delete | n/Esc: cancel"
	}

	return "Esc: back | a: add | x: delete | d: download report | m: email report | r: refresh"
}

func (m TransactionsModel) Init() tea.Cmd {
	return m.refreshCmd()
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case txLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errMessage = api.UserMessage(msg.err, fmt.Sprintf("Failed to fetch %s details.", m.kind))
			return m, nil
		}

		m.errMessage = ""
		m.refreshTable()

		return m, nil

	case txCategoriesMsg:
		if msg.err != nil {
			m.errMessage = api.UserMessage(msg.err, fmt.Sprintf("Failed to fetch %s categories.", m.kind))
			return m, nil
		}

		if len(msg.categories) == 0 {
			m.errMessage = fmt.Sprintf("No %s categories yet. Add one first.", m.kind)
			return m, nil
		}

		m.pickCategories = msg.categories

		return m.enterAddMode()

	case txAddResultMsg:
		if msg.err != nil {
			// Reopen the form so the input can be corrected. The
			// completed form would submit again on the next message.
			m.state = txStateAdding
			m.errMessage = api.UserMessage(msg.err, fmt.Sprintf("Failed to add %s", m.kind))
			m.form = m.buildAddForm()

			return m, m.form.Init()
		}

		m.state = txStateBrowse
		m.form = nil
		m.table.Focus()
		m.errMessage = ""
		m.status = fmt.Sprintf("%s added successfully", titleCase(m.kind))
		m.loading = true

		return m, m.refreshCmd()

	case txDeleteResultMsg:
		m.state = txStateBrowse
		m.deleteTarget = nil
		if msg.err != nil {
			m.errMessage = api.UserMessage(msg.err, fmt.Sprintf("Failed to delete %s", m.kind))
			return m, nil
		}

		m.errMessage = ""
		m.status = fmt.Sprintf("%s deleted successfully", titleCase(m.kind))
		m.loading = true

		return m, m.refreshCmd()

	case txReportMsg:
		m.reportBusy = false
		if msg.err != nil {
			m.errMessage = api.UserMessage(msg.err, "Report request failed")
			return m, nil
		}

		m.errMessage = ""
		if msg.emailed {
			m.status = fmt.Sprintf("%s details emailed successfully", titleCase(m.kind))
		} else {
			m.status = fmt.Sprintf("Report saved to %s", msg.path)
		}

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 14)
		return m, nil
	}

	switch m.state {
	case txStateBrowse:
		return m.updateBrowse(msg)
	case txStateAdding:
		return m.updateAdding(msg)
	case txStateSubmitting:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	case txStateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	return m, nil
}

func (m TransactionsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			if m.store().Loading() {
				return m, nil
			}

			m.loading = true
			m.status = ""

			return m, m.refreshCmd()
		case "a":
			return m, m.loadCategoriesCmd()
		case "x", "delete":
			txs := m.store().Get()
			idx := m.table.Cursor()
			if idx < 0 || idx >= len(txs) {
				return m, nil
			}

			target := txs[idx]
			m.deleteTarget = &target
			m.state = txStateConfirmDelete

			return m, nil
		case "d":
			if m.reportBusy {
				return m, nil
			}

			m.reportBusy = true
			m.status = ""

			return m, tea.Batch(m.spinner.Tick, m.downloadCmd())
		case "m":
			if m.reportBusy {
				return m, nil
			}

			m.reportBusy = true
			m.status = ""

			return m, tea.Batch(m.spinner.Tick, m.emailCmd())
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m TransactionsModel) enterAddMode() (tea.Model, tea.Cmd) {
	m.formName = ""
	m.formAmount = ""
	m.formDate = model.Today().String()
	m.formIcon = ""
	m.formCatID = m.pickCategories[0].ID

	m.form = m.buildAddForm()
	m.state = txStateAdding
	m.table.Blur()

	return m, m.form.Init()
}

// buildAddForm pre-fills from the saved field copies, so rebuilding after
// a failed submit keeps the entered values.
func (m TransactionsModel) buildAddForm() *huh.Form {
	options := make([]huh.Option[int64], len(m.pickCategories))
	for i, c := range m.pickCategories {
		options[i] = huh.NewOption(c.Name, c.ID)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Placeholder("e.g. Salary, Groceries").
				Value(&m.formName).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return model.ErrNameRequired
					}
					return nil
				}),

			huh.NewSelect[int64]().
				Key("category").
				Title("Category").
				Options(options...).
				Value(&m.formCatID),

			huh.NewInput().
				Key("amount").
				Title("Amount").
				Placeholder("0.00").
				Value(&m.formAmount).
				Validate(func(s string) error {
					amount, err := decimal.NewFromString(strings.TrimSpace(s))
					if err != nil || !amount.IsPositive() {
						return model.ErrAmountNotPositive
					}
					return nil
				}),

			huh.NewInput().
				Key("date").
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&m.formDate).
				Validate(func(s string) error {
					d, err := model.ParseDate(strings.TrimSpace(s))
					if err != nil {
						return model.ErrDateRequired
					}
					if d.After(model.Today()) {
						return model.ErrDateInFuture
					}
					return nil
				}),

			huh.NewInput().
				Key("icon").
				Title("Icon (optional)").
				Placeholder("emoji or image URL").
				Value(&m.formIcon),
		),
	).WithWidth(48).WithShowHelp(false)
}

func (m TransactionsModel) updateAdding(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = txStateBrowse
			m.form = nil
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
	m.formAmount = m.form.GetString("amount")
	m.formDate = m.form.GetString("date")
	m.formIcon = m.form.GetString("icon")
	if id, ok := m.form.Get("category").(int64); ok {
		m.formCatID = id
	}

	// The submitting state swallows further submits while this one is
	// in flight.
	m.state = txStateSubmitting

	return m, tea.Batch(m.spinner.Tick, m.addCmd())
}

func (m TransactionsModel) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "y":
		m.state = txStateSubmitting
		return m, tea.Batch(m.spinner.Tick, m.deleteCmd())
	case "n", "esc":
		m.state = txStateBrowse
		m.deleteTarget = nil

		return m, nil
	}

	return m, nil
}

func (m TransactionsModel) View() string {
	switch m.state {
	case txStateSubmitting:
		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("%s Working...", m.spinner.View()),
		)

	case txStateAdding:
		if m.form == nil {
			return ""
		}

		header := titleStyle.Render("Add " + titleCase(m.kind))
		body := header + "\n\n" + m.form.View()

		if m.errMessage != "" {
			body = errStyle.Render(m.errMessage) + "\n\n" + body
		}

		return lipgloss.NewStyle().Padding(1, 2).Render(body)

	case txStateConfirmDelete:
		name := ""
		if m.deleteTarget != nil {
			name = m.deleteTarget.Name
		}

		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("Delete %s record %q? (y/n)", m.kind, name),
		)
	}

	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("Loading %s transactions...", m.kind),
		)
	}

	txs := m.store().Get()

	parts := []string{titleStyle.Render(m.Title() + " Overview")}

	if trend := trendView(txs); trend != "" {
		parts = append(parts, trend, "")
	}

	parts = append(parts, lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View()))

	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	switch {
	case m.errMessage != "":
		content = errStyle.Render(m.errMessage) + "\n" + content
	case m.reportBusy:
		content = fmt.Sprintf("%s Preparing report...", m.spinner.View()) + "\n" + content
	case m.status != "":
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

// trendView renders the monthly totals as scaled bars, the terminal
// stand-in for the web client's trend line.
func trendView(txs []model.Transaction) string {
	points := chart.MonthlyTrend(txs)
	if len(points) == 0 {
		return ""
	}

	// Show at most the last twelve months.
	if len(points) > 12 {
		points = points[len(points)-12:]
	}

	maxTotal := points[0].Total
	for _, p := range points[1:] {
		if p.Total.GreaterThan(maxTotal) {
			maxTotal = p.Total
		}
	}

	const barWidth = 30

	rows := make([]string, 0, len(points))

	for _, p := range points {
		filled := 0
		if maxTotal.IsPositive() {
			filled = int(p.Total.Div(maxTotal).Mul(decimal.NewFromInt(barWidth)).IntPart())
		}

		bar := activeStyle.Render(strings.Repeat("▇", filled))
		rows = append(rows, fmt.Sprintf("%-9s %s %s", p.Label, bar, chart.FormatAmount(p.Total)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *TransactionsModel) refreshTable() {
	txs := m.store().Get()

	rows := make([]table.Row, 0, len(txs))
	for _, tx := range txs {
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

type txLoadedMsg struct {
	err error
}

func (m TransactionsModel) refreshCmd() tea.Cmd {
	s := m.store()
	deps := m.deps

	return func() tea.Msg {
		ctx, cancel := deps.APICtx()
		defer cancel()

		_, err := s.Refresh(ctx)

		return txLoadedMsg{err: err}
	}
}

type txCategoriesMsg struct {
	categories []model.Category
	err        error
}

func (m TransactionsModel) loadCategoriesCmd() tea.Cmd {
	deps := m.deps
	kind := m.kind

	return func() tea.Msg {
		ctx, cancel := deps.APICtx()
		defer cancel()

		categories, err := deps.API.CategoriesByType(ctx, kind)

		return txCategoriesMsg{categories: categories, err: err}
	}
}

type txAddResultMsg struct {
	err error
}

func (m TransactionsModel) addCmd() tea.Cmd {
	amount, _ := decimal.NewFromString(strings.TrimSpace(m.formAmount))
	date, _ := model.ParseDate(strings.TrimSpace(m.formDate))

	params := model.AddTransactionParams{
		Name:       strings.TrimSpace(m.formName),
		Amount:     amount,
		Date:       date,
		Icon:       strings.TrimSpace(m.formIcon),
		CategoryID: m.formCatID,
	}
	deps := m.deps
	kind := m.kind

	return func() tea.Msg {
		// Defense in depth on top of the per-field form validation: no
		// request leaves the client with an invalid payload.
		if err := params.Validate(model.Today()); err != nil {
			return txAddResultMsg{err: err}
		}

		ctx, cancel := deps.APICtx()
		defer cancel()

		var err error
		if kind == model.TypeIncome {
			_, err = deps.API.AddIncome(ctx, params)
		} else {
			_, err = deps.API.AddExpense(ctx, params)
		}

		return txAddResultMsg{err: err}
	}
}

type txDeleteResultMsg struct {
	err error
}

func (m TransactionsModel) deleteCmd() tea.Cmd {
	deps := m.deps
	kind := m.kind
	id := m.deleteTarget.ID

	return func() tea.Msg {
		ctx, cancel := deps.APICtx()
		defer cancel()

		var err error
		if kind == model.TypeIncome {
			err = deps.API.DeleteIncome(ctx, id)
		} else {
			err = deps.API.DeleteExpense(ctx, id)
		}

		return txDeleteResultMsg{err: err}
	}
}

type txReportMsg struct {
	path    string
	emailed bool
	err     error
}

func (m TransactionsModel) downloadCmd() tea.Cmd {
	deps := m.deps
	kind := m.kind

	return func() tea.Msg {
		ctx, cancel := deps.APICtx()
		defer cancel()

		path, err := deps.Reports.Download(ctx, kind, deps.DownloadDir)

		return txReportMsg{path: path, err: err}
	}
}

func (m TransactionsModel) emailCmd() tea.Cmd {
	deps := m.deps
	kind := m.kind

	return func() tea.Msg {
		ctx, cancel := deps.APICtx()
		defer cancel()

		return txReportMsg{emailed: true, err: deps.Reports.Email(ctx, kind)}
	}
}
