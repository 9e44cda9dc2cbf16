package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack/internal/api"
	"github.com/fintrack/fintrack/internal/chart"
	"github.com/fintrack/fintrack/internal/model"
)

type DashboardModel struct {
	CommonModel
	deps *Deps

	loading bool
	status  string
}

func NewDashboardModel(deps *Deps) DashboardModel {
	return DashboardModel{deps: deps, loading: true}
}

func (m DashboardModel) Title() string     { return "Dashboard" }
func (m DashboardModel) ShortHelp() string { return "Esc: back | r: refresh" }

func (m DashboardModel) Init() tea.Cmd {
	return m.refreshCmd()
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.status = api.UserMessage(msg.err, "Something went wrong!")
		} else {
			m.status = ""
		}

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			if m.deps.Dashboard.Loading() {
				return m, nil
			}

			m.loading = true

			return m, m.refreshCmd()
		}
	}

	return m, nil
}

func (m DashboardModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading dashboard...")
	}

	summary := m.deps.Dashboard.Get()

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		infoCard("Total Balance", summary.TotalBalance, "57"),
		infoCard("Total Income", summary.TotalIncome, "28"),
		infoCard("Total Expense", summary.TotalExpense, "124"),
	)

	overview := financeOverview(summary)

	columns := lipgloss.JoinHorizontal(lipgloss.Top,
		recentPanel("Recent Transactions", summary.RecentTransactions),
		recentPanel("Recent Income", summary.Recent5Incomes),
		recentPanel("Recent Expense", summary.Recent5Expenses),
	)

	content := lipgloss.JoinVertical(lipgloss.Left, cards, "", overview, "", columns)

	if m.status != "" {
		content = errStyle.Render(m.status) + "\n\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func infoCard(label string, amount decimal.Decimal, color string) string {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(color)).
		Padding(0, 2).
		MarginRight(2).
		Render(fmt.Sprintf("%s\n%s", faintStyle.Render(label), chart.FormatAmount(amount)))
}

// financeOverview renders income vs expense as proportion bars, the
// terminal stand-in for the web client's pie chart.
func financeOverview(summary model.DashboardSummary) string {
	total := summary.TotalIncome.Add(summary.TotalExpense)
	if !total.IsPositive() {
		return faintStyle.Render("No financial activity yet.")
	}

	const barWidth = 40

	rows := []string{titleStyle.Render("Financial Overview")}

	for _, seg := range []struct {
		label  string
		amount decimal.Decimal
		color  string
	}{
		{"Income ", summary.TotalIncome, "28"},
		{"Expense", summary.TotalExpense, "124"},
	} {
		share := seg.amount.Div(total)
		filled := int(share.Mul(decimal.NewFromInt(barWidth)).IntPart())
		bar := lipgloss.NewStyle().Foreground(lipgloss.Color(seg.color)).
			Render(strings.Repeat("█", filled)) +
			faintStyle.Render(strings.Repeat("░", barWidth-filled))

		rows = append(rows, fmt.Sprintf("%s %s %s", seg.label, bar, chart.FormatAmount(seg.amount)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func recentPanel(title string, txs []model.Transaction) string {
	lines := []string{titleStyle.Render(title)}

	if len(txs) == 0 {
		lines = append(lines, faintStyle.Render("Nothing here yet."))
	}

	for i, tx := range txs {
		if i >= 5 {
			break
		}

		lines = append(lines, fmt.Sprintf("%s  %10s  %s",
			FormatDate(tx.Date.Time), chart.FormatAmount(tx.Amount), tx.Name))
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		MarginRight(2).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// Messages

type dashboardLoadedMsg struct {
	err error
}

func (m DashboardModel) refreshCmd() tea.Cmd {
	deps := m.deps
	dashboard := deps.Dashboard

	return func() tea.Msg {
		ctx, cancel := deps.APICtx()
		defer cancel()

		_, err := dashboard.Refresh(ctx)

		return dashboardLoadedMsg{err: err}
	}
}
