package view

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fintrack/fintrack/internal/api"
	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/report"
	"github.com/fintrack/fintrack/internal/session"
	"github.com/fintrack/fintrack/internal/store"
	"github.com/fintrack/fintrack/internal/upload"
)

// Deps wires the views to the gateway, session and domain stores. Each
// store is its collection's only writer; views read snapshots and ask for
// refreshes after confirmed mutations.
type Deps struct {
	API     *api.Client
	Session *session.Manager
	Reports *report.Service
	Uploads *upload.Service

	// Timeout bounds each gateway call, mirroring the transport timeout
	// the gateway's http.Client was built with.
	Timeout time.Duration

	Categories *store.Store[[]model.Category]
	Incomes    *store.Store[[]model.Transaction]
	Expenses   *store.Store[[]model.Transaction]
	Dashboard  *store.Store[model.DashboardSummary]

	// DownloadDir receives spreadsheet report downloads.
	DownloadDir string
}

func titleCase(t model.Type) string {
	if t == model.TypeIncome {
		return "Income"
	}

	return "Expense"
}

// CommonModel is embedded by all views.
type CommonModel struct {
	Width  int
	Height int
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

const defaultTimeout = 10 * time.Second

// APICtx returns a context bounded by the configured gateway timeout.
func (d *Deps) APICtx() (context.Context, context.CancelFunc) {
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return context.WithTimeout(context.Background(), timeout)
}

var (
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	faintStyle  = lipgloss.NewStyle().Faint(true)
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
)

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
