package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fintrack/fintrack/cmd/fintrack/internal/view"
	"github.com/fintrack/fintrack/internal/api"
	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/store"
)

type tuiModel struct {
	deps *view.Deps

	currentView View

	sessionInvalid chan struct{}

	loginView     view.LoginModel
	dashboardView view.DashboardModel
	incomeView    view.TransactionsModel
	expenseView   view.TransactionsModel
	categoryView  view.CategoryModel
	filterView    view.FilterModel
}

type View int

const (
	ViewLogin     View = 0
	ViewMenu      View = 1
	ViewDashboard View = 2
	ViewIncome    View = 3
	ViewExpense   View = 4
	ViewCategory  View = 5
	ViewFilter    View = 6
)

// sessionInvalidMsg arrives when the gateway hit a 401 and the session
// was cleared. The root model swaps back to the login view.
type sessionInvalidMsg struct{}

func newDeps(a *app) *view.Deps {
	client := a.api

	return &view.Deps{
		API:     client,
		Session: a.session,
		Reports: a.reports,
		Uploads: a.uploads,
		Timeout: a.cfg.API.Timeout,

		Categories: store.New(func(ctx context.Context) ([]model.Category, error) {
			return client.Categories(ctx)
		}),
		Incomes: store.New(func(ctx context.Context) ([]model.Transaction, error) {
			return client.Incomes(ctx)
		}),
		Expenses: store.New(func(ctx context.Context) ([]model.Transaction, error) {
			return client.Expenses(ctx)
		}),
		Dashboard: store.New(func(ctx context.Context) (model.DashboardSummary, error) {
			summary, err := client.Dashboard(ctx)
			if err != nil {
				return model.DashboardSummary{}, err
			}

			return *summary, nil
		}),

		DownloadDir: a.cfg.DownloadDir,
	}
}

func initialTUIModel(a *app) tuiModel {
	deps := newDeps(a)

	// A saved token is only trusted after the profile endpoint accepts
	// it. A stale token is cleared here instead of surfacing as a 401 on
	// the first protected view.
	startView := ViewLogin

	if a.session.Authenticated() {
		ctx, cancel := deps.APICtx()
		defer cancel()

		user, err := a.api.Profile(ctx)
		switch {
		case err == nil:
			a.session.SetUser(user)

			startView = ViewMenu
		case errors.Is(err, api.ErrUnauthorized):
			// Already cleared by the gateway.
		default:
			slog.Warn("failed to validate saved session", "error", err)
		}
	}

	invalid := make(chan struct{}, 1)
	a.session.OnInvalidate(func() {
		select {
		case invalid <- struct{}{}:
		default:
		}
	})

	return tuiModel{
		deps:           deps,
		currentView:    startView,
		sessionInvalid: invalid,
		loginView:      view.NewLoginModel(deps),
		dashboardView:  view.NewDashboardModel(deps),
		incomeView:     view.NewTransactionsModel(deps, model.TypeIncome),
		expenseView:    view.NewTransactionsModel(deps, model.TypeExpense),
		categoryView:   view.NewCategoryModel(deps),
		filterView:     view.NewFilterModel(deps),
	}
}

func (m tuiModel) waitForInvalidation() tea.Cmd {
	return func() tea.Msg {
		<-m.sessionInvalid
		return sessionInvalidMsg{}
	}
}

func (m tuiModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.waitForInvalidation()}
	if m.currentView == ViewLogin {
		cmds = append(cmds, m.loginView.Init())
	}

	return tea.Batch(cmds...)
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewDashboard
				m.dashboardView = view.NewDashboardModel(m.deps)

				return m, m.dashboardView.Init()
			case "2":
				m.currentView = ViewIncome
				m.incomeView = view.NewTransactionsModel(m.deps, model.TypeIncome)

				return m, m.incomeView.Init()
			case "3":
				m.currentView = ViewExpense
				m.expenseView = view.NewTransactionsModel(m.deps, model.TypeExpense)

				return m, m.expenseView.Init()
			case "4":
				m.currentView = ViewCategory
				m.categoryView = view.NewCategoryModel(m.deps)

				return m, m.categoryView.Init()
			case "5":
				m.currentView = ViewFilter
				m.filterView = view.NewFilterModel(m.deps)

				return m, m.filterView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	case view.LoginSuccessMsg:
		m.currentView = ViewMenu
		return m, nil
	case sessionInvalidMsg:
		m.currentView = ViewLogin
		m.loginView = view.NewLoginModel(m.deps)

		return m, tea.Batch(m.loginView.Init(), m.waitForInvalidation())
	}

	switch m.currentView {
	case ViewLogin:
		var newModel tea.Model
		newModel, cmd = m.loginView.Update(msg)
		m.loginView = newModel.(view.LoginModel)
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewIncome:
		var newModel tea.Model
		newModel, cmd = m.incomeView.Update(msg)
		m.incomeView = newModel.(view.TransactionsModel)
	case ViewExpense:
		var newModel tea.Model
		newModel, cmd = m.expenseView.Update(msg)
		m.expenseView = newModel.(view.TransactionsModel)
	case ViewCategory:
		var newModel tea.Model
		newModel, cmd = m.categoryView.Update(msg)
		m.categoryView = newModel.(view.CategoryModel)
	case ViewFilter:
		var newModel tea.Model
		newModel, cmd = m.filterView.Update(msg)
		m.filterView = newModel.(view.FilterModel)
	}

	return m, cmd
}

func (m tuiModel) View() string {
	switch m.currentView {
	case ViewLogin:
		return m.loginView.View()
	case ViewMenu:
		greeting := "Fintrack"
		if user := m.deps.Session.User(); user != nil && user.FullName != "" {
			greeting = fmt.Sprintf("Fintrack: welcome, %s", user.FullName)
		}

		return lipgloss.NewStyle().Padding(2).Render(
			greeting + "\n\n" +
				"1. Dashboard\n" +
				"2. Income\n" +
				"3. Expenses\n" +
				"4. Categories\n" +
				"5. Filter Transactions\n\n" +
				"q. Quit",
		)
	case ViewDashboard:
		return m.dashboardView.View()
	case ViewIncome:
		return m.incomeView.View()
	case ViewExpense:
		return m.expenseView.View()
	case ViewCategory:
		return m.categoryView.View()
	case ViewFilter:
		return m.filterView.View()
	}

	return "Unknown View"
}

func runTUI(a *app) error {
	p := tea.NewProgram(initialTUIModel(a))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}
