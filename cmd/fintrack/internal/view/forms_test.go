package view

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/store"
)

func testDeps() *Deps {
	return &Deps{
		Categories: store.New(func(ctx context.Context) ([]model.Category, error) {
			return nil, nil
		}),
		Incomes: store.New(func(ctx context.Context) ([]model.Transaction, error) {
			return nil, nil
		}),
		Expenses: store.New(func(ctx context.Context) ([]model.Transaction, error) {
			return nil, nil
		}),
		Dashboard: store.New(func(ctx context.Context) (model.DashboardSummary, error) {
			return model.DashboardSummary{}, nil
		}),
	}
}

func TestTransactionsModel_FailedAddReopensForm(t *testing.T) {
	m := NewTransactionsModel(testDeps(), model.TypeIncome)

	categories := []model.Category{{ID: 1, Name: "Salary", Type: model.TypeIncome}}

	updated, _ := m.Update(txCategoriesMsg{categories: categories})
	tm := updated.(TransactionsModel)
	require.Equal(t, txStateAdding, tm.state)
	require.NotNil(t, tm.form)

	// Simulate a submitted form whose request failed.
	tm.form.State = huh.StateCompleted
	tm.state = txStateSubmitting
	tm.formName = "Bonus"
	tm.formAmount = "500"

	updated, _ = tm.Update(txAddResultMsg{err: errors.New("boom")})
	tm = updated.(TransactionsModel)

	assert.Equal(t, txStateAdding, tm.state)
	assert.NotEmpty(t, tm.errMessage)

	// The form was rebuilt: no longer completed, entered values kept.
	require.NotNil(t, tm.form)
	assert.NotEqual(t, huh.StateCompleted, tm.form.State)
	assert.Equal(t, "Bonus", tm.formName)
	assert.Equal(t, "500", tm.formAmount)

	// A stray spinner tick must not resubmit the failed payload.
	updated, _ = tm.Update(tm.spinner.Tick())
	tm = updated.(TransactionsModel)
	assert.Equal(t, txStateAdding, tm.state)
}

func TestCategoryModel_FailedSaveReopensForm(t *testing.T) {
	m := NewCategoryModel(testDeps())

	updated, _ := m.updateBrowse(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	cm := updated.(CategoryModel)
	require.Equal(t, categoryStateEditing, cm.state)
	require.NotNil(t, cm.form)

	cm.form.State = huh.StateCompleted
	cm.state = categoryStateSubmitting
	cm.formName = "Travel"

	updated, _ = cm.Update(categorySavedMsg{err: errors.New("boom")})
	cm = updated.(CategoryModel)

	assert.Equal(t, categoryStateEditing, cm.state)
	assert.NotEmpty(t, cm.errMessage)

	require.NotNil(t, cm.form)
	assert.NotEqual(t, huh.StateCompleted, cm.form.State)
	assert.Equal(t, "Travel", cm.formName)

	updated, _ = cm.Update(cm.spinner.Tick())
	cm = updated.(CategoryModel)
	assert.Equal(t, categoryStateEditing, cm.state)
}

func TestDeps_APICtx(t *testing.T) {
	d := testDeps()
	d.Timeout = 250 * time.Millisecond

	ctx, cancel := d.APICtx()
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.LessOrEqual(t, time.Until(deadline), 250*time.Millisecond)
	assert.Greater(t, time.Until(deadline), 100*time.Millisecond)

	// Zero falls back to the default rather than an instant deadline.
	d.Timeout = 0

	ctx, cancel = d.APICtx()
	defer cancel()

	deadline, ok = ctx.Deadline()
	require.True(t, ok)
	assert.Greater(t, time.Until(deadline), time.Second)
}
