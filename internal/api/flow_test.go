package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrack/fintrack/internal/api"
	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/store"
)

// fakeServer is an in-memory stand-in for the money-manager API, enough
// to walk the add/list/delete/dashboard/filter cycle end to end.
type fakeServer struct {
	nextID   int64
	incomes  []model.Transaction
	expenses []model.Transaction
}

func (f *fakeServer) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /incomes", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(f.incomes)
	})
	mux.HandleFunc("POST /incomes", func(w http.ResponseWriter, r *http.Request) {
		f.create(w, r, &f.incomes)
	})
	mux.HandleFunc("DELETE /incomes/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.delete(w, r, &f.incomes)
	})

	mux.HandleFunc("GET /expenses", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(f.expenses)
	})
	mux.HandleFunc("POST /expenses", func(w http.ResponseWriter, r *http.Request) {
		f.create(w, r, &f.expenses)
	})
	mux.HandleFunc("DELETE /expenses/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.delete(w, r, &f.expenses)
	})

	mux.HandleFunc("GET /dashboard", func(w http.ResponseWriter, r *http.Request) {
		summary := model.DashboardSummary{
			TotalIncome:  sum(f.incomes),
			TotalExpense: sum(f.expenses),
		}
		summary.TotalBalance = summary.TotalIncome.Sub(summary.TotalExpense)

		json.NewEncoder(w).Encode(summary)
	})

	mux.HandleFunc("POST /filter", func(w http.ResponseWriter, r *http.Request) {
		var q model.FilterQuery
		json.NewDecoder(r.Body).Decode(&q)

		src := f.incomes
		if q.Type == model.TypeExpense {
			src = f.expenses
		}

		var out []model.Transaction
		for _, tx := range src {
			if q.StartDate != nil && tx.Date.Before(q.StartDate.Time) {
				continue
			}
			if q.EndDate != nil && tx.Date.Time.After(q.EndDate.Time) {
				continue
			}
			if q.Keyword != "" && !strings.Contains(strings.ToLower(tx.Name), strings.ToLower(q.Keyword)) {
				continue
			}

			out = append(out, tx)
		}

		if q.SortField == model.SortByAmount {
			sort.SliceStable(out, func(i, j int) bool {
				if q.SortOrder == model.SortDesc {
					return out[i].Amount.GreaterThan(out[j].Amount)
				}
				return out[i].Amount.LessThan(out[j].Amount)
			})
		}

		json.NewEncoder(w).Encode(out)
	})

	return mux
}

func (f *fakeServer) create(w http.ResponseWriter, r *http.Request, list *[]model.Transaction) {
	var params model.AddTransactionParams
	json.NewDecoder(r.Body).Decode(&params)

	f.nextID++
	tx := model.Transaction{
		ID:         f.nextID,
		Name:       params.Name,
		Amount:     params.Amount,
		Date:       params.Date,
		Icon:       params.Icon,
		CategoryID: params.CategoryID,
	}
	*list = append(*list, tx)

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(tx)
}

func (f *fakeServer) delete(w http.ResponseWriter, r *http.Request, list *[]model.Transaction) {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)

	for i, tx := range *list {
		if tx.ID == id {
			*list = append((*list)[:i], (*list)[i+1:]...)
			w.WriteHeader(http.StatusNoContent)

			return
		}
	}

	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(map[string]string{"message": "transaction not found"})
}

func sum(txs []model.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		total = total.Add(tx.Amount)
	}

	return total
}

func TestTransactionFlow(t *testing.T) {
	fake := &fakeServer{}
	ts := httptest.NewServer(fake.handler())
	defer ts.Close()

	client := api.New(ts.URL, time.Second, loggedIn(t))
	ctx := context.Background()

	incomes := store.New(client.Incomes)
	expenses := store.New(client.Expenses)

	// Seed one expense in January and one in February.
	_, err := client.AddExpense(ctx, model.AddTransactionParams{
		Name:       "January rent",
		Amount:     decimal.NewFromInt(900),
		Date:       model.NewDate(2024, time.January, 1),
		CategoryID: 1,
	})
	require.NoError(t, err)

	febRent, err := client.AddExpense(ctx, model.AddTransactionParams{
		Name:       "February rent",
		Amount:     decimal.NewFromInt(950),
		Date:       model.NewDate(2024, time.February, 1),
		CategoryID: 1,
	})
	require.NoError(t, err)

	// Add an income, refresh the store, the new record shows up.
	created, err := client.AddIncome(ctx, model.AddTransactionParams{
		Name:       "Bonus",
		Amount:     decimal.NewFromInt(500),
		Date:       model.NewDate(2024, time.February, 10),
		CategoryID: 2,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	refreshed, err := incomes.Refresh(ctx)
	require.NoError(t, err)
	require.True(t, refreshed)

	txs := incomes.Get()
	require.Len(t, txs, 1)
	assert.Equal(t, "Bonus", txs[0].Name)
	assert.True(t, txs[0].Amount.Equal(decimal.NewFromInt(500)))

	// The dashboard reflects the mutation.
	summary, err := client.Dashboard(ctx)
	require.NoError(t, err)
	assert.True(t, summary.TotalIncome.Equal(decimal.NewFromInt(500)))
	assert.True(t, summary.TotalExpense.Equal(decimal.NewFromInt(1850)))
	assert.True(t, summary.TotalBalance.Equal(decimal.NewFromInt(-1350)))

	// Delete an expense and refresh; it is gone from the snapshot.
	require.NoError(t, client.DeleteExpense(ctx, febRent.ID))

	_, err = expenses.Refresh(ctx)
	require.NoError(t, err)
	require.Len(t, expenses.Get(), 1)
	assert.Equal(t, "January rent", expenses.Get()[0].Name)

	// Deleting it again surfaces the server's message.
	err = client.DeleteExpense(ctx, febRent.ID)
	require.Error(t, err)
	assert.Equal(t, "transaction not found", api.UserMessage(err, "fallback"))
}

func TestFilterFlow(t *testing.T) {
	fake := &fakeServer{}
	ts := httptest.NewServer(fake.handler())
	defer ts.Close()

	client := api.New(ts.URL, time.Second, loggedIn(t))
	ctx := context.Background()

	seed := []model.AddTransactionParams{
		{Name: "January rent", Amount: decimal.NewFromInt(900), Date: model.NewDate(2024, time.January, 1), CategoryID: 1},
		{Name: "Groceries", Amount: decimal.NewFromInt(120), Date: model.NewDate(2024, time.January, 12), CategoryID: 2},
		{Name: "February rent", Amount: decimal.NewFromInt(950), Date: model.NewDate(2024, time.February, 1), CategoryID: 1},
	}
	for _, params := range seed {
		_, err := client.AddExpense(ctx, params)
		require.NoError(t, err)
	}

	start := model.NewDate(2024, time.January, 1)
	end := model.NewDate(2024, time.January, 31)

	got, err := client.Filter(ctx, model.FilterQuery{
		Type:      model.TypeExpense,
		StartDate: &start,
		EndDate:   &end,
		SortField: model.SortByAmount,
		SortOrder: model.SortDesc,
	})
	require.NoError(t, err)

	// January only, largest first.
	require.Len(t, got, 2)
	assert.Equal(t, "January rent", got[0].Name)
	assert.Equal(t, "Groceries", got[1].Name)

	// Keyword narrows further.
	got, err = client.Filter(ctx, model.FilterQuery{
		Type:      model.TypeExpense,
		Keyword:   "rent",
		SortField: model.SortByDate,
		SortOrder: model.SortAsc,
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "January rent", got[0].Name)
	assert.Equal(t, "February rent", got[1].Name)
}
