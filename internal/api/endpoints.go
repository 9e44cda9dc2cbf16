package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fintrack/fintrack/internal/model"
)

// Login authenticates and returns the token and profile. It does not
// touch the session; the caller decides whether to persist.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (*model.AuthResponse, error) {
	var auth model.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/login", creds, &auth); err != nil {
		return nil, err
	}

	return &auth, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, params model.RegisterParams) error {
	return c.do(ctx, http.MethodPost, "/register", params, nil)
}

// Profile fetches the current user for session rehydration.
func (c *Client) Profile(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodGet, "/profile", nil, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

// Categories lists every category for the user.
func (c *Client) Categories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := c.do(ctx, http.MethodGet, "/categories", nil, &categories); err != nil {
		return nil, err
	}

	return categories, nil
}

// CategoriesByType lists categories of one type, for the add-transaction
// category picker.
func (c *Client) CategoriesByType(ctx context.Context, t model.Type) ([]model.Category, error) {
	var categories []model.Category
	if err := c.do(ctx, http.MethodGet, "/categories/"+string(t), nil, &categories); err != nil {
		return nil, err
	}

	return categories, nil
}

// AddCategory creates a category.
func (c *Client) AddCategory(ctx context.Context, params model.AddCategoryParams) (*model.Category, error) {
	var created model.Category
	if err := c.do(ctx, http.MethodPost, "/categories", params, &created); err != nil {
		return nil, err
	}

	return &created, nil
}

// UpdateCategory updates a category in place. Categories are never
// deleted through this client.
func (c *Client) UpdateCategory(ctx context.Context, id int64, params model.AddCategoryParams) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/categories/%d", id), params, nil)
}

// Incomes lists all income transactions.
func (c *Client) Incomes(ctx context.Context) ([]model.Transaction, error) {
	var txs []model.Transaction
	if err := c.do(ctx, http.MethodGet, "/incomes", nil, &txs); err != nil {
		return nil, err
	}

	return txs, nil
}

// AddIncome creates an income transaction.
func (c *Client) AddIncome(ctx context.Context, params model.AddTransactionParams) (*model.Transaction, error) {
	var created model.Transaction
	if err := c.do(ctx, http.MethodPost, "/incomes", params, &created); err != nil {
		return nil, err
	}

	return &created, nil
}

// DeleteIncome removes an income transaction by id.
func (c *Client) DeleteIncome(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/incomes/%d", id), nil, nil)
}

// Expenses lists all expense transactions.
func (c *Client) Expenses(ctx context.Context) ([]model.Transaction, error) {
	var txs []model.Transaction
	if err := c.do(ctx, http.MethodGet, "/expenses", nil, &txs); err != nil {
		return nil, err
	}

	return txs, nil
}

// AddExpense creates an expense transaction.
func (c *Client) AddExpense(ctx context.Context, params model.AddTransactionParams) (*model.Transaction, error) {
	var created model.Transaction
	if err := c.do(ctx, http.MethodPost, "/expenses", params, &created); err != nil {
		return nil, err
	}

	return &created, nil
}

// DeleteExpense removes an expense transaction by id.
func (c *Client) DeleteExpense(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/expenses/%d", id), nil, nil)
}

// Dashboard fetches the server-computed aggregate summary.
func (c *Client) Dashboard(ctx context.Context) (*model.DashboardSummary, error) {
	var summary model.DashboardSummary
	if err := c.do(ctx, http.MethodGet, "/dashboard", nil, &summary); err != nil {
		return nil, err
	}

	return &summary, nil
}

// Filter queries transactions by type, date range, keyword and sort. The
// server does the sorting; the client never re-sorts the result set.
func (c *Client) Filter(ctx context.Context, query model.FilterQuery) ([]model.Transaction, error) {
	var txs []model.Transaction
	if err := c.do(ctx, http.MethodPost, "/filter", query, &txs); err != nil {
		return nil, err
	}

	return txs, nil
}

// ExcelReport streams the spreadsheet export for one transaction type.
// The caller owns closing the response body.
func (c *Client) ExcelReport(ctx context.Context, kind model.Type) (*http.Response, error) {
	return c.raw(ctx, http.MethodGet, "/excel/download/"+string(kind))
}

// EmailReport asks the server to email the spreadsheet to the account's
// address. Fire-and-forget: no client state changes as a result.
func (c *Client) EmailReport(ctx context.Context, kind model.Type) error {
	return c.do(ctx, http.MethodGet, fmt.Sprintf("/email/%s-excel", kind), nil, nil)
}
