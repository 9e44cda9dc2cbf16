package chart_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrack/fintrack/internal/chart"
	"github.com/fintrack/fintrack/internal/model"
)

func tx(name string, amount int64, year int, month time.Month, day int, categoryID int64) model.Transaction {
	return model.Transaction{
		Name:       name,
		Amount:     decimal.NewFromInt(amount),
		Date:       model.NewDate(year, month, day),
		CategoryID: categoryID,
	}
}

func TestMonthlyTrend(t *testing.T) {
	txs := []model.Transaction{
		tx("Salary", 1000, 2025, time.January, 15, 1),
		tx("Bonus", 500, 2024, time.February, 3, 1),
		tx("Freelance", 200, 2024, time.February, 20, 2),
		tx("Dividends", 50, 2024, time.December, 31, 3),
	}

	points := chart.MonthlyTrend(txs)
	require.Len(t, points, 3)

	// Chronological by actual month, across the year boundary. A
	// label-based sort would put "Feb 2024" after "Dec 2024".
	assert.Equal(t, "Feb 2024", points[0].Label)
	assert.Equal(t, "Dec 2024", points[1].Label)
	assert.Equal(t, "Jan 2025", points[2].Label)

	assert.True(t, points[0].Total.Equal(decimal.NewFromInt(700)), "got %s", points[0].Total)
	assert.True(t, points[1].Total.Equal(decimal.NewFromInt(50)))
	assert.True(t, points[2].Total.Equal(decimal.NewFromInt(1000)))
}

func TestMonthlyTrend_Empty(t *testing.T) {
	assert.Nil(t, chart.MonthlyTrend(nil))
	assert.Nil(t, chart.MonthlyTrend([]model.Transaction{}))
}

func TestMonthlyTrend_OrderIndependent(t *testing.T) {
	a := []model.Transaction{
		tx("A", 10, 2024, time.March, 1, 1),
		tx("B", 20, 2024, time.April, 1, 1),
	}
	b := []model.Transaction{a[1], a[0]}

	assert.Equal(t, chart.MonthlyTrend(a), chart.MonthlyTrend(b))
}

func TestCategoryBreakdown(t *testing.T) {
	categories := []model.Category{
		{ID: 1, Name: "Groceries", Icon: "🛒"},
		{ID: 2, Name: "Rent", Icon: "🏠"},
	}

	txs := []model.Transaction{
		tx("Weekly shop", 80, 2024, time.May, 2, 1),
		tx("May rent", 900, 2024, time.May, 1, 2),
		tx("Top-up shop", 20, 2024, time.May, 9, 1),
		tx("Mystery", 5, 2024, time.May, 10, 99),
	}

	slices := chart.CategoryBreakdown(txs, categories)
	require.Len(t, slices, 3)

	// Ranked by descending total.
	assert.Equal(t, "Rent", slices[0].Name)
	assert.Equal(t, "🏠", slices[0].Icon)
	assert.True(t, slices[0].Total.Equal(decimal.NewFromInt(900)))

	assert.Equal(t, "Groceries", slices[1].Name)
	assert.True(t, slices[1].Total.Equal(decimal.NewFromInt(100)))

	// Unknown category id resolves to a placeholder, not an error.
	assert.Equal(t, "Uncategorized", slices[2].Name)
	assert.Equal(t, int64(99), slices[2].CategoryID)

	assert.Nil(t, chart.CategoryBreakdown(nil, categories))
}

func TestSum(t *testing.T) {
	assert.True(t, chart.Sum(nil).IsZero())

	total := chart.Sum([]model.Transaction{
		tx("A", 10, 2024, time.May, 1, 1),
		tx("B", 15, 2024, time.May, 2, 1),
	})
	assert.True(t, total.Equal(decimal.NewFromInt(25)))
}

func TestFormatAmount(t *testing.T) {
	type testCase struct {
		name   string
		amount decimal.Decimal
		want   string
	}

	tests := []testCase{
		{"Zero", decimal.Zero, "0.00"},
		{"Small", decimal.NewFromFloat(7.5), "7.50"},
		{"Thousands", decimal.NewFromInt(1000), "1,000.00"},
		{"Millions", decimal.NewFromFloat(1234567.89), "1,234,567.89"},
		{"Negative", decimal.NewFromFloat(-1234.5), "-1,234.50"},
		// Past float64's exact-integer range; a float round trip would
		// land on 9,007,199,254,740,992.
		{"PastFloatRange", decimal.RequireFromString("9007199254740993.12"), "9,007,199,254,740,993.12"},
		{"PastInt64Range", decimal.RequireFromString("12345678901234567890.05"), "12,345,678,901,234,567,890.05"},
		{"NegativePastInt64Range", decimal.RequireFromString("-12345678901234567890.05"), "-12,345,678,901,234,567,890.05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, chart.FormatAmount(tt.amount))
		})
	}
}
