// Package chart derives chart-ready shapes from raw transaction
// collections. Every function is pure: no I/O, deterministic, and
// indifferent to the input ordering.
package chart

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/fintrack/fintrack/internal/model"
)

// MonthlyPoint is one calendar-month bucket of a trend line.
type MonthlyPoint struct {
	Month time.Time // first day of the month, UTC
	Label string    // "Jan 2006"
	Total decimal.Decimal
}

// MonthlyTrend groups transactions by calendar month and sums their
// amounts. Buckets come back in chronological order, compared by actual
// year and month rather than by label, so "Jan 2025" sorts after "Feb 2024".
// Empty input yields an empty (nil) slice.
func MonthlyTrend(txs []model.Transaction) []MonthlyPoint {
	totals := make(map[time.Time]decimal.Decimal)

	for _, tx := range txs {
		key := time.Date(tx.Date.Year(), tx.Date.Month(), 1, 0, 0, 0, 0, time.UTC)
		totals[key] = totals[key].Add(tx.Amount)
	}

	points := make([]MonthlyPoint, 0, len(totals))
	for month, total := range totals {
		points = append(points, MonthlyPoint{
			Month: month,
			Label: month.Format("Jan 2006"),
			Total: total,
		})
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Month.Before(points[j].Month)
	})

	if len(points) == 0 {
		return nil
	}

	return points
}

// CategorySlice is one segment of a category breakdown.
type CategorySlice struct {
	CategoryID int64
	Name       string
	Icon       string
	Total      decimal.Decimal
}

// CategoryBreakdown groups transactions by category and sums their
// amounts, resolving names and icons from the loaded category collection.
// Segments come back ranked by descending total; ties keep their
// grouping order (stable sort).
func CategoryBreakdown(txs []model.Transaction, categories []model.Category) []CategorySlice {
	byID := make(map[int64]model.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	totals := make(map[int64]decimal.Decimal)
	order := make([]int64, 0)

	for _, tx := range txs {
		if _, seen := totals[tx.CategoryID]; !seen {
			order = append(order, tx.CategoryID)
		}

		totals[tx.CategoryID] = totals[tx.CategoryID].Add(tx.Amount)
	}

	slices := make([]CategorySlice, 0, len(order))

	for _, id := range order {
		s := CategorySlice{CategoryID: id, Total: totals[id]}

		if c, ok := byID[id]; ok {
			s.Name = c.Name
			s.Icon = c.Icon
		} else {
			s.Name = "Uncategorized"
		}

		slices = append(slices, s)
	}

	sort.SliceStable(slices, func(i, j int) bool {
		return slices[i].Total.GreaterThan(slices[j].Total)
	})

	if len(slices) == 0 {
		return nil
	}

	return slices
}

// Sum totals a transaction collection, for result-set summaries. The
// total balance is never derived this way: it always comes from the
// server's dashboard summary, so client and server rounding can't drift.
func Sum(txs []model.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		total = total.Add(tx.Amount)
	}

	return total
}

var printer = message.NewPrinter(language.English)

// FormatAmount renders an amount with thousands separators and two
// decimal places, applied exactly once. The digits come from the decimal
// itself, never a float conversion, so large amounts keep their exact
// value.
func FormatAmount(amount decimal.Decimal) string {
	s := amount.StringFixed(2)

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, _ := strings.Cut(s, ".")

	grouped := groupDigits(intPart)
	if neg {
		grouped = "-" + grouped
	}

	return grouped + "." + frac
}

func groupDigits(digits string) string {
	if n, err := strconv.ParseInt(digits, 10, 64); err == nil {
		return printer.Sprintf("%d", n)
	}

	// Past int64 range the locale printer can't help; group by hand.
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}

		b.WriteRune(r)
	}

	return b.String()
}
