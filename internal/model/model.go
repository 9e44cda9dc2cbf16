package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Type distinguishes income from expense records and categories.
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// Category is a named, typed tag applied to transactions. The server mints
// the ID; the client only ever echoes it back.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Type Type   `json:"type"`
	Icon string `json:"icon"` // emoji glyph or hosted image URL
}

// Transaction is a single dated income or expense record. Income and
// expense share the shape; the endpoint it came from tells them apart.
type Transaction struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Date       Date            `json:"date"`
	Icon       string          `json:"icon"`
	CategoryID int64           `json:"categoryId"`
	Type       Type            `json:"type,omitempty"`
}

// DashboardSummary is the server-computed aggregate snapshot. It is
// replaced wholesale on every fetch, never patched.
type DashboardSummary struct {
	TotalBalance       decimal.Decimal `json:"totalBalance"`
	TotalIncome        decimal.Decimal `json:"totalIncome"`
	TotalExpense       decimal.Decimal `json:"totalExpense"`
	RecentTransactions []Transaction   `json:"recentTransactions"`
	Recent5Incomes     []Transaction   `json:"recent5Incomes"`
	Recent5Expenses    []Transaction   `json:"recent5Expenses"`
}

// User is the authenticated account profile.
type User struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	ProfileImageURL string `json:"profileImageUrl"`
}

// SortField selects the column the filter endpoint sorts by.
type SortField string

const (
	SortByDate     SortField = "date"
	SortByAmount   SortField = "amount"
	SortByCategory SortField = "category"
)

// SortOrder selects the filter endpoint's sort direction.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// FilterQuery is the client-local search specification sent to POST
// /filter. It is never persisted.
type FilterQuery struct {
	Type      Type      `json:"type"`
	StartDate *Date     `json:"startDate"`
	EndDate   *Date     `json:"endDate"`
	Keyword   string    `json:"keyword,omitempty"`
	SortField SortField `json:"sortField"`
	SortOrder SortOrder `json:"sortOrder"`
}

// DefaultFilterQuery returns the state the filter view resets to.
func DefaultFilterQuery() FilterQuery {
	return FilterQuery{
		Type:      TypeIncome,
		SortField: SortByDate,
		SortOrder: SortAsc,
	}
}

// AddTransactionParams is the payload for POST /incomes and /expenses.
type AddTransactionParams struct {
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Date       Date            `json:"date"`
	Icon       string          `json:"icon"`
	CategoryID int64           `json:"categoryId"`
}

// AddCategoryParams is the payload for POST and PUT /categories.
type AddCategoryParams struct {
	Name string `json:"name"`
	Type Type   `json:"type"`
	Icon string `json:"icon"`
}

// Credentials is the payload for POST /login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterParams is the payload for POST /register.
type RegisterParams struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
}

// AuthResponse is the body returned by a successful login.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

func init() {
	// The API speaks plain JSON numbers for amounts.
	decimal.MarshalJSONWithoutQuotes = true
}

// Date is a calendar date carried as "2006-01-02" on the wire.
type Date struct {
	time.Time
}

// NewDate builds a Date at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar date.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), now.Month(), now.Day())
}

// ParseDate parses a "2006-01-02" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return Date{}, err
	}

	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(time.DateOnly)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(time.DateOnly) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" || s == `""` {
		return nil
	}

	t, err := time.Parse(`"`+time.DateOnly+`"`, s)
	if err != nil {
		// Some endpoints return full timestamps.
		t, err = time.Parse(`"`+time.RFC3339+`"`, s)
		if err != nil {
			return err
		}
	}

	d.Time = t

	return nil
}

// After reports whether d falls on a later calendar day than other.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d.Time.IsZero()
}
