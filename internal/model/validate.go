package model

import (
	"errors"
	"regexp"
	"strings"
)

// Validation failures are caught before any request is sent and shown to
// the user as-is.
var (
	ErrNameRequired      = errors.New("please enter a name")
	ErrAmountNotPositive = errors.New("amount should be a valid number greater than 0")
	ErrDateRequired      = errors.New("please select a date")
	ErrDateInFuture      = errors.New("date cannot be in the future")
	ErrCategoryRequired  = errors.New("please select a category")
	ErrDuplicateCategory = errors.New("category name already exists")
	ErrInvalidDateRange  = errors.New("start date cannot be after end date")
	ErrInvalidEmail      = errors.New("please enter a valid email address")
	ErrPasswordRequired  = errors.New("please enter your password")
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validate checks an add-transaction payload against the submission rules:
// non-empty name, positive amount, a date no later than today, a category.
func (p AddTransactionParams) Validate(today Date) error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrNameRequired
	}

	if !p.Amount.IsPositive() {
		return ErrAmountNotPositive
	}

	if p.Date.IsZero() {
		return ErrDateRequired
	}

	if p.Date.After(today) {
		return ErrDateInFuture
	}

	if p.CategoryID == 0 {
		return ErrCategoryRequired
	}

	return nil
}

// Validate checks an add- or update-category payload against the loaded
// collection. Name comparison is trimmed and case-insensitive; selfID
// excludes the category being edited from the duplicate check.
func (p AddCategoryParams) Validate(existing []Category, selfID int64) error {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return ErrNameRequired
	}

	for _, c := range existing {
		if c.ID == selfID {
			continue
		}

		if strings.EqualFold(strings.TrimSpace(c.Name), name) {
			return ErrDuplicateCategory
		}
	}

	return nil
}

// Validate rejects a filter query whose start date falls after its end
// date. Either bound may be absent.
func (q FilterQuery) Validate() error {
	if q.StartDate != nil && q.EndDate != nil && q.StartDate.After(*q.EndDate) {
		return ErrInvalidDateRange
	}

	return nil
}

// ValidateEmail rejects addresses that cannot possibly be deliverable.
func ValidateEmail(email string) error {
	if !emailRe.MatchString(email) {
		return ErrInvalidEmail
	}

	return nil
}

// Validate checks login credentials before they leave the client.
func (c Credentials) Validate() error {
	if err := ValidateEmail(c.Email); err != nil {
		return err
	}

	if strings.TrimSpace(c.Password) == "" {
		return ErrPasswordRequired
	}

	return nil
}
