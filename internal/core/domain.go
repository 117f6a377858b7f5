package core

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SeedCategories is the list every process starts with, in presentation order.
var SeedCategories = []string{
	"Food",
	"Rent",
	"Utilities",
	"Transportation",
	"Entertainment",
	"Uncategorized",
}

// DefaultCategory is applied when a transaction arrives without one.
const DefaultCategory = "Uncategorized"

const maxDescriptionLen = 200

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidDate        = errors.New("invalid date")
	ErrEmptyDescription   = errors.New("empty description")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")

	ErrNotFound          = errors.New("transaction not found")
	ErrEmptyCategory     = errors.New("empty category name")
	ErrDuplicateCategory = errors.New("duplicate category name")
)

// Transaction is a single financial event. Amount carries the sign as
// entered: negative for expenses, positive for income. The store does not
// enforce sign semantics.
type Transaction struct {
	ID          string    `json:"id"`
	Amount      Money     `json:"amount"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
	Version     int64     `json:"-"`
}

// NewTransactionID returns a fresh opaque identifier.
func NewTransactionID() string {
	return uuid.NewString()
}

func (t Transaction) Validate() error {
	if t.Amount.Cents == 0 {
		return ErrInvalidAmount
	}
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > maxDescriptionLen {
		return ErrDescriptionTooLong
	}
	return nil
}

// Normalize trims text fields and applies the category default.
// Callers run it before Validate.
func (t *Transaction) Normalize() {
	t.Description = strings.TrimSpace(t.Description)
	t.Category = strings.TrimSpace(t.Category)
	if t.Category == "" {
		t.Category = DefaultCategory
	}
}

// ValidateCategoryName checks a candidate name for the category list.
// Uniqueness is the store's concern, not validation's.
func ValidateCategoryName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyCategory
	}
	return nil
}

// IsValidationError reports whether err belongs to the client-facing
// validation family (bad input, 4xx-equivalent).
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrEmptyDescription) ||
		errors.Is(err, ErrDescriptionTooLong) ||
		errors.Is(err, ErrEmptyCategory) ||
		errors.Is(err, ErrDuplicateCategory)
}
