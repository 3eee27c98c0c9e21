package model

import "time"

// CategoryDirection indicates whether a category applies to income or expense
// transactions.
type CategoryDirection string

const (
	// DirectionIncome represents money coming in.
	DirectionIncome CategoryDirection = "income"
	// DirectionExpense represents money going out.
	DirectionExpense CategoryDirection = "expense"
)

// Valid reports whether the direction is one of the known values.
func (d CategoryDirection) Valid() bool {
	return d == DirectionIncome || d == DirectionExpense
}

// Category represents a spending or income category. Categories with an empty
// TenantID are shared defaults visible to every tenant; the rest belong to the
// tenant that created them. Icon and color are presentation only and play no
// part in matching.
type Category struct {
	CreatedAt time.Time
	TenantID  string
	Name      string
	Icon      string
	Color     string
	Direction CategoryDirection
	ID        int64
	IsDefault bool
}
