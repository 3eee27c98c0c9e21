package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a confirmed financial transaction. The suggestion
// engine runs before a transaction is saved; by the time one of these exists
// the user has already accepted or corrected its category.
type Transaction struct {
	Date        time.Time
	CreatedAt   time.Time
	ID          string
	TenantID    string
	Description string
	Direction   CategoryDirection
	Amount      decimal.Decimal
	CategoryID  *int64
	AIExtracted bool
}
