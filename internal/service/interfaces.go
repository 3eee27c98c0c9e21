// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/juanfelareal/tranki/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
type TransactionFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	Direction  *model.CategoryDirection
	CategoryID *int64
	Limit      int
	Offset     int
}

// CategorySpend is one row of the per-category spending summary.
type CategorySpend struct {
	Name       string
	Icon       string
	Color      string
	CategoryID int64
	Total      float64
	Count      int
}

// Storage defines the contract for our persistence layer. Every operation is
// scoped by a tenant identifier supplied by the caller; the store trusts it
// and performs no authorization of its own.
type Storage interface {
	// Rule operations. ListRules returns the snapshot the matcher consumes,
	// ordered longest keyword first (ties: keyword, then creation time, then
	// id). UpsertRule must be atomic: two concurrent upserts for the same
	// normalized keyword may never produce two rows.
	ListRules(ctx context.Context, tenantID string) ([]model.CategoryRule, error)
	UpsertRule(ctx context.Context, tenantID, keyword string, categoryID int64) (*model.CategoryRule, error)
	DeleteRule(ctx context.Context, tenantID string, ruleID int64) error

	// Category operations. Listings include the shared defaults alongside the
	// tenant's own categories.
	GetCategories(ctx context.Context, tenantID string) ([]model.Category, error)
	GetCategoryByID(ctx context.Context, tenantID string, id int64) (*model.Category, error)
	GetCategoryByName(ctx context.Context, tenantID, name string) (*model.Category, error)
	CreateCategory(ctx context.Context, tenantID, name string, direction model.CategoryDirection, icon, color string) (*model.Category, error)
	UpdateCategory(ctx context.Context, tenantID string, id int64, name, icon, color string) error
	DeleteCategory(ctx context.Context, tenantID string, id int64) error

	// Transaction operations.
	SaveTransactions(ctx context.Context, transactions []model.Transaction) error
	GetTransactions(ctx context.Context, tenantID string, filter TransactionFilter) ([]model.Transaction, error)
	GetSpendingByCategory(ctx context.Context, tenantID string, start, end *time.Time) ([]CategorySpend, error)

	// Database management.
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations against external
// services.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
