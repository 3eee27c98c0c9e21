package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/juanfelareal/tranki/internal/common"
	"github.com/juanfelareal/tranki/internal/model"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrInvalidDateRange = errors.New("start date must be before end date")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s cannot be empty", common.ErrInvalidInput, paramName)
	}
	return nil
}

// validateDirection ensures a direction is income or expense.
func validateDirection(d model.CategoryDirection) error {
	if !d.Valid() {
		return fmt.Errorf("%w: direction must be income or expense, got %q", common.ErrInvalidInput, d)
	}
	return nil
}

// validateTransactions validates a slice of transactions before saving.
func validateTransactions(transactions []model.Transaction) error {
	if len(transactions) == 0 {
		return fmt.Errorf("%w: transactions cannot be empty", common.ErrInvalidInput)
	}
	for i := range transactions {
		if err := validateTransaction(&transactions[i]); err != nil {
			return fmt.Errorf("transaction at index %d: %w", i, err)
		}
	}
	return nil
}

// validateTransaction validates a single transaction.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction cannot be nil", common.ErrInvalidInput)
	}
	if txn.TenantID == "" {
		return fmt.Errorf("%w: missing tenant", common.ErrInvalidInput)
	}
	if strings.TrimSpace(txn.Description) == "" {
		return fmt.Errorf("%w: missing description", common.ErrInvalidInput)
	}
	if err := validateDirection(txn.Direction); err != nil {
		return err
	}
	if txn.Date.IsZero() {
		return fmt.Errorf("%w: missing date", common.ErrInvalidInput)
	}
	return nil
}
