package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/juanfelareal/tranki/internal/model"
	"github.com/juanfelareal/tranki/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaveTransactions persists a batch of confirmed transactions in one
// database transaction. Transactions without an id get a fresh UUID.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, transactions []model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransactions(transactions); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr(err, "begin save transactions")
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (id, tenant_id, direction, amount, description, category_id, date, ai_extracted)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return storeErr(err, "prepare save transactions")
	}
	defer func() { _ = stmt.Close() }()

	for i := range transactions {
		txn := &transactions[i]
		if txn.ID == "" {
			txn.ID = uuid.NewString()
		}
		if _, err := stmt.ExecContext(ctx,
			txn.ID,
			txn.TenantID,
			txn.Direction,
			txn.Amount.String(),
			txn.Description,
			txn.CategoryID,
			txn.Date,
			txn.AIExtracted,
		); err != nil {
			return storeErr(err, "save transaction")
		}
	}

	if err := tx.Commit(); err != nil {
		return storeErr(err, "commit save transactions")
	}

	slog.Info("saved transactions", "count", len(transactions))
	return nil
}

// GetTransactions returns the tenant's transactions matching the filter,
// newest first.
func (s *SQLiteStorage) GetTransactions(ctx context.Context, tenantID string, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(tenantID, "tenantID"); err != nil {
		return nil, err
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, fmt.Errorf("%w: %v is after %v", ErrInvalidDateRange, filter.StartDate, filter.EndDate)
	}

	var conditions []string
	args := []any{tenantID}
	conditions = append(conditions, "tenant_id = ?")

	if filter.StartDate != nil {
		conditions = append(conditions, "date >= ?")
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		conditions = append(conditions, "date <= ?")
		args = append(args, *filter.EndDate)
	}
	if filter.Direction != nil {
		conditions = append(conditions, "direction = ?")
		args = append(args, *filter.Direction)
	}
	if filter.CategoryID != nil {
		conditions = append(conditions, "category_id = ?")
		args = append(args, *filter.CategoryID)
	}

	query := `
		SELECT id, tenant_id, direction, amount, description, category_id, date, ai_extracted, created_at
		FROM transactions
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY date DESC, created_at DESC`

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr(err, "list transactions")
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		var txn model.Transaction
		var amount string
		if err := rows.Scan(
			&txn.ID,
			&txn.TenantID,
			&txn.Direction,
			&amount,
			&txn.Description,
			&txn.CategoryID,
			&txn.Date,
			&txn.AIExtracted,
			&txn.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txn.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("failed to parse amount %q: %w", amount, err)
		}
		transactions = append(transactions, txn)
	}

	if err := rows.Err(); err != nil {
		return nil, storeErr(err, "list transactions")
	}
	return transactions, nil
}

// GetSpendingByCategory aggregates expense totals per category over an
// optional date range, largest total first.
func (s *SQLiteStorage) GetSpendingByCategory(ctx context.Context, tenantID string, start, end *time.Time) ([]service.CategorySpend, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(tenantID, "tenantID"); err != nil {
		return nil, err
	}

	query := `
		SELECT c.id, c.name, c.icon, c.color,
			COALESCE(SUM(CAST(t.amount AS REAL)), 0) AS total,
			COUNT(t.id) AS txn_count
		FROM categories c
		LEFT JOIN transactions t
			ON t.category_id = c.id
			AND t.tenant_id = ?
			AND t.direction = 'expense'`
	args := []any{tenantID}

	if start != nil {
		query += ` AND t.date >= ?`
		args = append(args, *start)
	}
	if end != nil {
		query += ` AND t.date <= ?`
		args = append(args, *end)
	}

	query += `
		WHERE c.direction = 'expense' AND (c.tenant_id = '' OR c.tenant_id = ?)
		GROUP BY c.id, c.name, c.icon, c.color
		HAVING COUNT(t.id) > 0
		ORDER BY total DESC`
	args = append(args, tenantID)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr(err, "spending by category")
	}
	defer func() { _ = rows.Close() }()

	var spending []service.CategorySpend
	for rows.Next() {
		var row service.CategorySpend
		if err := rows.Scan(&row.CategoryID, &row.Name, &row.Icon, &row.Color, &row.Total, &row.Count); err != nil {
			return nil, fmt.Errorf("failed to scan spending row: %w", err)
		}
		spending = append(spending, row)
	}

	if err := rows.Err(); err != nil {
		return nil, storeErr(err, "spending by category")
	}
	return spending, nil
}
