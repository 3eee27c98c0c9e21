package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/juanfelareal/tranki/internal/common"
	"github.com/juanfelareal/tranki/internal/model"
)

// ListRules returns the tenant's rules joined with their category's name and
// direction, ordered longest keyword first. Equal-length keywords order by
// keyword, then creation time, then id, so a snapshot is a deterministic
// total order regardless of insert history.
func (s *SQLiteStorage) ListRules(ctx context.Context, tenantID string) ([]model.CategoryRule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(tenantID, "tenantID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.tenant_id, r.keyword, r.category_id, r.created_at, c.name, c.direction
		FROM category_rules r
		JOIN categories c ON c.id = r.category_id
		WHERE r.tenant_id = ?
		ORDER BY length(r.keyword) DESC, r.keyword ASC, r.created_at ASC, r.id ASC
	`, tenantID)
	if err != nil {
		return nil, storeErr(err, "list rules")
	}
	defer func() { _ = rows.Close() }()

	var rules []model.CategoryRule
	for rows.Next() {
		var rule model.CategoryRule
		if err := rows.Scan(
			&rule.ID,
			&rule.TenantID,
			&rule.Keyword,
			&rule.CategoryID,
			&rule.CreatedAt,
			&rule.CategoryName,
			&rule.CategoryDirection,
		); err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, storeErr(err, "list rules")
	}
	return rules, nil
}

// UpsertRule inserts a rule for the normalized keyword, or overwrites the
// category of the existing rule with that keyword. The UNIQUE(tenant_id,
// keyword) constraint plus ON CONFLICT keeps concurrent upserts from ever
// producing two rows for one keyword.
func (s *SQLiteStorage) UpsertRule(ctx context.Context, tenantID, keyword string, categoryID int64) (*model.CategoryRule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(tenantID, "tenantID"); err != nil {
		return nil, err
	}

	normalized := model.NormalizeKeyword(keyword)
	if normalized == "" {
		return nil, fmt.Errorf("%w: keyword cannot be empty", common.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storeErr(err, "begin upsert")
	}
	defer func() { _ = tx.Rollback() }()

	// The category must exist and be either a shared default or owned by the
	// tenant. Rules may point at a category of either direction; the matcher
	// filters by direction at query time, not the store.
	var exists bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM categories WHERE id = ? AND (tenant_id = '' OR tenant_id = ?))
	`, categoryID, tenantID).Scan(&exists)
	if err != nil {
		return nil, storeErr(err, "check category")
	}
	if !exists {
		return nil, fmt.Errorf("%w: category %d does not exist", common.ErrInvalidInput, categoryID)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO category_rules (tenant_id, keyword, category_id)
		VALUES (?, ?, ?)
		ON CONFLICT(tenant_id, keyword) DO UPDATE SET
			category_id = excluded.category_id
	`, tenantID, normalized, categoryID)
	if err != nil {
		return nil, storeErr(err, "upsert rule")
	}

	var rule model.CategoryRule
	err = tx.QueryRowContext(ctx, `
		SELECT r.id, r.tenant_id, r.keyword, r.category_id, r.created_at, c.name, c.direction
		FROM category_rules r
		JOIN categories c ON c.id = r.category_id
		WHERE r.tenant_id = ? AND r.keyword = ?
	`, tenantID, normalized).Scan(
		&rule.ID,
		&rule.TenantID,
		&rule.Keyword,
		&rule.CategoryID,
		&rule.CreatedAt,
		&rule.CategoryName,
		&rule.CategoryDirection,
	)
	if err != nil {
		return nil, storeErr(err, "read back rule")
	}

	if err := tx.Commit(); err != nil {
		return nil, storeErr(err, "commit upsert")
	}

	slog.Debug("upserted rule",
		"tenant", tenantID,
		"keyword", normalized,
		"category_id", categoryID)
	return &rule, nil
}

// DeleteRule removes a rule by id, scoped to the tenant.
func (s *SQLiteStorage) DeleteRule(ctx context.Context, tenantID string, ruleID int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(tenantID, "tenantID"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM category_rules WHERE id = ? AND tenant_id = ?
	`, ruleID, tenantID)
	if err != nil {
		return storeErr(err, "delete rule")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: rule %d", common.ErrNotFound, ruleID)
	}
	return nil
}

// GetRule retrieves a single rule by id, scoped to the tenant.
func (s *SQLiteStorage) GetRule(ctx context.Context, tenantID string, ruleID int64) (*model.CategoryRule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(tenantID, "tenantID"); err != nil {
		return nil, err
	}

	var rule model.CategoryRule
	err := s.db.QueryRowContext(ctx, `
		SELECT r.id, r.tenant_id, r.keyword, r.category_id, r.created_at, c.name, c.direction
		FROM category_rules r
		JOIN categories c ON c.id = r.category_id
		WHERE r.id = ? AND r.tenant_id = ?
	`, ruleID, tenantID).Scan(
		&rule.ID,
		&rule.TenantID,
		&rule.Keyword,
		&rule.CategoryID,
		&rule.CreatedAt,
		&rule.CategoryName,
		&rule.CategoryDirection,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: rule %d", common.ErrNotFound, ruleID)
	}
	if err != nil {
		return nil, storeErr(err, "get rule")
	}
	return &rule, nil
}
