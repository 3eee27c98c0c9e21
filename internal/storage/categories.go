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

const categoryColumns = `id, tenant_id, name, direction, icon, color, is_default, created_at`

func scanCategory(row interface{ Scan(...any) error }) (*model.Category, error) {
	var cat model.Category
	err := row.Scan(
		&cat.ID,
		&cat.TenantID,
		&cat.Name,
		&cat.Direction,
		&cat.Icon,
		&cat.Color,
		&cat.IsDefault,
		&cat.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// GetCategories returns the shared default categories plus the tenant's own,
// defaults first, then by name.
func (s *SQLiteStorage) GetCategories(ctx context.Context, tenantID string) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(tenantID, "tenantID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE tenant_id = '' OR tenant_id = ?
		ORDER BY is_default DESC, name ASC
	`, tenantID)
	if err != nil {
		return nil, storeErr(err, "list categories")
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, *cat)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err, "list categories")
	}

	slog.Debug("retrieved categories", "tenant", tenantID, "count", len(categories))
	return categories, nil
}

// GetCategoryByID returns a category visible to the tenant.
func (s *SQLiteStorage) GetCategoryByID(ctx context.Context, tenantID string, id int64) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(tenantID, "tenantID"); err != nil {
		return nil, err
	}

	cat, err := scanCategory(s.db.QueryRowContext(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE id = ? AND (tenant_id = '' OR tenant_id = ?)
	`, id, tenantID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: category %d", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, storeErr(err, "get category")
	}
	return cat, nil
}

// GetCategoryByName returns a category visible to the tenant by display name.
func (s *SQLiteStorage) GetCategoryByName(ctx context.Context, tenantID, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(tenantID, "tenantID"); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	// A tenant-owned category shadows a default with the same name.
	cat, err := scanCategory(s.db.QueryRowContext(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE name = ? AND (tenant_id = '' OR tenant_id = ?)
		ORDER BY is_default ASC
		LIMIT 1
	`, name, tenantID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: category %q", common.ErrNotFound, name)
	}
	if err != nil {
		return nil, storeErr(err, "get category by name")
	}
	return cat, nil
}

// CreateCategory creates a tenant-owned category.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, tenantID, name string, direction model.CategoryDirection, icon, color string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(tenantID, "tenantID"); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	if err := validateDirection(direction); err != nil {
		return nil, err
	}

	if icon == "" {
		icon = "📦"
	}
	if color == "" {
		color = "#6366F1"
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (tenant_id, name, direction, icon, color, is_default)
		VALUES (?, ?, ?, ?, ?, 0)
	`, tenantID, name, direction, icon, color)
	if err != nil {
		return nil, storeErr(err, "create category")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get category id: %w", err)
	}

	slog.Info("created category", "tenant", tenantID, "name", name, "direction", direction)
	return s.GetCategoryByID(ctx, tenantID, id)
}

// UpdateCategory updates name, icon, or color of a tenant-owned category.
// Shared defaults are not editable; empty fields keep their current value.
func (s *SQLiteStorage) UpdateCategory(ctx context.Context, tenantID string, id int64, name, icon, color string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(tenantID, "tenantID"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE categories SET
			name = CASE WHEN ? != '' THEN ? ELSE name END,
			icon = CASE WHEN ? != '' THEN ? ELSE icon END,
			color = CASE WHEN ? != '' THEN ? ELSE color END
		WHERE id = ? AND tenant_id = ?
	`, name, name, icon, icon, color, color, id, tenantID)
	if err != nil {
		return storeErr(err, "update category")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: category %d", common.ErrNotFound, id)
	}
	return nil
}

// DeleteCategory deletes a tenant-owned category. It refuses when any
// transaction still references the category.
func (s *SQLiteStorage) DeleteCategory(ctx context.Context, tenantID string, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(tenantID, "tenantID"); err != nil {
		return err
	}

	var txnCount int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM transactions WHERE category_id = ?
	`, id).Scan(&txnCount)
	if err != nil {
		return storeErr(err, "count category transactions")
	}
	if txnCount > 0 {
		return fmt.Errorf("%w: category %d has %d associated transaction(s)", common.ErrConstraintViolation, id, txnCount)
	}

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM categories WHERE id = ? AND tenant_id = ?
	`, id, tenantID)
	if err != nil {
		return storeErr(err, "delete category")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: category %d", common.ErrNotFound, id)
	}

	slog.Info("deleted category", "tenant", tenantID, "id", id)
	return nil
}
