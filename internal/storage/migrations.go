package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS categories (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					tenant_id TEXT NOT NULL DEFAULT '',
					name TEXT NOT NULL,
					direction TEXT NOT NULL CHECK (direction IN ('income', 'expense')),
					icon TEXT NOT NULL DEFAULT '',
					color TEXT NOT NULL DEFAULT '',
					is_default INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_categories_tenant ON categories(tenant_id)`,
				`CREATE INDEX idx_categories_direction ON categories(direction)`,

				// UNIQUE(tenant_id, keyword) backs the atomic upsert; the
				// keyword column always holds the normalized form.
				`CREATE TABLE IF NOT EXISTS category_rules (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					tenant_id TEXT NOT NULL,
					keyword TEXT NOT NULL,
					category_id INTEGER NOT NULL REFERENCES categories(id),
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					UNIQUE(tenant_id, keyword)
				)`,
				`CREATE INDEX idx_category_rules_category ON category_rules(category_id)`,

				`CREATE TABLE IF NOT EXISTS transactions (
					id TEXT PRIMARY KEY,
					tenant_id TEXT NOT NULL,
					direction TEXT NOT NULL CHECK (direction IN ('income', 'expense')),
					amount TEXT NOT NULL,
					description TEXT NOT NULL,
					category_id INTEGER REFERENCES categories(id),
					date DATETIME NOT NULL,
					ai_extracted INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_transactions_tenant_date ON transactions(tenant_id, date)`,
				`CREATE INDEX idx_transactions_category ON transactions(category_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Seed shared default categories",
		Up: func(tx *sql.Tx) error {
			defaults := []struct {
				name      string
				direction string
				icon      string
				color     string
			}{
				{"Salario", "income", "💼", "#22C55E"},
				{"Freelance", "income", "💻", "#10B981"},
				{"Inversiones", "income", "📈", "#14B8A6"},
				{"Regalos", "income", "🎁", "#06B6D4"},
				{"Otros Ingresos", "income", "💰", "#0EA5E9"},
				{"Alimentación", "expense", "🍽️", "#EF4444"},
				{"Transporte", "expense", "🚗", "#F97316"},
				{"Vivienda", "expense", "🏠", "#F59E0B"},
				{"Servicios", "expense", "💡", "#EAB308"},
				{"Entretenimiento", "expense", "🎮", "#84CC16"},
				{"Salud", "expense", "🏥", "#8B5CF6"},
				{"Educación", "expense", "📚", "#A855F7"},
				{"Compras", "expense", "🛍️", "#EC4899"},
				{"Café", "expense", "☕", "#78716C"},
				{"Suscripciones", "expense", "📱", "#6366F1"},
				{"Otros Gastos", "expense", "📦", "#71717A"},
			}

			stmt, err := tx.Prepare(`
				INSERT INTO categories (tenant_id, name, direction, icon, color, is_default)
				VALUES ('', ?, ?, ?, ?, 1)`)
			if err != nil {
				return fmt.Errorf("failed to prepare seed statement: %w", err)
			}
			defer func() { _ = stmt.Close() }()

			for _, cat := range defaults {
				if _, err := stmt.Exec(cat.name, cat.direction, cat.icon, cat.color); err != nil {
					return fmt.Errorf("failed to seed category %q: %w", cat.name, err)
				}
			}
			return nil
		},
	},
}

// Migrate applies all pending migrations to bring the schema up to date.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}

// SchemaVersion returns the current schema version of the database.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}
