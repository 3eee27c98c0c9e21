package engine

import (
	"context"

	"github.com/juanfelareal/tranki/internal/model"
)

// RuleStore is the slice of the persistence layer the engine needs: a rule
// snapshot to match against and an atomic upsert to learn into.
type RuleStore interface {
	ListRules(ctx context.Context, tenantID string) ([]model.CategoryRule, error)
	UpsertRule(ctx context.Context, tenantID, keyword string, categoryID int64) (*model.CategoryRule, error)
}
