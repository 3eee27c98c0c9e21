// Package engine implements the automatic transaction categorization engine:
// keyword matching against learned rules, a static lexicon fallback, and the
// feedback loop that turns user corrections into new rules.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/juanfelareal/tranki/internal/common"
	"github.com/juanfelareal/tranki/internal/model"
)

// Engine suggests categories for transaction descriptions and learns from
// user corrections. Matching is read-only and safe to run concurrently;
// consistency within one call comes from using a single rule snapshot.
type Engine struct {
	store   RuleStore
	lexicon Lexicon
}

// New creates an engine backed by the given rule store and lexicon.
func New(store RuleStore, lexicon Lexicon) *Engine {
	return &Engine{
		store:   store,
		lexicon: lexicon,
	}
}

// Suggest resolves a category suggestion for one description, fetching a
// fresh rule snapshot. Used by the UI while the user types and by manual
// lookups.
func (e *Engine) Suggest(ctx context.Context, tenantID, text string, direction model.CategoryDirection) (model.MatchResult, error) {
	if !direction.Valid() {
		return model.MatchResult{}, fmt.Errorf("%w: direction must be income or expense, got %q", common.ErrInvalidInput, direction)
	}

	rules, err := e.store.ListRules(ctx, tenantID)
	if err != nil {
		return model.MatchResult{}, fmt.Errorf("failed to load rule snapshot: %w", err)
	}

	return Match(text, direction, rules, e.lexicon), nil
}

// SuggestAll matches a batch of candidates against one rule snapshot taken
// at the start of the call. The result slice has the same length and order
// as the input; a rule created mid-batch through another path cannot affect
// items in this call. If the snapshot fetch fails the whole batch fails;
// after that, per-item matching cannot fail.
func (e *Engine) SuggestAll(ctx context.Context, tenantID string, candidates []model.MatchCandidate) ([]model.MatchResult, error) {
	rules, err := e.store.ListRules(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load rule snapshot: %w", err)
	}

	results := make([]model.MatchResult, len(candidates))
	for i, candidate := range candidates {
		results[i] = Match(candidate.Text(), candidate.Direction, rules, e.lexicon)
	}

	slog.Debug("batch matched candidates",
		"tenant", tenantID,
		"candidates", len(candidates),
		"rules", len(rules))
	return results, nil
}

// Learn records a user's confirmed or corrected categorization as a rule,
// keyed by the original description text normalized the same way the matcher
// normalizes. Repeats for the same description are idempotent because the
// store overwrites instead of duplicating.
func (e *Engine) Learn(ctx context.Context, tenantID, text string, categoryID int64) error {
	keyword := model.NormalizeKeyword(text)
	if keyword == "" {
		return fmt.Errorf("%w: cannot learn from an empty description", common.ErrInvalidInput)
	}

	if _, err := e.store.UpsertRule(ctx, tenantID, keyword, categoryID); err != nil {
		return fmt.Errorf("failed to learn rule: %w", err)
	}

	slog.Debug("learned rule",
		"tenant", tenantID,
		"keyword", keyword,
		"category_id", categoryID)
	return nil
}
