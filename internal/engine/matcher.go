package engine

import (
	"strings"

	"github.com/juanfelareal/tranki/internal/model"
)

// Match resolves a category suggestion for a free-text description. It is
// pure: given the same snapshot and lexicon it always returns the same
// result, and it never fails. No match is a normal result with
// ProvenanceNone, not an error.
//
// Learned rules are tried first, in the snapshot's order (longest keyword
// first), skipping rules whose category direction differs from the requested
// direction. The first keyword contained in the normalized text wins. Only
// then is the lexicon consulted, and finally the catch-all label for the
// direction.
func Match(text string, direction model.CategoryDirection, rules []model.CategoryRule, lexicon Lexicon) model.MatchResult {
	normalized := model.NormalizeKeyword(text)

	if normalized != "" {
		for _, rule := range rules {
			if rule.CategoryDirection != direction {
				continue
			}
			if strings.Contains(normalized, rule.Keyword) {
				id := rule.CategoryID
				return model.MatchResult{
					CategoryID:     &id,
					CategoryName:   rule.CategoryName,
					MatchedKeyword: rule.Keyword,
					Provenance:     model.ProvenanceLearned,
				}
			}
		}

		// TODO: the lexicon lookup is not direction-filtered, so an expense
		// text can hit an income keyword like "pago". Kept to match the
		// existing behavior; needs a product decision before changing.
		for _, entry := range lexicon {
			for _, keyword := range entry.Keywords {
				if strings.Contains(normalized, keyword) {
					return model.MatchResult{
						CategoryName: entry.Category,
						Provenance:   model.ProvenanceDefault,
					}
				}
			}
		}
	}

	name := CatchAllExpense
	if direction == model.DirectionIncome {
		name = CatchAllIncome
	}
	return model.MatchResult{
		CategoryName: name,
		Provenance:   model.ProvenanceNone,
	}
}
