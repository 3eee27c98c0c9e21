package model

import "github.com/shopspring/decimal"

// Provenance indicates where a category suggestion came from.
type Provenance string

const (
	// ProvenanceLearned means a tenant rule matched.
	ProvenanceLearned Provenance = "learned"
	// ProvenanceDefault means the built-in lexicon matched.
	ProvenanceDefault Provenance = "default"
	// ProvenanceNone means nothing matched and the catch-all label was used.
	ProvenanceNone Provenance = "none"
)

// MatchCandidate is one transaction awaiting a category suggestion. It is
// never persisted; amount and date pass through matching untouched.
type MatchCandidate struct {
	Description string
	Merchant    string
	Date        string
	Direction   CategoryDirection
	Amount      decimal.Decimal
	Confidence  float64
}

// Text returns the string to match against: the description, falling back to
// the merchant name when the extractor produced no description.
func (c MatchCandidate) Text() string {
	if c.Description != "" {
		return c.Description
	}
	return c.Merchant
}

// MatchResult is the outcome of matching one candidate. CategoryID is nil
// unless a learned rule matched; a nil CategoryID with ProvenanceNone is the
// normal "no suggestion" result, not an error.
type MatchResult struct {
	CategoryName   string
	MatchedKeyword string
	CategoryID     *int64
	Provenance     Provenance
}
