package model

import (
	"strings"
	"time"
)

// CategoryRule maps a normalized keyword to a category for one tenant.
// Rules are created when a user confirms or corrects a suggestion, or through
// explicit rule management; the matcher only ever reads them.
type CategoryRule struct {
	CreatedAt         time.Time
	TenantID          string
	Keyword           string
	CategoryName      string
	CategoryDirection CategoryDirection
	ID                int64
	CategoryID        int64
}

// NormalizeKeyword lower-cases and trims a keyword or description the same
// way on every path (store, matcher, learner). Two texts that normalize to
// the same string are the same keyword.
func NormalizeKeyword(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
