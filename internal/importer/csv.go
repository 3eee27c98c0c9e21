// Package importer parses bank statement files into match candidates for
// the categorization engine.
package importer

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/juanfelareal/tranki/internal/common"
	"github.com/juanfelareal/tranki/internal/model"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// csvRow is one line of a statement export. The type column is optional;
// when absent the amount sign decides the direction.
type csvRow struct {
	Date        string `csv:"date"`
	Description string `csv:"description"`
	Amount      string `csv:"amount"`
	Type        string `csv:"type,omitempty"`
}

// ParseCSV reads a CSV statement into match candidates.
func ParseCSV(reader io.Reader) ([]model.MatchCandidate, error) {
	var rows []csvRow
	if err := gocsv.Unmarshal(reader, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse CSV statement: %w", err)
	}

	candidates := make([]model.MatchCandidate, 0, len(rows))
	for i, row := range rows {
		if strings.TrimSpace(row.Description) == "" {
			slog.Warn("skipping CSV row without description", "row", i+1)
			continue
		}

		amount, err := decimal.NewFromString(strings.TrimSpace(row.Amount))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d has invalid amount %q", common.ErrInvalidInput, i+1, row.Amount)
		}

		direction, err := rowDirection(row.Type, amount)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		candidates = append(candidates, model.MatchCandidate{
			Description: strings.TrimSpace(row.Description),
			Date:        strings.TrimSpace(row.Date),
			Direction:   direction,
			Amount:      amount.Abs(),
		})
	}

	slog.Info("parsed CSV statement", "rows", len(rows), "candidates", len(candidates))
	return candidates, nil
}

// rowDirection resolves the direction from an explicit type column, falling
// back to the amount sign (negative = expense, bank-export style).
func rowDirection(typ string, amount decimal.Decimal) (model.CategoryDirection, error) {
	switch strings.ToLower(strings.TrimSpace(typ)) {
	case "":
		if amount.IsNegative() {
			return model.DirectionExpense, nil
		}
		return model.DirectionIncome, nil
	case string(model.DirectionIncome):
		return model.DirectionIncome, nil
	case string(model.DirectionExpense):
		return model.DirectionExpense, nil
	default:
		return "", fmt.Errorf("%w: unknown transaction type %q", common.ErrInvalidInput, typ)
	}
}
