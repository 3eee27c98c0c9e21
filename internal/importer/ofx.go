package importer

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/juanfelareal/tranki/internal/model"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
)

var severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)

// preprocessOFX fixes common formatting issues in OFX files before parsing:
// leading whitespace and mixed-case SEVERITY values from sloppy exporters.
func preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	return severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
}

// ParseOFX reads an OFX/QFX statement into match candidates.
func ParseOFX(reader io.Reader) ([]model.MatchCandidate, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var candidates []model.MatchCandidate
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			if stmt.BankTranList == nil {
				continue
			}
			for _, ofxTx := range stmt.BankTranList.Transactions {
				candidates = append(candidates, convertOFXTransaction(ofxTx))
			}
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			if stmt.BankTranList == nil {
				continue
			}
			for _, ofxTx := range stmt.BankTranList.Transactions {
				candidates = append(candidates, convertOFXTransaction(ofxTx))
			}
		}
	}

	slog.Info("parsed OFX statement",
		"candidates", len(candidates),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)
	return candidates, nil
}

// convertOFXTransaction maps one OFX transaction to a match candidate.
// OFX amounts are negative for debits; the sign decides the direction and
// the candidate carries the absolute value.
func convertOFXTransaction(ofxTx ofxgo.Transaction) model.MatchCandidate {
	amount := decimal.NewFromBigRat(&ofxTx.TrnAmt.Rat, 2)

	direction := model.DirectionIncome
	if amount.IsNegative() {
		direction = model.DirectionExpense
	}

	return model.MatchCandidate{
		Description: extractDescription(ofxTx),
		Merchant:    extractMerchant(ofxTx),
		Date:        ofxTx.DtPosted.Time.Format("2006-01-02"),
		Direction:   direction,
		Amount:      amount.Abs(),
	}
}

// extractDescription prefers the NAME field, falling back to MEMO.
func extractDescription(tx ofxgo.Transaction) string {
	if name := strings.TrimSpace(string(tx.Name)); name != "" {
		return name
	}
	return strings.TrimSpace(string(tx.Memo))
}

// extractMerchant prefers PAYEE, the cleaner merchant name when present.
func extractMerchant(tx ofxgo.Transaction) string {
	if tx.Payee != nil {
		if name := strings.TrimSpace(string(tx.Payee.Name)); name != "" {
			return name
		}
	}
	return ""
}
