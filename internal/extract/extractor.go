// Package extract turns images of bank statements, receipts, and payment
// notifications into candidate transactions via a vision model.
package extract

import (
	"context"

	"github.com/juanfelareal/tranki/internal/model"
)

// Extraction is the result of reading one image: the raw candidate
// transactions plus what kind of document the model thinks it saw. The
// candidates still need category suggestions and user review before saving.
type Extraction struct {
	SourceType   string
	BankDetected string
	Transactions []model.MatchCandidate
}

// Extractor defines the contract for vision-based transaction extraction.
type Extractor interface {
	ExtractTransactions(ctx context.Context, image []byte, mimeType string) (*Extraction, error)
}
