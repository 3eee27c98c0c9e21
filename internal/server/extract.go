package server

import (
	"context"
	"encoding/base64"
	"net/http"
	"regexp"
	"time"

	"github.com/juanfelareal/tranki/internal/common"
	"github.com/juanfelareal/tranki/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

var dataURLPrefix = regexp.MustCompile(`^data:image/\w+;base64,`)

type parseImageRequest struct {
	Image    string `json:"image" binding:"required"`
	MimeType string `json:"mimeType"`
}

type extractedTransaction struct {
	Direction           model.CategoryDirection `json:"type"`
	Amount              decimal.Decimal         `json:"amount"`
	Description         string                  `json:"description"`
	Merchant            string                  `json:"merchant,omitempty"`
	Date                string                  `json:"date,omitempty"`
	Confidence          float64                 `json:"confidence"`
	SuggestedCategory   string                  `json:"suggested_category"`
	SuggestedCategoryID *int64                  `json:"suggested_category_id"`
	MatchedKeyword      string                  `json:"matched_rule,omitempty"`
	CategorySource      model.Provenance        `json:"category_source"`
}

type parseImageResponse struct {
	SourceType   string                 `json:"source_type"`
	BankDetected string                 `json:"bank_detected,omitempty"`
	Transactions []extractedTransaction `json:"transactions"`
}

// parseImage extracts candidate transactions from an uploaded image and
// annotates each with a category suggestion for user review.
func (s *Server) parseImage(c *gin.Context) {
	if s.extractor == nil {
		respondError(c, common.NewUserError("image extraction is not configured", common.ErrMissingConfig))
		return
	}

	var req parseImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image is required"})
		return
	}

	image, err := base64.StdEncoding.DecodeString(dataURLPrefix.ReplaceAllString(req.Image, ""))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image must be base64 encoded"})
		return
	}

	mimeType := req.MimeType
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	extraction, err := s.extractor.ExtractTransactions(ctx, image, mimeType)
	if err != nil {
		respondError(c, err)
		return
	}

	results, err := s.engine.SuggestAll(ctx, tenant(c), extraction.Transactions)
	if err != nil {
		respondError(c, err)
		return
	}

	response := parseImageResponse{
		SourceType:   extraction.SourceType,
		BankDetected: extraction.BankDetected,
		Transactions: make([]extractedTransaction, len(extraction.Transactions)),
	}
	for i, candidate := range extraction.Transactions {
		result := results[i]
		response.Transactions[i] = extractedTransaction{
			Direction:           candidate.Direction,
			Amount:              candidate.Amount,
			Description:         candidate.Description,
			Merchant:            candidate.Merchant,
			Date:                candidate.Date,
			Confidence:          candidate.Confidence,
			SuggestedCategory:   result.CategoryName,
			SuggestedCategoryID: result.CategoryID,
			MatchedKeyword:      result.MatchedKeyword,
			CategorySource:      result.Provenance,
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": response})
}
