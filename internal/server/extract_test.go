package server

import (
	"context"
	"encoding/base64"
	"net/http"
	"testing"

	"github.com/juanfelareal/tranki/internal/extract"
	"github.com/juanfelareal/tranki/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubExtractor returns a canned extraction without calling any model.
type stubExtractor struct {
	extraction *extract.Extraction
	err        error
	gotMime    string
}

func (s *stubExtractor) ExtractTransactions(_ context.Context, _ []byte, mimeType string) (*extract.Extraction, error) {
	s.gotMime = mimeType
	if s.err != nil {
		return nil, s.err
	}
	return s.extraction, nil
}

func TestParseImage(t *testing.T) {
	stub := &stubExtractor{
		extraction: &extract.Extraction{
			SourceType:   "sms",
			BankDetected: "Bancolombia",
			Transactions: []model.MatchCandidate{
				{Description: "Compra en Rappi", Direction: model.DirectionExpense, Amount: decimal.NewFromInt(45000), Confidence: 0.95},
				{Description: "movimiento xyz", Direction: model.DirectionExpense, Amount: decimal.NewFromInt(1000), Confidence: 0.4},
			},
		},
	}
	router, _ := newTestServer(t, stub)

	image := base64.StdEncoding.EncodeToString([]byte("fake image bytes"))
	w := doRequest(router, http.MethodPost, "/api/ai/parse-image", gin.H{
		"image": "data:image/png;base64," + image,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[struct {
		Success bool               `json:"success"`
		Data    parseImageResponse `json:"data"`
	}](t, w)

	assert.True(t, resp.Success)
	assert.Equal(t, "sms", resp.Data.SourceType)
	assert.Equal(t, "Bancolombia", resp.Data.BankDetected)
	require.Len(t, resp.Data.Transactions, 2)

	// The data-URL prefix is stripped but the mime type defaults when the
	// request does not carry one.
	assert.Equal(t, "image/jpeg", stub.gotMime)

	first := resp.Data.Transactions[0]
	assert.Equal(t, "Alimentación", first.SuggestedCategory)
	assert.Equal(t, model.ProvenanceDefault, first.CategorySource)

	second := resp.Data.Transactions[1]
	assert.Equal(t, "Otros Gastos", second.SuggestedCategory)
	assert.Equal(t, model.ProvenanceNone, second.CategorySource)
}

func TestParseImage_NotConfigured(t *testing.T) {
	router, _ := newTestServer(t, nil)

	w := doRequest(router, http.MethodPost, "/api/ai/parse-image", gin.H{"image": "aGk="})
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestParseImage_BadBase64(t *testing.T) {
	router, _ := newTestServer(t, &stubExtractor{})

	w := doRequest(router, http.MethodPost, "/api/ai/parse-image", gin.H{"image": "not base64!!!"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
