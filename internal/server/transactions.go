package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/juanfelareal/tranki/internal/model"
	"github.com/juanfelareal/tranki/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type transactionRequest struct {
	Direction   model.CategoryDirection `json:"type" binding:"required"`
	Amount      decimal.Decimal         `json:"amount" binding:"required"`
	Description string                  `json:"description" binding:"required"`
	Date        string                  `json:"date" binding:"required"`
	CategoryID  *int64                  `json:"category_id"`
	AIExtracted bool                    `json:"ai_extracted"`
}

type saveTransactionsRequest struct {
	Transactions []transactionRequest `json:"transactions" binding:"required"`
}

// saveTransactions persists reviewed transactions. Learning from corrected
// suggestions is a separate POST /api/rules call, the same split the review
// UI uses.
func (s *Server) saveTransactions(c *gin.Context) {
	var req saveTransactionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "transactions array is required"})
		return
	}

	transactions := make([]model.Transaction, 0, len(req.Transactions))
	for i, tr := range req.Transactions {
		date, err := time.Parse("2006-01-02", tr.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid date at index %d", i)})
			return
		}
		transactions = append(transactions, model.Transaction{
			TenantID:    tenant(c),
			Direction:   tr.Direction,
			Amount:      tr.Amount,
			Description: tr.Description,
			Date:        date,
			CategoryID:  tr.CategoryID,
			AIExtracted: tr.AIExtracted,
		})
	}

	if err := s.store.SaveTransactions(c.Request.Context(), transactions); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"saved": len(transactions)})
}

func (s *Server) listTransactions(c *gin.Context) {
	filter := service.TransactionFilter{Limit: 100}
	if direction := model.CategoryDirection(c.Query("type")); direction.Valid() {
		filter.Direction = &direction
	}
	if startStr := c.Query("start_date"); startStr != "" {
		t, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date"})
			return
		}
		filter.StartDate = &t
	}
	if endStr := c.Query("end_date"); endStr != "" {
		t, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date"})
			return
		}
		filter.EndDate = &t
	}

	transactions, err := s.store.GetTransactions(c.Request.Context(), tenant(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, transactions)
}
