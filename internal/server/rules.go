package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/juanfelareal/tranki/internal/model"

	"github.com/gin-gonic/gin"
)

// ruleResponse is the wire shape for a category rule.
type ruleResponse struct {
	ID                int64                   `json:"id"`
	Keyword           string                  `json:"keyword"`
	CategoryID        int64                   `json:"category_id"`
	CategoryName      string                  `json:"category_name"`
	CategoryDirection model.CategoryDirection `json:"category_type"`
	CreatedAt         time.Time               `json:"created_at"`
}

func toRuleResponse(rule model.CategoryRule) ruleResponse {
	return ruleResponse{
		ID:                rule.ID,
		Keyword:           rule.Keyword,
		CategoryID:        rule.CategoryID,
		CategoryName:      rule.CategoryName,
		CategoryDirection: rule.CategoryDirection,
		CreatedAt:         rule.CreatedAt,
	}
}

// matchResponse is the wire shape for a suggestion.
type matchResponse struct {
	Text           string           `json:"text,omitempty"`
	CategoryID     *int64           `json:"category_id"`
	CategoryName   string           `json:"category_name"`
	MatchedKeyword string           `json:"matched_rule,omitempty"`
	Provenance     model.Provenance `json:"source"`
}

func toMatchResponse(text string, result model.MatchResult) matchResponse {
	return matchResponse{
		Text:           text,
		CategoryID:     result.CategoryID,
		CategoryName:   result.CategoryName,
		MatchedKeyword: result.MatchedKeyword,
		Provenance:     result.Provenance,
	}
}

func (s *Server) listRules(c *gin.Context) {
	rules, err := s.store.ListRules(c.Request.Context(), tenant(c))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]ruleResponse, 0, len(rules))
	for _, rule := range rules {
		responses = append(responses, toRuleResponse(rule))
	}
	c.JSON(http.StatusOK, responses)
}

type createRuleRequest struct {
	Keyword    string `json:"keyword" binding:"required"`
	CategoryID int64  `json:"category_id" binding:"required"`
}

// createRule is the explicit rule-management path and the endpoint the
// review UI calls when a user corrects a suggestion. Both funnel through the
// same atomic upsert.
func (s *Server) createRule(c *gin.Context) {
	var req createRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "keyword and category_id are required"})
		return
	}

	rule, err := s.store.UpsertRule(c.Request.Context(), tenant(c), req.Keyword, req.CategoryID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toRuleResponse(*rule))
}

func (s *Server) deleteRule(c *gin.Context) {
	ruleID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rule id"})
		return
	}

	if err := s.store.DeleteRule(c.Request.Context(), tenant(c), ruleID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "rule deleted"})
}

type matchRequest struct {
	Text      string                  `json:"text" binding:"required"`
	Direction model.CategoryDirection `json:"type" binding:"required"`
}

// matchRule suggests a category for one description. The UI calls this
// while the user types.
func (s *Server) matchRule(c *gin.Context) {
	var req matchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text and type are required"})
		return
	}

	result, err := s.engine.Suggest(c.Request.Context(), tenant(c), req.Text, req.Direction)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toMatchResponse(req.Text, result))
}

type bulkMatchRequest struct {
	Items []matchRequest `json:"items" binding:"required"`
}

// bulkMatchRules matches a batch of descriptions against one rule snapshot.
// Results keep the request order, one per item.
func (s *Server) bulkMatchRules(c *gin.Context) {
	var req bulkMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "items array is required"})
		return
	}

	candidates := make([]model.MatchCandidate, len(req.Items))
	for i, item := range req.Items {
		candidates[i] = model.MatchCandidate{
			Description: item.Text,
			Direction:   item.Direction,
		}
	}

	results, err := s.engine.SuggestAll(c.Request.Context(), tenant(c), candidates)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]matchResponse, len(results))
	for i, result := range results {
		responses[i] = toMatchResponse(req.Items[i].Text, result)
	}
	c.JSON(http.StatusOK, responses)
}
