package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/juanfelareal/tranki/internal/model"

	"github.com/gin-gonic/gin"
)

type categoryResponse struct {
	ID        int64                   `json:"id"`
	Name      string                  `json:"name"`
	Direction model.CategoryDirection `json:"type"`
	Icon      string                  `json:"icon"`
	Color     string                  `json:"color"`
	IsDefault bool                    `json:"is_default"`
	CreatedAt time.Time               `json:"created_at"`
}

func toCategoryResponse(cat model.Category) categoryResponse {
	return categoryResponse{
		ID:        cat.ID,
		Name:      cat.Name,
		Direction: cat.Direction,
		Icon:      cat.Icon,
		Color:     cat.Color,
		IsDefault: cat.IsDefault,
		CreatedAt: cat.CreatedAt,
	}
}

func (s *Server) listCategories(c *gin.Context) {
	categories, err := s.store.GetCategories(c.Request.Context(), tenant(c))
	if err != nil {
		respondError(c, err)
		return
	}

	direction := model.CategoryDirection(c.Query("type"))
	responses := make([]categoryResponse, 0, len(categories))
	for _, cat := range categories {
		if direction.Valid() && cat.Direction != direction {
			continue
		}
		responses = append(responses, toCategoryResponse(cat))
	}
	c.JSON(http.StatusOK, responses)
}

func (s *Server) getCategory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}

	cat, err := s.store.GetCategoryByID(c.Request.Context(), tenant(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCategoryResponse(*cat))
}

type createCategoryRequest struct {
	Name      string                  `json:"name" binding:"required"`
	Direction model.CategoryDirection `json:"type" binding:"required"`
	Icon      string                  `json:"icon"`
	Color     string                  `json:"color"`
}

func (s *Server) createCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and type are required"})
		return
	}

	cat, err := s.store.CreateCategory(c.Request.Context(), tenant(c), req.Name, req.Direction, req.Icon, req.Color)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCategoryResponse(*cat))
}

type updateCategoryRequest struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

func (s *Server) updateCategory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}

	var req updateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := s.store.UpdateCategory(c.Request.Context(), tenant(c), id, req.Name, req.Icon, req.Color); err != nil {
		respondError(c, err)
		return
	}

	cat, err := s.store.GetCategoryByID(c.Request.Context(), tenant(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCategoryResponse(*cat))
}

func (s *Server) deleteCategory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}

	if err := s.store.DeleteCategory(c.Request.Context(), tenant(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "category deleted"})
}

// spendingStats returns per-category expense totals, optionally bounded by
// start_date and end_date query parameters (YYYY-MM-DD).
func (s *Server) spendingStats(c *gin.Context) {
	var start, end *time.Time
	if startStr := c.Query("start_date"); startStr != "" {
		t, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date"})
			return
		}
		start = &t
	}
	if endStr := c.Query("end_date"); endStr != "" {
		t, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date"})
			return
		}
		end = &t
	}

	spending, err := s.store.GetSpendingByCategory(c.Request.Context(), tenant(c), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, spending)
}
