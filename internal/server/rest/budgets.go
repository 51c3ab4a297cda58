package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"finbudget/internal/common"
	"finbudget/internal/server/services"
)

type categoryPayload struct {
	Name            string          `json:"name"`
	AllocatedAmount decimal.Decimal `json:"allocated_amount"`
	Color           string          `json:"color"`
}

type budgetCreateRequest struct {
	Name       *string            `json:"name"`
	Amount     *float64           `json:"amount"`
	Month      *string            `json:"month"`
	Categories *[]categoryPayload `json:"categories"`
}

type budgetUpdateRequest struct {
	Name       *string            `json:"name"`
	Amount     *float64           `json:"amount"`
	Month      *string            `json:"month"`
	Categories *[]categoryPayload `json:"categories"`
}

type categoryResponse struct {
	ID              int     `json:"id"`
	Name            string  `json:"name"`
	AllocatedAmount float64 `json:"allocated_amount"`
	Color           string  `json:"color"`
}

type budgetResponse struct {
	ID         int                `json:"id"`
	Name       string             `json:"name"`
	Amount     float64            `json:"amount"`
	Month      string             `json:"month"`
	Categories []categoryResponse `json:"categories"`
}

func toCategoryInputs(payload []categoryPayload) []services.CategoryInput {
	out := make([]services.CategoryInput, 0, len(payload))
	for _, c := range payload {
		out = append(out, services.CategoryInput{
			Name:            c.Name,
			AllocatedAmount: c.AllocatedAmount,
			Color:           c.Color,
		})
	}
	return out
}

func (s *Server) handleBudgetList(c *gin.Context) {
	budgets, err := s.budgets.List(c.Request.Context(), userID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]budgetResponse, 0, len(budgets))
	for _, b := range budgets {
		categories := make([]categoryResponse, 0, len(b.Categories))
		for _, cat := range b.Categories {
			categories = append(categories, categoryResponse{
				ID:              cat.ID,
				Name:            cat.Name,
				AllocatedAmount: cat.AllocatedAmount.InexactFloat64(),
				Color:           cat.Color,
			})
		}
		out = append(out, budgetResponse{
			ID:         b.ID,
			Name:       b.Name,
			Amount:     b.Amount,
			Month:      b.Month,
			Categories: categories,
		})
	}

	c.JSON(http.StatusOK, out)
}

func (s *Server) handleBudgetCreate(c *gin.Context) {
	var req budgetCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}

	if req.Name == nil || req.Amount == nil || req.Month == nil || req.Categories == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required budget fields"})
		return
	}

	budget, err := s.budgets.Create(c.Request.Context(), userID(c),
		*req.Name, *req.Amount, *req.Month, toCategoryInputs(*req.Categories))
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Budget creation failed"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Budget created successfully",
		"budget_id": budget.ID,
	})
}

func (s *Server) handleBudgetUpdate(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid budget id"})
		return
	}

	var req budgetUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}

	update := services.BudgetUpdate{
		Name:   req.Name,
		Amount: req.Amount,
		Month:  req.Month,
	}
	if req.Categories != nil {
		inputs := toCategoryInputs(*req.Categories)
		update.Categories = &inputs
	}

	if err := s.budgets.Update(c.Request.Context(), userID(c), id, update); err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Budget not found"})
		case errors.Is(err, common.ErrorValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Budget updated successfully"})
}

func (s *Server) handleBudgetDelete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid budget id"})
		return
	}

	if err := s.budgets.Delete(c.Request.Context(), userID(c), id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Budget not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Budget deleted successfully"})
}
