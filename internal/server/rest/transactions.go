package rest

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"finbudget/internal/common"
	"finbudget/internal/server/models"
)

type transactionCreateRequest struct {
	BudgetCategoryID *int     `json:"budget_category_id"`
	Amount           *float64 `json:"amount"`
	Type             *string  `json:"type"`
	Description      *string  `json:"description"`
}

type transactionResponse struct {
	ID               int     `json:"id"`
	UserID           int     `json:"user_id"`
	BudgetCategoryID int     `json:"budget_category_id"`
	CreatedAt        string  `json:"created_at"`
	Amount           float64 `json:"amount"`
	Description      string  `json:"description"`
	Type             string  `json:"type"`
}

func (s *Server) handleTransactionList(c *gin.Context) {
	list, err := s.transactions.List(c.Request.Context(), userID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]transactionResponse, 0, len(list))
	for _, t := range list {
		out = append(out, transactionResponse{
			ID:               t.ID,
			UserID:           t.UserID,
			BudgetCategoryID: t.BudgetCategoryID,
			CreatedAt:        t.CreatedAt.Format(time.RFC3339),
			Amount:           t.Amount,
			Description:      t.Description,
			Type:             t.Type,
		})
	}

	c.JSON(http.StatusOK, out)
}

func (s *Server) handleTransactionCreate(c *gin.Context) {
	var req transactionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}

	for _, f := range []struct {
		name string
		ok   bool
	}{
		{"budget_category_id", req.BudgetCategoryID != nil},
		{"amount", req.Amount != nil},
		{"type", req.Type != nil},
		{"description", req.Description != nil},
	} {
		if !f.ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing " + f.name + " field"})
			return
		}
	}

	_, err := s.transactions.Create(c.Request.Context(), &models.Transaction{
		UserID:           userID(c),
		BudgetCategoryID: *req.BudgetCategoryID,
		Amount:           *req.Amount,
		Description:      *req.Description,
		Type:             *req.Type,
	})
	if err != nil {
		if errors.Is(err, common.ErrCategoryMissing) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category does not exist"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Transaction created successfully"})
}

func (s *Server) handleTransactionDelete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction id"})
		return
	}

	// Missing and foreign transactions are deliberately indistinguishable.
	if err := s.transactions.Delete(c.Request.Context(), userID(c), id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}
