package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"finbudget/internal/common"
)

// Request payloads use pointer fields so that an absent key can be told apart
// from a zero value.
type registerRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type loginRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}

	for _, f := range []struct {
		name  string
		value *string
	}{
		{"name", req.Name},
		{"email", req.Email},
		{"password", req.Password},
	} {
		if f.value == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing " + f.name + " field"})
			return
		}
	}

	_, err := s.users.Register(c.Request.Context(), *req.Name, *req.Email, *req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrEmailExists), errors.Is(err, common.ErrNameExists):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully"})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}

	if req.Email == nil || req.Password == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing email or password field"})
		return
	}

	token, id, err := s.users.Login(c.Request.Context(), *req.Email, *req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Login successful",
		"access_token": token,
		"user_id":      id,
	})
}

func (s *Server) handleProfile(c *gin.Context) {
	user, err := s.users.GetProfile(c.Request.Context(), userID(c))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
	})
}
