package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"identity-service/internal/auth/credentials"
	"identity-service/internal/logger"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request"})
		return
	}

	signed, err := h.credentials.Login(
		c.Request.Context(),
		req.Email,
		req.Password,
	)

	if errors.Is(err, credentials.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"message": "Invalid email or password",
		})
		return
	}
	if err != nil {
		logger.Error("login failed", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Internal Server Error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": signed})
}
