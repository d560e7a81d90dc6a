package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"identity-service/internal/logger"
)

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup registers or re-registers an email. Signup with an existing
// email rotates its password, so the call always answers 200 with a
// fresh token.
func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request"})
		return
	}

	signed, err := h.credentials.Signup(
		c.Request.Context(),
		req.Email,
		req.Password,
	)
	if err != nil {
		logger.Error("signup failed", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Internal Server Error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": signed})
}
