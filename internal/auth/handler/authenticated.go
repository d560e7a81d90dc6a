package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Authenticated verifies a previously issued token presented as a
// query parameter and echoes the embedded email. Verification is
// stateless: no database access.
func (h *Handler) Authenticated(c *gin.Context) {
	claims, err := h.tokens.Verify(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"message": "Authentication failed!",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Authentication successful!",
		"email":   claims.Email,
	})
}
