package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shopmall_back_end/internal/models"
)

// RequireAdmin vérifie que l'utilisateur connecté est de type "admin"
func RequireAdmin(c *gin.Context) {
	userType, exists := c.Get("user_type")
	if !exists || userType != models.UserTypeAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Accès réservé aux administrateurs"})
		c.Abort()
		return
	}
	c.Next()
}
