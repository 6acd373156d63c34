package user

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"shopmall_back_end/internal/store"
	"shopmall_back_end/internal/utils"
)

// Login authentifie par email/mot de passe et délivre un jeton de 24h.
// Le même message accompagne un email inconnu et un mauvais mot de
// passe : la réponse ne doit pas permettre d'énumérer les comptes.
func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Email == "" || input.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Veuillez renseigner l'email et le mot de passe",
		})
		return
	}

	u, err := store.Users.GetByEmail(c.Request.Context(), input.Email)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "Email ou mot de passe incorrect. Veuillez réessayer.",
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	ok, err := utils.VerifyPassword(input.Password, u.Password)
	if err != nil || !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "Email ou mot de passe incorrect. Veuillez réessayer.",
		})
		return
	}

	token, err := utils.GenerateJWT(*u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Erreur génération du token",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Bienvenue, %s !", u.Name),
		"user":    u,
		"token":   token,
	})
}
