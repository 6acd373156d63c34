package utils

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"shopmall_back_end/internal/models"
)

// GenerateJWT signe un jeton de session HS256 de 24 heures embarquant
// l'identité de l'utilisateur. Pas de refresh : l'expiration est absolue.
func GenerateJWT(user models.User) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "super_secret"
	}

	claims := jwt.MapClaims{
		"id":        user.ID,
		"email":     user.Email,
		"name":      user.Name,
		"user_type": user.UserType,
		"exp":       time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
