package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shopmall_back_end/internal/database"
)

const (
	LoginMaxAttempts = 5
	LoginCooldown    = 15 * time.Minute
)

// LoginRateLimit limite les tentatives de connexion par email.
// Les compteurs vivent dans Redis ; sans Redis (tests), on laisse passer.
func LoginRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if database.Redis == nil {
			c.Next()
			return
		}

		// Lire le body sans le consommer
		bodyBytes, _ := io.ReadAll(c.Request.Body)
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		var input struct {
			Email string `json:"email"`
		}
		if err := json.Unmarshal(bodyBytes, &input); err != nil || input.Email == "" {
			c.Next()
			return
		}

		ctx := context.Background()
		cooldownKey := "login_cooldown:" + input.Email

		if database.Redis.Exists(ctx, cooldownKey).Val() > 0 {
			ttl := database.Redis.TTL(ctx, cooldownKey).Val()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       fmt.Sprintf("Trop de tentatives échouées. Réessayez dans %d minutes", int(ttl.Minutes())+1),
				"retry_after": int(ttl.Seconds()),
			})
			c.Abort()
			return
		}

		c.Next()

		// Après le handler : compter les échecs, armer le cooldown au seuil
		attemptsKey := "login_attempts:" + input.Email
		if c.Writer.Status() == http.StatusUnauthorized {
			attempts, _ := database.Redis.Incr(ctx, attemptsKey).Result()
			database.Redis.Expire(ctx, attemptsKey, LoginCooldown)
			if attempts >= LoginMaxAttempts {
				database.Redis.Set(ctx, cooldownKey, "1", LoginCooldown)
				database.Redis.Del(ctx, attemptsKey)
			}
		} else if c.Writer.Status() == http.StatusOK {
			database.Redis.Del(ctx, attemptsKey)
		}
	}
}
