package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pawaninkhiya/chawla-cabinets-backend/internal/database"
)

const (
	loginMaxAttempts = 5
	loginCooldown    = 15 * time.Minute
)

// LoginRateLimit limite les tentatives de connexion par email via Redis.
// Sans Redis, le middleware laisse passer.
func LoginRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if database.RedisClient == nil {
			c.Next()
			return
		}

		// Lire le body sans le consommer pour le handler suivant.
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
		key := "login_attempts:" + input.Email

		attempts, _ := database.RedisClient.Get(ctx, key).Int()
		if attempts >= loginMaxAttempts {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Trop de tentatives de connexion, réessayez plus tard"})
			c.Abort()
			return
		}

		database.RedisClient.Incr(ctx, key)
		database.RedisClient.Expire(ctx, key, loginCooldown)
		c.Next()
	}
}
