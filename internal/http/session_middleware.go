package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"skincare-advisor/internal/service"
)

const sessionIDKey = "session_id"

// SessionAuthMiddleware valida el token de sesion y guarda el id de sesion en el contexto.
func SessionAuthMiddleware(tokens *service.SessionTokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokens == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "session tokens not configured"})
			c.Abort()
			return
		}

		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			c.Abort()
			return
		}

		token := strings.TrimSpace(header[len("Bearer "):])
		claims, err := tokens.Parse(token)
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, service.ErrTokenExpired) {
				msg = "session expired"
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": msg})
			c.Abort()
			return
		}

		c.Set(sessionIDKey, claims.SessionID)
		c.Next()
	}
}

// GetSessionID obtiene el id de sesion desde el contexto.
func GetSessionID(c *gin.Context) (string, bool) {
	val, ok := c.Get(sessionIDKey)
	if !ok {
		return "", false
	}
	id, ok := val.(string)
	return id, ok && id != ""
}

// RateLimitMiddleware corta con 429 cuando la sesion (o la IP, sin sesion)
// supera el limite de envios. Debe ir despues de SessionAuthMiddleware.
func RateLimitMiddleware(limiter service.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		sessionID, _ := GetSessionID(c)
		ok, retry := limiter.Allow(c.Request.Context(), service.UploadKey(sessionID, c.ClientIP()))
		if !ok {
			c.Header("Retry-After", retryAfterSeconds(retry))
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many uploads, try again later"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func retryAfterSeconds(d time.Duration) string {
	secs := int64((d + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return strconv.FormatInt(secs, 10)
}
