package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/templegit9/contracker-single/internal/services"
)

func (h *Handler) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if userID, ok := session.Get("user_id").(string); ok && userID != "" {
			c.Set("user_id", userID)
			c.Next()
			return
		}

		// Fall back to API key auth
		apiKey := c.GetHeader("X-API-Key")
		if apiKey != "" {
			if user, err := h.identityService.FindByAPIKey(c.Request.Context(), apiKey); err == nil {
				c.Set("user_id", user.ID)
				c.Next()
				return
			}
		}

		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		c.Abort()
	}
}

func (h *Handler) RateLimitMiddleware(limiter *services.IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		l := limiter.GetLimiter(ip)
		if !l.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Please try again later.",
			})
			return
		}
		c.Next()
	}
}
