package handlers

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/templegit9/contracker-single/internal/services"
)

func (h *Handler) SetupRouter(rateLimiter *services.IPRateLimiter) *gin.Engine {
	r := gin.Default()

	// Middleware
	if rateLimiter != nil {
		r.Use(h.RateLimitMiddleware(rateLimiter))
	}

	store := cookie.NewStore([]byte(h.cfg.SessionSecret))
	r.Use(sessions.Sessions("contracker_session", store))

	// Routes
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})

	// Public Routes
	r.POST("/api/register", h.RegisterUser)
	r.POST("/api/login", h.LoginUser)
	r.POST("/logout", h.LogoutUser)

	// Protected Routes
	authorized := r.Group("/api/v1")
	authorized.Use(h.AuthRequired())
	{
		authorized.GET("/content", h.ListContent)
		authorized.POST("/content", h.AddContent)
		authorized.GET("/content/info", h.GetContentInfo)
		authorized.GET("/content/:id", h.GetContent)
		authorized.PUT("/content/:id", h.UpdateContent)
		authorized.DELETE("/content/:id", h.DeleteContent)
		authorized.POST("/content/:id/refresh", h.RefreshContent)
		authorized.GET("/content/:id/qr", h.ContentQRCode)

		authorized.GET("/engagement", h.ListEngagement)
		authorized.POST("/engagement/refresh", h.RefreshEngagement)
		authorized.GET("/stats", h.GetStats)

		authorized.GET("/settings", h.GetSettings)
		authorized.PUT("/settings", h.UpdateSettings)
		authorized.GET("/export", h.ExportData)
		authorized.POST("/import", h.ImportData)

		authorized.GET("/auth/me", h.CurrentUser)
		authorized.PUT("/auth/profile", h.UpdateProfile)
		authorized.PUT("/auth/password", h.UpdatePassword)
		authorized.PUT("/auth/email", h.UpdateEmail)
		authorized.POST("/auth/apikey", h.GenerateNewAPIKey)
		authorized.DELETE("/auth/account", h.DeleteAccount)
	}

	return r
}
