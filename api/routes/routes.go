package routes

import (
	"net/http"

	"github.com/ArowuTest/zithara-mail-backend/internal/config"
	"github.com/ArowuTest/zithara-mail-backend/internal/handlers"
	"github.com/ArowuTest/zithara-mail-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers groups the HTTP handlers mounted by SetupRouter.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Campaign   *handlers.CampaignHandler
	Subscriber *handlers.SubscriberHandler
	Tracking   *handlers.TrackingHandler
	Content    *handlers.ContentHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, h Handlers, tokens middleware.TokenParser) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"message":   "Zithara Email Marketing API",
			"version":   "1.0.0",
			"endpoints": []string{"/api/auth", "/api/campaigns", "/api/subscribers", "/api/content", "/api/tracking"},
		})
	})

	// Public routes
	public := router.Group("/api")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		auth := public.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
		}

		tracking := public.Group("/tracking")
		{
			tracking.GET("/open", h.Tracking.Open)
			tracking.GET("/click", h.Tracking.Click)
		}

		public.GET("/subscribers/unsubscribe", h.Subscriber.Unsubscribe)
	}

	// Protected routes
	protected := router.Group("/api")
	protected.Use(middleware.JWTAuthMiddleware(tokens))
	{
		protected.GET("/auth/me", h.Auth.Me)

		campaigns := protected.Group("/campaigns")
		{
			campaigns.GET("", h.Campaign.List)
			campaigns.POST("", h.Campaign.Create)
			campaigns.GET("/:id", h.Campaign.Get)
			campaigns.PUT("/:id", h.Campaign.Update)
			campaigns.DELETE("/:id", h.Campaign.Delete)
			campaigns.POST("/:id/send", h.Campaign.Send)
		}

		subscribers := protected.Group("/subscribers")
		{
			subscribers.GET("", h.Subscriber.List)
			subscribers.POST("", h.Subscriber.Create)
			subscribers.GET("/active", h.Subscriber.Active)
			subscribers.POST("/import", h.Subscriber.Import)
			subscribers.GET("/:id", h.Subscriber.Get)
			subscribers.PUT("/:id", h.Subscriber.Update)
			subscribers.DELETE("/:id", h.Subscriber.Delete)
		}

		content := protected.Group("/content")
		{
			content.POST("/process", h.Content.Process)
			content.POST("/generate-content", h.Content.GenerateContent)
			content.POST("/generate-subject", h.Content.GenerateSubject)
		}
	}

	return router
}
