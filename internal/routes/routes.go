package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/insuraloop/backend/internal/handlers"
	"github.com/insuraloop/backend/internal/middleware"
)

// Handlers bundles every HTTP handler the router needs
type Handlers struct {
	Auth       *handlers.AuthHandler
	Referral   *handlers.ReferralHandler
	Lead       *handlers.LeadHandler
	Validation *handlers.ValidationHandler
	Admin      *handlers.AdminHandler
}

// RegisterRoutes wires all routes into the gin engine
func RegisterRoutes(router *gin.Engine, h Handlers, rateLimiter *middleware.RateLimiter) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public routes, rate limited per IP
	public := router.Group("/")
	public.Use(rateLimiter.IPRateLimiterMiddleware())
	{
		public.GET("/r/:code", h.Referral.VisitLink)
		public.POST("/api/leads/capture/:code", h.Lead.Capture)
		public.POST("/api/validation/validate", h.Validation.DryRun)
	}

	authGroup := router.Group("/api/auth")
	authGroup.Use(rateLimiter.IPRateLimiterMiddleware())
	{
		authGroup.POST("/signup", h.Auth.Signup)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
	}

	// Authenticated agent routes
	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		api.GET("/me", h.Auth.Me)

		api.POST("/referral-links", h.Referral.CreateLink)
		api.GET("/referral-links", h.Referral.ListLinks)
		api.GET("/referral-links/:id", h.Referral.GetLink)
		api.PATCH("/referral-links/:id", h.Referral.UpdateLink)
		api.DELETE("/referral-links/:id", h.Referral.DeactivateLink)

		api.GET("/leads", h.Lead.ListLeads)
		api.GET("/leads/:id", h.Lead.GetLead)
		api.PATCH("/leads/:id/status", h.Lead.UpdateStatus)
		api.POST("/leads/:id/validate", h.Validation.Revalidate)
	}

	// Admin routes
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.GET("/validation-logs", h.Admin.ListValidationLogs)
		admin.GET("/payment-rates", h.Admin.ListPaymentRates)
		admin.POST("/payment-rates", h.Admin.UpsertPaymentRate)
		admin.POST("/payment-rates/seed", h.Admin.SeedPaymentRates)
	}
}
