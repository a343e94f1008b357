package router

import (
	"github.com/gin-gonic/gin"

	"rinsetu/internal/config"
	"rinsetu/internal/domain"
	"rinsetu/internal/handler"
	"rinsetu/internal/middleware"
	"rinsetu/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	authSvc service.AuthService,
	authH *handler.AuthHandler,
	sessionH *handler.SessionHandler,
	userH *handler.UserHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.RefreshToken)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	// Verification sessions
	sessions := protected.Group("/sessions")
	sessions.POST("", sessionH.Create)
	sessions.GET("/:id", sessionH.Get)
	sessions.DELETE("/:id", sessionH.Delete)
	sessions.POST("/:id/documents", sessionH.UploadDocument)
	sessions.POST("/:id/evaluate", sessionH.Evaluate)
	sessions.GET("/:id/decision", sessionH.GetDecision)
	sessions.GET("/:id/consistency", sessionH.GetConsistency)
	sessions.GET("/:id/income", sessionH.GetIncome)
	sessions.GET("/:id/credit", sessionH.GetCredit)
	sessions.GET("/:id/export/csv", sessionH.ExportCSV)
	sessions.GET("/:id/export/xlsx", sessionH.ExportXLSX)

	// Decision audit trail
	protected.GET("/audits", sessionH.ListAudits)

	// User management
	users := protected.Group("/users")
	users.POST("", middleware.RequireRole(domain.RoleAdmin), userH.Create)
	users.GET("", middleware.RequireRole(domain.RoleAdmin), userH.List)
	users.GET("/:id", userH.GetByID)
	users.PATCH("/:id", userH.Update)
	users.DELETE("/:id", middleware.RequireRole(domain.RoleAdmin), userH.Delete)

	return r
}
