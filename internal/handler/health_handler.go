package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"rinsetu/internal/session"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	db       *sqlx.DB
	sessions *session.Store
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *sqlx.DB, sessions *session.Store) *HealthHandler {
	return &HealthHandler{db: db, sessions: sessions}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"active_sessions": h.sessions.Len(),
	})
}

// Readiness handles GET /readyz. The database is the only external dependency
// a request strictly needs; extractors and email degrade per request.
func (h *HealthHandler) Readiness(c *gin.Context) {
	checks := gin.H{"database": "ok"}
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		checks["database"] = "unreachable"
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "checks": checks})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "checks": checks})
}
