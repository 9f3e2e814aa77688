package httpapi

import "github.com/gin-gonic/gin"

// NewRouter wires the API routes. Registration and the liveness probe are
// open; everything else requires a device token.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	api.GET("/ping", h.Ping)
	api.POST("/devices", h.RegisterDevice)

	protected := api.Group("")
	protected.Use(authMiddleware(h.secretKey))
	protected.POST("/sync", h.Sync)
	protected.GET("/budgets", h.ListBudgets)
	protected.DELETE("/budgets/:id", h.DeleteBudget)
	protected.DELETE("/categories/:id", h.DeleteCategory)

	return r
}
