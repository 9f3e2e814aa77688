// Package httpapi exposes the sync and admin operations over a JSON HTTP
// API backed by gin.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dberzins/budgetsync/internal/common"
	"github.com/dberzins/budgetsync/internal/logging"
	"github.com/dberzins/budgetsync/internal/models"
	"github.com/dberzins/budgetsync/internal/protocol"
	"github.com/dberzins/budgetsync/internal/server/auth"
)

// SyncService is the merge engine surface the API needs.
type SyncService interface {
	Sync(ctx context.Context, req *protocol.Request) (*protocol.Response, error)
}

// AdminService is the direct mutation surface (hard deletes, listings).
type AdminService interface {
	CascadeDeleteBudget(ctx context.Context, id string) error
	CascadeDeleteCategory(ctx context.Context, id string) error
	ListActiveBudgets(ctx context.Context) ([]*models.Budget, error)
}

// Handler binds the services to gin routes.
type Handler struct {
	sync          SyncService
	admin         AdminService
	secretKey     []byte
	tokenValidity time.Duration
	logger        logging.Logger
}

func NewHandler(sync SyncService, admin AdminService, secretKey []byte, tokenValidity time.Duration, logger logging.Logger) *Handler {
	return &Handler{
		sync:          sync,
		admin:         admin,
		secretKey:     secretKey,
		tokenValidity: tokenValidity,
		logger:        logger.With("module", "httpapi"),
	}
}

type registerDeviceRequest struct {
	DeviceID string `json:"deviceId" binding:"required"`
}

type registerDeviceResponse struct {
	Token string `json:"token"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Ping reports API liveness. The client's reachability probe hits this.
func (h *Handler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RegisterDevice issues a signed token for a client-generated device id.
// Registration is open: possession of a token only proves the caller went
// through this handshake, there are no per-device permissions.
func (h *Handler) RegisterDevice(c *gin.Context) {
	var req registerDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "deviceId is required"})
		return
	}

	token, err := auth.GenerateToken(req.DeviceID, h.secretKey, h.tokenValidity)
	if err != nil {
		h.logger.Error(c.Request.Context(), "token generation failed", "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	h.logger.Info(c.Request.Context(), "device registered", "deviceId", req.DeviceID)
	c.JSON(http.StatusOK, registerDeviceResponse{Token: token})
}

// Sync runs one merge round. Malformed payloads are rejected as a whole
// with 400; nothing from such a round reaches the store.
func (h *Handler) Sync(c *gin.Context) {
	var req protocol.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "malformed payload"})
		return
	}

	resp, err := h.sync.Sync(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, common.ErrMalformedRecord) {
			c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		h.logger.Error(c.Request.Context(), "sync round failed", "device", c.GetString(deviceIDKey), "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListBudgets returns non-deleted budgets, for admin tooling.
func (h *Handler) ListBudgets(c *gin.Context) {
	budgets, err := h.admin.ListActiveBudgets(c.Request.Context())
	if err != nil {
		h.logger.Error(c.Request.Context(), "budget listing failed", "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"budgets": budgets})
}

// DeleteBudget hard-deletes a budget and its descendants.
func (h *Handler) DeleteBudget(c *gin.Context) {
	h.cascadeDelete(c, h.admin.CascadeDeleteBudget)
}

// DeleteCategory hard-deletes a category, its entries and overrides.
func (h *Handler) DeleteCategory(c *gin.Context) {
	h.cascadeDelete(c, h.admin.CascadeDeleteCategory)
}

func (h *Handler) cascadeDelete(c *gin.Context, del func(context.Context, string) error) {
	id := c.Param("id")
	if err := del(c.Request.Context(), id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.JSON(http.StatusNotFound, errorResponse{Error: "not found"})
			return
		}
		h.logger.Error(c.Request.Context(), "cascade delete failed", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}
	c.Status(http.StatusNoContent)
}
