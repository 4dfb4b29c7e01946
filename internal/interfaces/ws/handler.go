package ws

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/retailpos/backend/internal/interfaces/http/middleware"
)

// StockFeedHandler upgrades HTTP requests to WebSocket connections on
// the hub. Requests pass the JWT and tenant middleware first, so a
// connection is always scoped to an authenticated tenant.
type StockFeedHandler struct {
	hub      *Hub
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewStockFeedHandler creates a handler for the given hub. Allowed
// origins mirror the CORS configuration; an empty list rejects all
// cross-origin upgrade requests.
func NewStockFeedHandler(hub *Hub, allowedOrigins []string, logger *zap.Logger) *StockFeedHandler {
	origins := make(map[string]struct{}, len(allowedOrigins))
	allowAll := false
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		origins[o] = struct{}{}
	}

	return &StockFeedHandler{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					// Same-origin and non-browser clients.
					return true
				}
				if allowAll {
					return true
				}
				_, ok := origins[origin]
				return ok
			},
		},
	}
}

// Serve godoc
// @Summary      Live stock feed
// @Description  Upgrades to a WebSocket that streams stock movement updates for the tenant's branches
// @Tags         inventory
// @Success      101 {string} string "Switching Protocols"
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/feed [get]
func (h *StockFeedHandler) Serve(c *gin.Context) {
	tenantID, err := middleware.GetTenantUUID(c)
	if err != nil || tenantID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": gin.H{
			"code":    "ERR_UNAUTHORIZED",
			"message": "Tenant context required",
		}})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		h.logger.Debug("stock feed upgrade failed", zap.Error(err))
		return
	}

	client := newClient(h.hub, tenantID, conn, h.logger)
	h.hub.register <- client

	go client.writePump()
	go client.readPump()
}
