package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/live"
	"github.com/bhaskarBabu123/rsr-cabs-management-sub000/internal/token"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// SetupWSHandlers registers the live channel handshake endpoint
func SetupWSHandlers(router *gin.RouterGroup, hub *live.Hub) {
	router.GET("/ws", func(c *gin.Context) {
		// Authenticate before upgrading; unauthenticated handshakes
		// are rejected outright.
		tokenStr := c.Query("token")
		if tokenStr == "" {
			tokenStr = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		}
		identity, err := token.Verify(tokenStr)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "WebSocket upgrade failed"})
			return
		}

		live.NewPeer(hub, conn, identity)
	})
}
