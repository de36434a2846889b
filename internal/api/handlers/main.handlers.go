package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupMainHandlers registers health and readiness endpoints
func SetupMainHandlers(router *gin.RouterGroup) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
