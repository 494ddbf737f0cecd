// Package handler provides HTTP handlers for platform endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health serves /healthz for load balancers and uptime checks. Responses are
// never cached; HEAD gets an empty 200 and OPTIONS an empty 204.
func Health(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
