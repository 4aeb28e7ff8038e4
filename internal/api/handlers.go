package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pageza/foodwise/backend/internal/middleware"
	"github.com/pageza/foodwise/backend/internal/service"
)

// upstreamContext bounds the external calls made for one request. A zero
// timeout leaves only the request's own cancellation.
func upstreamContext(c *gin.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), timeout)
}

// respondUpstreamError reports a failed backend call. The upstream error text
// is passed through; deadlines map to 504.
func respondUpstreamError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, context.DeadlineExceeded) {
		status = http.StatusGatewayTimeout
	}

	_ = c.Error(err)
	logrus.WithError(err).WithFields(logrus.Fields{
		"request_id": c.GetString(middleware.RequestIDKey),
		"path":       c.Request.URL.Path,
	}).Error("upstream call failed")

	c.JSON(status, gin.H{"error": err.Error()})
}

func respondProfileError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrProfileNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// HealthChecker reports whether a dependency is reachable
type HealthChecker func(ctx context.Context) error

// HealthHandler serves the liveness endpoint
type HealthHandler struct {
	users    func() int
	database HealthChecker
}

// NewHealthHandler creates a new HealthHandler; database may be nil
func NewHealthHandler(users func() int, database HealthChecker) *HealthHandler {
	return &HealthHandler{users: users, database: database}
}

// RegisterRoutes registers the health route
func (h *HealthHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/health", h.HealthCheck)
}

// HealthCheck returns the health status of the API
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	body := gin.H{
		"status": "healthy",
		"users":  h.users(),
	}

	if h.database != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.database(ctx); err != nil {
			body["status"] = "unhealthy"
			body["database"] = err.Error()
			c.JSON(http.StatusServiceUnavailable, body)
			return
		}
		body["database"] = "ok"
	}

	c.JSON(http.StatusOK, body)
}
