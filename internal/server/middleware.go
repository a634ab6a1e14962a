package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	httperr "github.com/aevon-lab/routekit/internal/core/errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the request id in both directions.
	RequestIDHeader = "X-Request-Id"

	// RequestIDKey is the gin context key holding the request id.
	RequestIDKey = "request_id"
)

// requestID extracts or generates request IDs
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.New().String()
		}

		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// security identifies the server and sets the hardening headers on every
// response. With upgrade enabled, plain-HTTP requests that ask for it are
// redirected to https.
func security(name, version string, upgrade bool) gin.HandlerFunc {
	serverHeader := name
	if version != "" {
		serverHeader = name + " " + version
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Server", serverHeader)
		h.Set("X-Powered-By", name)
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-DNS-Prefetch-Control", "off")
		h.Set("X-Frame-Options", "DENY")

		if upgrade && c.GetHeader("Upgrade-Insecure-Requests") == "1" && !isSecure(c.Request) {
			h.Set("Vary", "Upgrade-Insecure-Requests")
			c.Redirect(http.StatusFound, "https://"+c.Request.Host+c.Request.URL.RequestURI())
			c.Abort()
			return
		}

		c.Next()
	}
}

func isSecure(r *http.Request) bool {
	return r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"
}

// requestLogger logs one line per completed request, leveled by status.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"request_id", c.GetString(RequestIDKey),
			"remote", c.ClientIP(),
			"method", c.Request.Method,
			"url", c.Request.URL.RequestURI(),
			"status", status,
			"duration", time.Since(start).String(),
			"referrer", c.Request.Referer(),
			"user_agent", c.Request.UserAgent(),
		}

		switch {
		case status >= http.StatusInternalServerError:
			slog.Error("request completed", attrs...)
		case status >= http.StatusBadRequest:
			slog.Warn("request completed", attrs...)
		default:
			slog.Info("request completed", attrs...)
		}
	}
}

// metrics instruments HTTP requests with Prometheus metrics (rate, errors, duration).
// Paths are labeled by route template to keep cardinality bounded.
func metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

func recoverPanic(c *gin.Context, recovered any) {
	panicRecoveries.Inc()

	var msg string
	switch v := recovered.(type) {
	case error:
		msg = v.Error()
	default:
		msg = fmt.Sprintf("%v", v)
	}
	slog.Error("panic recovered",
		"error", msg,
		"request_id", c.GetString(RequestIDKey),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)

	c.AbortWithStatusJSON(http.StatusInternalServerError, httperr.Internal())
}
