package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	httperr "github.com/aevon-lab/routekit/internal/core/errors"
	"github.com/aevon-lab/routekit/internal/schema"
	"github.com/aevon-lab/routekit/internal/schema/storage"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options configures the host server.
type Options struct {
	Addr    string
	Mode    string // debug | release
	Name    string
	Version string

	UpgradeInsecureRequests bool
	RequestLogging          bool
}

// Server is the gin host that discovered routes and schemas are registered with.
type Server struct {
	Engine *gin.Engine
	Addr   string

	name    string
	version string
	schemas *storage.MemoryNamespace
}

func New(opts Options) *Server {
	// Set Gin mode based on configuration
	if opts.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	s := &Server{
		Engine:  r,
		Addr:    opts.Addr,
		name:    opts.Name,
		version: opts.Version,
		schemas: storage.NewMemoryNamespace(),
	}

	r.Use(requestID())
	r.Use(metrics())
	r.Use(security(opts.Name, opts.Version, opts.UpgradeInsecureRequests))
	if opts.RequestLogging {
		r.Use(requestLogger())
	}
	r.Use(gin.CustomRecovery(recoverPanic))

	r.NoRoute(notFound)

	r.GET("/health", s.healthHandler)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return s
}

// Name identifies the service in headers and health output.
func (s *Server) Name() string { return s.name }

// Version is the service version.
func (s *Server) Version() string { return s.version }

// Schemas is the namespace discovered schema documents are registered in.
func (s *Server) Schemas() schema.Namespace { return s.schemas }

// Router receives discovered route registrations.
func (s *Server) Router() gin.IRoutes { return s.Engine }

func (s *Server) healthHandler(c *gin.Context) {
	ids := s.schemas.IDs(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"name":    s.name,
		"version": s.version,
		"schemas": len(ids),
	})
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, httperr.NotFound(c.Request.URL.RequestURI()))
}

func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("Starting HTTP Server...", "address", s.Addr, "name", s.name, "version", s.version)

	go func() {
		<-ctx.Done()
		slog.Info("Stopping HTTP Server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP Server forced to shutdown", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
