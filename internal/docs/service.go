package docs

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aevon-lab/routekit/internal/discovery"
	"github.com/aevon-lab/routekit/internal/route"
	"github.com/aevon-lab/routekit/internal/schema"
	"github.com/gin-gonic/gin"
)

// Options controls which documentation endpoints are published and where.
type Options struct {
	RoutesPath   string
	SchemasPath  string
	VersionIndex bool
}

// Service publishes the documentation endpoints over a finished discovery pass.
type Service struct {
	routes  *route.Registry
	schemas *schema.Registry
	opts    Options
}

// NewService creates a documentation service over immutable registry snapshots.
func NewService(routes *route.Registry, schemas *schema.Registry, opts Options) *Service {
	return &Service{
		routes:  routes,
		schemas: schemas,
		opts:    opts,
	}
}

// RegisterRoutes registers the documentation endpoints and returns the published paths.
// An endpoint whose path is already taken by a discovered route is skipped; one that
// the router rejects, such as a path shadowed by a wildcard route, is reported.
func (s *Service) RegisterRoutes(r gin.IRoutes) ([]string, *discovery.Report) {
	handler := NewHandler(s.routes, s.schemas)
	report := discovery.NewReport("docs", "")

	var published []string
	publish := func(path string, h gin.HandlerFunc) {
		if path == "" {
			return
		}
		if s.routes.Has(http.MethodGet, path) {
			slog.Warn("Documentation endpoint collides with a discovered route, skipping", "path", path)
			return
		}
		if err := register(r, path, h); err != nil {
			report.Add(discovery.RegistrationError(path, "failed to register documentation endpoint", err))
			return
		}
		published = append(published, path)
		slog.Info("Published documentation endpoint", "path", path)
	}

	publish(s.opts.RoutesPath, handler.HandleRoutes)
	publish(s.opts.SchemasPath, handler.HandleSchemas)

	if s.opts.VersionIndex {
		for _, v := range s.routes.Versions() {
			publish("/"+v, handler.HandleVersion(v))
		}
	}

	return published, report
}

// register adds a GET endpoint, turning a router panic into an error.
func register(r gin.IRoutes, path string, h gin.HandlerFunc) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%v", p)
		}
	}()

	r.GET(path, h)
	return nil
}
