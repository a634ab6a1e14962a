// Package boot runs discovery against a host server: schemas first, so that routes
// can reference them, then routes, then the documentation endpoints.
package boot

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aevon-lab/routekit/internal/core/config"
	"github.com/aevon-lab/routekit/internal/discovery"
	"github.com/aevon-lab/routekit/internal/docs"
	"github.com/aevon-lab/routekit/internal/route"
	"github.com/aevon-lab/routekit/internal/schema"
	jsonformat "github.com/aevon-lab/routekit/internal/schema/formats/json"
	yamlformat "github.com/aevon-lab/routekit/internal/schema/formats/yaml"
	"github.com/aevon-lab/routekit/internal/server"
)

// Result is the read-only outcome of a boot.
type Result struct {
	Routes  *route.Registry
	Schemas *schema.Registry
	Report  *discovery.Report

	// Published lists the documentation paths that were registered.
	Published []string
}

// Formats returns the schema decoders known to the service.
func Formats() *schema.FormatRegistry {
	formats := schema.NewFormatRegistry()
	formats.RegisterFormat(schema.FormatJSON, jsonformat.NewDecoder(), ".json")
	formats.RegisterFormat(schema.FormatYaml, yamlformat.NewDecoder(), ".yaml", ".yml")
	return formats
}

// Run discovers schemas and routes into srv and publishes documentation. Per-file
// failures end up in the result's report; only a *discovery.CatastrophicBootError
// is returned.
func Run(ctx context.Context, cfg *config.Config, srv *server.Server, catalog *route.Catalog) (*Result, error) {
	start := time.Now()

	schemas, schemaReport := schema.NewLoader(cfg.Schemas.Dir, Formats(), srv.Schemas()).Load(ctx)
	schemaReport.Summary()

	routes, routeReport, err := route.NewLoader(cfg.Routes.Dir, srv, catalog, cfg.Routes.Extensions...).Load(ctx)
	if err != nil {
		var catastrophic *discovery.CatastrophicBootError
		if errors.As(err, &catastrophic) {
			discoveryFailures.WithLabelValues(string(discovery.KindCatastrophic)).Inc()
		}
		return nil, err
	}
	routeReport.Summary()

	opts := docs.Options{VersionIndex: cfg.API.VersionIndex}
	if cfg.API.Documentation {
		opts.RoutesPath = cfg.API.RoutesDocumentationPath
		opts.SchemasPath = cfg.API.SchemasDocumentationPath
	}
	published, docsReport := docs.NewService(routes, schemas, opts).RegisterRoutes(srv.Router())

	report := discovery.Merge("boot", schemaReport, routeReport, docsReport)
	report.Duration = time.Since(start)

	discoveredSchemas.Set(float64(schemas.Len()))
	discoveredRoutes.Set(float64(routes.Len()))
	recordFailures(report.Failures)

	slog.Info("Boot complete",
		"schemas", schemas.Len(),
		"routes", routes.Len(),
		"versions", routes.Versions(),
		"failures", len(report.Failures),
		"errors", len(report.Errors()),
		"duration", report.Duration,
	)

	return &Result{
		Routes:    routes,
		Schemas:   schemas,
		Report:    report,
		Published: published,
	}, nil
}
