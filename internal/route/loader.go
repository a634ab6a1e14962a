package route

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"github.com/aevon-lab/routekit/internal/discovery"
	"github.com/aevon-lab/routekit/internal/schema"
	"github.com/gin-gonic/gin"
)

// RegistryName labels route discovery in logs and reports.
const RegistryName = "routes"

// DefaultExtensions are the manifest extensions scanned when none are configured.
var DefaultExtensions = []string{".yaml", ".yml"}

// Loader discovers route manifests below a root directory and registers them with a host.
type Loader struct {
	root    string
	host    Host
	catalog *Catalog
	exts    map[string]bool
}

// NewLoader creates a route loader. With no extensions, DefaultExtensions apply.
func NewLoader(root string, host Host, catalog *Catalog, exts ...string) *Loader {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	set := make(map[string]bool, len(exts))
	for _, ext := range exts {
		set[strings.ToLower(ext)] = true
	}
	return &Loader{
		root:    root,
		host:    host,
		catalog: catalog,
		exts:    set,
	}
}

// Load walks the route root once and returns the registry snapshot. The root is created
// when absent; failing to create it is the only error returned. Every per-file failure
// lands in the report instead.
func (l *Loader) Load(ctx context.Context) (*Registry, *discovery.Report, error) {
	start := time.Now()
	report := discovery.NewReport(RegistryName, l.root)
	b := newBuilder()

	slog.Info("Loading routes", "root", l.root)

	if _, err := os.Stat(l.root); err != nil {
		if err := os.MkdirAll(l.root, 0o755); err != nil {
			return nil, report, &discovery.CatastrophicBootError{Path: l.root, Cause: err}
		}
		slog.Info("Created routes directory", "path", l.root)
	}

	err := discovery.Walk(l.root, struct{}{}, discovery.Visitor[struct{}]{
		File: func(_ struct{}, file discovery.Entry) {
			if !l.exts[file.Ext()] {
				slog.Warn("Skipping non-route file", "path", file.Path)
				return
			}
			for _, f := range l.process(ctx, b, file) {
				report.Add(f)
			}
		},
	}, report)
	if err != nil {
		report.Add(discovery.DirectoryError(l.root, err))
	}

	reg := b.build()
	report.Loaded = reg.Len()
	report.Duration = time.Since(start)
	return reg, report, nil
}

// process runs the per-file pipeline. A failure ends this file only; alias problems
// are reported next to a canonical route that still stands.
func (l *Loader) process(ctx context.Context, b *builder, file discovery.Entry) []*discovery.Failure {
	start := time.Now()
	slog.Debug("Processing route", "path", file.Path)

	def, cfg, f := l.load(file)
	if f != nil {
		return []*discovery.Failure{f}
	}

	cfg.URL = normalizeURL(cfg.URL)
	if cfg.URL == "" || len(cfg.Method) == 0 {
		return []*discovery.Failure{discovery.ValidationError(file.Path, "invalid route configuration: missing required url or method")}
	}
	methods, err := cfg.Method.normalize()
	if err != nil {
		return []*discovery.Failure{discovery.ValidationError(file.Path, "invalid route configuration: "+err.Error())}
	}
	cfg.Method = methods

	version := discovery.RouteVersion(file.Rel)
	if version.IsSet() {
		b.addVersion(version)
		cfg.URL = discovery.PrefixURL(cfg.URL, version)
	}

	l.checkSchemaRefs(ctx, file.Path, cfg.Schema)

	slog.Info("Registering route", "url", cfg.URL, "method", cfg.Method.String())

	chain := buildChain(def, cfg)
	if err := register(l.host.Router(), cfg.Method, cfg.URL, chain); err != nil {
		return []*discovery.Failure{discovery.RegistrationError(file.Path, "failed to register route", err)}
	}

	b.add(Descriptor{
		SourcePath:    file.Path,
		URL:           cfg.URL,
		Methods:       cfg.Method,
		Version:       version,
		Documentation: documentationFor(def, cfg),
	})

	var failures []*discovery.Failure
	if cfg.Alias != nil {
		failures = l.expandAliases(b, file, cfg, version, chain)
	}

	slog.Debug("Route processed", "path", file.Path, "duration", time.Since(start))
	return failures
}

// load reads the manifest, resolves its catalog entry and instantiates the definition.
func (l *Loader) load(file discovery.Entry) (def RouteDefinition, cfg Config, f *discovery.Failure) {
	content, err := os.ReadFile(file.Path)
	if err != nil {
		return nil, Config{}, discovery.LoadError(file.Path, "failed to read route file", err)
	}
	manifest, err := ParseManifest(content)
	if err != nil {
		return nil, Config{}, discovery.LoadError(file.Path, "failed to parse route manifest", err)
	}

	id := manifest.Handler
	if id == "" {
		id = strings.TrimSuffix(file.Rel, path.Ext(file.Rel))
	}
	factory, ok := l.catalog.Lookup(id)
	if !ok {
		return nil, Config{}, discovery.LoadError(file.Path, "failed to load route", fmt.Errorf("no handler registered as %q", id))
	}

	def, cfg, err = instantiate(factory, l.host)
	if err != nil {
		return nil, Config{}, discovery.LoadError(file.Path, "failed to instantiate route", err)
	}

	return def, manifest.apply(cfg), nil
}

// instantiate builds the definition and reads its config, turning a panic in
// either into an error.
func instantiate(factory Factory, host Host) (def RouteDefinition, cfg Config, err error) {
	defer func() {
		if p := recover(); p != nil {
			def, cfg, err = nil, Config{}, fmt.Errorf("panic: %v", p)
		}
	}()

	def, err = factory(host)
	if err == nil && def == nil {
		err = errors.New("factory returned no definition")
	}
	if err != nil {
		return nil, Config{}, err
	}
	return def, def.Config(), nil
}

// register adds url for every method. gin panics on conflicting or malformed
// paths; the panic is turned into an error for this file.
func register(r gin.IRoutes, methods Methods, url string, chain []gin.HandlerFunc) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%v", p)
		}
	}()

	for _, m := range methods {
		r.Handle(m, url, chain...)
	}
	return nil
}

func (l *Loader) expandAliases(b *builder, file discovery.Entry, cfg Config, version discovery.Version, chain []gin.HandlerFunc) []*discovery.Failure {
	slog.Debug("Processing aliases", "url", cfg.URL)

	aliases, err := ExpandAliases(cfg.Alias)
	if err != nil {
		return []*discovery.Failure{discovery.AliasConfigError(file.Path, err.Error())}
	}

	var failures []*discovery.Failure
	for _, alias := range aliases {
		url := discovery.PrefixURL(normalizeURL(alias), version)

		if err := register(l.host.Router(), cfg.Method, url, chain); err != nil {
			failures = append(failures, discovery.RegistrationError(file.Path, "failed to register alias "+url, err))
			continue
		}

		slog.Info("Registering alias", "url", url, "original_url", cfg.URL, "method", cfg.Method.String())
		b.add(Descriptor{
			SourcePath:  file.Path,
			URL:         url,
			Methods:     cfg.Method,
			Version:     version,
			IsAlias:     true,
			OriginalURL: cfg.URL,
		})
	}
	return failures
}

// checkSchemaRefs warns about "$ref" values that name no registered schema.
func (l *Loader) checkSchemaRefs(ctx context.Context, source string, s map[string]interface{}) {
	for _, ref := range schemaRefs(s) {
		id := strings.TrimSuffix(ref, "#")
		if _, err := l.host.Schemas().GetSchema(ctx, id); errors.Is(err, schema.ErrNotFound) {
			slog.Warn("Route references unknown schema", "path", source, "ref", ref)
		}
	}
}

func schemaRefs(v interface{}) []string {
	var refs []string
	switch t := v.(type) {
	case map[string]interface{}:
		for k, child := range t {
			if s, ok := child.(string); ok && k == "$ref" {
				refs = append(refs, s)
				continue
			}
			refs = append(refs, schemaRefs(child)...)
		}
	case []interface{}:
		for _, child := range t {
			refs = append(refs, schemaRefs(child)...)
		}
	}
	return refs
}

func documentationFor(def RouteDefinition, cfg Config) *Documentation {
	if d, ok := def.(Documented); ok {
		doc := d.Documentation()
		return &doc
	}
	doc := cfg.documentation()
	if doc.IsZero() {
		return nil
	}
	return &doc
}
