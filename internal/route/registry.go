package route

import "github.com/aevon-lab/routekit/internal/discovery"

// Descriptor records one registered path and its methods.
type Descriptor struct {
	// SourcePath is the manifest the route came from. Diagnostic only.
	SourcePath string

	URL     string
	Methods Methods
	Version discovery.Version

	// IsAlias is set for registrations produced by alias expansion; OriginalURL
	// then points at the canonical route and Documentation is nil.
	IsAlias     bool
	OriginalURL string

	Documentation *Documentation
}

// Registry is the immutable result of a route discovery pass.
type Registry struct {
	routes   []Descriptor
	versions []string
}

// builder accumulates descriptors and the version set during a single walk.
type builder struct {
	routes   []Descriptor
	versions []string
	seen     map[string]bool
}

func newBuilder() *builder {
	return &builder{seen: make(map[string]bool)}
}

func (b *builder) add(d Descriptor) {
	b.routes = append(b.routes, d)
}

func (b *builder) addVersion(v discovery.Version) {
	if !v.IsSet() || b.seen[v.Token()] {
		return
	}
	b.seen[v.Token()] = true
	b.versions = append(b.versions, v.Token())
}

func (b *builder) build() *Registry {
	return &Registry{routes: b.routes, versions: b.versions}
}

// Routes returns every descriptor, canonical and alias, in discovery order.
func (r *Registry) Routes() []Descriptor {
	out := make([]Descriptor, len(r.routes))
	copy(out, r.routes)
	return out
}

// Len returns the number of registered descriptors.
func (r *Registry) Len() int {
	return len(r.routes)
}

// Versions returns the discovered version tokens in first-seen order.
func (r *Registry) Versions() []string {
	out := make([]string, len(r.versions))
	copy(out, r.versions)
	return out
}

// ByVersion returns the canonical routes of one version.
func (r *Registry) ByVersion(token string) []Descriptor {
	var out []Descriptor
	for _, d := range r.routes {
		if d.IsAlias || d.Version.Token() != token {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Has reports whether method is registered at url.
func (r *Registry) Has(method, url string) bool {
	for _, d := range r.routes {
		if d.URL != url {
			continue
		}
		for _, m := range d.Methods {
			if m == method {
				return true
			}
		}
	}
	return false
}
