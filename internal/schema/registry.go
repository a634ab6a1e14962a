package schema

// Registry is the immutable result of a schema discovery pass.
// It is safe for concurrent reads.
type Registry struct {
	schemas []Descriptor
	byID    map[string]int
}

// builder accumulates descriptors during a single walk. It is never shared.
type builder struct {
	schemas []Descriptor
	byID    map[string]int
}

func newBuilder() *builder {
	return &builder{byID: make(map[string]int)}
}

func (b *builder) add(d Descriptor) {
	b.byID[d.ID] = len(b.schemas)
	b.schemas = append(b.schemas, d)
}

func (b *builder) lookup(id string) (Descriptor, bool) {
	i, ok := b.byID[id]
	if !ok {
		return Descriptor{}, false
	}
	return b.schemas[i], true
}

func (b *builder) build() *Registry {
	return &Registry{schemas: b.schemas, byID: b.byID}
}

// Schemas returns the descriptors in discovery order.
func (r *Registry) Schemas() []Descriptor {
	out := make([]Descriptor, len(r.schemas))
	copy(out, r.schemas)
	return out
}

// Len returns the number of registered schemas.
func (r *Registry) Len() int {
	return len(r.schemas)
}

// Lookup returns the descriptor registered under id.
func (r *Registry) Lookup(id string) (Descriptor, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Descriptor{}, false
	}
	return r.schemas[i], true
}

// Versions returns the distinct version tokens in first-seen order.
func (r *Registry) Versions() []string {
	var out []string
	seen := make(map[string]bool)
	for _, d := range r.schemas {
		if !d.Version.IsSet() || seen[d.Version.Token()] {
			continue
		}
		seen[d.Version.Token()] = true
		out = append(out, d.Version.Token())
	}
	return out
}
