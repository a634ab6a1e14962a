package route

import (
	"fmt"
	"sort"
)

// Catalog maps route identifiers to the factories that build them. It is
// populated at compile time, before discovery runs.
type Catalog struct {
	factories map[string]Factory
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{factories: make(map[string]Factory)}
}

// Register adds a factory under id. Registering an empty or taken id panics.
func (c *Catalog) Register(id string, f Factory) {
	if id == "" {
		panic("route: empty catalog id")
	}
	if f == nil {
		panic(fmt.Sprintf("route: nil factory for %q", id))
	}
	if _, exists := c.factories[id]; exists {
		panic(fmt.Sprintf("route: duplicate catalog id %q", id))
	}
	c.factories[id] = f
}

// Lookup returns the factory registered under id.
func (c *Catalog) Lookup(id string) (Factory, bool) {
	f, ok := c.factories[id]
	return f, ok
}

// IDs returns every registered id in sorted order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.factories))
	for id := range c.factories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
