// Package route discovers route manifests, instantiates their definitions from a
// compile-time catalog and registers them, plus any aliases, with the host engine.
package route

import (
	"github.com/aevon-lab/routekit/internal/schema"
	"github.com/gin-gonic/gin"
)

// Host is the server a definition is instantiated against.
type Host interface {
	// Name and Version identify the running service.
	Name() string
	Version() string

	// Schemas is the namespace schema documents were registered in.
	Schemas() schema.Namespace

	// Router receives route registrations.
	Router() gin.IRoutes
}

// RouteDefinition is implemented by every handler in the catalog.
type RouteDefinition interface {
	Config() Config
	Handle(c *gin.Context)
}

// BeforeHandler runs ahead of Handle. Aborting the context skips Handle.
type BeforeHandler interface {
	BeforeHandle(c *gin.Context)
}

// SendTransformer rewrites the response body before it is sent.
type SendTransformer interface {
	OnSend(c *gin.Context, payload []byte) ([]byte, error)
}

// ResponseObserver runs after the response has been written.
type ResponseObserver interface {
	OnResponse(c *gin.Context)
}

// Documented definitions describe themselves for the documentation endpoints.
type Documented interface {
	Documentation() Documentation
}

// Documentation is the metadata published for a canonical route.
type Documentation struct {
	Description string                 `json:"description,omitempty"`
	Summary     string                 `json:"summary,omitempty"`
	Tags        []string               `json:"tags,omitempty"`
	Schema      map[string]interface{} `json:"schema,omitempty"`
}

// IsZero reports whether no field is set.
func (d Documentation) IsZero() bool {
	return d.Description == "" && d.Summary == "" && len(d.Tags) == 0 && len(d.Schema) == 0
}

// Factory instantiates a definition for a host.
type Factory func(h Host) (RouteDefinition, error)
