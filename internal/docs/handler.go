package docs

import (
	"net/http"

	"github.com/aevon-lab/routekit/internal/route"
	"github.com/aevon-lab/routekit/internal/schema"
	"github.com/gin-gonic/gin"
)

// Handler serves the documentation endpoints. Response bodies are built once,
// since the registries never change after boot.
type Handler struct {
	routes  RoutesResponse
	schemas SchemasResponse
	index   map[string]VersionResponse
}

// NewHandler builds the documentation payloads from the registries.
func NewHandler(routes *route.Registry, schemas *schema.Registry) *Handler {
	h := &Handler{
		routes:  summarizeRoutes(routes),
		schemas: summarizeSchemas(schemas),
		index:   make(map[string]VersionResponse),
	}
	for _, v := range routes.Versions() {
		h.index[v] = indexVersion(routes, v)
	}
	return h
}

// Envelope wraps every documentation payload.
type Envelope struct {
	Result interface{} `json:"result"`
}

// RouteSummary is one entry of the routes summary.
type RouteSummary struct {
	URL           string        `json:"url"`
	Method        route.Methods `json:"method"`
	Version       string        `json:"version"`
	IsAlias       bool          `json:"isAlias"`
	OriginalURL   string        `json:"originalUrl,omitempty"`
	Documentation interface{}   `json:"documentation"`
}

// RoutesResponse is the payload of the routes summary endpoint.
type RoutesResponse struct {
	Total    int            `json:"total"`
	Versions []string       `json:"versions"`
	Routes   []RouteSummary `json:"routes"`
}

// SchemaSummary is one entry of the schemas summary.
type SchemaSummary struct {
	Name    string `json:"name"`
	ID      string `json:"id"`
	Version string `json:"version"`
}

// SchemasResponse is the payload of the schemas summary endpoint.
type SchemasResponse struct {
	Total   int             `json:"total"`
	Schemas []SchemaSummary `json:"schemas"`
}

// Endpoint is one canonical route listed by a version index.
type Endpoint struct {
	URL         string        `json:"url"`
	Method      route.Methods `json:"method"`
	Description string        `json:"description"`
}

// VersionResponse is the payload of a version index endpoint.
type VersionResponse struct {
	Version   string     `json:"version"`
	Endpoints []Endpoint `json:"endpoints"`
}

// HandleRoutes handles GET on the routes summary path.
func (h *Handler) HandleRoutes(c *gin.Context) {
	c.JSON(http.StatusOK, Envelope{Result: h.routes})
}

// HandleSchemas handles GET on the schemas summary path.
func (h *Handler) HandleSchemas(c *gin.Context) {
	c.JSON(http.StatusOK, Envelope{Result: h.schemas})
}

// HandleVersion returns the handler for GET /<version>.
func (h *Handler) HandleVersion(version string) gin.HandlerFunc {
	resp, ok := h.index[version]
	if !ok {
		resp = VersionResponse{Version: version, Endpoints: []Endpoint{}}
	}
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, Envelope{Result: resp})
	}
}

func summarizeRoutes(reg *route.Registry) RoutesResponse {
	routes := reg.Routes()
	resp := RoutesResponse{
		Total:    len(routes),
		Versions: reg.Versions(),
		Routes:   make([]RouteSummary, 0, len(routes)),
	}
	if resp.Versions == nil {
		resp.Versions = []string{}
	}

	for _, d := range routes {
		var doc interface{} = struct{}{}
		if d.Documentation != nil {
			doc = d.Documentation
		}
		resp.Routes = append(resp.Routes, RouteSummary{
			URL:           d.URL,
			Method:        d.Methods,
			Version:       d.Version.Label(),
			IsAlias:       d.IsAlias,
			OriginalURL:   d.OriginalURL,
			Documentation: doc,
		})
	}
	return resp
}

func summarizeSchemas(reg *schema.Registry) SchemasResponse {
	schemas := reg.Schemas()
	resp := SchemasResponse{
		Total:   len(schemas),
		Schemas: make([]SchemaSummary, 0, len(schemas)),
	}
	for _, d := range schemas {
		resp.Schemas = append(resp.Schemas, SchemaSummary{
			Name:    d.Name,
			ID:      d.ID,
			Version: d.Version.Label(),
		})
	}
	return resp
}

func indexVersion(reg *route.Registry, version string) VersionResponse {
	resp := VersionResponse{
		Version:   version,
		Endpoints: []Endpoint{},
	}
	for _, d := range reg.ByVersion(version) {
		description := ""
		if d.Documentation != nil {
			description = d.Documentation.Description
		}
		resp.Endpoints = append(resp.Endpoints, Endpoint{
			URL:         d.URL,
			Method:      d.Methods,
			Description: description,
		})
	}
	return resp
}
