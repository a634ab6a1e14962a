package handlers

import (
	"net/http"

	"github.com/aevon-lab/routekit/internal/route"
	"github.com/gin-gonic/gin"
)

// Version reports the service name and version.
type Version struct {
	name    string
	version string
}

func NewVersion(h route.Host) (route.RouteDefinition, error) {
	return &Version{name: h.Name(), version: h.Version()}, nil
}

func (v *Version) Config() route.Config {
	return route.Config{
		Method:      route.Methods{"GET"},
		URL:         "/version",
		Description: "Service name and version",
		BodyLimit:   512,
	}
}

func (v *Version) Handle(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"result": gin.H{
			"name":    v.name,
			"version": v.version,
		},
	})
}
