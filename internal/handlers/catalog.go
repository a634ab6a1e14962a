// Package handlers holds the route definitions compiled into the binary. Each is
// exposed through a route manifest under the routes directory.
package handlers

import "github.com/aevon-lab/routekit/internal/route"

// Catalog returns every built-in definition keyed by the path of its manifest.
func Catalog() *route.Catalog {
	c := route.NewCatalog()
	c.Register("echo", NewEcho)
	c.Register("version", NewVersion)
	c.Register("api/network/test", NewNetworkTest)
	c.Register("api/v1/users", NewUsersV1)
	c.Register("api/v2/users", NewUsersV2)
	return c
}
