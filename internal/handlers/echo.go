package handlers

import (
	"github.com/aevon-lab/routekit/internal/route"
	"github.com/gin-gonic/gin"
)

// Echo returns the request url. It is also reachable as /talkback.
type Echo struct{}

func NewEcho(route.Host) (route.RouteDefinition, error) {
	return &Echo{}, nil
}

func (e *Echo) Config() route.Config {
	return route.Config{
		Method:      route.Methods{"GET", "POST", "PUT"},
		URL:         "/echo",
		Alias:       "/talkback",
		Description: "Echo the request url",
		BodyLimit:   512,
	}
}

func (e *Echo) Handle(c *gin.Context) {
	urlResult(c)
}

// NetworkTest is a plain connectivity probe under api/ without a version.
type NetworkTest struct{}

func NewNetworkTest(route.Host) (route.RouteDefinition, error) {
	return &NetworkTest{}, nil
}

func (n *NetworkTest) Config() route.Config {
	return route.Config{
		Method:    route.Methods{"GET", "POST", "PUT"},
		URL:       "/test",
		BodyLimit: 512,
	}
}

func (n *NetworkTest) Handle(c *gin.Context) {
	urlResult(c)
}
