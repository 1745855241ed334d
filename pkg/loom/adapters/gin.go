// Package adapters mounts loom route tables onto third-party routers.
//
// Generated adapters are echo handlers; each bridge keeps an internal echo
// instance that performs parameter extraction and response writing, while the
// outer framework owns listening, routing and middleware.
package adapters

import (
	"github.com/gin-gonic/gin"
	"github.com/labstack/echo/v4"

	"github.com/loomgen/loom/pkg/loom"
)

// GinAdapter mounts loom routes onto a gin engine.
type GinAdapter struct {
	engine *gin.Engine
	echo   *echo.Echo
}

// NewGinAdapter creates an adapter for an existing gin engine
func NewGinAdapter(engine *gin.Engine) *GinAdapter {
	return &GinAdapter{engine: engine, echo: echo.New()}
}

// NewDefaultGinAdapter creates an adapter with a default gin engine
func NewDefaultGinAdapter() *GinAdapter {
	return NewGinAdapter(gin.Default())
}

// Engine returns the underlying gin engine
func (a *GinAdapter) Engine() *gin.Engine {
	return a.engine
}

// Mount registers every route on the gin engine. Requests are delegated to
// the internal echo instance, which re-resolves path parameters and runs the
// generated handler.
func (a *GinAdapter) Mount(routes []loom.RouteInfo) {
	for _, route := range routes {
		a.echo.Add(route.Method, route.EchoPath, route.Handler)
		a.engine.Handle(route.Method, route.EchoPath, gin.WrapH(a.echo))
	}
}

// MountRegistry mounts every route recorded in the registry.
func (a *GinAdapter) MountRegistry(registry loom.RouteRegistry) {
	a.Mount(registry.GetAllRoutes())
}
