package adapters

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/labstack/echo/v4"

	"github.com/loomgen/loom/pkg/loom"
)

// FiberAdapter mounts loom routes onto a fiber app.
type FiberAdapter struct {
	app  *fiber.App
	echo *echo.Echo
}

// NewFiberAdapter creates an adapter for an existing fiber app
func NewFiberAdapter(app *fiber.App) *FiberAdapter {
	return &FiberAdapter{app: app, echo: echo.New()}
}

// NewDefaultFiberAdapter creates an adapter with a default fiber app
func NewDefaultFiberAdapter() *FiberAdapter {
	return NewFiberAdapter(fiber.New())
}

// App returns the underlying fiber app
func (a *FiberAdapter) App() *fiber.App {
	return a.app
}

// Mount registers every route on the fiber app. Fiber and echo share the
// :name parameter syntax; each request crosses fiber's fasthttp boundary via
// the net/http adaptor and is then routed by the internal echo instance.
func (a *FiberAdapter) Mount(routes []loom.RouteInfo) {
	bridge := adaptor.HTTPHandler(a.echo)
	for _, route := range routes {
		a.echo.Add(route.Method, route.EchoPath, route.Handler)
		a.app.Add(route.Method, route.EchoPath, bridge)
	}
}

// MountRegistry mounts every route recorded in the registry.
func (a *FiberAdapter) MountRegistry(registry loom.RouteRegistry) {
	a.Mount(registry.GetAllRoutes())
}
