package loom

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"
)

// RouteInfo describes one registered route. Generated registration functions
// add one RouteInfo per endpoint; the gin/fiber bridges and any diagnostic
// tooling read the table back.
type RouteInfo struct {
	// Method is the HTTP method (GET, POST, ...)
	Method string

	// Path is the loom path with typed parameter placeholders, e.g. /users/{id:int}
	Path string

	// EchoPath is the echo-compatible path, e.g. /users/:id
	EchoPath string

	// HandlerName is the name of the handler method
	HandlerName string

	// ControllerName is the controller owning this route
	ControllerName string

	// PackageName is the package containing the controller
	PackageName string

	// PackagePath is the full import path of that package, resolved from the
	// module's go.mod at generation time. Empty when the package falls
	// outside a module.
	PackagePath string

	// Middlewares lists the middleware names applied to this route
	Middlewares []string

	// ParameterTypes maps path parameter names to their declared types
	ParameterTypes map[string]string

	// Handler is the generated adapter
	Handler echo.HandlerFunc
}

// RouteRegistry provides access to all registered routes in the application.
type RouteRegistry interface {
	// RegisterRoute adds a route (used by generated code)
	RegisterRoute(route RouteInfo)

	// GetAllRoutes returns all registered routes
	GetAllRoutes() []RouteInfo

	// GetRoutesByController returns routes owned by one controller
	GetRoutesByController(controllerName string) []RouteInfo

	// GetRoutesByMethod returns routes filtered by HTTP method
	GetRoutesByMethod(method string) []RouteInfo
}

type inMemoryRouteRegistry struct {
	mu     sync.RWMutex
	routes []RouteInfo
}

// NewInMemoryRouteRegistry creates an empty route registry
func NewInMemoryRouteRegistry() RouteRegistry {
	return &inMemoryRouteRegistry{}
}

func (r *inMemoryRouteRegistry) RegisterRoute(route RouteInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, route)
}

func (r *inMemoryRouteRegistry) GetAllRoutes() []RouteInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]RouteInfo, len(r.routes))
	copy(out, r.routes)
	return out
}

func (r *inMemoryRouteRegistry) GetRoutesByController(controllerName string) []RouteInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []RouteInfo
	for _, route := range r.routes {
		if route.ControllerName == controllerName {
			out = append(out, route)
		}
	}
	return out
}

func (r *inMemoryRouteRegistry) GetRoutesByMethod(method string) []RouteInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []RouteInfo
	for _, route := range r.routes {
		if strings.EqualFold(route.Method, method) {
			out = append(out, route)
		}
	}
	return out
}

// DefaultRouteRegistry is the global route registry populated by generated code.
var DefaultRouteRegistry = NewInMemoryRouteRegistry()

// MiddlewareRegistry resolves middleware names used in annotations to echo
// middleware functions. Applications register their middlewares by name
// before calling the generated registration functions.
type MiddlewareRegistry interface {
	// Register adds a named middleware; registering a name twice replaces it
	Register(name string, mw echo.MiddlewareFunc)

	// Resolve maps names to middleware functions, failing on unknown names
	Resolve(names ...string) ([]echo.MiddlewareFunc, error)

	// Names returns all registered middleware names, sorted
	Names() []string
}

type inMemoryMiddlewareRegistry struct {
	mu          sync.RWMutex
	middlewares map[string]echo.MiddlewareFunc
}

// NewMiddlewareRegistry creates an empty middleware registry
func NewMiddlewareRegistry() MiddlewareRegistry {
	return &inMemoryMiddlewareRegistry{
		middlewares: make(map[string]echo.MiddlewareFunc),
	}
}

func (r *inMemoryMiddlewareRegistry) Register(name string, mw echo.MiddlewareFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middlewares[name] = mw
}

func (r *inMemoryMiddlewareRegistry) Resolve(names ...string) ([]echo.MiddlewareFunc, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]echo.MiddlewareFunc, 0, len(names))
	for _, name := range names {
		mw, ok := r.middlewares[name]
		if !ok {
			return nil, fmt.Errorf("middleware %q is not registered", name)
		}
		out = append(out, mw)
	}
	return out, nil
}

func (r *inMemoryMiddlewareRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.middlewares))
	for name := range r.middlewares {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMiddlewareRegistry is the global middleware registry consulted by
// generated registration functions.
var DefaultMiddlewareRegistry = NewMiddlewareRegistry()

// RegisterMiddleware registers a named middleware on the default registry.
func RegisterMiddleware(name string, mw echo.MiddlewareFunc) {
	DefaultMiddlewareRegistry.Register(name, mw)
}

// ResolveMiddlewares resolves middleware names against the default registry.
func ResolveMiddlewares(names ...string) ([]echo.MiddlewareFunc, error) {
	return DefaultMiddlewareRegistry.Resolve(names...)
}
