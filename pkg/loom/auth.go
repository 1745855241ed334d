package loom

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// authKey is the context key under which the authenticated principal is
// stored. Authentication middleware calls Authenticate; generated adapters
// read the principal back with AuthGet or AuthRequire.
const authKey = "loom.auth"

// Authenticate stores the authenticated principal on the request context.
func Authenticate[T any](c echo.Context, principal T) {
	c.Set(authKey, principal)
}

// AuthGet fetches the authenticated principal of type T, reporting false when
// no principal of that type has been stored.
func AuthGet[T any](c echo.Context) (T, bool) {
	principal, ok := c.Get(authKey).(T)
	return principal, ok
}

// AuthRequire fetches the authenticated principal of type T or fails the
// request with 401 Unauthorized.
func AuthRequire[T any](c echo.Context) (T, error) {
	principal, ok := c.Get(authKey).(T)
	if !ok {
		var zero T
		return zero, echo.NewHTTPError(http.StatusUnauthorized,
			fmt.Sprintf("no authenticated principal of type %T", zero))
	}
	return principal, nil
}

// Unauthenticate removes any stored principal from the request context.
func Unauthenticate(c echo.Context) {
	c.Set(authKey, nil)
}
