package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "sanabridge/internal/errors"
	"sanabridge/internal/session"
)

// identityKey is the echo context key under which the auth middleware
// stashes the resolved identity.
const identityKey = "identity"

// SetIdentity stores the resolved identity on the request context.
func SetIdentity(c echo.Context, identity *session.Identity) {
	c.Set(identityKey, identity)
}

// CurrentIdentity returns the identity attached by the auth middleware.
// Routes behind RequireAuth always have one; the error path covers
// handlers wired without the middleware by mistake.
func CurrentIdentity(c echo.Context) (*session.Identity, error) {
	identity, ok := c.Get(identityKey).(*session.Identity)
	if !ok || identity == nil {
		return nil, apperrors.ErrAuthenticationRequired
	}
	return identity, nil
}

// respondError funnels every handler failure through the single
// domain-to-HTTP translation. Internal errors are logged server-side
// and the client sees only the generic message.
func respondError(c echo.Context, err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	if httpErr.StatusCode == http.StatusInternalServerError {
		c.Logger().Errorf("internal error: %v", err)
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}
