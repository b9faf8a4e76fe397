package middleware

// identity.go defines how the authenticated user travels through the Echo
// context.  BearerAuth stores it; handlers and other middleware read it back
// with CurrentUser.

import (
    "github.com/labstack/echo/v4"

    "github.com/joyas-pwa/joyas-api/internal/apperr"
    "github.com/joyas-pwa/joyas-api/internal/model"
)

const userKey = "current_user"

// ErrNotAuthenticated is the 401 returned for a missing or rejected token.
// The error handler adds the WWW-Authenticate challenge.
var ErrNotAuthenticated = apperr.New(apperr.KindUnauthorized, "could not validate credentials")

func setCurrentUser(c echo.Context, u model.User) { c.Set(userKey, u) }

// CurrentUser returns the user BearerAuth resolved for this request.
func CurrentUser(c echo.Context) (model.User, bool) {
    u, ok := c.Get(userKey).(model.User)
    return u, ok
}
