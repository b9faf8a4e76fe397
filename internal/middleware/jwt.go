package middleware // package middleware contains reusable HTTP middleware functions

import (
    "context"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/joyas-pwa/joyas-api/internal/model"
)

// TokenValidator resolves a raw bearer token to the user it was issued to.
type TokenValidator interface {
    ValidateToken(ctx context.Context, raw string) (model.User, error)
}

// FailureRecorder observes rejected tokens.  It may be nil.
type FailureRecorder func(stage string)

// BearerAuth returns an Echo middleware that requires an
// `Authorization: Bearer <token>` header and stores the resolved user in the
// context for CurrentUser.  Every failure, including a missing header,
// answers 401 with a WWW-Authenticate challenge and the same body.
func BearerAuth(v TokenValidator, onFail FailureRecorder) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
            if !ok {
                return unauthorized(onFail)
            }
            u, err := v.ValidateToken(c.Request().Context(), raw)
            if err != nil {
                return unauthorized(onFail)
            }
            setCurrentUser(c, u)
            return next(c)
        }
    }
}

// bearerToken extracts the token from an Authorization header value.  The
// scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
    scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
    if !found || !strings.EqualFold(scheme, "Bearer") {
        return "", false
    }
    token = strings.TrimSpace(token)
    return token, token != ""
}

func unauthorized(onFail FailureRecorder) error {
    if onFail != nil {
        onFail("token")
    }
    return ErrNotAuthenticated
}
