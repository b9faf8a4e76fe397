package middleware

import (
    "time"

    "github.com/labstack/echo/v4"
)

// RequestObserver receives one observation per finished request.
type RequestObserver interface {
    ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// Metrics reports every request to obs, labelled by route pattern rather
// than raw path to keep label cardinality bounded.
func Metrics(obs RequestObserver) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            start := time.Now()
            err := next(c)
            if err != nil {
                c.Error(err)
            }
            route := c.Path()
            if route == "" {
                route = "unmatched"
            }
            obs.ObserveRequest(c.Request().Method, route, c.Response().Status, time.Since(start))
            return nil
        }
    }
}
