package handler

import (
    "context"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/joyas-pwa/joyas-api/internal/apperr"
    "github.com/joyas-pwa/joyas-api/internal/model"
    "github.com/joyas-pwa/joyas-api/internal/service"
)

// dbTimeout bounds the storage work of a single request.
const dbTimeout = 5 * time.Second

func requestContext(c echo.Context) (context.Context, context.CancelFunc) {
    return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil || id == 0 {
        return 0, apperr.Validation("invalid "+name, map[string]string{name: "must be a positive integer"})
    }
    return id, nil
}

// queryInt parses an optional integer query parameter, returning def when
// it is absent.
func queryInt(c echo.Context, name string, def int) (int, error) {
    raw := c.QueryParam(name)
    if raw == "" {
        return def, nil
    }
    n, err := strconv.Atoi(raw)
    if err != nil {
        return 0, apperr.Validation("invalid "+name, map[string]string{name: "must be an integer"})
    }
    return n, nil
}

// queryID parses an optional id query parameter; zero means absent.
func queryID(c echo.Context, name string) (uint64, error) {
    raw := c.QueryParam(name)
    if raw == "" {
        return 0, nil
    }
    id, err := strconv.ParseUint(raw, 10, 64)
    if err != nil || id == 0 {
        return 0, apperr.Validation("invalid "+name, map[string]string{name: "must be a positive integer"})
    }
    return id, nil
}

// pageParams reads page and page_size.
func pageParams(c echo.Context) (service.Page, error) {
    number, err := queryInt(c, "page", 1)
    if err != nil {
        return service.Page{}, err
    }
    size, err := queryInt(c, "page_size", service.DefaultPageSize)
    if err != nil {
        return service.Page{}, err
    }
    return service.NewPage(number, size)
}

// statusParam reads status_filter.  Anything other than the three status
// names is rejected.
func statusParam(c echo.Context) (model.AccountStatus, error) {
    raw := c.QueryParam("status_filter")
    if raw == "" {
        return "", nil
    }
    st, ok := model.ParseAccountStatus(raw)
    if !ok {
        return "", apperr.Validation("invalid status_filter",
            map[string]string{"status_filter": "must be PAGADO, PARCIAL or PENDIENTE"})
    }
    return st, nil
}
