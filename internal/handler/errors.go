package handler

import (
    "errors"
    "fmt"
    "net/http"

    "github.com/labstack/echo/v4"
    "go.uber.org/zap"

    "github.com/joyas-pwa/joyas-api/internal/apperr"
    "github.com/joyas-pwa/joyas-api/internal/logging"
)

const internalMessage = "internal server error"

// errorBody is the JSON shape of every error response.
type errorBody struct {
    Detail    string            `json:"detail"`
    ErrorType apperr.Kind       `json:"error_type"`
    Fields    map[string]string `json:"fields,omitempty"`
}

// ErrorHandler is the single place where errors become HTTP responses.
// Unauthorized answers carry a Bearer challenge; unexpected errors are
// logged and answered with a generic 500.
func ErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
    log = log.Named("errors")
    return func(err error, c echo.Context) {
        if c.Response().Committed {
            return
        }
        status, body := classify(err)
        if status >= http.StatusInternalServerError {
            req := c.Request()
            log.Error("request failed",
                zap.String("method", req.Method),
                zap.String("route", c.Path()),
                zap.String("error_type", causeType(err)),
                zap.String("message", logging.Truncate(err.Error(), 200)),
            )
        }
        if status == http.StatusUnauthorized {
            c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
        }

        var werr error
        if c.Request().Method == http.MethodHead {
            werr = c.NoContent(status)
        } else {
            werr = c.JSON(status, body)
        }
        if werr != nil {
            log.Warn("could not write error response", zap.Error(werr))
        }
    }
}

func classify(err error) (int, errorBody) {
    var ae *apperr.Error
    if errors.As(err, &ae) {
        switch ae.Kind {
        case apperr.KindValidation:
            return http.StatusBadRequest, errorBody{Detail: ae.Message, ErrorType: ae.Kind, Fields: ae.Fields}
        case apperr.KindNotFound:
            return http.StatusNotFound, errorBody{Detail: ae.Message, ErrorType: ae.Kind}
        case apperr.KindUnauthorized:
            return http.StatusUnauthorized, errorBody{Detail: ae.Message, ErrorType: ae.Kind}
        }
        return http.StatusInternalServerError, errorBody{Detail: internalMessage, ErrorType: apperr.KindInternal}
    }

    var he *echo.HTTPError
    if errors.As(err, &he) && he.Code < http.StatusInternalServerError {
        kind := apperr.KindValidation
        switch he.Code {
        case http.StatusNotFound:
            kind = apperr.KindNotFound
        case http.StatusUnauthorized:
            kind = apperr.KindUnauthorized
        }
        return he.Code, errorBody{Detail: fmt.Sprint(he.Message), ErrorType: kind}
    }
    return http.StatusInternalServerError, errorBody{Detail: internalMessage, ErrorType: apperr.KindInternal}
}

// causeType names the innermost error type for logs.
func causeType(err error) string {
    for {
        next := errors.Unwrap(err)
        if next == nil {
            return fmt.Sprintf("%T", err)
        }
        err = next
    }
}
