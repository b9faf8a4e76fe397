package handler

import (
    "errors"
    "reflect"
    "strings"

    "github.com/go-playground/validator/v10"
    "github.com/labstack/echo/v4"

    "github.com/joyas-pwa/joyas-api/internal/apperr"
)

// RequestValidator adapts validator/v10 to echo.Validator.  Failures come
// back as apperr validation errors keyed by JSON field path.
type RequestValidator struct {
    v *validator.Validate
}

// NewValidator reports field names as they appear in JSON.
func NewValidator() *RequestValidator {
    v := validator.New(validator.WithRequiredStructEnabled())
    v.RegisterTagNameFunc(func(f reflect.StructField) string {
        name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
        if name == "-" {
            return ""
        }
        if name == "" {
            return f.Name
        }
        return name
    })
    return &RequestValidator{v: v}
}

func (rv *RequestValidator) Validate(i interface{}) error {
    err := rv.v.Struct(i)
    if err == nil {
        return nil
    }
    var verrs validator.ValidationErrors
    if !errors.As(err, &verrs) {
        return apperr.Validation("invalid request", nil)
    }
    fields := make(map[string]string, len(verrs))
    for _, fe := range verrs {
        fields[fieldPath(fe.Namespace())] = describe(fe)
    }
    return apperr.Validation("invalid request", fields)
}

// fieldPath drops the struct name validator puts in front of the path.
func fieldPath(ns string) string {
    if _, rest, ok := strings.Cut(ns, "."); ok {
        return rest
    }
    return ns
}

func describe(fe validator.FieldError) string {
    switch fe.Tag() {
    case "required":
        return "is required"
    case "max":
        return "must be at most " + fe.Param() + " characters"
    case "gt":
        return "must be greater than " + fe.Param()
    case "min":
        return "must be at least " + fe.Param()
    default:
        return "is invalid"
    }
}

// bindAndValidate decodes the body into req and validates it.  Decoding
// failures are reported as a validation error without echoing the input.
func bindAndValidate(c echo.Context, req interface{}) error {
    if err := c.Bind(req); err != nil {
        return apperr.Validation("invalid request body", nil)
    }
    return c.Validate(req)
}
