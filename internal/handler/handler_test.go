package handler

import (
    "encoding/json"
    "errors"
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "go.uber.org/zap"
    "go.uber.org/zap/zapcore"
    "go.uber.org/zap/zaptest/observer"

    "github.com/joyas-pwa/joyas-api/internal/apperr"
)

func serveError(t *testing.T, method string, err error) (*httptest.ResponseRecorder, *observer.ObservedLogs) {
    t.Helper()
    core, logs := observer.New(zapcore.DebugLevel)
    e := echo.New()
    e.HTTPErrorHandler = ErrorHandler(zap.New(core))
    e.Add(method, "/boom", func(c echo.Context) error { return err })

    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, httptest.NewRequest(method, "/boom", nil))
    return rec, logs
}

func TestErrorHandler_Mapping(t *testing.T) {
    tests := []struct {
        name   string
        err    error
        status int
        kind   string
    }{
        {"validation", apperr.Validation("bad", map[string]string{"x": "is required"}), http.StatusBadRequest, "VALIDATION_ERROR"},
        {"not found", apperr.NotFound("sale not found"), http.StatusNotFound, "NOT_FOUND"},
        {"unauthorized", apperr.New(apperr.KindUnauthorized, "nope"), http.StatusUnauthorized, "UNAUTHORIZED"},
        {"internal", apperr.Internal(errors.New("dial tcp: refused"), "could not load sale"), http.StatusInternalServerError, "INTERNAL_ERROR"},
        {"plain error", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
        {"echo 404", echo.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
        {"echo 413", echo.ErrStatusRequestEntityTooLarge, http.StatusRequestEntityTooLarge, "VALIDATION_ERROR"},
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            rec, _ := serveError(t, http.MethodGet, tt.err)
            assert.Equal(t, tt.status, rec.Code)
            var body errorBody
            require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
            assert.Equal(t, tt.kind, string(body.ErrorType))
        })
    }
}

func TestErrorHandler_InternalIsGenericAndLogged(t *testing.T) {
    rec, logs := serveError(t, http.MethodGet, apperr.Internal(errors.New("password=hunter2 leaked"), "could not load"))

    assert.JSONEq(t, `{"detail":"internal server error","error_type":"INTERNAL_ERROR"}`, rec.Body.String())
    entries := logs.FilterMessage("request failed").All()
    require.Len(t, entries, 1)
    assert.Equal(t, "*errors.errorString", entries[0].ContextMap()["error_type"])
    assert.Equal(t, "/boom", entries[0].ContextMap()["route"])
}

func TestErrorHandler_UnauthorizedChallenge(t *testing.T) {
    rec, logs := serveError(t, http.MethodGet, apperr.New(apperr.KindUnauthorized, "could not validate credentials"))
    assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))
    assert.Zero(t, logs.Len())
}

func TestErrorHandler_HeadHasNoBody(t *testing.T) {
    rec, _ := serveError(t, http.MethodHead, apperr.NotFound("missing"))
    assert.Equal(t, http.StatusNotFound, rec.Code)
    assert.Empty(t, rec.Body.String())
}

func TestDate_JSON(t *testing.T) {
    var d Date
    require.NoError(t, json.Unmarshal([]byte(`"2024-02-29"`), &d))
    assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), d.Time)

    require.NoError(t, json.Unmarshal([]byte(`"2024-03-01T23:30:00-05:00"`), &d))
    assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), d.Time)

    out, err := json.Marshal(d)
    require.NoError(t, err)
    assert.Equal(t, `"2024-03-01"`, string(out))

    assert.Error(t, json.Unmarshal([]byte(`"01/03/2024"`), &d))
    assert.Error(t, json.Unmarshal([]byte(`20240301`), &d))

    var p *Date
    require.NoError(t, json.Unmarshal([]byte(`null`), &p))
    assert.Nil(t, p)
}

func TestValidator_FieldPaths(t *testing.T) {
    v := NewValidator()
    qty := 0
    err := v.Validate(&createSaleReq{
        Items: []saleItemReq{{JewelType: "", Quantity: &qty}},
    })
    require.Error(t, err)

    var ae *apperr.Error
    require.ErrorAs(t, err, &ae)
    assert.Equal(t, apperr.KindValidation, ae.Kind)
    assert.Equal(t, map[string]string{
        "customer_id":         "is required",
        "delivery_address":    "is required",
        "items[0].jewel_type": "is required",
        "items[0].quantity":   "must be greater than 0",
    }, ae.Fields)

    assert.NoError(t, v.Validate(&createCustomerReq{FullName: "Ana"}))
}
