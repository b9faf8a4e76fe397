package handler

import (
    "context"
    "database/sql"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
    "go.uber.org/zap"

    "github.com/joyas-pwa/joyas-api/internal/database"
)

const pingTimeout = 2 * time.Second

// HealthHandler answers liveness and database probes.
type HealthHandler struct {
    Ping func(ctx context.Context) error
    Log  *zap.Logger
}

// NewHealthHandler probes db with database.Ping.
func NewHealthHandler(db *sql.DB, log *zap.Logger) *HealthHandler {
    return &HealthHandler{
        Ping: func(ctx context.Context) error { return database.Ping(ctx, db, pingTimeout) },
        Log:  log.Named("health"),
    }
}

type statusResp struct {
    Status string `json:"status"`
}

// Root identifies the service.
func (h *HealthHandler) Root(c echo.Context) error {
    return c.JSON(http.StatusOK, map[string]string{"message": "joyas api"})
}

// Health reports that the process is serving requests.
func (h *HealthHandler) Health(c echo.Context) error {
    return c.JSON(http.StatusOK, statusResp{Status: "ok"})
}

// HealthDB reports whether the database answers.  It always returns 200;
// the body carries the verdict.
func (h *HealthHandler) HealthDB(c echo.Context) error {
    if err := h.Ping(c.Request().Context()); err != nil {
        h.Log.Warn("database ping failed", zap.Error(err))
        return c.JSON(http.StatusOK, statusResp{Status: "error"})
    }
    return c.JSON(http.StatusOK, statusResp{Status: "ok"})
}
