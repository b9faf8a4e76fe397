package router // package router wires middleware and routes onto the Echo instance

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/joyas-pwa/joyas-api/internal/config"
	"github.com/joyas-pwa/joyas-api/internal/handler"
	"github.com/joyas-pwa/joyas-api/internal/metrics"
	"github.com/joyas-pwa/joyas-api/internal/middleware"
)

// Handlers groups the HTTP handlers served by the API.
type Handlers struct {
	Auth   *handler.AuthHandler
	Sales  *handler.SalesHandler
	Ledger *handler.LedgerHandler
	Upload *handler.UploadHandler
	Health *handler.HealthHandler
}

// Deps are the cross-cutting collaborators the routes need.  Redis may be
// nil, which disables login throttling.
type Deps struct {
	Config  config.Config
	Tokens  middleware.TokenValidator
	Metrics *metrics.Metrics
	Redis   *redis.Client
	Log     *zap.Logger
}

// New builds an Echo instance with the validator, the central error handler,
// the global middleware chain and every route.
func New(h Handlers, d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.ErrorHandler(d.Log)

	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(middleware.Metrics(d.Metrics))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     d.Config.AllowedOrigins(),
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderAuthorization, echo.HeaderContentType, echo.HeaderAccept},
		AllowCredentials: true,
	}))

	RegisterRoutes(e, h.Health, d.Metrics)
	RegisterAuth(e, h.Auth, d)
	bearer := middleware.BearerAuth(d.Tokens, d.Metrics.AuthFailure)
	RegisterSales(e, h.Sales, bearer)
	RegisterLedger(e, h.Ledger, bearer)
	RegisterUpload(e, h.Upload, d.Config, bearer)
	return e
}

// RegisterRoutes registers the unauthenticated service endpoints.
func RegisterRoutes(e *echo.Echo, h *handler.HealthHandler, m *metrics.Metrics) {
	e.GET("/", h.Root)
	e.GET("/health", h.Health)
	e.GET("/health/db", h.HealthDB)
	e.GET("/metrics", echo.WrapHandler(m.Handler()))
}

// RegisterAuth registers login and registration, throttled per client, and
// the bearer-protected /auth/me.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, d Deps) {
	g := e.Group("/auth")
	limit := middleware.RateLimit(d.Config.RateLimit, d.Redis, d.Log)
	g.POST("/login", a.Login, limit)
	g.POST("/register", a.Register, limit)
	g.GET("/me", a.Me, middleware.BearerAuth(d.Tokens, d.Metrics.AuthFailure))
}

// RegisterUpload registers the image upload and serves stored images.  The
// body limit leaves room for the multipart envelope around the file.
func RegisterUpload(e *echo.Echo, u *handler.UploadHandler, cfg config.Config, bearer echo.MiddlewareFunc) {
	limit := strconv.FormatInt(cfg.UploadMaxBytes/1024+64, 10) + "K"
	e.POST("/upload/image", u.Image, bearer, echomw.BodyLimit(limit))
	e.Static("/uploads/images", cfg.UploadDir)
}
