package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/oauthcore/auth-server/internal/api/handler"
	"github.com/oauthcore/auth-server/internal/api/middleware"
	"github.com/oauthcore/auth-server/internal/core/domain"
	"github.com/oauthcore/auth-server/internal/core/ports"

	_ "github.com/oauthcore/auth-server/docs"
)

// Deps holds everything the HTTP layer needs from the core.
type Deps struct {
	Clients ports.ClientAuthenticator
	Users   ports.UserAuthenticator
	Tokens  ports.TokenAuthenticator
	Service ports.UserService
	Checks  map[string]handler.DependencyCheck
	Realm   string
	Log     zerolog.Logger

	// Registry receives the HTTP metrics and backs /metrics. Nil uses the
	// process-wide default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(metricsMiddleware(d.Registry))

	// --- Dependencies ---
	oauthHandler := handler.NewOAuthHandler(d.Clients, d.Users, d.Realm, d.Log)
	userHandler := handler.NewUserHandler(d.Service)
	bearer := middleware.BearerAuth(d.Tokens, d.Service, d.Realm)

	// --- OAuth ---
	e.POST("/oauth/token", oauthHandler.Token)

	// --- Users ---
	e.POST("/register", userHandler.Register)
	e.POST("/users", userHandler.Create, bearer, middleware.RequireRole(domain.RoleAdmin))
	e.GET("/users/:username", userHandler.Get, bearer, middleware.RequireRole(domain.RoleDeveloper))
	e.GET("/me", userHandler.Me, bearer, middleware.RequireRole(domain.RoleUser))

	// --- Health probes (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(d.Checks).Readiness)

	// --- Ops ---
	e.GET("/metrics", metricsHandler(d.Registry))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= 500 {
				evt = log.Error()
			}
			evt.Err(v.Error).
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}

func metricsMiddleware(reg *prometheus.Registry) echo.MiddlewareFunc {
	cfg := echoprometheus.MiddlewareConfig{
		Namespace: "authcore",
		Subsystem: "http",
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}
	if reg != nil {
		cfg.Registerer = reg
	}
	return echoprometheus.NewMiddlewareWithConfig(cfg)
}

func metricsHandler(reg *prometheus.Registry) echo.HandlerFunc {
	if reg == nil {
		return echoprometheus.NewHandler()
	}
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg})
}
