package router // package router defines how HTTP routes are registered for the API

import (
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iliyamo/cinema-marathon-planner/internal/config"
	"github.com/iliyamo/cinema-marathon-planner/internal/handler"
	"github.com/iliyamo/cinema-marathon-planner/internal/middleware"
)

// Deps carries what the route groups need.  Redis may be nil, in which case
// the response cache and the rate limiter are disabled.
type Deps struct {
	Schedules    *handler.ScheduleHandler
	Public       *handler.PublicHandler
	Redis        *redis.Client
	JWTSecret    string
	AllowedRoles []string
	RateLimit    config.RateLimitConfig
	Cache        config.CacheConfig
	Log          zerolog.Logger
}

// New builds the Echo instance with the shared middleware stack and every
// route registered.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewRequestValidator()

	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.POST, echo.DELETE},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(requestLogger(d.Log))

	RegisterRoutes(e)
	RegisterPublic(e, d.Public, middleware.NewRedisCache(d.Cache, d.Redis, d.Log))
	RegisterSchedules(e, d.Schedules, d.JWTSecret, d.AllowedRoles, middleware.NewTokenBucket(d.RateLimit, d.Redis, d.Log))
	return e
}

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the unauthenticated browse endpoints behind the
// response cache.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1/cinemas", cache)
	g.GET("", p.ListCinemas)
	g.GET("/:code/movies", p.ListMovies)
}

// RegisterSchedules registers the planning endpoints under /v1/schedules.
// Every route requires a valid access token with one of roles; the two
// generation routes are additionally rate limited since they are CPU bound.
func RegisterSchedules(e *echo.Echo, h *handler.ScheduleHandler, jwtSecret string, roles []string, limiter echo.MiddlewareFunc) {
	g := e.Group(
		"/v1/schedules",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(roles...),
	)
	g.POST("/generate", h.Generate, limiter)
	g.POST("/save", h.Save)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.DELETE("/:id", h.Delete)
	g.POST("/:id/regenerate", h.Regenerate, limiter)
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	log = log.With().Str("component", "http").Logger()
	return echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogMethod:     true,
		LogURI:        true,
		LogStatus:     true,
		LogLatency:    true,
		LogRemoteIP:   true,
		LogError:      true,
		HandleError:   true,
		LogValuesFunc: func(_ echo.Context, v echoMiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Str("remote_ip", v.RemoteIP).
				Dur("latency", v.Latency.Round(time.Microsecond)).
				Msg("request")
			return nil
		},
	})
}
