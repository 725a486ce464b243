package router

import (
    "database/sql"

    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"
    "github.com/redis/go-redis/v9"
    "github.com/sirupsen/logrus"

    "github.com/iliyamo/quic/internal/config"
    "github.com/iliyamo/quic/internal/handler"
    "github.com/iliyamo/quic/internal/middleware"
    "github.com/iliyamo/quic/internal/repository"
    "github.com/iliyamo/quic/internal/service"
    "github.com/iliyamo/quic/internal/session"
    "github.com/iliyamo/quic/internal/view"
)

// Deps is everything New needs to assemble the application.  Redis may be
// nil; Events defaults to a no-op publisher.
type Deps struct {
    Config    config.Config
    RateLimit config.RateLimitConfig
    DB        *sql.DB
    Sessions  *session.Manager
    Redis     *redis.Client
    Events    service.Publisher
    Log       *logrus.Logger
}

// New builds the echo instance with renderer, error handling, request
// logging and every route registered.
func New(d Deps) *echo.Echo {
    if d.Log == nil {
        d.Log = logrus.StandardLogger()
    }
    if d.Events == nil {
        d.Events = service.Noop{}
    }

    e := echo.New()
    e.HideBanner = true
    e.HidePort = true
    e.Renderer = view.MustNew()
    e.HTTPErrorHandler = handler.ErrorHandler
    e.Use(middleware.RequestLogger(d.Log))
    e.Use(echomw.Recover())

    users := repository.NewUserRepo(d.DB)
    h := Handlers{
        Auth:    handler.NewAuthHandler(d.Config, users, d.Sessions, d.Events),
        Profile: handler.NewProfileHandler(repository.NewProfileRepo(d.DB), d.Sessions),
        Library: handler.NewLibraryHandler(repository.NewFolderRepo(d.DB), repository.NewSetRepo(d.DB), d.Events),
        Health:  handler.Health(d.DB),
    }

    RegisterRoutes(e, h)
    RegisterAuth(e, h.Auth, middleware.NewTokenBucket(d.RateLimit, d.Redis, d.Log))
    RegisterProtected(e, h, d.Sessions)
    return e
}
