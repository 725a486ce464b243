package main

import (
    "context"
    "net/http"
    "os/signal"
    "syscall"
    "time"

    "github.com/pkg/errors"
    "github.com/sirupsen/logrus"
    "github.com/urfave/cli/v3"

    "github.com/iliyamo/quic/internal/config"
    "github.com/iliyamo/quic/internal/database"
    "github.com/iliyamo/quic/internal/queue"
    "github.com/iliyamo/quic/internal/router"
    "github.com/iliyamo/quic/internal/service"
    "github.com/iliyamo/quic/internal/session"
)

func serveCommand(log *logrus.Logger) *cli.Command {
    return &cli.Command{
        Name:  "serve",
        Usage: "Run the HTTP server",
        Flags: []cli.Flag{
            &cli.BoolFlag{
                Name:  "migrate",
                Usage: "Apply pending migrations before serving",
                Value: true,
            },
        },
        Action: func(ctx context.Context, cmd *cli.Command) error {
            return serve(ctx, log, cmd.Bool("migrate"))
        },
    }
}

func serve(ctx context.Context, log *logrus.Logger, migrate bool) error {
    cfg := config.Load()
    setupLogger(log, cfg)

    db, err := database.Open(cfg)
    if err != nil {
        return errors.Wrap(err, "open database")
    }
    defer db.Close()

    if migrate {
        n, err := database.RunMigrations(db, cfg.DBDriver)
        if err != nil {
            return errors.Wrap(err, "migrate")
        }
        log.WithField("applied", n).Info("migrations up to date")
    }

    rdb := config.NewRedisClient(log)
    var store session.Store
    if rdb != nil {
        defer rdb.Close()
        store = session.NewRedisStore(rdb, "")
        log.Info("sessions stored in redis")
    } else {
        store = session.NewMemoryStore()
        log.Warn("redis unavailable, sessions kept in memory")
    }
    sessions := session.NewManager(store, session.Options{
        Secret:     cfg.SessionSecret,
        CookieName: cfg.SessionCookie,
        TTL:        cfg.SessionTTL,
        Secure:     cfg.IsProd(),
    })

    ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
    defer stop()

    activity := config.LoadActivityConfig()
    if activity.Enabled {
        go func() {
            if err := queue.StartActivityConsumer(ctx, activity, log); err != nil && ctx.Err() == nil {
                log.WithError(err).Error("activity consumer stopped")
            }
        }()
    }

    e := router.New(router.Deps{
        Config:    cfg,
        RateLimit: config.LoadRateLimitConfig(),
        DB:        db,
        Sessions:  sessions,
        Redis:     rdb,
        Events:    service.NewPublisher(activity, log),
        Log:       log,
    })

    addr := ":" + cfg.Port
    errCh := make(chan error, 1)
    go func() {
        log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
        errCh <- e.Start(addr)
    }()

    select {
    case err := <-errCh:
        if !errors.Is(err, http.ErrServerClosed) {
            return err
        }
        return nil
    case <-ctx.Done():
    }

    log.Info("shutting down")
    shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()
    return e.Shutdown(shutdownCtx)
}

func setupLogger(log *logrus.Logger, cfg config.Config) {
    if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
        log.SetLevel(lvl)
    } else {
        log.WithField("level", cfg.LogLevel).Warn("unknown log level, using info")
    }
    if cfg.IsProd() {
        log.SetFormatter(&logrus.JSONFormatter{})
    } else {
        log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
    }
    logrus.SetLevel(log.GetLevel())
    logrus.SetFormatter(log.Formatter)
}
