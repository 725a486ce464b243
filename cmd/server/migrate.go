package main

import (
    "context"

    "github.com/pkg/errors"
    "github.com/sirupsen/logrus"
    "github.com/urfave/cli/v3"

    "github.com/iliyamo/quic/internal/config"
    "github.com/iliyamo/quic/internal/database"
)

func migrateCommand(log *logrus.Logger) *cli.Command {
    return &cli.Command{
        Name:  "migrate",
        Usage: "Manage the database schema",
        Commands: []*cli.Command{
            {
                Name:  "up",
                Usage: "Apply all pending migrations",
                Action: func(ctx context.Context, cmd *cli.Command) error {
                    cfg := config.Load()
                    setupLogger(log, cfg)
                    db, err := database.Open(cfg)
                    if err != nil {
                        return errors.Wrap(err, "open database")
                    }
                    defer db.Close()

                    n, err := database.RunMigrations(db, cfg.DBDriver)
                    if err != nil {
                        return err
                    }
                    log.WithField("applied", n).Info("migrations applied")
                    return nil
                },
            },
            {
                Name:  "down",
                Usage: "Roll back the most recent migration",
                Action: func(ctx context.Context, cmd *cli.Command) error {
                    cfg := config.Load()
                    setupLogger(log, cfg)
                    db, err := database.Open(cfg)
                    if err != nil {
                        return errors.Wrap(err, "open database")
                    }
                    defer db.Close()

                    v, err := database.RollbackMigration(db, cfg.DBDriver)
                    if err != nil {
                        return err
                    }
                    if v == 0 {
                        log.Info("nothing to roll back")
                        return nil
                    }
                    log.WithField("version", v).Info("migration rolled back")
                    return nil
                },
            },
        },
    }
}
