package main // Entry point package

import (
    "context"
    "os"

    "github.com/sirupsen/logrus"
    "github.com/urfave/cli/v3"
)

func main() {
    log := logrus.New()

    app := &cli.Command{
        Name:  "quic",
        Usage: "Study folders, sets and cards",
        Commands: []*cli.Command{
            serveCommand(log),
            migrateCommand(log),
        },
        DefaultCommand: "serve",
    }

    if err := app.Run(context.Background(), os.Args); err != nil {
        log.Fatalf("application error: %v", err)
    }
}
