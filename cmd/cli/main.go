package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ascor/notifycli/internal/buildinfo"
	"github.com/ascor/notifycli/internal/client/cli"
	"github.com/ascor/notifycli/internal/client/client"
	"github.com/ascor/notifycli/internal/client/config"
	"github.com/ascor/notifycli/internal/client/db"
	"github.com/ascor/notifycli/internal/client/services"
	"github.com/ascor/notifycli/internal/client/session"
	"github.com/ascor/notifycli/internal/client/state"
	"github.com/ascor/notifycli/internal/filex"
	"github.com/ascor/notifycli/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	for _, p := range []string{cfg.LogFile, cfg.DatabasePath} {
		if err := filex.EnsureParentDir(p); err != nil {
			return err
		}
	}

	logger, closer, err := logging.NewFileLogger(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(ctx, cfg.DatabasePath)
	if err != nil {
		logger.Error(ctx, "opening database failed", "path", cfg.DatabasePath, "error", err)
		return err
	}
	defer conn.Close()

	sess := session.NewManager(conn, logger)
	if err := sess.SeedHost(ctx, cfg.Host); err != nil {
		return fmt.Errorf("storing host: %w", err)
	}

	transport := client.NewTransport(cfg.RequestTimeout, logger)
	api := services.NewAPIService(transport, sess, logger)
	machine := state.New(api, logger)

	cli.NewApp(machine, api, logger).Run(ctx, os.Stdin)
	return nil
}
