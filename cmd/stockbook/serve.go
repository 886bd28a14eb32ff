package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockbook/internal/scheduler"
	"github.com/mamadbah2/stockbook/internal/server/handlers"
	"github.com/mamadbah2/stockbook/internal/server/router"
	"github.com/mamadbah2/stockbook/pkg/logger"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API and publish reports on schedule",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return a.serve()
		},
	}
}

func (a *app) serve() error {
	baseLogger := a.logger
	zap.ReplaceGlobals(baseLogger)

	inv, err := a.openInventory()
	if err != nil {
		return err
	}
	cat, err := a.openCatalog()
	if err != nil {
		return err
	}
	loc, err := a.cfg.Location()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	publishers, closeSinks, err := a.sinks(ctx)
	if err != nil {
		return err
	}
	defer closeSinks()

	// The stores are not safe for concurrent use; handlers and the cron job
	// share this lock.
	var mu sync.Mutex

	reportingSvc := a.reportingService(inv, cat)
	engine := router.New(router.Handlers{
		Inventory: handlers.NewInventoryHandler(inv, &mu, logger.Named(baseLogger, "handlers.inventory")),
		Catalog:   handlers.NewCatalogHandler(cat, &mu, logger.Named(baseLogger, "handlers.catalog")),
		Report:    handlers.NewReportHandler(reportingSvc, &mu, loc),
	}, logger.Named(baseLogger, "router"))

	sched := scheduler.NewScheduler(a.cfg.Reporting.CronSchedule, loc, reportingSvc, &mu, logger.Named(baseLogger, "scheduler"), publishers...)
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + a.cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		baseLogger.Info("server starting", zap.String("port", a.cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			baseLogger.Error("http server crashed", zap.Error(err))
			return err
		}
	case <-ctx.Done():
		baseLogger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
		return err
	}
	return nil
}
