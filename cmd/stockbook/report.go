package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockbook/internal/catalog"
	"github.com/mamadbah2/stockbook/internal/inventory"
	"github.com/mamadbah2/stockbook/internal/repository/mongodb"
	"github.com/mamadbah2/stockbook/internal/repository/sheets"
	"github.com/mamadbah2/stockbook/internal/service/reporting"
	"github.com/mamadbah2/stockbook/pkg/clients/webhook"
	"github.com/mamadbah2/stockbook/pkg/logger"
)

const connectTimeout = 10 * time.Second

func newReportCmd(a *app) *cobra.Command {
	var publish bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize stock value, low stock and loans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			svc := a.reportingService(inv, cat)
			report := svc.Build(time.Now().In(loc))
			fmt.Fprint(cmd.OutOrStdout(), reporting.Format(report))

			if !publish {
				return nil
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			publishers, closeSinks, err := a.sinks(ctx)
			if err != nil {
				return err
			}
			defer closeSinks()

			if err := svc.Deliver(ctx, report, publishers...); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report published to %d sink(s).\n", len(publishers))
			return nil
		},
	}
	cmd.Flags().BoolVar(&publish, "publish", false, "also send the report to every configured sink")

	return cmd
}

func (a *app) reportingService(inv *inventory.Store, cat *catalog.Store) *reporting.Service {
	return reporting.NewService(inv, cat, a.cfg.Reporting.LowStockThreshold, logger.Named(a.logger, "svc.reporting"))
}

// sinks builds the report file sink plus every configured remote sink. The
// returned func releases their connections.
func (a *app) sinks(ctx context.Context) ([]reporting.Publisher, func(), error) {
	publishers := []reporting.Publisher{reporting.FileSink{Path: a.cfg.Reporting.FilePath}}
	closers := []func(){}
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	if a.cfg.MongoDB.Enabled() {
		connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		repo, err := mongodb.NewRepository(connectCtx, a.cfg.MongoDB, logger.Named(a.logger, "repo.mongodb"))
		cancel()
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		publishers = append(publishers, repo)
		closers = append(closers, func() {
			if err := repo.Close(context.Background()); err != nil {
				a.logger.Error("failed to close mongodb connection", zap.Error(err))
			}
		})
	}

	if a.cfg.Sheets.Enabled() {
		repo, err := sheets.NewGoogleSheetRepository(ctx, a.cfg.Sheets, logger.Named(a.logger, "repo.sheets"))
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		publishers = append(publishers, sheets.NewReportPublisher(repo))
	}

	if a.cfg.Webhook.Enabled() {
		publishers = append(publishers, webhook.NewClient(a.cfg.Webhook))
	}

	return publishers, closeAll, nil
}
