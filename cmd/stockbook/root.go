package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockbook/internal/catalog"
	"github.com/mamadbah2/stockbook/internal/config"
	"github.com/mamadbah2/stockbook/internal/inventory"
	"github.com/mamadbah2/stockbook/internal/store"
	"github.com/mamadbah2/stockbook/pkg/logger"
)

// app carries the state shared by every subcommand of one invocation.
type app struct {
	envFile       string
	inventoryPath string
	catalogPath   string
	verbose       bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "stockbook",
		Short: "Shop inventory and lending catalog kept in JSON files",
		Long: `stockbook keeps two record collections in plain JSON files:

  inventory  stock items with a unit price and a quantity on hand
  library    loanable items that are either available or lent to one holder

Every change is written back to disk before the command returns.`,
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.setup()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.envFile, "env-file", "", "dotenv file to load before reading the environment")
	flags.StringVar(&a.inventoryPath, "inventory", "", "inventory file (overrides INVENTORY_FILE)")
	flags.StringVar(&a.catalogPath, "catalog", "", "catalog file (overrides CATALOG_FILE)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log at debug level")

	cmd.AddCommand(
		newInventoryCmd(a),
		newLibraryCmd(a),
		newMenuCmd(a),
		newReportCmd(a),
		newServeCmd(a),
	)

	return cmd
}

func (a *app) setup() error {
	cfg, err := config.Load(a.envFile)
	if err != nil {
		return err
	}
	if a.inventoryPath != "" {
		cfg.Store.InventoryPath = a.inventoryPath
	}
	if a.catalogPath != "" {
		cfg.Store.CatalogPath = a.catalogPath
	}

	level := cfg.Log.Level
	if a.verbose {
		level = "debug"
	}
	lg, err := logger.NewWithLevel(level)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = lg
	return nil
}

func (a *app) openInventory() (*inventory.Store, error) {
	return inventory.Open(a.cfg.Store.InventoryPath, logger.Named(a.logger, "store.inventory"))
}

func (a *app) openCatalog() (*catalog.Store, error) {
	return catalog.Open(a.cfg.Store.CatalogPath, logger.Named(a.logger, "store.catalog"))
}

func parseInt(name, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not an integer", store.ErrInvalidArgument, name, value)
	}
	return n, nil
}
