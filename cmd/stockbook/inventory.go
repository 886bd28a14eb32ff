package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mamadbah2/stockbook/internal/domain/models"
	"github.com/mamadbah2/stockbook/internal/inventory"
	"github.com/mamadbah2/stockbook/internal/render"
	"github.com/mamadbah2/stockbook/internal/store"
)

func newInventoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "inventory",
		Aliases: []string{"inv"},
		Short:   "Manage stock items",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List every item",
			Args:  cobra.NoArgs,
			RunE: a.withInventory(func(cmd *cobra.Command, s *inventory.Store, _ []string) error {
				printStock(cmd.OutOrStdout(), s.List(), "No items in inventory.")
				return nil
			}),
		},
		newInventoryAddCmd(a),
		&cobra.Command{
			Use:   "find ID",
			Short: "Show one item",
			Args:  cobra.ExactArgs(1),
			RunE: a.withInventory(func(cmd *cobra.Command, s *inventory.Store, args []string) error {
				id, err := parseInt("id", args[0])
				if err != nil {
					return err
				}
				item, ok := s.Find(id)
				if !ok {
					return fmt.Errorf("%w: item %d", store.ErrNotFound, id)
				}
				printStock(cmd.OutOrStdout(), []models.StockItem{item}, "")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "search QUERY",
			Short: "Find items whose name contains QUERY",
			Args:  cobra.ExactArgs(1),
			RunE: a.withInventory(func(cmd *cobra.Command, s *inventory.Store, args []string) error {
				printStock(cmd.OutOrStdout(), s.Search(args[0]), fmt.Sprintf("No items match %q.", args[0]))
				return nil
			}),
		},
		newInventoryModifyCmd(a),
		newQuantityCmd(a, "sell", "Deduct sold units from stock", (*inventory.Store).Sell),
		newQuantityCmd(a, "restock", "Add received units to stock", (*inventory.Store).Restock),
		&cobra.Command{
			Use:   "remove ID",
			Short: "Delete an item",
			Args:  cobra.ExactArgs(1),
			RunE: a.withInventory(func(cmd *cobra.Command, s *inventory.Store, args []string) error {
				id, err := parseInt("id", args[0])
				if err != nil {
					return err
				}
				removed, err := s.Remove(id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed item %d (%s).\n", removed.ID, removed.Name)
				return nil
			}),
		},
	)

	return cmd
}

func newInventoryAddCmd(a *app) *cobra.Command {
	var in models.NewStockItem

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add an item",
		Args:  cobra.ExactArgs(1),
		RunE: a.withInventory(func(cmd *cobra.Command, s *inventory.Store, args []string) error {
			in.Name = args[0]
			item, err := s.Add(in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added item %d (%s).\n", item.ID, item.Name)
			return nil
		}),
	}
	cmd.Flags().Float64Var(&in.UnitPrice, "price", 0, "unit price")
	cmd.Flags().IntVar(&in.Stock, "stock", 0, "units on hand")

	return cmd
}

func newInventoryModifyCmd(a *app) *cobra.Command {
	var (
		name  string
		price float64
		stock int
	)

	cmd := &cobra.Command{
		Use:   "modify ID",
		Short: "Change the name, price or stock of an item",
		Args:  cobra.ExactArgs(1),
		RunE: a.withInventory(func(cmd *cobra.Command, s *inventory.Store, args []string) error {
			id, err := parseInt("id", args[0])
			if err != nil {
				return err
			}

			var patch models.StockItemPatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("price") {
				patch.UnitPrice = &price
			}
			if cmd.Flags().Changed("stock") {
				patch.Stock = &stock
			}
			if patch == (models.StockItemPatch{}) {
				return fmt.Errorf("%w: nothing to modify", store.ErrInvalidArgument)
			}

			item, err := s.Modify(id, patch)
			if err != nil {
				return err
			}
			printStock(cmd.OutOrStdout(), []models.StockItem{item}, "")
			return nil
		}),
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().Float64Var(&price, "price", 0, "new unit price")
	cmd.Flags().IntVar(&stock, "stock", 0, "new units on hand")

	return cmd
}

func newQuantityCmd(a *app, use, short string, op func(*inventory.Store, int, int) (models.StockItem, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID QUANTITY",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: a.withInventory(func(cmd *cobra.Command, s *inventory.Store, args []string) error {
			id, err := parseInt("id", args[0])
			if err != nil {
				return err
			}
			qty, err := parseInt("quantity", args[1])
			if err != nil {
				return err
			}
			item, err := op(s, id, qty)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Item %d (%s) now has %d in stock.\n", item.ID, item.Name, item.Stock)
			return nil
		}),
	}
}

func (a *app) withInventory(run func(*cobra.Command, *inventory.Store, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := a.openInventory()
		if err != nil {
			return err
		}
		return run(cmd, s, args)
	}
}

func printStock(w io.Writer, items []models.StockItem, empty string) {
	if len(items) == 0 {
		fmt.Fprintln(w, empty)
		return
	}
	fmt.Fprintln(w, render.InventoryTable(items))
}
