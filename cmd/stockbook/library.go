package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mamadbah2/stockbook/internal/catalog"
	"github.com/mamadbah2/stockbook/internal/domain/models"
	"github.com/mamadbah2/stockbook/internal/render"
	"github.com/mamadbah2/stockbook/internal/store"
)

func newLibraryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "library",
		Aliases: []string{"lib"},
		Short:   "Manage the lending catalog",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List every item",
			Args:  cobra.NoArgs,
			RunE: a.withCatalog(func(cmd *cobra.Command, s *catalog.Store, _ []string) error {
				printBooks(cmd.OutOrStdout(), s.List(), "The library is empty.")
				return nil
			}),
		},
		newLibraryAddCmd(a),
		&cobra.Command{
			Use:   "find ID",
			Short: "Show one item",
			Args:  cobra.ExactArgs(1),
			RunE: a.withCatalog(func(cmd *cobra.Command, s *catalog.Store, args []string) error {
				item, ok := s.Find(args[0])
				if !ok {
					return fmt.Errorf("%w: item %s", store.ErrNotFound, args[0])
				}
				printBooks(cmd.OutOrStdout(), []models.LoanItem{item}, "")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "search QUERY",
			Short: "Find items whose title contains QUERY",
			Args:  cobra.ExactArgs(1),
			RunE: a.withCatalog(func(cmd *cobra.Command, s *catalog.Store, args []string) error {
				printBooks(cmd.OutOrStdout(), s.Search(args[0]), fmt.Sprintf("No items match %q.", args[0]))
				return nil
			}),
		},
		&cobra.Command{
			Use:   "loans",
			Short: "List items on loan",
			Args:  cobra.NoArgs,
			RunE: a.withCatalog(func(cmd *cobra.Command, s *catalog.Store, _ []string) error {
				printBooks(cmd.OutOrStdout(), s.ListHeld(), "No items on loan.")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "loan ID HOLDER",
			Short: "Lend an item",
			Args:  cobra.ExactArgs(2),
			RunE: a.withCatalog(func(cmd *cobra.Command, s *catalog.Store, args []string) error {
				item, err := s.SetHolder(args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Item %s lent to %s.\n", item.ID, *item.HeldBy)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "return ID",
			Short: "Mark an item as returned",
			Args:  cobra.ExactArgs(1),
			RunE: a.withCatalog(func(cmd *cobra.Command, s *catalog.Store, args []string) error {
				item, err := s.ClearHolder(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Item %s returned.\n", item.ID)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "remove ID",
			Short: "Delete an item",
			Args:  cobra.ExactArgs(1),
			RunE: a.withCatalog(func(cmd *cobra.Command, s *catalog.Store, args []string) error {
				removed, err := s.Remove(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s (%s).\n", removed.ID, removed.Title)
				return nil
			}),
		},
	)

	return cmd
}

func newLibraryAddCmd(a *app) *cobra.Command {
	var id, author string

	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Add an item",
		Args:  cobra.ExactArgs(1),
		RunE: a.withCatalog(func(cmd *cobra.Command, s *catalog.Store, args []string) error {
			in := models.NewLoanItem{Title: args[0]}
			if author != "" {
				in.Author = &author
			}

			var (
				item models.LoanItem
				err  error
			)
			if cmd.Flags().Changed("id") {
				item, err = s.AddWithID(id, in)
			} else {
				item, err = s.Add(in)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s).\n", item.ID, item.Title)
			return nil
		}),
	}
	cmd.Flags().StringVar(&author, "author", "", "author")
	cmd.Flags().StringVar(&id, "id", "", "explicit id instead of the next generated one")

	return cmd
}

func (a *app) withCatalog(run func(*cobra.Command, *catalog.Store, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := a.openCatalog()
		if err != nil {
			return err
		}
		return run(cmd, s, args)
	}
}

func printBooks(w io.Writer, items []models.LoanItem, empty string) {
	if len(items) == 0 {
		fmt.Fprintln(w, empty)
		return
	}
	fmt.Fprintln(w, render.CatalogTable(items))
}
