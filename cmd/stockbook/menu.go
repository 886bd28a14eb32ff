package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mamadbah2/stockbook/internal/catalog"
	"github.com/mamadbah2/stockbook/internal/domain/models"
	"github.com/mamadbah2/stockbook/internal/inventory"
	"github.com/mamadbah2/stockbook/internal/store"
)

const menuText = `=== Stockbook ===
Library
 [1] List books
 [2] Add book
 [3] Remove book
 [4] Search books by title
 [5] Books on loan
 [6] Lend book
 [7] Return book
 [8] Exit
Inventory
 [9] List items
 [10] Add item
 [11] Sell
 [12] Restock
 [13] Search items by name
 [14] Remove item`

const (
	optExit      = 8
	lastMenuItem = 14
)

func newMenuCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Interactive numbered menu over both collections",
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
			m := &menu{
				in:  bufio.NewScanner(cmd.InOrStdin()),
				out: cmd.OutOrStdout(),
				inv: inv,
				cat: cat,
			}
			m.run()
			return nil
		},
	}
}

// menu reads one choice per line. End of input behaves like Exit.
type menu struct {
	in  *bufio.Scanner
	out io.Writer
	inv *inventory.Store
	cat *catalog.Store
}

// errEndOfInput ends the loop when input runs out mid-prompt.
var errEndOfInput = errors.New("end of input")

func (m *menu) run() {
	for {
		fmt.Fprintln(m.out, menuText)
		choice, ok := m.choice()
		if !ok || choice == optExit {
			fmt.Fprintln(m.out, "Bye.")
			return
		}
		if err := m.dispatch(choice); err != nil {
			if errors.Is(err, errEndOfInput) {
				fmt.Fprintln(m.out, "Bye.")
				return
			}
			fmt.Fprintf(m.out, "Error: %v\n", err)
		}
	}
}

func (m *menu) choice() (int, bool) {
	for {
		line, ok := m.prompt("Choose an option")
		if !ok {
			return 0, false
		}
		n, err := strconv.Atoi(line)
		if err == nil && n >= 1 && n <= lastMenuItem {
			return n, true
		}
		fmt.Fprintf(m.out, "Invalid option %q, enter a number from 1 to %d.\n", line, lastMenuItem)
	}
}

func (m *menu) dispatch(choice int) error {
	switch choice {
	case 1:
		printBooks(m.out, m.cat.List(), "The library is empty.")
	case 2:
		title, err := m.required("Title")
		if err != nil {
			return err
		}
		author, ok := m.prompt("Author (optional)")
		if !ok {
			return errEndOfInput
		}
		in := models.NewLoanItem{Title: title}
		if author != "" {
			in.Author = &author
		}
		item, err := m.cat.Add(in)
		if err != nil {
			return err
		}
		fmt.Fprintf(m.out, "Book added (ID: %s).\n", item.ID)
	case 3:
		id, err := m.required("ID of the book to remove")
		if err != nil {
			return err
		}
		removed, err := m.cat.Remove(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(m.out, "Book removed: %s.\n", removed.Title)
	case 4:
		q, err := m.required("Text to search in titles")
		if err != nil {
			return err
		}
		printBooks(m.out, m.cat.Search(q), fmt.Sprintf("No books match %q.", q))
	case 5:
		printBooks(m.out, m.cat.ListHeld(), "No books on loan.")
	case 6:
		id, err := m.required("ID of the book to lend")
		if err != nil {
			return err
		}
		holder, err := m.required("Borrower name")
		if err != nil {
			return err
		}
		if _, err := m.cat.SetHolder(id, holder); err != nil {
			return err
		}
		fmt.Fprintf(m.out, "Book %s lent to %s.\n", id, holder)
	case 7:
		id, err := m.required("ID of the book to return")
		if err != nil {
			return err
		}
		if _, err := m.cat.ClearHolder(id); err != nil {
			return err
		}
		fmt.Fprintf(m.out, "Book %s returned.\n", id)
	case 9:
		printStock(m.out, m.inv.List(), "No items in inventory.")
	case 10:
		name, err := m.required("Name")
		if err != nil {
			return err
		}
		price, err := m.number("Unit price")
		if err != nil {
			return err
		}
		stock, err := m.count("Units on hand", 0)
		if err != nil {
			return err
		}
		item, err := m.inv.Add(models.NewStockItem{Name: name, UnitPrice: price, Stock: stock})
		if err != nil {
			return err
		}
		fmt.Fprintf(m.out, "Item added (ID: %d).\n", item.ID)
	case 11, 12:
		id, err := m.count("Item ID", 1)
		if err != nil {
			return err
		}
		qty, err := m.count("Quantity", 1)
		if err != nil {
			return err
		}
		op := m.inv.Sell
		if choice == 12 {
			op = m.inv.Restock
		}
		item, err := op(id, qty)
		if err != nil {
			return err
		}
		fmt.Fprintf(m.out, "Item %d (%s) now has %d in stock.\n", item.ID, item.Name, item.Stock)
	case 13:
		q, err := m.required("Text to search in names")
		if err != nil {
			return err
		}
		printStock(m.out, m.inv.Search(q), fmt.Sprintf("No items match %q.", q))
	case 14:
		id, err := m.count("ID of the item to remove", 1)
		if err != nil {
			return err
		}
		removed, err := m.inv.Remove(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(m.out, "Item removed: %s.\n", removed.Name)
	}
	return nil
}

func (m *menu) prompt(label string) (string, bool) {
	fmt.Fprintf(m.out, "%s: ", label)
	if !m.in.Scan() {
		fmt.Fprintln(m.out)
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

func (m *menu) required(label string) (string, error) {
	for {
		v, ok := m.prompt(label)
		if !ok {
			return "", errEndOfInput
		}
		if v != "" {
			return v, nil
		}
		fmt.Fprintln(m.out, "A value is required.")
	}
}

// count asks until it gets an integer >= minimum.
func (m *menu) count(label string, minimum int) (int, error) {
	for {
		v, err := m.required(label)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(v)
		if err == nil && n >= minimum {
			return n, nil
		}
		fmt.Fprintf(m.out, "Enter a whole number of at least %d.\n", minimum)
	}
}

func (m *menu) number(label string) (float64, error) {
	for {
		v, err := m.required(label)
		if err != nil {
			return 0, err
		}
		f, err := strconv.ParseFloat(v, 64)
		if err == nil && store.Finite(f) && f >= 0 {
			return f, nil
		}
		fmt.Fprintln(m.out, "Enter a number of at least 0.")
	}
}
