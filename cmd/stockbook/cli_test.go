package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/stockbook/internal/catalog"
	"github.com/mamadbah2/stockbook/internal/inventory"
	"github.com/mamadbah2/stockbook/internal/store"
)

type cli struct {
	t             *testing.T
	inventoryPath string
	catalogPath   string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()
	for _, key := range []string{"MONGODB_URI", "GOOGLE_SHEETS_CREDENTIALS_PATH", "GOOGLE_SHEET_DATABASE_ID", "REPORT_WEBHOOK_URL"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("REPORT_FILE", filepath.Join(dir, "report.txt"))
	return &cli{
		t:             t,
		inventoryPath: filepath.Join(dir, "inventory.json"),
		catalogPath:   filepath.Join(dir, "library.json"),
	}
}

func (c *cli) run(stdin string, args ...string) (string, error) {
	c.t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--inventory", c.inventoryPath, "--catalog", c.catalogPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run("", args...)
	require.NoError(c.t, err)
	return out
}

func TestInventoryCommands(t *testing.T) {
	c := newCLI(t)

	assert.Contains(t, c.mustRun("inventory", "list"), "No items in inventory.")
	assert.Contains(t, c.mustRun("inventory", "add", "Shirt", "--price", "50000", "--stock", "10"), "Added item 1 (Shirt).")
	assert.Contains(t, c.mustRun("inventory", "sell", "1", "2"), "now has 8 in stock")

	_, err := c.run("", "inventory", "sell", "1", "100")
	assert.ErrorIs(t, err, inventory.ErrInsufficientQuantity)

	_, err = c.run("", "inventory", "sell", "abc", "1")
	assert.ErrorIs(t, err, store.ErrInvalidArgument)

	assert.Contains(t, c.mustRun("inventory", "restock", "1", "4"), "now has 12 in stock")

	out := c.mustRun("inventory", "list")
	assert.Contains(t, out, "Shirt")
	assert.Contains(t, out, "$ 50.000")

	assert.Contains(t, c.mustRun("inventory", "modify", "1", "--name", "Shirt XL"), "Shirt XL")
	_, err = c.run("", "inventory", "modify", "1")
	assert.ErrorIs(t, err, store.ErrInvalidArgument)

	assert.Contains(t, c.mustRun("inventory", "search", "xl"), "Shirt XL")
	assert.Contains(t, c.mustRun("inventory", "search", "hat"), `No items match "hat".`)

	assert.Contains(t, c.mustRun("inventory", "remove", "1"), "Removed item 1")
	_, err = c.run("", "inventory", "find", "1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestLibraryCommands(t *testing.T) {
	c := newCLI(t)

	assert.Contains(t, c.mustRun("library", "add", "Python Avanzado", "--author", "Ana Ruiz"), "Added 001")
	assert.Contains(t, c.mustRun("library", "add", "Introducción a Python"), "Added 002")
	assert.Contains(t, c.mustRun("library", "add", "Atlas", "--id", "REF-1"), "Added REF-1")

	_, err := c.run("", "library", "add", "Copia", "--id", "001")
	assert.ErrorIs(t, err, store.ErrDuplicateID)

	assert.Contains(t, c.mustRun("library", "loan", "001", "Luis"), "Item 001 lent to Luis.")
	_, err = c.run("", "library", "loan", "001", "Ana")
	assert.ErrorIs(t, err, catalog.ErrAlreadyHeld)

	loans := c.mustRun("library", "loans")
	assert.Contains(t, loans, "Luis")
	assert.NotContains(t, loans, "Atlas")

	search := c.mustRun("library", "search", "python")
	assert.Contains(t, search, "001")
	assert.Contains(t, search, "002")

	assert.Contains(t, c.mustRun("library", "return", "001"), "Item 001 returned.")
	_, err = c.run("", "library", "return", "001")
	assert.ErrorIs(t, err, catalog.ErrNotHeld)

	assert.Contains(t, c.mustRun("library", "remove", "002"), "Removed 002")
	assert.Contains(t, c.mustRun("library", "loans"), "No items on loan.")
}

func TestMenuLoansAndRecoversFromErrors(t *testing.T) {
	c := newCLI(t)

	input := strings.Join([]string{
		"2", "Python Avanzado", "",
		"6", "001", "Ana",
		"6", "001", "Luis",
		"99",
		"5",
		"8",
	}, "\n") + "\n"

	out, err := c.run(input, "menu")
	require.NoError(t, err)

	assert.Contains(t, out, "Book added (ID: 001).")
	assert.Contains(t, out, "Book 001 lent to Ana.")
	assert.Contains(t, out, "Error: item is already on loan")
	assert.Contains(t, out, `Invalid option "99"`)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "Bye."))

	s, err := catalog.Open(c.catalogPath, nil)
	require.NoError(t, err)
	item, ok := s.Find("001")
	require.True(t, ok)
	require.NotNil(t, item.HeldBy)
	assert.Equal(t, "Ana", *item.HeldBy)
}

func TestMenuInventoryReprompts(t *testing.T) {
	c := newCLI(t)

	input := strings.Join([]string{
		"10", "Cap", "cheap", "25000", "-1", "5",
		"11", "1", "9",
		"11", "1", "2",
	}, "\n") + "\n"

	out, err := c.run(input, "menu")
	require.NoError(t, err)

	assert.Contains(t, out, "Enter a number of at least 0.")
	assert.Contains(t, out, "Enter a whole number of at least 0.")
	assert.Contains(t, out, "Item added (ID: 1).")
	assert.Contains(t, out, "Error: insufficient stock")
	assert.Contains(t, out, "Item 1 (Cap) now has 3 in stock.")
	assert.Contains(t, out, "Bye.")
}

func TestNonFinitePriceDoesNotWedgeSession(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("", "inventory", "add", "Cap", "--price", "Inf", "--stock", "1")
	assert.ErrorIs(t, err, store.ErrInvalidArgument)

	input := strings.Join([]string{
		"10", "Cap", "Inf", "NaN", "25000", "5",
		"10", "Belt", "15000", "2",
	}, "\n") + "\n"

	out, err := c.run(input, "menu")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "Enter a number of at least 0."))
	assert.Contains(t, out, "Item added (ID: 1).")
	assert.Contains(t, out, "Item added (ID: 2).")
	assert.NotContains(t, out, "Error:")

	s, err := inventory.Open(c.inventoryPath, nil)
	require.NoError(t, err)
	assert.Len(t, s.List(), 2)
}

func TestReportPublishesToFile(t *testing.T) {
	c := newCLI(t)
	c.mustRun("inventory", "add", "Cap", "--price", "1000", "--stock", "2")
	c.mustRun("library", "add", "Atlas")
	c.mustRun("library", "loan", "001", "Ana")

	out := c.mustRun("report")
	assert.Contains(t, out, "Items: 1  Units: 2  Stock value: $ 2.000")
	assert.Contains(t, out, "001 Atlas -> Ana")
	assert.NotContains(t, out, "published")

	out = c.mustRun("report", "--publish")
	assert.Contains(t, out, "Report published to 1 sink(s).")

	data, err := os.ReadFile(os.Getenv("REPORT_FILE"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Catalog: 1 items, 1 on loan")
}

func TestMalformedStoreIsReported(t *testing.T) {
	c := newCLI(t)
	require.NoError(t, os.WriteFile(c.inventoryPath, []byte(`{"not": "an array"}`), 0o644))

	_, err := c.run("", "inventory", "list")
	assert.ErrorIs(t, err, store.ErrMalformedStore)
}

func TestInvalidConfig(t *testing.T) {
	c := newCLI(t)
	t.Setenv("LOW_STOCK_THRESHOLD", "lots")

	_, err := c.run("", "inventory", "list")
	assert.Error(t, err)
}
