package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mamadbah2/stockbook/internal/domain/models"
)

func TestPrice(t *testing.T) {
	cases := map[float64]string{
		0:         "$ 0",
		950:       "$ 950",
		50000:     "$ 50.000",
		1234567.6: "$ 1.234.568",
	}
	for in, want := range cases {
		assert.Equal(t, want, Price(in), "Price(%v)", in)
	}
}

func TestOptional(t *testing.T) {
	empty := ""
	name := "Ana"
	assert.Equal(t, Missing, Optional(nil))
	assert.Equal(t, Missing, Optional(&empty))
	assert.Equal(t, "Ana", Optional(&name))
}

func TestInventoryTable(t *testing.T) {
	out := InventoryTable([]models.StockItem{
		{ID: 1, Name: "Shirt", UnitPrice: 50000, Stock: 10},
		{ID: 2, Name: "Cap", UnitPrice: 25000, Stock: 0},
	})

	for _, want := range []string{"NAME", "Shirt", "Cap", "$ 50.000", "$ 500.000", "$ 25.000"} {
		assert.Contains(t, out, want)
	}
	assert.Less(t, strings.Index(out, "Shirt"), strings.Index(out, "Cap"))
}

func TestCatalogTable(t *testing.T) {
	author := "Ana Ruiz"
	holder := "Luis"
	out := CatalogTable([]models.LoanItem{
		{ID: "001", Title: "Python Avanzado", Author: &author},
		{ID: "002", Title: "Go", HeldBy: &holder},
	})

	for _, want := range []string{"HELD BY", "001", "Python Avanzado", "Ana Ruiz", "available", "on_loan", "Luis", Missing} {
		assert.Contains(t, out, want)
	}
}

func TestEmptyTablesStillHaveHeaders(t *testing.T) {
	assert.Contains(t, InventoryTable(nil), "STOCK")
	assert.Contains(t, CatalogTable(nil), "TITLE")
}
