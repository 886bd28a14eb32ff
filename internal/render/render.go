// Package render turns store records into terminal tables.
package render

import (
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/mamadbah2/stockbook/internal/domain/models"
)

// Missing stands in for absent optional values.
const Missing = "-"

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Price formats an amount the way receipts print it: "$ 50.000".
func Price(amount float64) string {
	whole := humanize.Comma(int64(math.Round(amount)))
	return "$ " + strings.ReplaceAll(whole, ",", ".")
}

// Optional returns *s or Missing.
func Optional(s *string) string {
	if s == nil || *s == "" {
		return Missing
	}
	return *s
}

// InventoryTable lists stock items with their value.
func InventoryTable(items []models.StockItem) string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			strconv.Itoa(item.ID),
			item.Name,
			Price(item.UnitPrice),
			strconv.Itoa(item.Stock),
			Price(item.Value()),
		})
	}
	return build([]string{"ID", "NAME", "PRICE", "STOCK", "VALUE"}, rows)
}

// CatalogTable lists loanable items and their state.
func CatalogTable(items []models.LoanItem) string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.ID,
			item.Title,
			Optional(item.Author),
			string(item.State()),
			Optional(item.HeldBy),
		})
	}
	return build([]string{"ID", "TITLE", "AUTHOR", "STATE", "HELD BY"}, rows)
}

func build(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.String()
}
