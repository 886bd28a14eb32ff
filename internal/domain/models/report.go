package models

import "time"

// Report is a point-in-time summary of both collections. It is what the
// scheduler publishes and what MongoDB archives.
type Report struct {
	GeneratedAt   time.Time    `bson:"generated_at" json:"generated_at"`
	ItemCount     int          `bson:"item_count" json:"item_count"`
	TotalUnits    int          `bson:"total_units" json:"total_units"`
	StockValue    float64      `bson:"stock_value" json:"stock_value"`
	LowStockLimit int          `bson:"low_stock_limit" json:"low_stock_limit"`
	LowStock      []StockItem  `bson:"low_stock" json:"low_stock"`
	CatalogSize   int          `bson:"catalog_size" json:"catalog_size"`
	OnLoan        []LoanRecord `bson:"on_loan" json:"on_loan"`
}

// LoanRecord names who holds which item.
type LoanRecord struct {
	ID     string `bson:"id" json:"id"`
	Title  string `bson:"title" json:"title"`
	Holder string `bson:"holder" json:"holder"`
}
