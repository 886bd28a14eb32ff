package models

// StockItem is one inventory entry. Stock never goes below zero.
type StockItem struct {
	ID        int     `bson:"id" json:"id"`
	Name      string  `bson:"name" json:"name"`
	UnitPrice float64 `bson:"unit_price" json:"unit_price"`
	Stock     int     `bson:"stock" json:"stock"`
}

// Value is the stock valued at unit price.
func (s StockItem) Value() float64 {
	return s.UnitPrice * float64(s.Stock)
}

// NewStockItem carries the caller-supplied fields of an item to add.
type NewStockItem struct {
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Stock     int     `json:"stock"`
}

// StockItemPatch lists the fields to overwrite; nil fields are left alone.
type StockItemPatch struct {
	Name      *string  `json:"name"`
	UnitPrice *float64 `json:"unit_price"`
	Stock     *int     `json:"stock"`
}
