package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleRecord is a read-only projection of one transaction.
type SaleRecord struct {
	OrderID      int64
	CustomerName string
	Sku          string
	Quantity     int
	UnitPrice    decimal.Decimal
	CreatedUtc   time.Time
}

// Total is derived at render time, never stored.
func (s SaleRecord) Total() decimal.Decimal {
	return s.UnitPrice.Mul(decimal.NewFromInt(int64(s.Quantity)))
}
