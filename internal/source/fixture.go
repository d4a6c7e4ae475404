package source

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/salesops/go-sales-csv/internal/models"
)

// FixtureSource stands in for the sales database in environments without
// one. It returns three deterministic rows placed shortly after the window
// start.
type FixtureSource struct{}

func (FixtureSource) FetchWindow(ctx context.Context, from, to time.Time) ([]models.SaleRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return []models.SaleRecord{
		{OrderID: 1, CustomerName: "Juan Perez", Sku: "PROD001", Quantity: 2, UnitPrice: decimal.RequireFromString("15.50"), CreatedUtc: from.Add(5 * time.Minute)},
		{OrderID: 2, CustomerName: "Maria Gomez", Sku: "PROD002", Quantity: 1, UnitPrice: decimal.RequireFromString("25.00"), CreatedUtc: from.Add(10 * time.Minute)},
		{OrderID: 3, CustomerName: "Carlos Ruiz", Sku: "PROD003", Quantity: 3, UnitPrice: decimal.RequireFromString("9.99"), CreatedUtc: from.Add(15 * time.Minute)},
	}, nil
}
