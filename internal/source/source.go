package source

import (
	"context"
	"time"

	"github.com/salesops/go-sales-csv/internal/models"
)

// RowSource returns the sale records created inside [from, to), ascending
// by creation time. Callers rely on that ordering and do not re-sort.
type RowSource interface {
	FetchWindow(ctx context.Context, from, to time.Time) ([]models.SaleRecord, error)
}
