package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/salesops/go-sales-csv/internal/models"
)

// Header is the fixed first line of every report.
const Header = "OrderId,CustomerName,Sku,Quantity,UnitPrice,Total,CreatedUtc"

// Render serializes an ordered set of sale records into the canonical CSV
// body. Total is computed here, never read from the record. The renderer
// holds no state and is safe to call concurrently.
func Render(records []models.SaleRecord) ([]byte, error) {
	var b strings.Builder
	b.WriteString(Header)
	b.WriteByte('\n')

	for _, r := range records {
		if r.Quantity < 0 {
			return nil, fmt.Errorf("record %d: negative quantity %d", r.OrderID, r.Quantity)
		}
		if r.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("record %d: negative unit price %s", r.OrderID, r.UnitPrice)
		}

		fmt.Fprintf(&b, "%d,%s,%s,%d,%s,%s,%s\n",
			r.OrderID,
			EscapeField(r.CustomerName),
			r.Sku,
			r.Quantity,
			r.UnitPrice.StringFixed(2),
			r.Total().StringFixed(2),
			r.CreatedUtc.UTC().Format(time.RFC3339Nano),
		)
	}

	return []byte(b.String()), nil
}

// EscapeField replaces the delimiter inside free-text fields with a
// semicolon. Downstream consumers of the legacy format expect exactly this
// replacement, not CSV quoting, so embedded newlines and semicolons pass
// through untouched.
func EscapeField(s string) string {
	return strings.ReplaceAll(s, ",", ";")
}
