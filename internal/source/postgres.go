package source

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salesops/go-sales-csv/internal/models"
)

// PostgresSource reads sale records from the live sales database.
type PostgresSource struct {
	pool *pgxpool.Pool
}

func NewPostgresSource(ctx context.Context, connString string) (*PostgresSource, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres config: %w", err)
	}

	p, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, fmt.Errorf("no response from postgres: %w", err)
	}

	return &PostgresSource{pool: p}, nil
}

func (s *PostgresSource) FetchWindow(ctx context.Context, from, to time.Time) ([]models.SaleRecord, error) {
	query := `
        SELECT order_id, customer_name, sku, quantity, unit_price, created_utc
        FROM sales
        WHERE created_utc >= $1 AND created_utc < $2
        ORDER BY created_utc ASC
    `

	rows, err := s.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sales window: %w", err)
	}
	defer rows.Close()

	var records []models.SaleRecord
	for rows.Next() {
		var r models.SaleRecord
		err := rows.Scan(
			&r.OrderID,
			&r.CustomerName,
			&r.Sku,
			&r.Quantity,
			&r.UnitPrice,
			&r.CreatedUtc,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sale record: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}

	return records, nil
}

func (s *PostgresSource) Close() {
	s.pool.Close()
}
