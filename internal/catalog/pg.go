package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PGQueries implements the query provider over a pgx connection pool.
type PGQueries struct {
	Pool *pgxpool.Pool
}

const listActiveProductsSQL = `
SELECT id, name, description, code, unit, unit_price::text, tax_rate::text
FROM products
WHERE active
ORDER BY name, id`

// ListActiveProducts returns all products currently offered for line-item entry.
func (q PGQueries) ListActiveProducts(ctx context.Context) ([]ProductRow, error) {
	rows, err := q.Pool.Query(ctx, listActiveProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("query active products: %w", err)
	}
	defer rows.Close()

	var out []ProductRow
	for rows.Next() {
		var row ProductRow
		if err := rows.Scan(&row.ID, &row.Name, &row.Description, &row.Code, &row.Unit, &row.UnitPrice, &row.TaxRate); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}
	return out, nil
}
