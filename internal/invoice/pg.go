package invoice

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGQueries implements the query provider over a pgx connection pool.
type PGQueries struct {
	Pool *pgxpool.Pool
}

const getInvoiceSQL = `
SELECT id, discount_kind, discount_value::text, discount_note
FROM invoices
WHERE id = $1`

const listInvoiceLinesSQL = `
SELECT quantity::text, unit_price::text, tax_rate::text, discount_kind, discount_value::text
FROM invoice_lines
WHERE invoice_id = $1
ORDER BY position, id`

// GetInvoice loads the invoice header, including its optional global discount.
func (q PGQueries) GetInvoice(ctx context.Context, id pgtype.UUID) (InvoiceRow, error) {
	var row InvoiceRow
	err := q.Pool.QueryRow(ctx, getInvoiceSQL, id).
		Scan(&row.ID, &row.DiscountKind, &row.DiscountValue, &row.DiscountNote)
	if err != nil {
		if err == pgx.ErrNoRows {
			return InvoiceRow{}, pgx.ErrNoRows
		}
		return InvoiceRow{}, fmt.Errorf("query invoice: %w", err)
	}
	return row, nil
}

// ListInvoiceLines returns the persisted lines in display order.
func (q PGQueries) ListInvoiceLines(ctx context.Context, invoiceID pgtype.UUID) ([]LineRow, error) {
	rows, err := q.Pool.Query(ctx, listInvoiceLinesSQL, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("query invoice lines: %w", err)
	}
	defer rows.Close()

	var out []LineRow
	for rows.Next() {
		var row LineRow
		if err := rows.Scan(&row.Quantity, &row.UnitPrice, &row.TaxRate, &row.DiscountKind, &row.DiscountValue); err != nil {
			return nil, fmt.Errorf("scan invoice line: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invoice lines: %w", err)
	}
	return out, nil
}
