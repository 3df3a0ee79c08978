package invoice

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/jmfavre/facture-api/internal/common"
	"github.com/jmfavre/facture-api/internal/obs"
	"github.com/jmfavre/facture-api/internal/pricing"
)

// DiscountPayload carries a percent or amount discount over the wire.
type DiscountPayload struct {
	Kind  string  `json:"kind" validate:"omitempty,oneof=percent amount"`
	Value float64 `json:"value"`
	Note  string  `json:"note,omitempty"`
}

// LinePayload is one editable invoice line. Numeric fields are coerced, not
// validated: the editor may hold half-typed values between keystrokes.
type LinePayload struct {
	Quantity  float64          `json:"quantity"`
	UnitPrice float64          `json:"unitPrice"`
	TaxRate   float64          `json:"taxRate"`
	Discount  *DiscountPayload `json:"discount,omitempty" validate:"omitempty"`
}

// PreviewRequest is the body of the live-totals endpoint.
type PreviewRequest struct {
	Items          []LinePayload    `json:"items" validate:"dive"`
	GlobalDiscount *DiscountPayload `json:"globalDiscount,omitempty" validate:"omitempty"`
}

// BucketPayload is one tax rate aggregation in a response.
type BucketPayload struct {
	Rate        decimal.Decimal `json:"rate"`
	TaxableBase decimal.Decimal `json:"taxableBase"`
	TaxAmount   decimal.Decimal `json:"taxAmount"`
}

// ItemPayload is the per-line breakdown in a response.
type ItemPayload struct {
	SubtotalBeforeDiscount decimal.Decimal `json:"subtotalBeforeDiscount"`
	LineDiscountAmount     decimal.Decimal `json:"lineDiscountAmount"`
	SubtotalAfterDiscount  decimal.Decimal `json:"subtotalAfterDiscount"`
	FinalSubtotal          decimal.Decimal `json:"finalSubtotal"`
}

// ResultPayload is the pricing outcome rendered for display. All figures are
// rounded at this boundary; the engine computes in full precision.
type ResultPayload struct {
	SubtotalAfterLineDiscounts  decimal.Decimal `json:"subtotalAfterLineDiscounts"`
	GlobalDiscountAmount        decimal.Decimal `json:"globalDiscountAmount"`
	SubtotalAfterGlobalDiscount decimal.Decimal `json:"subtotalAfterGlobalDiscount"`
	TaxByRate                   []BucketPayload `json:"taxByRate"`
	TotalTax                    decimal.Decimal `json:"totalTax"`
	GrandTotal                  decimal.Decimal `json:"grandTotal"`
	Items                       []ItemPayload   `json:"items"`
}

// InvoiceRow is the persisted invoice header used for recomputation.
type InvoiceRow struct {
	ID            pgtype.UUID
	DiscountKind  pgtype.Text
	DiscountValue pgtype.Text
	DiscountNote  pgtype.Text
}

// LineRow is one persisted invoice line.
type LineRow struct {
	Quantity      string
	UnitPrice     string
	TaxRate       string
	DiscountKind  pgtype.Text
	DiscountValue pgtype.Text
}

type queryProvider interface {
	GetInvoice(ctx context.Context, id pgtype.UUID) (InvoiceRow, error)
	ListInvoiceLines(ctx context.Context, invoiceID pgtype.UUID) ([]LineRow, error)
}

/// Service exposes the pricing engine to its consuming surfaces: the live
// editor preview and the read-only invoice view, which recomputes from
// persisted lines rather than trusting a stored total.
type Service struct {
	Queries  queryProvider
	Validate *validator.Validate
	Places   int32
}

// Preview computes display totals for transient editor state.
func (s *Service) Preview(req PreviewRequest) (ResultPayload, error) {
	normalizeKinds(&req)
	if s.Validate != nil {
		if err := s.Validate.Struct(req); err != nil {
			return ResultPayload{}, common.NewAppError("VALIDATION", "invalid pricing request", http.StatusBadRequest, err)
		}
	}

	items := make([]pricing.LineItem, 0, len(req.Items))
	for _, line := range req.Items {
		items = append(items, pricing.LineItem{
			Quantity:  pricing.FromFloat(line.Quantity),
			UnitPrice: pricing.FromFloat(line.UnitPrice),
			TaxRate:   pricing.FromFloat(line.TaxRate),
			Discount:  discountFromPayload(line.Discount),
		})
	}
	var global *pricing.GlobalDiscount
	if d := discountFromPayload(req.GlobalDiscount); d != nil {
		global = &pricing.GlobalDiscount{Discount: *d, Note: req.GlobalDiscount.Note}
	}

	result := pricing.Compute(items, global)
	s.observe("preview", len(items))
	return s.render(result), nil
}

// Totals recomputes an invoice's figures from its persisted lines.
func (s *Service) Totals(ctx context.Context, rawID string) (ResultPayload, error) {
	id, err := parseUUID(rawID)
	if err != nil {
		return ResultPayload{}, common.NewAppError("BAD_REQUEST", "invalid invoice id", http.StatusBadRequest, err)
	}

	header, err := s.Queries.GetInvoice(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ResultPayload{}, common.NewAppError("NOT_FOUND", "invoice not found", http.StatusNotFound, err)
		}
		return ResultPayload{}, fmt.Errorf("get invoice: %w", err)
	}

	rows, err := s.Queries.ListInvoiceLines(ctx, id)
	if err != nil {
		return ResultPayload{}, fmt.Errorf("list invoice lines: %w", err)
	}

	items := make([]pricing.LineItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, pricing.LineItem{
			Quantity:  parseDecimal(row.Quantity),
			UnitPrice: parseDecimal(row.UnitPrice),
			TaxRate:   parseDecimal(row.TaxRate),
			Discount:  discountFromColumns(row.DiscountKind, row.DiscountValue),
		})
	}
	var global *pricing.GlobalDiscount
	if d := discountFromColumns(header.DiscountKind, header.DiscountValue); d != nil {
		global = &pricing.GlobalDiscount{Discount: *d, Note: textValue(header.DiscountNote)}
	}

	result := pricing.Compute(items, global)
	s.observe("invoice", len(items))
	return s.render(result), nil
}

func (s *Service) observe(surface string, lineCount int) {
	if obs.PricingComputeTotal != nil {
		obs.PricingComputeTotal.WithLabelValues(surface).Inc()
	}
	if obs.PricingLineItems != nil {
		obs.PricingLineItems.Observe(float64(lineCount))
	}
}

func (s *Service) render(result pricing.Result) ResultPayload {
	places := s.Places
	if places <= 0 {
		places = 2
	}
	rounded := result.Rounded(places)
	payload := ResultPayload{
		SubtotalAfterLineDiscounts:  rounded.SubtotalAfterLineDiscounts,
		GlobalDiscountAmount:        rounded.GlobalDiscountAmount,
		SubtotalAfterGlobalDiscount: rounded.SubtotalAfterGlobalDiscount,
		TotalTax:                    rounded.TotalTax,
		GrandTotal:                  rounded.GrandTotal,
		TaxByRate:                   make([]BucketPayload, 0, len(rounded.TaxByRate)),
		Items:                       make([]ItemPayload, 0, len(rounded.Items)),
	}
	for _, b := range rounded.TaxByRate {
		payload.TaxByRate = append(payload.TaxByRate, BucketPayload{
			Rate:        b.Rate,
			TaxableBase: b.TaxableBase,
			TaxAmount:   b.TaxAmount,
		})
	}
	for _, it := range rounded.Items {
		payload.Items = append(payload.Items, ItemPayload{
			SubtotalBeforeDiscount: it.SubtotalBeforeDiscount,
			LineDiscountAmount:     it.LineDiscountAmount,
			SubtotalAfterDiscount:  it.SubtotalAfterDiscount,
			FinalSubtotal:          it.FinalSubtotal,
		})
	}
	return payload
}

func normalizeKinds(req *PreviewRequest) {
	for i := range req.Items {
		if req.Items[i].Discount != nil {
			req.Items[i].Discount.Kind = strings.ToLower(strings.TrimSpace(req.Items[i].Discount.Kind))
		}
	}
	if req.GlobalDiscount != nil {
		req.GlobalDiscount.Kind = strings.ToLower(strings.TrimSpace(req.GlobalDiscount.Kind))
	}
}

func discountFromPayload(d *DiscountPayload) *pricing.Discount {
	if d == nil {
		return nil
	}
	kind, ok := parseKind(d.Kind)
	if !ok {
		return nil
	}
	return &pricing.Discount{Kind: kind, Value: pricing.FromFloat(d.Value)}
}

func discountFromColumns(kind, value pgtype.Text) *pricing.Discount {
	if !kind.Valid || !value.Valid {
		return nil
	}
	parsed, ok := parseKind(kind.String)
	if !ok {
		return nil
	}
	return &pricing.Discount{Kind: parsed, Value: parseDecimal(value.String)}
}

func parseKind(raw string) (pricing.DiscountKind, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "percent":
		return pricing.Percent, true
	case "amount":
		return pricing.Amount, true
	default:
		return 0, false
	}
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseUUID(raw string) (pgtype.UUID, error) {
	var id pgtype.UUID
	if err := id.Scan(strings.TrimSpace(raw)); err != nil {
		return pgtype.UUID{}, err
	}
	return id, nil
}

func textValue(t pgtype.Text) string {
	if !t.Valid {
		return ""
	}
	return t.String
}
