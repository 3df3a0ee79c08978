package pricing

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// DiscountKind selects how a discount value is interpreted.
type DiscountKind int

const (
	// Percent interprets the discount value as a percentage of the base.
	Percent DiscountKind = iota
	// Amount interprets the discount value as an absolute amount.
	Amount
)

// Discount reduces a base amount either by percentage or by absolute value.
type Discount struct {
	Kind  DiscountKind
	Value decimal.Decimal
}

// GlobalDiscount applies once to the aggregate subtotal after all line discounts.
type GlobalDiscount struct {
	Discount
	Note string
}

// LineItem describes a single invoice line used for pricing calculation.
type LineItem struct {
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	TaxRate   decimal.Decimal
	Discount  *Discount
}

// ItemBreakdown carries the per-line figures produced by Compute.
type ItemBreakdown struct {
	SubtotalBeforeDiscount decimal.Decimal
	LineDiscountAmount     decimal.Decimal
	SubtotalAfterDiscount  decimal.Decimal
	FinalSubtotal          decimal.Decimal
}

// TaxBucket aggregates taxable base and tax amount for one distinct rate.
type TaxBucket struct {
	Rate        decimal.Decimal
	TaxableBase decimal.Decimal
	TaxAmount   decimal.Decimal
}

// Result is the immutable outcome of a pricing computation.
type Result struct {
	SubtotalAfterLineDiscounts  decimal.Decimal
	GlobalDiscountAmount        decimal.Decimal
	SubtotalAfterGlobalDiscount decimal.Decimal
	TaxByRate                   []TaxBucket
	TotalTax                    decimal.Decimal
	GrandTotal                  decimal.Decimal
	Items                       []ItemBreakdown
}

var hundred = decimal.NewFromInt(100)

// Compute runs the full discount cascade and multi-rate tax computation.
// It is a pure function: discounts apply before tax, the global discount is
// distributed proportionally across lines, and tax is levied per line at the
// line's own rate, then bucketed by exact decimal rate. Degenerate input
// (no items, zero quantities) yields a zero-valued result, never an error.
func Compute(items []LineItem, global *GlobalDiscount) Result {
	breakdowns := make([]ItemBreakdown, len(items))
	subtotal := decimal.Zero
	for i, item := range items {
		item = sanitize(item)
		raw := item.Quantity.Mul(item.UnitPrice)
		lineDiscount := discountAmount(item.Discount, raw)
		after := raw.Sub(lineDiscount)
		breakdowns[i] = ItemBreakdown{
			SubtotalBeforeDiscount: raw,
			LineDiscountAmount:     lineDiscount,
			SubtotalAfterDiscount:  after,
			FinalSubtotal:          after,
		}
		subtotal = subtotal.Add(after)
	}

	globalAmount := decimal.Zero
	if global != nil {
		globalAmount = discountAmount(&global.Discount, subtotal)
	}
	afterGlobal := subtotal.Sub(globalAmount)

	// Allocate the global discount proportionally; the last positive line
	// absorbs the division remainder so the allocation sums up exactly.
	if globalAmount.IsPositive() && subtotal.IsPositive() {
		allocated := decimal.Zero
		last := -1
		for i := range breakdowns {
			if breakdowns[i].SubtotalAfterDiscount.IsPositive() {
				last = i
			}
		}
		for i := range breakdowns {
			after := breakdowns[i].SubtotalAfterDiscount
			if !after.IsPositive() {
				continue
			}
			var share decimal.Decimal
			if i == last {
				share = globalAmount.Sub(allocated)
			} else {
				share = globalAmount.Mul(after).Div(subtotal)
				allocated = allocated.Add(share)
			}
			breakdowns[i].FinalSubtotal = after.Sub(share)
		}
	}

	var buckets []TaxBucket
	totalTax := decimal.Zero
	for i, item := range items {
		item = sanitize(item)
		base := breakdowns[i].FinalSubtotal
		tax := base.Mul(item.TaxRate).Div(hundred)
		totalTax = totalTax.Add(tax)
		idx := -1
		for j := range buckets {
			if buckets[j].Rate.Equal(item.TaxRate) {
				idx = j
				break
			}
		}
		if idx < 0 {
			buckets = append(buckets, TaxBucket{Rate: item.TaxRate})
			idx = len(buckets) - 1
		}
		buckets[idx].TaxableBase = buckets[idx].TaxableBase.Add(base)
		buckets[idx].TaxAmount = buckets[idx].TaxAmount.Add(tax)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Rate.Cmp(buckets[j].Rate) < 0
	})

	return Result{
		SubtotalAfterLineDiscounts:  subtotal,
		GlobalDiscountAmount:        globalAmount,
		SubtotalAfterGlobalDiscount: afterGlobal,
		TaxByRate:                   buckets,
		TotalTax:                    totalTax,
		GrandTotal:                  afterGlobal.Add(totalTax),
		Items:                       breakdowns,
	}
}

// discountAmount resolves a discount against its base, capped so that a
// discount can never turn a positive base negative.
func discountAmount(d *Discount, base decimal.Decimal) decimal.Decimal {
	if d == nil || !base.IsPositive() {
		return decimal.Zero
	}
	value := d.Value
	if value.IsNegative() {
		return decimal.Zero
	}
	var amount decimal.Decimal
	switch d.Kind {
	case Percent:
		amount = base.Mul(value).Div(hundred)
	case Amount:
		amount = value
	default:
		return decimal.Zero
	}
	if amount.GreaterThan(base) {
		return base
	}
	return amount
}

// sanitize coerces out-of-domain numeric fields to safe values. The calling
// UI may hold transient, incomplete field state, so invalid numbers become
// zero instead of errors.
func sanitize(item LineItem) LineItem {
	if item.Quantity.IsNegative() {
		item.Quantity = decimal.Zero
	}
	if item.UnitPrice.IsNegative() {
		item.UnitPrice = decimal.Zero
	}
	if item.TaxRate.IsNegative() {
		item.TaxRate = decimal.Zero
	}
	if item.TaxRate.GreaterThan(hundred) {
		item.TaxRate = hundred
	}
	return item
}

// FromFloat converts caller-supplied floats into decimals, coercing
// non-finite values to zero.
func FromFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// Rounded returns a display copy of the result with every monetary figure
// rounded to the given number of decimal places. The engine itself never
// rounds mid-computation; only presented figures are.
func (r Result) Rounded(places int32) Result {
	out := Result{
		SubtotalAfterLineDiscounts:  r.SubtotalAfterLineDiscounts.Round(places),
		GlobalDiscountAmount:        r.GlobalDiscountAmount.Round(places),
		SubtotalAfterGlobalDiscount: r.SubtotalAfterGlobalDiscount.Round(places),
		TotalTax:                    r.TotalTax.Round(places),
		GrandTotal:                  r.GrandTotal.Round(places),
		TaxByRate:                   make([]TaxBucket, len(r.TaxByRate)),
		Items:                       make([]ItemBreakdown, len(r.Items)),
	}
	for i, b := range r.TaxByRate {
		out.TaxByRate[i] = TaxBucket{
			Rate:        b.Rate,
			TaxableBase: b.TaxableBase.Round(places),
			TaxAmount:   b.TaxAmount.Round(places),
		}
	}
	for i, it := range r.Items {
		out.Items[i] = ItemBreakdown{
			SubtotalBeforeDiscount: it.SubtotalBeforeDiscount.Round(places),
			LineDiscountAmount:     it.LineDiscountAmount.Round(places),
			SubtotalAfterDiscount:  it.SubtotalAfterDiscount.Round(places),
			FinalSubtotal:          it.FinalSubtotal.Round(places),
		}
	}
	return out
}
