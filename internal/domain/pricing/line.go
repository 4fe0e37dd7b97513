// Package pricing implements the per-line money and tax calculator shared by
// jobcards, invoices and estimates. All intermediate values keep full decimal
// precision; callers round for presentation only.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/garagehq/gms-backend/internal/domain/shared"
	"github.com/garagehq/gms-backend/internal/domain/shared/valueobject"
)

// LineInput is the pricing input for a single line item
type LineInput struct {
	UnitValue       valueobject.Money   // catalogue price or quoted rate
	Quantity        decimal.Decimal     // > 0
	DiscountPct     valueobject.Percent // per-line discount
	TaxPct          valueobject.Percent // GST rate
	PriceIncludesGST bool               // unit value already carries GST
}

// LineResult holds the computed amounts for a single line
type LineResult struct {
	Gross          valueobject.Money
	DiscountAmount valueobject.Money
	Taxable        valueobject.Money
	TaxAmount      valueobject.Money
	LineTotal      valueobject.Money
}

// ComputeLine derives the line amounts from a LineInput.
// Steps: gross = value x qty, discount = gross x pct, taxable = gross - discount,
// tax = taxable x pct, total = taxable + tax. When the unit value includes GST
// the base is recovered first with value / (1 + pct/100).
func ComputeLine(in LineInput) (LineResult, error) {
	if !in.Quantity.IsPositive() {
		return LineResult{}, shared.NewValidationError("quantity", "must be positive")
	}
	if in.UnitValue.IsNegative() {
		return LineResult{}, shared.NewValidationError("value", "cannot be negative")
	}

	unit := in.UnitValue
	if in.PriceIncludesGST && !in.TaxPct.IsZero() {
		divisor := decimal.NewFromInt(1).Add(in.TaxPct.Fraction())
		base, err := unit.Divide(divisor)
		if err != nil {
			return LineResult{}, err
		}
		unit = base
	}

	gross := unit.Multiply(in.Quantity)
	discountAmount := gross.CalculatePercentage(in.DiscountPct.Decimal())
	taxable := gross.MustSubtract(discountAmount)
	taxAmount := taxable.CalculatePercentage(in.TaxPct.Decimal())
	lineTotal := taxable.MustAdd(taxAmount)

	return LineResult{
		Gross:          gross,
		DiscountAmount: discountAmount,
		Taxable:        taxable,
		TaxAmount:      taxAmount,
		LineTotal:      lineTotal,
	}, nil
}

// Totals aggregates line results into document-level amounts
type Totals struct {
	Subtotal       valueobject.Money // sum of gross
	DiscountAmount valueobject.Money
	TaxableAmount  valueobject.Money
	TaxAmount      valueobject.Money
	TotalAmount    valueobject.Money
}

// ZeroTotals returns an empty Totals in the default currency
func ZeroTotals() Totals {
	z := valueobject.ZeroINR()
	return Totals{Subtotal: z, DiscountAmount: z, TaxableAmount: z, TaxAmount: z, TotalAmount: z}
}

// Aggregate sums line results into Totals. Amounts are simple sums; no
// rounding is applied here.
func Aggregate(lines []LineResult) Totals {
	totals := ZeroTotals()
	for _, l := range lines {
		totals.Subtotal = totals.Subtotal.MustAdd(l.Gross)
		totals.DiscountAmount = totals.DiscountAmount.MustAdd(l.DiscountAmount)
		totals.TaxableAmount = totals.TaxableAmount.MustAdd(l.Taxable)
		totals.TaxAmount = totals.TaxAmount.MustAdd(l.TaxAmount)
		totals.TotalAmount = totals.TotalAmount.MustAdd(l.LineTotal)
	}
	return totals
}

// Pending returns total - received. The result may be negative when overpaid;
// it is surfaced as-is.
func Pending(total, received valueobject.Money) valueobject.Money {
	return total.MustSubtract(received)
}

// RoundForPresentation applies banker's rounding to 2 places across the totals
func (t Totals) RoundForPresentation() Totals {
	return Totals{
		Subtotal:       t.Subtotal.RoundBank(2),
		DiscountAmount: t.DiscountAmount.RoundBank(2),
		TaxableAmount:  t.TaxableAmount.RoundBank(2),
		TaxAmount:      t.TaxAmount.RoundBank(2),
		TotalAmount:    t.TotalAmount.RoundBank(2),
	}
}
