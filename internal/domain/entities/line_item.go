package entities

import "github.com/shopspring/decimal"

// LineItem is one row of an estimate. It is either a CategoryHeader or a
// BillableItem; no other implementations exist.
type LineItem interface {
	Label() string
	lineItem()
}

// CategoryHeader groups the rows below it. It never carries money.
type CategoryHeader struct {
	Name string
}

func (c CategoryHeader) Label() string { return c.Name }
func (CategoryHeader) lineItem()       {}

// BillableItem is a priced row.
//
// FeePercent > 0 marks a percentage-of-prior-subtotal line: its UnitPrice is
// derived from the rows before it and is recomputed whenever order changes.
type BillableItem struct {
	Name        string
	Quantity    int
	UnitPrice   float64
	Coefficient float64
	Unit        string
	Note        string
	Department  string
	FeePercent  float64
	Amount      float64
}

func (b BillableItem) Label() string { return b.Name }
func (BillableItem) lineItem()       {}

// ComputeAmount is quantity × coefficient × unit price, or quantity × unit
// price when the coefficient feature is off.
func (b BillableItem) ComputeAmount(useCoefficient bool) float64 {
	return b.AmountDecimal(useCoefficient).InexactFloat64()
}

// AmountDecimal is ComputeAmount without the float rounding of the result.
func (b BillableItem) AmountDecimal(useCoefficient bool) decimal.Decimal {
	amount := decimal.NewFromInt(int64(b.Quantity)).Mul(decimal.NewFromFloat(b.UnitPrice))
	if useCoefficient {
		amount = amount.Mul(decimal.NewFromFloat(b.Coefficient))
	}
	return amount
}

func (b BillableItem) IsFee() bool { return b.FeePercent > 0 }
