package pricing

import (
	"regexp"
	"strconv"
	"strings"

	"quotedesk/internal/domain/entities"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// DefaultFeeKeywords are the labels recognised as percentage fees.
var DefaultFeeKeywords = []string{"管理費", "手数料", "事務手数料", "システム利用料", "処理手数料"}

// DefaultFeePercentages are the preset choices offered for fee lines.
var DefaultFeePercentages = []float64{5, 10, 15, 20, 25, 30}

var feeNamePattern = regexp.MustCompile(`^(.+?)[（(]\s*([0-9]+(?:\.[0-9]+)?)\s*[%％]\s*[）)]$`)

// ParseFeeName splits "管理費（10%）" into its label and percentage.
func ParseFeeName(name string) (label string, percent float64, ok bool) {
	m := feeNamePattern.FindStringSubmatch(strings.TrimSpace(name))
	if m == nil {
		return "", 0, false
	}
	pct, err := strconv.ParseFloat(m[2], 64)
	if err != nil || pct <= 0 {
		return "", 0, false
	}
	return m[1], pct, true
}

// FormatFeeName is the inverse of ParseFeeName.
func FormatFeeName(label string, percent float64) string {
	return label + "（" + strconv.FormatFloat(percent, 'f', -1, 64) + "%）"
}

// IsFeeLabel reports whether name contains one of the configured fee keywords.
func (n *Normalizer) IsFeeLabel(name string) bool {
	for _, kw := range n.feeKeywords {
		if kw != "" && strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

// FeePercentFromName returns the percentage encoded in a fee line name. The
// label must contain a fee keyword unless no keywords are configured.
func (n *Normalizer) FeePercentFromName(name string) (float64, bool) {
	label, pct, ok := ParseFeeName(name)
	if !ok {
		return 0, false
	}
	if len(n.feeKeywords) > 0 && !n.IsFeeLabel(label) {
		return 0, false
	}
	return pct, true
}

// FeeLine builds a percentage-of-prior-subtotal item. Its price is filled in
// by ApplyPercentageFees.
func FeeLine(label string, percent float64) entities.BillableItem {
	return entities.BillableItem{
		Name:        FormatFeeName(label, percent),
		Quantity:    1,
		Coefficient: 1,
		FeePercent:  percent,
	}
}

// ApplyPercentageFees recomputes every amount in order. A fee line is priced
// at percent of the billable amounts strictly above it, truncated to a whole
// unit, with quantity and coefficient fixed at 1. The input is not modified.
func ApplyPercentageFees(items []entities.LineItem, useCoefficient bool) []entities.LineItem {
	out := make([]entities.LineItem, 0, len(items))
	running := decimal.Zero
	for _, it := range items {
		b, ok := it.(entities.BillableItem)
		if !ok {
			out = append(out, it)
			continue
		}
		if b.IsFee() {
			b.Quantity = 1
			b.Coefficient = 1
			b.UnitPrice = running.Mul(decimal.NewFromFloat(b.FeePercent)).Div(hundred).Truncate(0).InexactFloat64()
		}
		amount := b.AmountDecimal(useCoefficient)
		b.Amount = amount.InexactFloat64()
		running = running.Add(amount)
		out = append(out, b)
	}
	return out
}
