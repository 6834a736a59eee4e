package pricing

import (
	"sort"

	"quotedesk/internal/domain/entities"

	"github.com/shopspring/decimal"
)

// DepartmentTotal is one bucket of a department rollup.
type DepartmentTotal struct {
	Department string  `json:"department"`
	Amount     float64 `json:"amount"`
}

// Summary is the set of figures derived from an estimate.
type Summary struct {
	LineItemTotal float64           `json:"line_item_total"`
	Revenue       float64           `json:"revenue"`
	Cost          float64           `json:"cost"`
	Margin        float64           `json:"margin"`
	MarginRatio   float64           `json:"margin_ratio"`
	Departments   []DepartmentTotal `json:"departments"`
	BillableCount int               `json:"billable_count"`
}

// LineItemTotal sums the amounts of billable items. Category headers never
// contribute.
func LineItemTotal(items []entities.LineItem) float64 {
	total := decimal.Zero
	for _, it := range items {
		if b, ok := it.(entities.BillableItem); ok {
			total = total.Add(decimal.NewFromFloat(b.Amount))
		}
	}
	return total.InexactFloat64()
}

func EffectiveRevenue(items []entities.LineItem, autoTrack bool, manual float64) float64 {
	if autoTrack {
		return LineItemTotal(items)
	}
	return manual
}

func Margin(revenue, cost float64) float64 {
	return decimal.NewFromFloat(revenue).Sub(decimal.NewFromFloat(cost)).InexactFloat64()
}

// MarginRatio is margin as a percentage of revenue, and exactly 0 when
// revenue is not positive.
func MarginRatio(revenue, cost float64) float64 {
	if revenue <= 0 {
		return 0
	}
	r := decimal.NewFromFloat(revenue)
	return r.Sub(decimal.NewFromFloat(cost)).Mul(decimal.NewFromInt(100)).Div(r).InexactFloat64()
}

// DepartmentRollup buckets billable amounts by the item's department, or by
// fallback when the item has none. Items with neither are left out. The
// result is sorted by department name.
func DepartmentRollup(items []entities.LineItem, fallback string) []DepartmentTotal {
	buckets := map[string]decimal.Decimal{}
	for _, it := range items {
		b, ok := it.(entities.BillableItem)
		if !ok {
			continue
		}
		dept := b.Department
		if dept == "" {
			dept = fallback
		}
		if dept == "" {
			continue
		}
		buckets[dept] = buckets[dept].Add(decimal.NewFromFloat(b.Amount))
	}

	out := make([]DepartmentTotal, 0, len(buckets))
	for dept, amount := range buckets {
		out = append(out, DepartmentTotal{Department: dept, Amount: amount.InexactFloat64()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Department < out[j].Department })
	return out
}

// RollupMap is a convenience view of a rollup.
func RollupMap(rollup []DepartmentTotal) map[string]float64 {
	m := make(map[string]float64, len(rollup))
	for _, d := range rollup {
		m[d.Department] = d.Amount
	}
	return m
}

func BillableCount(items []entities.LineItem) int {
	n := 0
	for _, it := range items {
		if _, ok := it.(entities.BillableItem); ok {
			n++
		}
	}
	return n
}

// Summarize derives every figure for e. e.Items must already be normalized.
func Summarize(e entities.Estimate) Summary {
	revenue := EffectiveRevenue(e.Items, e.AutoRevenue, e.Revenue)
	return Summary{
		LineItemTotal: LineItemTotal(e.Items),
		Revenue:       revenue,
		Cost:          e.Cost,
		Margin:        Margin(revenue, e.Cost),
		MarginRatio:   MarginRatio(revenue, e.Cost),
		Departments:   DepartmentRollup(e.Items, e.Department),
		BillableCount: BillableCount(e.Items),
	}
}
