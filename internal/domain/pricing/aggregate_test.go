package pricing

import (
	"testing"
	"time"

	"quotedesk/internal/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func billable(name string, qty int, price float64, dept string) entities.BillableItem {
	return entities.BillableItem{Name: name, Quantity: qty, UnitPrice: price, Coefficient: 1, Department: dept}
}

func TestLineItemTotal_ExcludesCategories(t *testing.T) {
	items := ApplyPercentageFees([]entities.LineItem{
		entities.CategoryHeader{Name: "■ 作業"},
		billable("a", 2, 1000, ""),
		billable("b", 1, 500, ""),
	}, false)
	clean := LineItemTotal(items)

	// a category header has no amount field, so stale data can only reach
	// it through the raw form; normalize a corrupted copy and compare
	raw := ToRaw(items)
	raw[0][FieldAmount] = 123456.0
	raw[0][FieldQuantity] = 9
	raw[0][FieldUnitPrice] = 999.0
	corrupted := NewNormalizer(nil).Normalize(raw, false)

	assert.Equal(t, 2500.0, clean)
	assert.Equal(t, clean, LineItemTotal(corrupted))
}

func TestEffectiveRevenue(t *testing.T) {
	items := ApplyPercentageFees([]entities.LineItem{billable("a", 1, 800, "")}, false)
	assert.Equal(t, 800.0, EffectiveRevenue(items, true, 5000))
	assert.Equal(t, 5000.0, EffectiveRevenue(items, false, 5000))
}

func TestMarginAndRatio(t *testing.T) {
	assert.Equal(t, 300.0, Margin(1000, 700))
	assert.InDelta(t, 30.0, MarginRatio(1000, 700), 1e-9)
	assert.InDelta(t, -50.0, MarginRatio(1000, 1500), 1e-9)

	for _, cost := range []float64{0, 100, -100, 1e9} {
		assert.Equal(t, 0.0, MarginRatio(0, cost))
	}
	assert.Equal(t, 0.0, MarginRatio(-10, 5))
}

func TestDepartmentRollup(t *testing.T) {
	items := ApplyPercentageFees([]entities.LineItem{
		billable("x", 1, 1000, "X"),
		billable("fallback", 1, 2000, ""),
		entities.CategoryHeader{Name: "見出し"},
		billable("x2", 2, 50, "X"),
		billable("a", 1, 10, "A"),
	}, false)

	rollup := DepartmentRollup(items, "Y")
	assert.Equal(t, []DepartmentTotal{
		{Department: "A", Amount: 10},
		{Department: "X", Amount: 1100},
		{Department: "Y", Amount: 2000},
	}, rollup)

	noFallback := DepartmentRollup(items, "")
	assert.Equal(t, map[string]float64{"A": 10, "X": 1100}, RollupMap(noFallback))
}

func TestBillableCount(t *testing.T) {
	items := []entities.LineItem{entities.CategoryHeader{}, billable("a", 1, 1, ""), entities.CategoryHeader{}}
	assert.Equal(t, 1, BillableCount(items))
	assert.Equal(t, 0, BillableCount(nil))
}

func TestSummarize(t *testing.T) {
	e := entities.Estimate{
		IssueDate:   entities.NewDate(2025, time.March, 15),
		Department:  "営業部",
		AutoRevenue: true,
		Revenue:     1,
		Cost:        1500,
		Items: ApplyPercentageFees([]entities.LineItem{
			billable("a", 2, 1000, ""),
			billable("b", 1, 500, "開発部"),
		}, false),
	}

	s := Summarize(e)
	assert.Equal(t, 2500.0, s.LineItemTotal)
	assert.Equal(t, 2500.0, s.Revenue)
	assert.Equal(t, 1000.0, s.Margin)
	assert.InDelta(t, 40.0, s.MarginRatio, 1e-9)
	assert.Equal(t, 2, s.BillableCount)
	require.Len(t, s.Departments, 2)
	assert.Equal(t, "営業部", s.Departments[0].Department)
}

// Creating an estimate with two billable items and a header.
func TestScenario_TwoItemsAndHeader(t *testing.T) {
	items := NewNormalizer(DefaultFeeKeywords).Normalize([]RawLineItem{
		{"name": "部材", "quantity": 2, "unit_price": 1000},
		{"is_category": true, "name": "■ 作業"},
		{"name": "作業費", "quantity": 1, "unit_price": 500},
	}, false)

	assert.Equal(t, 2500.0, LineItemTotal(items))
	assert.Equal(t, 2, BillableCount(items))

	// a ten percent fee below everything prices at 250
	items = Append(items, FeeLine("管理費", 10), false)
	fee := items[3].(entities.BillableItem)
	assert.Equal(t, 250.0, fee.UnitPrice)
	assert.Equal(t, 2750.0, LineItemTotal(items))
}

func TestScenario_DepartmentFallback(t *testing.T) {
	items := ApplyPercentageFees([]entities.LineItem{
		billable("one", 1, 1000, "X"),
		billable("two", 1, 2000, ""),
	}, false)

	assert.Equal(t, map[string]float64{"X": 1000, "Y": 2000}, RollupMap(DepartmentRollup(items, "Y")))
}
