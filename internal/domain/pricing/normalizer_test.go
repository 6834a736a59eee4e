package pricing

import (
	"encoding/json"
	"testing"

	"quotedesk/internal/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNormalizer() *Normalizer {
	return NewNormalizer(DefaultFeeKeywords)
}

func TestNormalize_Coercion(t *testing.T) {
	raw := []RawLineItem{
		{"name": "設計", "quantity": "3", "unit_price": "1,200", "amount": 99999},
		{"name": "調整", "quantity": -2, "unit_price": "abc", "coefficient": ""},
		{"name": "作業", "quantity": 2.9, "unit_price": 500.0, "coefficient": "1.5", "unit": nil},
		{"is_category": true, "name": "■ 資材", "quantity": "x", "unit_price": 100, "amount": 5000},
		{"quantity": "", "unit_price": nil},
	}

	items := newTestNormalizer().Normalize(raw, true)
	require.Len(t, items, 5)

	first := items[0].(entities.BillableItem)
	assert.Equal(t, 3, first.Quantity)
	assert.Equal(t, 1200.0, first.UnitPrice)
	assert.Equal(t, 1.0, first.Coefficient)
	assert.Equal(t, 3600.0, first.Amount, "stored amount must be ignored")

	second := items[1].(entities.BillableItem)
	assert.Equal(t, 0, second.Quantity)
	assert.Equal(t, 0.0, second.UnitPrice)
	assert.Equal(t, 1.0, second.Coefficient)
	assert.Equal(t, 0.0, second.Amount)

	third := items[2].(entities.BillableItem)
	assert.Equal(t, 2, third.Quantity)
	assert.Equal(t, 1500.0, third.Amount)
	assert.Equal(t, "", third.Unit)

	header, ok := items[3].(entities.CategoryHeader)
	require.True(t, ok)
	assert.Equal(t, "■ 資材", header.Name)

	empty := items[4].(entities.BillableItem)
	assert.Equal(t, "", empty.Name)
	assert.Equal(t, "", empty.Note)
	assert.Equal(t, "", empty.Department)
}

func TestNormalize_CoefficientDisabled(t *testing.T) {
	raw := []RawLineItem{{"name": "作業", "quantity": 2, "unit_price": 500, "coefficient": 3}}

	items := newTestNormalizer().Normalize(raw, false)
	b := items[0].(entities.BillableItem)
	assert.Equal(t, 3.0, b.Coefficient)
	assert.Equal(t, 1000.0, b.Amount)
}

func TestNormalize_LegacyFieldNames(t *testing.T) {
	raw := []RawLineItem{
		{"分類": true, "品名": "見出し"},
		{"品名": "保守", "数量": 2, "単価": 3000, "単位": "式", "備考": "年間", "売上先部署": "営業部", "金額": 1},
	}

	items := newTestNormalizer().Normalize(raw, false)
	assert.Equal(t, entities.CategoryHeader{Name: "見出し"}, items[0])
	assert.Equal(t, entities.BillableItem{
		Name: "保守", Quantity: 2, UnitPrice: 3000, Coefficient: 1,
		Unit: "式", Note: "年間", Department: "営業部", Amount: 6000,
	}, items[1])
}

func TestNormalize_PreservesOrder(t *testing.T) {
	raw := []RawLineItem{{"name": "c"}, {"name": "a", "is_category": "true"}, {"name": "b"}}
	items := newTestNormalizer().Normalize(raw, false)
	names := []string{items[0].Label(), items[1].Label(), items[2].Label()}
	assert.Equal(t, []string{"c", "a", "b"}, names)
}

func TestNormalize_Idempotent(t *testing.T) {
	raw := []RawLineItem{
		{"is_category": true, "name": "■ 作業", "amount": 300},
		{"name": "設計", "quantity": "2", "unit_price": "1000", "coefficient": "1.2", "department": "開発部"},
		{"name": "値引き", "quantity": 1, "unit_price": -500},
		{"name": "管理費（10%）", "quantity": 4},
	}
	n := newTestNormalizer()

	for _, useCoefficient := range []bool{true, false} {
		once := n.Normalize(raw, useCoefficient)

		// round-trip through JSON the way the store does
		encoded, err := json.Marshal(ToRaw(once))
		require.NoError(t, err)
		var decoded []RawLineItem
		require.NoError(t, json.Unmarshal(encoded, &decoded))

		twice := n.Normalize(decoded, useCoefficient)
		assert.Equal(t, once, twice)
		assert.Equal(t, once, n.Normalize(ToRaw(once), useCoefficient))
	}
}

func TestNormalize_AmountAlwaysRecomputed(t *testing.T) {
	raw := []RawLineItem{
		{"name": "a", "quantity": 3, "unit_price": 250, "coefficient": 2, "amount": 1},
		{"name": "b", "quantity": "4", "unit_price": "12.5", "amount": "garbage"},
		{"name": "c", "quantity": 0, "unit_price": 999, "amount": 999},
	}
	for _, useCoefficient := range []bool{true, false} {
		for _, it := range newTestNormalizer().Normalize(raw, useCoefficient) {
			b := it.(entities.BillableItem)
			coef := 1.0
			if useCoefficient {
				coef = b.Coefficient
			}
			assert.Equal(t, float64(b.Quantity)*coef*b.UnitPrice, b.Amount, b.Name)
		}
	}
}

func TestNormalize_FeeFromName(t *testing.T) {
	raw := []RawLineItem{
		{"name": "作業", "quantity": 1, "unit_price": 2000},
		{"name": "管理費（15%）", "quantity": 3, "unit_price": 1},
		{"name": "部材（10%）", "quantity": 1, "unit_price": 100},
	}
	items := newTestNormalizer().Normalize(raw, false)

	fee := items[1].(entities.BillableItem)
	assert.Equal(t, 15.0, fee.FeePercent)
	assert.Equal(t, 1, fee.Quantity)
	assert.Equal(t, 300.0, fee.UnitPrice)
	assert.Equal(t, 300.0, fee.Amount)

	notFee := items[2].(entities.BillableItem)
	assert.Equal(t, 0.0, notFee.FeePercent)
	assert.Equal(t, 100.0, notFee.Amount)
}
