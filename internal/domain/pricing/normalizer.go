package pricing

import (
	"quotedesk/internal/domain/entities"
)

// RawLineItem is a line item as decoded from loosely typed storage or import.
type RawLineItem map[string]any

// Canonical field names of a stored line item.
const (
	FieldIsCategory  = "is_category"
	FieldName        = "name"
	FieldQuantity    = "quantity"
	FieldUnitPrice   = "unit_price"
	FieldCoefficient = "coefficient"
	FieldUnit        = "unit"
	FieldNote        = "note"
	FieldDepartment  = "department"
	FieldFeePercent  = "fee_percent"
	FieldAmount      = "amount"
)

// legacyFields maps field names written by the previous application.
var legacyFields = map[string]string{
	FieldIsCategory:  "分類",
	FieldName:        "品名",
	FieldQuantity:    "数量",
	FieldUnitPrice:   "単価",
	FieldCoefficient: "係数",
	FieldUnit:        "単位",
	FieldNote:        "備考",
	FieldDepartment:  "売上先部署",
	FieldAmount:      "金額",
}

func (r RawLineItem) get(field string) any {
	if v, ok := r[field]; ok && v != nil {
		return v
	}
	if legacy, ok := legacyFields[field]; ok {
		return r[legacy]
	}
	return nil
}

// Normalizer turns raw line items into canonical LineItems.
type Normalizer struct {
	feeKeywords []string
}

func NewNormalizer(feeKeywords []string) *Normalizer {
	return &Normalizer{feeKeywords: feeKeywords}
}

// Normalize coerces every row, keeps input order, and recomputes every amount
// including percentage fees. Stored amounts are ignored.
func (n *Normalizer) Normalize(raw []RawLineItem, useCoefficient bool) []entities.LineItem {
	items := make([]entities.LineItem, 0, len(raw))
	for _, r := range raw {
		items = append(items, n.normalizeOne(r))
	}
	return ApplyPercentageFees(items, useCoefficient)
}

func (n *Normalizer) normalizeOne(r RawLineItem) entities.LineItem {
	if toBool(r.get(FieldIsCategory)) {
		return entities.CategoryHeader{Name: toString(r.get(FieldName))}
	}

	item := entities.BillableItem{
		Name:        toString(r.get(FieldName)),
		Quantity:    toQuantity(r.get(FieldQuantity)),
		UnitPrice:   toPrice(r.get(FieldUnitPrice)),
		Coefficient: toCoefficient(r.get(FieldCoefficient)),
		Unit:        toString(r.get(FieldUnit)),
		Note:        toString(r.get(FieldNote)),
		Department:  toString(r.get(FieldDepartment)),
	}
	if pct, ok := toFloat(r.get(FieldFeePercent)); ok && pct > 0 {
		item.FeePercent = pct
	} else if pct, ok := n.FeePercentFromName(item.Name); ok {
		item.FeePercent = pct
	}
	return item
}

// NormalizeItems re-runs normalization over already typed items. It is used
// after in-memory edits so amounts and fee lines stay consistent.
func NormalizeItems(items []entities.LineItem, useCoefficient bool) []entities.LineItem {
	return ApplyPercentageFees(items, useCoefficient)
}

// ToRaw renders items in their canonical stored shape.
func ToRaw(items []entities.LineItem) []RawLineItem {
	out := make([]RawLineItem, 0, len(items))
	for _, it := range items {
		switch v := it.(type) {
		case entities.CategoryHeader:
			out = append(out, RawLineItem{
				FieldIsCategory:  true,
				FieldName:        v.Name,
				FieldQuantity:    0,
				FieldUnitPrice:   0.0,
				FieldCoefficient: 1.0,
				FieldUnit:        "",
				FieldNote:        "",
				FieldDepartment:  "",
				FieldFeePercent:  0.0,
				FieldAmount:      0.0,
			})
		case entities.BillableItem:
			out = append(out, RawLineItem{
				FieldIsCategory:  false,
				FieldName:        v.Name,
				FieldQuantity:    v.Quantity,
				FieldUnitPrice:   v.UnitPrice,
				FieldCoefficient: v.Coefficient,
				FieldUnit:        v.Unit,
				FieldNote:        v.Note,
				FieldDepartment:  v.Department,
				FieldFeePercent:  v.FeePercent,
				FieldAmount:      v.Amount,
			})
		}
	}
	return out
}
