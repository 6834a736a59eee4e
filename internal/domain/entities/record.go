package entities

// RecordKind names one of the persisted record collections.
type RecordKind string

const (
	RecordKindEstimate RecordKind = "estimate"
	RecordKindCustomer RecordKind = "customer"
	RecordKindProduct  RecordKind = "product"
)

// IsCollection reports whether every record of the kind lives in one shared
// array document rather than one document per key.
func (k RecordKind) IsCollection() bool {
	return k == RecordKindCustomer || k == RecordKindProduct
}

func (k RecordKind) Valid() bool {
	switch k {
	case RecordKindEstimate, RecordKindCustomer, RecordKindProduct:
		return true
	}
	return false
}

// ExportBundle is a finalized estimate handed to a document exporter. Items
// are normalized and every amount reconciles with quantity, price and
// coefficient.
type ExportBundle struct {
	Estimate        Estimate
	Subtotal        float64
	BillableCount   int
	UsesCoefficient bool
}
