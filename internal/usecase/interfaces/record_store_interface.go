package interfaces

import (
	"context"

	"quotedesk/internal/domain/entities"
)

// Document is one stored JSON document.
type Document struct {
	Key  string
	Body []byte
}

// IRecordStore is key-value persistence for JSON documents.
//
// Estimates are stored one document per identifier. Customers and products
// are stored as a single array document addressed by the empty key; List on
// those kinds yields the array elements.
//
//   - Get returns found=false, not an error, for a missing key.
//   - Put replaces the document atomically from a reader's point of view.
//   - Delete of a missing key is not an error.
//   - List skips corrupt documents and logs a warning.
type IRecordStore interface {
	Get(ctx context.Context, kind entities.RecordKind, key string) (Document, bool, error)
	Put(ctx context.Context, kind entities.RecordKind, key string, body []byte) error
	Delete(ctx context.Context, kind entities.RecordKind, key string) error
	List(ctx context.Context, kind entities.RecordKind) ([]Document, error)
}
