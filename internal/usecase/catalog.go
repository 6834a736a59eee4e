package usecase

import (
	"bytes"
	"context"
	"encoding/json"

	"quotedesk/internal/domain/entities"
	"quotedesk/internal/usecase/interfaces"
	"quotedesk/pkg"

	"go.uber.org/zap"
)

// catalog reads and rewrites one collection document as a slice of T.
type catalog[T any] struct {
	store interfaces.IRecordStore
	kind  entities.RecordKind
	log   *zap.Logger
}

// load returns every element that decodes as T. Elements with the wrong
// field types are skipped; an unreadable document is an error.
func (c catalog[T]) load(ctx context.Context) ([]T, error) {
	docs, err := c.store.List(ctx, c.kind)
	if err != nil {
		if pkg.IsKind(err, pkg.KindCorruptRecord) {
			return nil, ErrCorruptCatalog.WithMessage("%s catalog could not be decoded", c.kind).Wrap(err)
		}
		return nil, err
	}
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var v T
		if err := json.Unmarshal(doc.Body, &v); err != nil {
			c.log.Warn("skipping malformed catalog entry",
				zap.String("kind", string(c.kind)), zap.String("index", doc.Key), zap.Error(err))
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (c catalog[T]) save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return pkg.NewDomainError(pkg.KindInternal, "CATALOG_ENCODE", "catalog could not be encoded", err)
	}
	return c.store.Put(ctx, c.kind, "", buf.Bytes())
}
