package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"quotedesk/internal/domain/entities"
	"quotedesk/internal/usecase/interfaces"
	"quotedesk/pkg"

	"go.uber.org/zap"
)

var errInvalidKey = pkg.NewDomainErrorSimple(pkg.KindValidation, "INVALID_RECORD_KEY", "invalid record key")

// checkKey rejects keys that could escape the data directory or that do not
// fit the kind's addressing scheme.
func checkKey(kind entities.RecordKind, key string) error {
	if !kind.Valid() {
		return errInvalidKey.WithMessage("unknown record kind %q", kind)
	}
	if kind.IsCollection() {
		if key != "" {
			return errInvalidKey.WithMessage("%s collection is addressed by the empty key", kind)
		}
		return nil
	}
	if key == "" || strings.HasPrefix(key, ".") || filepath.Base(key) != key || strings.ContainsAny(key, `/\`) {
		return errInvalidKey.WithMessage("invalid %s key %q", kind, key)
	}
	return nil
}

// checkShape verifies body is JSON of the shape the kind stores: an object
// per estimate, an array per collection.
func checkShape(kind entities.RecordKind, key string, body []byte) error {
	trimmed := bytes.TrimSpace(body)
	if !json.Valid(trimmed) {
		return pkg.CorruptRecordError(fmt.Sprintf("%s %q is not valid JSON", kind, key), nil)
	}
	want := byte('{')
	if kind.IsCollection() {
		want = '['
	}
	if len(trimmed) == 0 || trimmed[0] != want {
		return pkg.CorruptRecordError(fmt.Sprintf("%s %q has an unexpected shape", kind, key), nil)
	}
	return nil
}

// splitCollection turns a collection document into one Document per element,
// keyed by position. Elements that are not objects are skipped.
func splitCollection(log *zap.Logger, kind entities.RecordKind, doc interfaces.Document) ([]interfaces.Document, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(doc.Body, &elems); err != nil {
		return nil, pkg.CorruptRecordError(fmt.Sprintf("%s collection", kind), err)
	}
	out := make([]interfaces.Document, 0, len(elems))
	for i, elem := range elems {
		trimmed := bytes.TrimSpace(elem)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			log.Warn("skipping malformed collection element",
				zap.String("kind", string(kind)), zap.Int("index", i))
			continue
		}
		out = append(out, interfaces.Document{Key: strconv.Itoa(i), Body: trimmed})
	}
	return out, nil
}
