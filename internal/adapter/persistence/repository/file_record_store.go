package repository

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"quotedesk/internal/domain/entities"
	"quotedesk/internal/usecase/interfaces"
	"quotedesk/pkg"

	"go.uber.org/zap"
)

const (
	estimatesDir  = "estimates"
	customersFile = "customers.json"
	productsFile  = "products.json"
	jsonExt       = ".json"
)

// FileRecordStore keeps records as JSON files under a data directory:
//
//	<dir>/estimates/<id>.json
//	<dir>/customers.json
//	<dir>/products.json
//
// Writes go to a temp file in the target directory and are renamed into
// place, so a reader sees either the old or the new document.
type FileRecordStore struct {
	dir string
	log *zap.Logger
}

var _ interfaces.IRecordStore = (*FileRecordStore)(nil)

func NewFileRecordStore(dir string, log *zap.Logger) *FileRecordStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &FileRecordStore{dir: dir, log: log.Named("file-store")}
}

func (s *FileRecordStore) path(kind entities.RecordKind, key string) string {
	switch kind {
	case entities.RecordKindCustomer:
		return filepath.Join(s.dir, customersFile)
	case entities.RecordKindProduct:
		return filepath.Join(s.dir, productsFile)
	default:
		return filepath.Join(s.dir, estimatesDir, key+jsonExt)
	}
}

func (s *FileRecordStore) Get(ctx context.Context, kind entities.RecordKind, key string) (interfaces.Document, bool, error) {
	if err := ctx.Err(); err != nil {
		return interfaces.Document{}, false, err
	}
	if err := checkKey(kind, key); err != nil {
		return interfaces.Document{}, false, err
	}

	body, err := os.ReadFile(s.path(kind, key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return interfaces.Document{}, false, nil
		}
		return interfaces.Document{}, false, pkg.IOError("read "+string(kind), err)
	}
	if err := checkShape(kind, key, body); err != nil {
		return interfaces.Document{}, false, err
	}
	return interfaces.Document{Key: key, Body: body}, true, nil
}

func (s *FileRecordStore) Put(ctx context.Context, kind entities.RecordKind, key string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkKey(kind, key); err != nil {
		return err
	}
	if err := writeFileAtomic(s.path(kind, key), body); err != nil {
		return pkg.IOError("write "+string(kind), err)
	}
	s.log.Debug("record written", zap.String("kind", string(kind)), zap.String("key", key))
	return nil
}

func (s *FileRecordStore) Delete(ctx context.Context, kind entities.RecordKind, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkKey(kind, key); err != nil {
		return err
	}
	if err := os.Remove(s.path(kind, key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return pkg.IOError("delete "+string(kind), err)
	}
	s.log.Debug("record deleted", zap.String("kind", string(kind)), zap.String("key", key))
	return nil
}

func (s *FileRecordStore) List(ctx context.Context, kind entities.RecordKind) ([]interfaces.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !kind.Valid() {
		return nil, checkKey(kind, "")
	}

	if kind.IsCollection() {
		doc, found, err := s.Get(ctx, kind, "")
		if err != nil || !found {
			return nil, err
		}
		return splitCollection(s.log, kind, doc)
	}

	dir := filepath.Join(s.dir, estimatesDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, pkg.IOError("list "+string(kind), err)
	}

	docs := make([]interfaces.Document, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != jsonExt {
			continue
		}
		key := strings.TrimSuffix(name, jsonExt)
		body, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, pkg.IOError("read "+string(kind), err)
		}
		if err := checkShape(kind, key, body); err != nil {
			s.log.Warn("skipping corrupt record", zap.String("kind", string(kind)), zap.String("key", key), zap.Error(err))
			continue
		}
		docs = append(docs, interfaces.Document{Key: key, Body: body})
	}
	return docs, nil
}

// writeFileAtomic writes body to a temp file next to path and renames it over
// path. The parent directory is created when missing.
func writeFileAtomic(path string, body []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(body); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
