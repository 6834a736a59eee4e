package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"quotedesk/internal/domain/entities"
	"quotedesk/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func TestFileRecordStore_GetMissing(t *testing.T) {
	s := NewFileRecordStore(filepath.Join(t.TempDir(), "never-created"), zaptest.NewLogger(t))

	_, found, err := s.Get(context.Background(), entities.RecordKindEstimate, "20250315001")
	require.NoError(t, err)
	assert.False(t, found)

	docs, err := s.List(context.Background(), entities.RecordKindEstimate)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestFileRecordStore_PutCreatesDirAndOverwrites(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	s := NewFileRecordStore(dir, zaptest.NewLogger(t))
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, entities.RecordKindEstimate, "20250315001", []byte(`{"id":"20250315001","v":1}`)))
	require.NoError(t, s.Put(ctx, entities.RecordKindEstimate, "20250315001", []byte(`{"id":"20250315001","v":2}`)))

	doc, found, err := s.Get(ctx, entities.RecordKindEstimate, "20250315001")
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `{"id":"20250315001","v":2}`, string(doc.Body))

	entries, err := os.ReadDir(filepath.Join(dir, "estimates"))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
	assert.Equal(t, "20250315001.json", entries[0].Name())
}

func TestFileRecordStore_DeleteIdempotent(t *testing.T) {
	s := NewFileRecordStore(t.TempDir(), zaptest.NewLogger(t))
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, entities.RecordKindEstimate, "20250315001", []byte(`{}`)))
	require.NoError(t, s.Delete(ctx, entities.RecordKindEstimate, "20250315001"))
	require.NoError(t, s.Delete(ctx, entities.RecordKindEstimate, "20250315001"))

	_, found, err := s.Get(ctx, entities.RecordKindEstimate, "20250315001")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFileRecordStore_ListSkipsCorrupt(t *testing.T) {
	dir := t.TempDir()
	core, logs := observer.New(zapcore.WarnLevel)
	s := NewFileRecordStore(dir, zap.New(core))
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, entities.RecordKindEstimate, "20250315001", []byte(`{"id":"20250315001"}`)))
	require.NoError(t, s.Put(ctx, entities.RecordKindEstimate, "20250315002", []byte(`{"id":"20250315002"}`)))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "estimates", "20250315003.json"), []byte(`{"id":`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "estimates", "20250315004.json"), []byte(`[1,2]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "estimates", "notes.txt"), []byte(`x`), 0o644))

	docs, err := s.List(ctx, entities.RecordKindEstimate)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "20250315001", docs[0].Key)
	assert.Equal(t, "20250315002", docs[1].Key)
	assert.Equal(t, 2, logs.FilterMessage("skipping corrupt record").Len())

	_, _, err = s.Get(ctx, entities.RecordKindEstimate, "20250315003")
	assert.True(t, pkg.IsKind(err, pkg.KindCorruptRecord), "got %v", err)
}

func TestFileRecordStore_Collections(t *testing.T) {
	dir := t.TempDir()
	s := NewFileRecordStore(dir, zaptest.NewLogger(t))
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, entities.RecordKindCustomer, "", []byte(`[{"company":"A"}, 7, {"company":"B"}]`)))
	_, err := os.Stat(filepath.Join(dir, "customers.json"))
	require.NoError(t, err)

	docs, err := s.List(ctx, entities.RecordKindCustomer)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "0", docs[0].Key)
	assert.Equal(t, "2", docs[1].Key)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "products.json"), []byte(`{"not":"array"}`), 0o644))
	_, err = s.List(ctx, entities.RecordKindProduct)
	assert.True(t, pkg.IsKind(err, pkg.KindCorruptRecord), "got %v", err)
}

func TestFileRecordStore_RejectsBadKeys(t *testing.T) {
	s := NewFileRecordStore(t.TempDir(), zaptest.NewLogger(t))
	ctx := context.Background()

	for _, key := range []string{"", "../escape", "a/b", ".hidden"} {
		err := s.Put(ctx, entities.RecordKindEstimate, key, []byte(`{}`))
		assert.True(t, pkg.IsKind(err, pkg.KindValidation), "key %q: %v", key, err)
	}
	err := s.Put(ctx, entities.RecordKindCustomer, "x", []byte(`[]`))
	assert.True(t, pkg.IsKind(err, pkg.KindValidation))
}

func TestFileRecordStore_IOError(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	s := NewFileRecordStore(blocker, zaptest.NewLogger(t))

	err := s.Put(context.Background(), entities.RecordKindEstimate, "20250315001", []byte(`{}`))
	assert.True(t, pkg.IsKind(err, pkg.KindIO), "got %v", err)
}
