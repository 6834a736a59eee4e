package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"quotedesk/internal/adapter/persistence/repository"
	"quotedesk/internal/domain/entities"
	"quotedesk/internal/usecase/interfaces"
	"quotedesk/pkg"

	"go.uber.org/zap/zaptest"
)

// failingPutStore refuses writes to one key and delegates everything else.
type failingPutStore struct {
	interfaces.IRecordStore
	failKey string
}

func (s failingPutStore) Put(ctx context.Context, kind entities.RecordKind, key string, body []byte) error {
	if key == s.failKey {
		return pkg.IOError("write "+string(kind), errors.New("disk full"))
	}
	return s.IRecordStore.Put(ctx, kind, key, body)
}

func newFileUseCase(t *testing.T) (*EstimateUseCase, string, interfaces.IRecordStore) {
	t.Helper()
	dir := t.TempDir()
	store := repository.NewFileRecordStore(dir, zaptest.NewLogger(t))
	return NewEstimateUseCase(store, testSettings(), testClock(), zaptest.NewLogger(t)), dir, store
}

func estimatePath(dir, id string) string {
	return filepath.Join(dir, "estimates", id+".json")
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// saveNew stores a sample estimate issued on the clock's day under the next
// free identifier.
func saveNew(t *testing.T, uc *EstimateUseCase, mutate func(e *entities.Estimate)) entities.Estimate {
	t.Helper()
	ctx := context.Background()
	s, err := uc.NewSession(ctx, entities.Date{})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	e := sampleEstimate(t, s.Estimate.ID, "2024-04-15")
	if mutate != nil {
		mutate(&e)
	}
	s.Estimate = e
	saved, err := uc.SaveEstimate(ctx, s)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	return saved
}

func TestEstimateWorkflow_SequentialSavesAreUnique(t *testing.T) {
	uc, dir, _ := newFileUseCase(t)

	want := []string{"20240415001", "20240415002", "20240415003", "20240415004", "20240415005"}
	for _, id := range want {
		got := saveNew(t, uc, nil)
		if got.ID != id {
			t.Fatalf("expected %s, got %s", id, got.ID)
		}
		if !fileExists(estimatePath(dir, id)) {
			t.Fatalf("expected %s on disk", id)
		}
	}
}

func TestEstimateWorkflow_ConcurrentSessionsCannotShareAnID(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newFileUseCase(t)

	first, err := uc.NewSession(ctx, entities.Date{})
	if err != nil {
		t.Fatalf("first session: %v", err)
	}
	second, err := uc.NewSession(ctx, entities.Date{})
	if err != nil {
		t.Fatalf("second session: %v", err)
	}
	if first.Estimate.ID != second.Estimate.ID {
		t.Fatalf("proposals reserve nothing; expected equal ids, got %s and %s", first.Estimate.ID, second.Estimate.ID)
	}

	first.Estimate = sampleEstimate(t, first.Estimate.ID, "2024-04-15")
	second.Estimate = sampleEstimate(t, second.Estimate.ID, "2024-04-15")
	if _, err := uc.SaveEstimate(ctx, first); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if _, err := uc.SaveEstimate(ctx, second); !errors.Is(err, ErrEstimateAlreadyExists) {
		t.Fatalf("expected ErrEstimateAlreadyExists, got %v", err)
	}
}

func TestEstimateWorkflow_AcceptAndReject(t *testing.T) {
	ctx := context.Background()
	uc, dir, _ := newFileUseCase(t)
	saveNew(t, uc, nil)

	before, err := uc.LoadEstimate(ctx, "20240415001")
	if err != nil {
		t.Fatalf("load before rename: %v", err)
	}

	s, err := uc.LoadSession(ctx, "20240415001")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := uc.ChangeIssueDate(ctx, s, mustDate(t, "2024-04-20")); err != nil {
		t.Fatalf("change date: %v", err)
	}
	change, ok := s.Change()
	if !ok || change.OldID != "20240415001" || change.NewID != "20240420001" {
		t.Fatalf("unexpected change: %+v", change)
	}
	if err := uc.ChangeIssueDate(ctx, s, mustDate(t, "2024-04-21")); !errors.Is(err, ErrConfirmationPending) {
		t.Fatalf("expected ErrConfirmationPending, got %v", err)
	}

	if err := s.Reject(); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if s.Estimate.ID != "20240415001" || !s.Estimate.IssueDate.Equal(mustDate(t, "2024-04-15")) || s.Phase() != PhaseStable {
		t.Fatalf("reject should restore id and date: id=%s date=%s phase=%s", s.Estimate.ID, s.Estimate.IssueDate, s.Phase())
	}

	if err := uc.ChangeIssueDate(ctx, s, mustDate(t, "2024-04-20")); err != nil {
		t.Fatalf("change date: %v", err)
	}
	if err := s.Accept(); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if !fileExists(estimatePath(dir, "20240415001")) || fileExists(estimatePath(dir, "20240420001")) {
		t.Fatalf("accept must not touch the store")
	}

	if _, err := uc.SaveEstimate(ctx, s); err != nil {
		t.Fatalf("save: %v", err)
	}
	if fileExists(estimatePath(dir, "20240415001")) || !fileExists(estimatePath(dir, "20240420001")) {
		t.Fatalf("expected the estimate to live only under 20240420001")
	}

	reloaded, err := uc.LoadEstimate(ctx, "20240420001")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reloaded.IssueDate.Equal(mustDate(t, "2024-04-20")) {
		t.Fatalf("expected issue date 2024-04-20, got %s", reloaded.IssueDate)
	}

	reloaded.ID, reloaded.IssueDate = before.ID, before.IssueDate
	if !reflect.DeepEqual(before, reloaded) {
		t.Fatalf("renamed document differs beyond id and issue date:\nbefore: %+v\nafter:  %+v", before, reloaded)
	}
}

// rewriteBodyID changes the "id" field inside a stored estimate without
// touching its file name.
func rewriteBodyID(t *testing.T, path, id string) {
	t.Helper()
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	body["id"] = id
	raw, err = json.Marshal(body)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestEstimateWorkflow_StorageKeyWinsOverBodyID(t *testing.T) {
	ctx := context.Background()
	uc, dir, _ := newFileUseCase(t)
	saveNew(t, uc, nil)
	saveNew(t, uc, func(e *entities.Estimate) { e.ProjectName = "Other estimate" })

	rewriteBodyID(t, estimatePath(dir, "20240415001"), "20240415002")

	s, err := uc.LoadSession(ctx, "20240415001")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Estimate.ID != "20240415001" || s.PersistedID() != "20240415001" {
		t.Fatalf("expected session on 20240415001, got id=%s persisted=%s", s.Estimate.ID, s.PersistedID())
	}

	s.Estimate.Memo = "edited"
	if _, err := uc.SaveEstimate(ctx, s); err != nil {
		t.Fatalf("save: %v", err)
	}

	other, err := uc.LoadEstimate(ctx, "20240415002")
	if err != nil {
		t.Fatalf("load other: %v", err)
	}
	if other.ProjectName != "Other estimate" || other.Memo != "" {
		t.Fatalf("saving 20240415001 overwrote 20240415002: %+v", other)
	}
	first, err := uc.LoadEstimate(ctx, "20240415001")
	if err != nil {
		t.Fatalf("load first: %v", err)
	}
	if first.Memo != "edited" {
		t.Fatalf("expected the edit on 20240415001, got memo %q", first.Memo)
	}

	rows, err := uc.ListEstimates(ctx, EstimateFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 || rows[0].ID != "20240415002" || rows[1].ID != "20240415001" {
		t.Fatalf("listing must report storage keys: %+v", rows)
	}
}

func TestEstimateWorkflow_DateMovedBackCancelsRename(t *testing.T) {
	ctx := context.Background()
	uc, dir, _ := newFileUseCase(t)
	saveNew(t, uc, nil)

	s, err := uc.LoadSession(ctx, "20240415001")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := uc.ChangeIssueDate(ctx, s, mustDate(t, "2024-04-20")); err != nil {
		t.Fatalf("change date: %v", err)
	}
	if err := s.Accept(); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if err := uc.ChangeIssueDate(ctx, s, mustDate(t, "2024-04-15")); err != nil {
		t.Fatalf("change back: %v", err)
	}
	if s.Phase() != PhaseStable || s.Estimate.ID != "20240415001" {
		t.Fatalf("expected stable on 20240415001, got %s on %s", s.Phase(), s.Estimate.ID)
	}

	if _, err := uc.SaveEstimate(ctx, s); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !fileExists(estimatePath(dir, "20240415001")) || fileExists(estimatePath(dir, "20240420001")) {
		t.Fatalf("expected the estimate to stay on 20240415001")
	}
}

func TestEstimateWorkflow_FailedRenameKeepsOldDocument(t *testing.T) {
	ctx := context.Background()
	uc, dir, store := newFileUseCase(t)
	saveNew(t, uc, nil)

	before, err := os.ReadFile(estimatePath(dir, "20240415001"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	failing := NewEstimateUseCase(failingPutStore{IRecordStore: store, failKey: "20240420001"}, testSettings(), testClock(), zaptest.NewLogger(t))
	s, err := failing.LoadSession(ctx, "20240415001")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	s.Estimate.ProjectName = "Renamed project"
	if err := failing.ChangeIssueDate(ctx, s, mustDate(t, "2024-04-20")); err != nil {
		t.Fatalf("change date: %v", err)
	}
	if err := s.Accept(); err != nil {
		t.Fatalf("accept: %v", err)
	}

	if _, err := failing.SaveEstimate(ctx, s); !pkg.IsKind(err, pkg.KindIO) {
		t.Fatalf("expected io error, got %v", err)
	}
	after, err := os.ReadFile(estimatePath(dir, "20240415001"))
	if err != nil {
		t.Fatalf("old document gone: %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Fatalf("old document changed after a failed rename")
	}
	if fileExists(estimatePath(dir, "20240420001")) {
		t.Fatalf("new document must not exist after a failed write")
	}

	// the same session can be retried once the store recovers
	if _, err := uc.SaveEstimate(ctx, s); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if fileExists(estimatePath(dir, "20240415001")) || !fileExists(estimatePath(dir, "20240420001")) {
		t.Fatalf("expected the retried rename to complete")
	}
}

func TestEstimateWorkflow_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newFileUseCase(t)
	saveNew(t, uc, nil)

	e, err := uc.UpdateStatus(ctx, "20240415001", entities.EstimateStatusOrdered)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if e.Status != entities.EstimateStatusOrdered || !e.OrderDate.Equal(mustDate(t, "2024-04-15")) {
		t.Fatalf("expected ordered today, got %s on %s", e.Status, e.OrderDate)
	}

	if _, err := uc.UpdateStatus(ctx, "20240415001", entities.EstimateStatusQuoting); !errors.Is(err, ErrStatusTransition) {
		t.Fatalf("expected ErrStatusTransition, got %v", err)
	}
	if _, err := uc.UpdateStatus(ctx, "20240415099", entities.EstimateStatusOrdered); !errors.Is(err, ErrEstimateNotFound) {
		t.Fatalf("expected ErrEstimateNotFound, got %v", err)
	}
}

func TestEstimateWorkflow_CopyEstimate(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newFileUseCase(t)
	src := saveNew(t, uc, func(e *entities.Estimate) {
		e.Status = entities.EstimateStatusOrdered
		e.OrderDate = mustDate(t, "2024-04-10")
		e.DeliveryDate = mustDate(t, "2024-05-01")
		e.Customer.Address = "〒100-0005 東京都千代田区丸の内1-1-1 丸の内ビル5F"
	})

	cp, err := uc.CopyEstimate(ctx, src.ID)
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	if cp.ID != "20240415002" || cp.ProjectName != "Spring campaign（コピー）" {
		t.Fatalf("unexpected copy identity: %s %q", cp.ID, cp.ProjectName)
	}
	if cp.Status != entities.EstimateStatusQuoting || !cp.OrderDate.IsZero() || !cp.DeliveryDate.IsZero() {
		t.Fatalf("copy should restart in quoting without dates: %+v", cp)
	}
	if cp.Customer.PostalCode != "100-0005" || cp.Customer.Address1 != "東京都千代田区丸の内1-1-1" || cp.Customer.Address2 != "丸の内ビル5F" {
		t.Fatalf("legacy address not split: %+v", cp.Customer)
	}
	if len(cp.Items) != len(src.Items) {
		t.Fatalf("items not copied")
	}

	orig, err := uc.LoadEstimate(ctx, src.ID)
	if err != nil || orig.Status != entities.EstimateStatusOrdered {
		t.Fatalf("source must be untouched: %+v (%v)", orig, err)
	}
}

func TestEstimateWorkflow_DeleteEstimate(t *testing.T) {
	ctx := context.Background()
	uc, dir, _ := newFileUseCase(t)
	saveNew(t, uc, nil)

	if err := uc.DeleteEstimate(ctx, "20240415001"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if fileExists(estimatePath(dir, "20240415001")) {
		t.Fatalf("expected file removed")
	}
	if err := uc.DeleteEstimate(ctx, "20240415001"); !errors.Is(err, ErrEstimateNotFound) {
		t.Fatalf("expected ErrEstimateNotFound, got %v", err)
	}
}

func TestEstimateWorkflow_FinalizeForExport(t *testing.T) {
	ctx := context.Background()
	uc, _, store := newFileUseCase(t)
	saved := saveNew(t, uc, nil)

	bundle, err := uc.FinalizeForExport(ctx, saved.ID)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if bundle.Subtotal != 2000 || bundle.BillableCount != 1 || bundle.Estimate.ID != saved.ID {
		t.Fatalf("unexpected bundle: %+v", bundle)
	}

	headersOnly := []byte(`{"id":"20240415009","project_name":"Empty","items":[{"is_category":true,"name":"Design"}]}`)
	if err := store.Put(ctx, entities.RecordKindEstimate, "20240415009", headersOnly); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := uc.FinalizeForExport(ctx, "20240415009"); !errors.Is(err, ErrNoBillableItems) {
		t.Fatalf("expected ErrNoBillableItems, got %v", err)
	}
}
