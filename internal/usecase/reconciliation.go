package usecase

import (
	"context"

	"quotedesk/internal/domain/entities"
	"quotedesk/internal/domain/estimateno"
	"quotedesk/internal/usecase/interfaces"

	"go.uber.org/zap"
)

// ReconciliationWorkflow moves an edit session between identifiers when its
// issue date changes, and persists it so the old identifier is retired only
// after the new document is safely written.
type ReconciliationWorkflow struct {
	store     interfaces.IRecordStore
	generator IIdentifierGenerator
	codec     *estimateCodec
	log       *zap.Logger
}

func newReconciliationWorkflow(store interfaces.IRecordStore, generator IIdentifierGenerator, codec *estimateCodec, log *zap.Logger) *ReconciliationWorkflow {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReconciliationWorkflow{store: store, generator: generator, codec: codec, log: log.Named("reconcile")}
}

// ChangeIssueDate applies a new issue date to the session. A date on the same
// day as the current identifier is applied directly; any other day proposes
// a new identifier and waits for Accept or Reject on the session.
func (w *ReconciliationWorkflow) ChangeIssueDate(ctx context.Context, s *EditSession, date entities.Date) error {
	if date.IsZero() {
		return ErrInvalidIssueDate
	}
	if s.NeedsConfirmation() {
		return ErrConfirmationPending
	}

	if s.phase == PhaseRenameScheduled && sameDay(s.persistedID, date) {
		s.revertToPersisted(date)
		return nil
	}
	if sameDay(s.Estimate.ID, date) {
		s.Estimate.IssueDate = date
		if s.change != nil {
			s.change.NewDate = date
		}
		return nil
	}

	newID, err := w.generator.NextAvailable(ctx, date)
	if err != nil {
		return err
	}
	s.propose(date, newID)
	w.log.Info("identifier change proposed",
		zap.String("session", s.ID),
		zap.String("from", s.change.OldID),
		zap.String("to", newID),
		zap.String("phase", string(s.phase)))
	return nil
}

// Persist writes the session's estimate under its current identifier.
//
// In rename_scheduled the new document is written first and the old one is
// deleted only after that write succeeded; a failed write leaves the old
// document untouched. A new identifier must not already be in use.
func (w *ReconciliationWorkflow) Persist(ctx context.Context, s *EditSession) error {
	if s.NeedsConfirmation() {
		return ErrConfirmationPending
	}
	id := s.Estimate.ID
	if _, _, ok := estimateno.Parse(id); !ok {
		return ErrInvalidEstimateID.WithMessage("invalid estimate id %q", id)
	}

	body, err := w.codec.encode(s.Estimate)
	if err != nil {
		return ErrCorruptEstimate.WithMessage("estimate %s could not be encoded", id).Wrap(err)
	}

	claimsNewID := s.IsNew() || (s.phase == PhaseRenameScheduled && !s.renameWritten)
	if claimsNewID {
		taken, err := w.generator.IsTaken(ctx, id)
		if err != nil {
			return err
		}
		if taken {
			return ErrEstimateAlreadyExists.WithMessage("estimate id %s is already in use", id)
		}
	}

	if err := w.store.Put(ctx, entities.RecordKindEstimate, id, body); err != nil {
		w.log.Error("estimate write failed", zap.String("id", id), zap.Error(err))
		return err
	}

	if s.phase == PhaseRenameScheduled {
		s.renameWritten = true
		old := s.persistedID
		if err := w.store.Delete(ctx, entities.RecordKindEstimate, old); err != nil {
			w.log.Error("old estimate could not be retired", zap.String("old", old), zap.String("new", id), zap.Error(err))
			return err
		}
		w.log.Info("estimate renamed", zap.String("old", old), zap.String("new", id))
	}

	for len(s.stale) > 0 {
		if stale := s.stale[0]; stale != id {
			if err := w.store.Delete(ctx, entities.RecordKindEstimate, stale); err != nil {
				return err
			}
		}
		s.stale = s.stale[1:]
	}

	s.markPersisted()
	return nil
}
