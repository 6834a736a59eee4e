package usecase

import (
	"quotedesk/internal/domain/entities"
	"quotedesk/internal/domain/estimateno"
	"quotedesk/internal/domain/pricing"
)

// SessionPhase is the reconciliation state of an edit session.
type SessionPhase string

const (
	// PhaseStable: the identifier is settled; saving writes to it.
	PhaseStable SessionPhase = "stable"
	// PhasePendingRename: a persisted estimate's issue date moved to another
	// day and the proposed identifier awaits accept or reject.
	PhasePendingRename SessionPhase = "pending_rename"
	// PhaseRenameScheduled: the rename was accepted; the next save writes the
	// new identifier and then deletes the old one.
	PhaseRenameScheduled SessionPhase = "rename_scheduled"
	// PhasePendingFreshAssignment: a never-saved estimate's issue date moved
	// to another day and the proposed identifier awaits accept or reject.
	PhasePendingFreshAssignment SessionPhase = "pending_fresh_assignment"
)

// IdentifierChange describes a proposed or scheduled identifier change.
type IdentifierChange struct {
	OldID   string
	NewID   string
	OldDate entities.Date
	NewDate entities.Date

	// state restored by Reject
	restorePhase SessionPhase
	restoreID    string
	restoreDate  entities.Date
}

// EditSession is the editing state of one estimate. It is owned by the
// caller and passed explicitly to every operation that reads or changes it.
type EditSession struct {
	ID       string
	Estimate entities.Estimate

	persistedID   string
	phase         SessionPhase
	change        *IdentifierChange
	renameWritten bool
	// identifiers written by an interrupted rename that no longer back
	// this estimate; removed after the next successful save
	stale []string
}

func newEditSession(id string, e entities.Estimate, persisted bool) *EditSession {
	s := &EditSession{ID: id, Estimate: e, phase: PhaseStable}
	if persisted {
		s.persistedID = e.ID
	}
	return s
}

func (s *EditSession) Phase() SessionPhase { return s.phase }

// PersistedID is the identifier the estimate is currently stored under, or
// "" for a never-saved estimate.
func (s *EditSession) PersistedID() string { return s.persistedID }

func (s *EditSession) IsNew() bool { return s.persistedID == "" }

// Change returns the pending or scheduled identifier change, if any.
func (s *EditSession) Change() (IdentifierChange, bool) {
	if s.change == nil {
		return IdentifierChange{}, false
	}
	return *s.change, true
}

// NeedsConfirmation reports whether Accept or Reject must be called before
// the session can be saved.
func (s *EditSession) NeedsConfirmation() bool {
	return s.phase == PhasePendingRename || s.phase == PhasePendingFreshAssignment
}

// Accept confirms the proposed identifier. A persisted estimate moves to
// rename_scheduled; nothing on disk changes until the next save.
func (s *EditSession) Accept() error {
	if !s.NeedsConfirmation() {
		return ErrNothingToConfirm
	}
	c := s.change
	s.Estimate.ID = c.NewID
	s.Estimate.IssueDate = c.NewDate

	if c.restorePhase == PhaseRenameScheduled && s.renameWritten {
		s.stale = append(s.stale, c.restoreID)
		s.renameWritten = false
	}

	if s.phase == PhasePendingRename && c.NewID != s.persistedID {
		s.phase = PhaseRenameScheduled
		s.change.OldID = s.persistedID
		return nil
	}
	s.phase = PhaseStable
	s.change = nil
	return nil
}

// Reject drops the proposal and restores the identifier, issue date and
// phase held before the date change.
func (s *EditSession) Reject() error {
	if !s.NeedsConfirmation() {
		return ErrNothingToConfirm
	}
	c := s.change
	s.Estimate.ID = c.restoreID
	s.Estimate.IssueDate = c.restoreDate
	s.phase = c.restorePhase
	if s.phase == PhaseRenameScheduled {
		s.change = &IdentifierChange{
			OldID:   s.persistedID,
			NewID:   c.restoreID,
			OldDate: c.OldDate,
			NewDate: c.restoreDate,
		}
	} else {
		s.change = nil
	}
	return nil
}

// propose records a date change that needs a new identifier.
func (s *EditSession) propose(date entities.Date, newID string) {
	prev := s.Estimate.IssueDate
	oldDate := prev
	if s.change != nil && s.phase == PhaseRenameScheduled {
		oldDate = s.change.OldDate
	}
	s.change = &IdentifierChange{
		OldID:        s.Estimate.ID,
		NewID:        newID,
		OldDate:      oldDate,
		NewDate:      date,
		restorePhase: s.phase,
		restoreID:    s.Estimate.ID,
		restoreDate:  prev,
	}
	s.Estimate.IssueDate = date
	if s.IsNew() {
		s.phase = PhasePendingFreshAssignment
	} else {
		s.phase = PhasePendingRename
	}
}

// revertToPersisted cancels a scheduled rename because the date moved back
// to the day the stored identifier belongs to.
func (s *EditSession) revertToPersisted(date entities.Date) {
	if s.renameWritten {
		s.stale = append(s.stale, s.Estimate.ID)
	}
	s.Estimate.ID = s.persistedID
	s.Estimate.IssueDate = date
	s.phase = PhaseStable
	s.change = nil
	s.renameWritten = false
}

// sameDay reports whether id already belongs to date.
func sameDay(id string, date entities.Date) bool {
	key, _, ok := estimateno.Parse(id)
	return ok && key == estimateno.DateKey(date)
}

// markPersisted moves the session to stable under its current identifier.
func (s *EditSession) markPersisted() {
	s.persistedID = s.Estimate.ID
	s.phase = PhaseStable
	s.change = nil
	s.renameWritten = false
}

// SetStatus changes the lifecycle status, enforcing allowed transitions.
func (s *EditSession) SetStatus(next entities.EstimateStatus) error {
	if !next.Valid() {
		return ErrInvalidStatus.WithMessage("invalid estimate status %q", next)
	}
	if !s.Estimate.Status.CanTransition(next) {
		return ErrStatusTransition.WithMessage("cannot move estimate from %s to %s", s.Estimate.Status, next)
	}
	s.Estimate.Status = next
	if !next.HasOrderDate() {
		s.Estimate.OrderDate = entities.Date{}
	}
	return nil
}

// SetCustomer copies the customer into the estimate.
func (s *EditSession) SetCustomer(c entities.Customer) {
	s.Estimate.Customer = c.Snapshot()
}

// SetUseCoefficient toggles the coefficient feature and recomputes amounts.
func (s *EditSession) SetUseCoefficient(on bool) {
	s.Estimate.UseCoefficient = on
	s.Estimate.Items = pricing.NormalizeItems(s.Estimate.Items, on)
}

func (s *EditSession) InsertItem(pos int, item entities.LineItem) error {
	items, err := pricing.Insert(s.Estimate.Items, pos, item, s.Estimate.UseCoefficient)
	if err != nil {
		return err
	}
	s.Estimate.Items = items
	return nil
}

func (s *EditSession) AppendItem(item entities.LineItem) {
	s.Estimate.Items = pricing.Append(s.Estimate.Items, item, s.Estimate.UseCoefficient)
}

func (s *EditSession) RemoveItem(pos int) error {
	items, err := pricing.Remove(s.Estimate.Items, pos, s.Estimate.UseCoefficient)
	if err != nil {
		return err
	}
	s.Estimate.Items = items
	return nil
}

func (s *EditSession) MoveItem(from, to int) error {
	items, err := pricing.Move(s.Estimate.Items, from, to, s.Estimate.UseCoefficient)
	if err != nil {
		return err
	}
	s.Estimate.Items = items
	return nil
}
