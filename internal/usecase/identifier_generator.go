package usecase

import (
	"context"
	"encoding/json"

	"quotedesk/internal/clock"
	"quotedesk/internal/domain/entities"
	"quotedesk/internal/domain/estimateno"
	"quotedesk/internal/usecase/interfaces"
	"quotedesk/pkg"

	"go.uber.org/zap"
)

// IIdentifierGenerator proposes estimate identifiers.
type IIdentifierGenerator interface {
	NextAvailable(ctx context.Context, date entities.Date) (string, error)
	IsTaken(ctx context.Context, id string) (bool, error)
}

// IdentifierGenerator derives the next YYYYMMDDnnn identifier from what is
// already stored. It reserves nothing: two calls without a write in between
// return the same identifier, and two processes can race for one.
type IdentifierGenerator struct {
	store interfaces.IRecordStore
	clock clock.Clock
	log   *zap.Logger
}

var _ IIdentifierGenerator = (*IdentifierGenerator)(nil)

func NewIdentifierGenerator(store interfaces.IRecordStore, clk clock.Clock, log *zap.Logger) *IdentifierGenerator {
	if log == nil {
		log = zap.NewNop()
	}
	return &IdentifierGenerator{store: store, clock: clk, log: log.Named("identifier")}
}

// identityFields reads the identifier and issue date from a stored body in
// either the current or the legacy field names.
type identityFields struct {
	ID              string `json:"id"`
	IssueDate       any    `json:"issue_date"`
	LegacyID        string `json:"見積No"`
	LegacyIssueDate any    `json:"発行日"`
}

// MaxSequence is the highest sequence already used on date, looking at both
// stored keys and the identity recorded inside each document, which can
// disagree after manual edits.
func (g *IdentifierGenerator) MaxSequence(ctx context.Context, date entities.Date) (int, error) {
	if date.IsZero() {
		return 0, ErrInvalidIssueDate
	}
	dateKey := estimateno.DateKey(date)

	docs, err := g.store.List(ctx, entities.RecordKindEstimate)
	if err != nil {
		return 0, err
	}

	maxSeq := 0
	for _, doc := range docs {
		if key, seq, ok := estimateno.Parse(doc.Key); ok && key == dateKey && seq > maxSeq {
			maxSeq = seq
		}

		var f identityFields
		if err := json.Unmarshal(doc.Body, &f); err != nil {
			continue
		}
		id, issued := f.ID, f.IssueDate
		if id == "" {
			id = f.LegacyID
		}
		if issued == nil {
			issued = f.LegacyIssueDate
		}
		s, ok := issued.(string)
		if !ok {
			continue
		}
		d, err := entities.ParseDate(s)
		if err != nil || !d.Equal(date) {
			continue
		}
		if key, seq, ok := estimateno.Parse(id); ok && key == dateKey && seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq, nil
}

// NextAvailable returns max sequence + 1 for date, skipping any slot whose
// key is occupied by a record the listing could not read. Past 999 it falls
// back to the low three digits of the Unix time, which may collide.
func (g *IdentifierGenerator) NextAvailable(ctx context.Context, date entities.Date) (string, error) {
	maxSeq, err := g.MaxSequence(ctx, date)
	if err != nil {
		return "", err
	}

	for seq := maxSeq + 1; seq <= estimateno.MaxSequence; seq++ {
		id := estimateno.Format(date, seq)
		taken, err := g.IsTaken(ctx, id)
		if err != nil {
			return "", err
		}
		if !taken {
			return id, nil
		}
	}

	id := estimateno.Fallback(date, g.clock.Now())
	g.log.Warn("daily sequence exhausted, using timestamp suffix",
		zap.String("date", date.String()), zap.String("id", id))
	return id, nil
}

// IsTaken reports whether a record exists under id. A record that exists but
// cannot be decoded still occupies the identifier.
func (g *IdentifierGenerator) IsTaken(ctx context.Context, id string) (bool, error) {
	if _, _, ok := estimateno.Parse(id); !ok {
		return false, ErrInvalidEstimateID.WithMessage("invalid estimate id %q", id)
	}
	_, found, err := g.store.Get(ctx, entities.RecordKindEstimate, id)
	if err != nil {
		if pkg.IsKind(err, pkg.KindCorruptRecord) {
			return true, nil
		}
		return false, err
	}
	return found, nil
}
