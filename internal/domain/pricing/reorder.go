package pricing

import (
	"quotedesk/internal/domain/entities"
	"quotedesk/pkg"
)

// ErrPosition is returned for out-of-range positions.
var ErrPosition = pkg.NewDomainErrorSimple(pkg.KindValidation, "INVALID_ITEM_POSITION", "line item position out of range")

// Insert places item at pos (0..len) and recomputes fees.
func Insert(items []entities.LineItem, pos int, item entities.LineItem, useCoefficient bool) ([]entities.LineItem, error) {
	if pos < 0 || pos > len(items) {
		return nil, ErrPosition.WithMessage("cannot insert at %d of %d items", pos, len(items))
	}
	out := make([]entities.LineItem, 0, len(items)+1)
	out = append(out, items[:pos]...)
	out = append(out, item)
	out = append(out, items[pos:]...)
	return ApplyPercentageFees(out, useCoefficient), nil
}

// Append adds item at the end.
func Append(items []entities.LineItem, item entities.LineItem, useCoefficient bool) []entities.LineItem {
	out, _ := Insert(items, len(items), item, useCoefficient)
	return out
}

// Remove deletes the item at pos and recomputes fees.
func Remove(items []entities.LineItem, pos int, useCoefficient bool) ([]entities.LineItem, error) {
	if pos < 0 || pos >= len(items) {
		return nil, ErrPosition.WithMessage("cannot remove item %d of %d", pos, len(items))
	}
	out := make([]entities.LineItem, 0, len(items)-1)
	out = append(out, items[:pos]...)
	out = append(out, items[pos+1:]...)
	return ApplyPercentageFees(out, useCoefficient), nil
}

// Move relocates the item at from so that it ends up at index to.
func Move(items []entities.LineItem, from, to int, useCoefficient bool) ([]entities.LineItem, error) {
	if from < 0 || from >= len(items) || to < 0 || to >= len(items) {
		return nil, ErrPosition.WithMessage("cannot move item %d to %d of %d", from, to, len(items))
	}
	out := make([]entities.LineItem, len(items))
	copy(out, items)
	item := out[from]
	if from < to {
		copy(out[from:to], out[from+1:to+1])
	} else {
		copy(out[to+1:from+1], out[to:from])
	}
	out[to] = item
	return ApplyPercentageFees(out, useCoefficient), nil
}

func MoveUp(items []entities.LineItem, pos int, useCoefficient bool) ([]entities.LineItem, error) {
	return Move(items, pos, pos-1, useCoefficient)
}

func MoveDown(items []entities.LineItem, pos int, useCoefficient bool) ([]entities.LineItem, error) {
	return Move(items, pos, pos+1, useCoefficient)
}
