package usecase

import (
	"errors"
	"testing"

	"quotedesk/internal/domain/entities"
	"quotedesk/internal/domain/pricing"
	"quotedesk/pkg"
)

func billableAt(t *testing.T, s *EditSession, pos int) entities.BillableItem {
	t.Helper()
	b, ok := s.Estimate.Items[pos].(entities.BillableItem)
	if !ok {
		t.Fatalf("item %d is %T, want BillableItem", pos, s.Estimate.Items[pos])
	}
	return b
}

func TestEditSession_ItemCommandsRepriceFees(t *testing.T) {
	s := newEditSession("session", sampleEstimate(t, "20240415001", "2024-04-15"), true)

	s.AppendItem(pricing.FeeLine("管理費", 10))
	if fee := billableAt(t, s, 2); fee.UnitPrice != 200 || fee.Amount != 200 {
		t.Fatalf("expected fee 200 after append, got %+v", fee)
	}

	if err := s.InsertItem(2, entities.BillableItem{Name: "Print", Quantity: 1, UnitPrice: 500, Coefficient: 2}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if fee := billableAt(t, s, 3); fee.Amount != 250 {
		t.Fatalf("expected fee 250 with coefficient off, got %+v", fee)
	}

	s.SetUseCoefficient(true)
	if printed := billableAt(t, s, 2); printed.Amount != 1000 {
		t.Fatalf("expected coefficient applied to Print, got %+v", printed)
	}
	if fee := billableAt(t, s, 3); fee.Amount != 300 || fee.Coefficient != 1 || fee.Quantity != 1 {
		t.Fatalf("expected fee 300 at quantity and coefficient 1, got %+v", fee)
	}

	if err := s.MoveItem(3, 0); err != nil {
		t.Fatalf("move: %v", err)
	}
	if fee := billableAt(t, s, 0); fee.Amount != 0 {
		t.Fatalf("a fee with nothing above it is free, got %+v", fee)
	}

	if err := s.MoveItem(0, 3); err != nil {
		t.Fatalf("move back: %v", err)
	}
	if err := s.RemoveItem(2); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if fee := billableAt(t, s, 2); fee.Amount != 200 {
		t.Fatalf("expected fee 200 after removing Print, got %+v", fee)
	}
}

func TestEditSession_OutOfRangePositions(t *testing.T) {
	s := newEditSession("session", sampleEstimate(t, "20240415001", "2024-04-15"), true)

	tests := []struct {
		name string
		run  func() error
	}{
		{"insert past end", func() error { return s.InsertItem(3, entities.CategoryHeader{Name: "x"}) }},
		{"remove negative", func() error { return s.RemoveItem(-1) }},
		{"move first up", func() error { return s.MoveItem(0, -1) }},
		{"move past end", func() error { return s.MoveItem(1, 2) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			if !errors.Is(err, pricing.ErrPosition) {
				t.Fatalf("expected ErrPosition, got %v", err)
			}
			if !pkg.IsKind(err, pkg.KindValidation) {
				t.Fatalf("expected a validation error, got kind %s", pkg.KindOf(err))
			}
		})
	}
	if len(s.Estimate.Items) != 2 {
		t.Fatalf("failed commands must leave items untouched, got %d", len(s.Estimate.Items))
	}
}

func TestEditSession_SetCustomer(t *testing.T) {
	s := newEditSession("session", sampleEstimate(t, "20240415001", "2024-04-15"), true)

	s.SetCustomer(entities.Customer{Company: "Beta", Contact: "Ito", PostalCode: "100-0005", Address1: "Tokyo"})
	if s.Estimate.Customer.Company != "Beta" || s.Estimate.Customer.Contact != "Ito" || s.Estimate.Customer.PostalCode != "100-0005" {
		t.Fatalf("customer not copied: %+v", s.Estimate.Customer)
	}
}
