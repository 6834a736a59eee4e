package request

import (
	"errors"
	"testing"

	"quotedesk/internal/domain/entities"
)

func TestEstimateRequest_ResolveStatus(t *testing.T) {
	cases := []struct {
		in   string
		want entities.EstimateStatus
		err  error
	}{
		{"", entities.EstimateStatusQuoting, nil},
		{"ordered", entities.EstimateStatusOrdered, nil},
		{"請求済", entities.EstimateStatusInvoiced, nil},
		{"shipped", "", ErrInvalidStatus},
	}
	for _, tc := range cases {
		got, err := EstimateRequest{Status: tc.in}.ResolveStatus()
		if !errors.Is(err, tc.err) || got != tc.want {
			t.Fatalf("ResolveStatus(%q) = %q, %v; want %q, %v", tc.in, got, err, tc.want, tc.err)
		}
	}
}

func TestEstimateRequest_Apply(t *testing.T) {
	auto := false
	r := EstimateRequest{
		ProjectName:  " Catalog ",
		Customer:     CustomerRequest{Company: " Acme ", Contact: "Sato", PostalCode: "100-0005", Address1: "Tokyo"},
		DeliveryDate: "2024/5/1",
		Revenue:      1200,
		AutoRevenue:  &auto,
	}
	e := entities.Estimate{Issuer: "kept", AutoRevenue: true}
	if err := r.Apply(&e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.ProjectName != "Catalog" || e.Customer.Company != "Acme" || e.Issuer != "kept" {
		t.Fatalf("unexpected estimate: %+v", e)
	}
	if e.Customer.Address != "100-0005 Tokyo" {
		t.Fatalf("expected composed address, got %q", e.Customer.Address)
	}
	if !e.DeliveryDate.Equal(entities.NewDate(2024, 5, 1)) || e.AutoRevenue || e.Revenue != 1200 {
		t.Fatalf("unexpected figures: %+v", e)
	}

	bad := EstimateRequest{DeliveryDate: "May first"}
	if err := bad.Apply(&e); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestEstimateRequest_ResolveIssueDate(t *testing.T) {
	d, err := EstimateRequest{IssueDate: "20240415"}.ResolveIssueDate()
	if err != nil || !d.Equal(entities.NewDate(2024, 4, 15)) {
		t.Fatalf("unexpected date %v (%v)", d, err)
	}
	d, err = EstimateRequest{}.ResolveIssueDate()
	if err != nil || !d.IsZero() {
		t.Fatalf("expected zero date, got %v (%v)", d, err)
	}
}
