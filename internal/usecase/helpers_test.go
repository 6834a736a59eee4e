package usecase

import (
	"testing"
	"time"

	"quotedesk/internal/clock"
	"quotedesk/internal/config"
	"quotedesk/internal/domain/entities"
	"quotedesk/internal/usecase/interfaces"
)

var fixedNow = time.Date(2024, 4, 15, 10, 0, 0, 0, time.UTC)

func testClock() *clock.FakeClock {
	return clock.NewFakeClock(fixedNow)
}

func testSettings() config.Settings {
	return config.DefaultSettings()
}

func mustDate(t *testing.T, s string) entities.Date {
	t.Helper()
	d, err := entities.ParseDate(s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func sampleEstimate(t *testing.T, id, issued string) entities.Estimate {
	t.Helper()
	return entities.Estimate{
		ID:          id,
		ProjectName: "Spring campaign",
		Issuer:      testSettings().DefaultIssuer(),
		IssueDate:   mustDate(t, issued),
		Customer:    entities.CustomerSnapshot{Company: "Acme", Contact: "Sato"},
		Status:      entities.EstimateStatusQuoting,
		AutoRevenue: true,
		Items: []entities.LineItem{
			entities.CategoryHeader{Name: "Design"},
			entities.BillableItem{Name: "Layout", Quantity: 2, UnitPrice: 1000, Coefficient: 1},
		},
	}
}

func estimateDoc(t *testing.T, e entities.Estimate) interfaces.Document {
	t.Helper()
	body, err := newEstimateCodec(testSettings()).encode(e)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return interfaces.Document{Key: e.ID, Body: body}
}
