package response

import (
	"errors"
	"testing"

	"quotedesk/internal/domain/entities"
	"quotedesk/internal/domain/pricing"
	"quotedesk/pkg"
)

func TestFromEstimate(t *testing.T) {
	e := entities.Estimate{
		ID:          "20240415001",
		ProjectName: "Catalog",
		IssueDate:   entities.NewDate(2024, 4, 15),
		Status:      entities.EstimateStatusOrdered,
		AutoRevenue: true,
		Cost:        1000,
		Department:  "Sales",
		Items: []entities.LineItem{
			entities.CategoryHeader{Name: "Design"},
			entities.BillableItem{Name: "Layout", Quantity: 2, UnitPrice: 2000, Coefficient: 1, Amount: 4000},
		},
	}

	res := FromEstimate(e, pricing.Summarize(e))
	if res.ID != "20240415001" || res.IssueDate != "2024-04-15" || res.OrderDate != "" {
		t.Fatalf("unexpected identity fields: %+v", res)
	}
	if res.Status != "ordered" || res.StatusLabel != "受注" {
		t.Fatalf("unexpected status: %s %s", res.Status, res.StatusLabel)
	}
	if res.Revenue != 4000 || res.Margin != 3000 || res.MarginRatio != 75 {
		t.Fatalf("unexpected figures: %+v", res)
	}
	if len(res.Items) != 2 || res.Items[0][pricing.FieldIsCategory] != true {
		t.Fatalf("unexpected items: %+v", res.Items)
	}
	if len(res.Departments) != 1 || res.Departments[0].Department != "Sales" || res.Departments[0].Amount != 4000 {
		t.Fatalf("unexpected departments: %+v", res.Departments)
	}
}

func TestFromError(t *testing.T) {
	appErr := pkg.NewDomainErrorSimple(pkg.KindNotFound, "ESTIMATE_NOT_FOUND", "estimate not found")
	res := FromError(appErr.Wrap(errors.New("open: no such file")))
	if res.Kind != "not_found" || res.Code != "ESTIMATE_NOT_FOUND" || res.Message != "estimate not found" {
		t.Fatalf("unexpected response: %+v", res)
	}

	res = FromError(errors.New("boom"))
	if res.Kind != "internal" || res.Message == "boom" {
		t.Fatalf("unexpected response: %+v", res)
	}
}
