package response

import (
	"time"

	"quotedesk/internal/domain/entities"
	"quotedesk/internal/domain/pricing"
)

type DepartmentResponse struct {
	Department string  `json:"department"`
	Amount     float64 `json:"amount"`
}

type EstimateResponse struct {
	ID             string                    `json:"id"`
	ProjectName    string                    `json:"project_name"`
	Issuer         string                    `json:"issuer"`
	IssueDate      string                    `json:"issue_date"`
	Customer       entities.CustomerSnapshot `json:"customer"`
	Department     string                    `json:"department"`
	Status         string                    `json:"status"`
	StatusLabel    string                    `json:"status_label"`
	OrderDate      string                    `json:"order_date,omitempty"`
	DeliveryDate   string                    `json:"delivery_date,omitempty"`
	Items          []pricing.RawLineItem     `json:"items"`
	LineItemTotal  float64                   `json:"line_item_total"`
	Revenue        float64                   `json:"revenue"`
	Cost           float64                   `json:"cost"`
	Margin         float64                   `json:"margin"`
	MarginRatio    float64                   `json:"margin_ratio"`
	Departments    []DepartmentResponse      `json:"departments"`
	UseCoefficient bool                      `json:"use_coefficient"`
	Notes          string                    `json:"notes,omitempty"`
	Memo           string                    `json:"memo,omitempty"`
	UpdatedAt      time.Time                 `json:"updated_at"`
}

// FromEstimate renders e together with the figures derived from its items.
func FromEstimate(e entities.Estimate, s pricing.Summary) EstimateResponse {
	depts := make([]DepartmentResponse, 0, len(s.Departments))
	for _, d := range s.Departments {
		depts = append(depts, DepartmentResponse{Department: d.Department, Amount: d.Amount})
	}
	return EstimateResponse{
		ID:             e.ID,
		ProjectName:    e.ProjectName,
		Issuer:         e.Issuer,
		IssueDate:      e.IssueDate.String(),
		Customer:       e.Customer,
		Department:     e.Department,
		Status:         string(e.Status),
		StatusLabel:    e.Status.Label(),
		OrderDate:      e.OrderDate.String(),
		DeliveryDate:   e.DeliveryDate.String(),
		Items:          pricing.ToRaw(e.Items),
		LineItemTotal:  s.LineItemTotal,
		Revenue:        s.Revenue,
		Cost:           s.Cost,
		Margin:         s.Margin,
		MarginRatio:    s.MarginRatio,
		Departments:    depts,
		UseCoefficient: e.UseCoefficient,
		Notes:          e.Notes,
		Memo:           e.Memo,
		UpdatedAt:      e.UpdatedAt,
	}
}

// IdentifierChangeResponse reports what a date change did to the identifier.
type IdentifierChangeResponse struct {
	ID        string `json:"id"`
	Phase     string `json:"phase"`
	OldID     string `json:"old_id,omitempty"`
	NewID     string `json:"new_id,omitempty"`
	OldDate   string `json:"old_date,omitempty"`
	NewDate   string `json:"new_date,omitempty"`
	Confirmed bool   `json:"confirmed"`
	Saved     bool   `json:"saved"`
}

type NextIDResponse struct {
	Date string `json:"date"`
	ID   string `json:"id"`
}
