package request

import (
	"errors"
	"strings"

	"quotedesk/internal/domain/entities"
	"quotedesk/internal/domain/pricing"
)

var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidStatus = errors.New("invalid status")
)

type CustomerRequest struct {
	Company    string `json:"company"`
	Department string `json:"department"`
	Contact    string `json:"contact"`
	PostalCode string `json:"postal_code"`
	Address1   string `json:"address1"`
	Address2   string `json:"address2"`
	Address    string `json:"address"`
}

// EstimateRequest is the import payload. Items stay loosely typed so exports
// from older tools with string numbers or legacy keys still load.
type EstimateRequest struct {
	ID             string                `json:"id"`
	ProjectName    string                `json:"project_name"`
	Issuer         string                `json:"issuer"`
	IssueDate      string                `json:"issue_date"`
	Customer       CustomerRequest       `json:"customer"`
	Department     string                `json:"department"`
	Items          []pricing.RawLineItem `json:"items"`
	Notes          string                `json:"notes"`
	Memo           string                `json:"memo"`
	Status         string                `json:"status"`
	DeliveryDate   string                `json:"delivery_date"`
	Revenue        float64               `json:"revenue"`
	Cost           float64               `json:"cost"`
	AutoRevenue    *bool                 `json:"auto_revenue"`
	UseCoefficient bool                  `json:"use_coefficient"`
}

func (r EstimateRequest) ResolveID() string {
	return strings.TrimSpace(r.ID)
}

func (r EstimateRequest) ResolveIssueDate() (entities.Date, error) {
	d, err := entities.ParseDate(strings.TrimSpace(r.IssueDate))
	if err != nil {
		return entities.Date{}, ErrInvalidDate
	}
	return d, nil
}

// ResolveStatus accepts a status value or its Japanese label; blank means
// quoting.
func (r EstimateRequest) ResolveStatus() (entities.EstimateStatus, error) {
	s := strings.TrimSpace(r.Status)
	if s == "" {
		return entities.EstimateStatusQuoting, nil
	}
	st, ok := entities.ParseEstimateStatus(s)
	if !ok {
		return "", ErrInvalidStatus
	}
	return st, nil
}

// Apply copies the payload onto e. Identifier and issue date are left to the
// caller, which owns the reconciliation of both.
func (r EstimateRequest) Apply(e *entities.Estimate) error {
	status, err := r.ResolveStatus()
	if err != nil {
		return err
	}
	delivery, err := entities.ParseDate(strings.TrimSpace(r.DeliveryDate))
	if err != nil {
		return ErrInvalidDate
	}

	e.ProjectName = strings.TrimSpace(r.ProjectName)
	if v := strings.TrimSpace(r.Issuer); v != "" {
		e.Issuer = v
	}
	e.Customer = entities.CustomerSnapshot{
		Company:    strings.TrimSpace(r.Customer.Company),
		Department: strings.TrimSpace(r.Customer.Department),
		Contact:    strings.TrimSpace(r.Customer.Contact),
		PostalCode: strings.TrimSpace(r.Customer.PostalCode),
		Address1:   strings.TrimSpace(r.Customer.Address1),
		Address2:   strings.TrimSpace(r.Customer.Address2),
		Address:    strings.TrimSpace(r.Customer.Address),
	}
	if e.Customer.Address == "" {
		e.Customer.Address = entities.ComposeAddress(e.Customer.PostalCode, e.Customer.Address1, e.Customer.Address2)
	}
	if v := strings.TrimSpace(r.Department); v != "" {
		e.Department = v
	}
	e.Notes = r.Notes
	e.Memo = r.Memo
	e.Status = status
	e.DeliveryDate = delivery
	e.Revenue = r.Revenue
	e.Cost = r.Cost
	if r.AutoRevenue != nil {
		e.AutoRevenue = *r.AutoRevenue
	}
	e.UseCoefficient = r.UseCoefficient
	return nil
}

type CustomerCommand struct {
	Company    string
	Department string
	Contact    string
	PostalCode string
	Address1   string
	Address2   string
}

func (c CustomerCommand) ToEntity() entities.Customer {
	return entities.Customer{
		Company:    c.Company,
		Department: c.Department,
		Contact:    c.Contact,
		PostalCode: c.PostalCode,
		Address1:   c.Address1,
		Address2:   c.Address2,
	}
}

func (c CustomerCommand) Key() entities.CustomerKey {
	return entities.CustomerKey{Company: c.Company, Department: c.Department, Contact: c.Contact}
}
