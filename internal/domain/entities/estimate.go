package entities

import (
	"strings"
	"time"
)

// EstimateStatus is the lifecycle state of an estimate.
//
// Allowed transitions:
//   - quoting   -> ordered, rejected, lost
//   - ordered   -> delivered
//   - delivered -> invoiced
//
// rejected, lost and invoiced are terminal.
type EstimateStatus string

const (
	EstimateStatusQuoting   EstimateStatus = "quoting"
	EstimateStatusOrdered   EstimateStatus = "ordered"
	EstimateStatusDelivered EstimateStatus = "delivered"
	EstimateStatusInvoiced  EstimateStatus = "invoiced"
	EstimateStatusRejected  EstimateStatus = "rejected"
	EstimateStatusLost      EstimateStatus = "lost"
)

var EstimateStatuses = []EstimateStatus{
	EstimateStatusQuoting,
	EstimateStatusOrdered,
	EstimateStatusDelivered,
	EstimateStatusInvoiced,
	EstimateStatusRejected,
	EstimateStatusLost,
}

var statusLabels = map[EstimateStatus]string{
	EstimateStatusQuoting:   "見積中",
	EstimateStatusOrdered:   "受注",
	EstimateStatusDelivered: "納品済",
	EstimateStatusInvoiced:  "請求済",
	EstimateStatusRejected:  "不採用",
	EstimateStatusLost:      "失注",
}

var statusTransitions = map[EstimateStatus][]EstimateStatus{
	EstimateStatusQuoting:   {EstimateStatusOrdered, EstimateStatusRejected, EstimateStatusLost},
	EstimateStatusOrdered:   {EstimateStatusDelivered},
	EstimateStatusDelivered: {EstimateStatusInvoiced},
}

// ParseEstimateStatus accepts either the canonical value or its Japanese label.
func ParseEstimateStatus(s string) (EstimateStatus, bool) {
	s = strings.TrimSpace(s)
	for _, st := range EstimateStatuses {
		if s == string(st) || s == statusLabels[st] {
			return st, true
		}
	}
	return "", false
}

func (s EstimateStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label is the display name used on documents and listings.
func (s EstimateStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

func (s EstimateStatus) Terminal() bool {
	return s.Valid() && len(statusTransitions[s]) == 0
}

// CanTransition reports whether s may move to next. Staying put is allowed.
func (s EstimateStatus) CanTransition(next EstimateStatus) bool {
	if !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// HasOrderDate reports whether an order date is meaningful in this state.
func (s EstimateStatus) HasOrderDate() bool {
	return s != EstimateStatusQuoting && s != EstimateStatusLost
}

// InPipeline reports whether revenue in this state counts as won business.
func (s EstimateStatus) InPipeline() bool {
	return s == EstimateStatusOrdered || s == EstimateStatusDelivered || s == EstimateStatusInvoiced
}

// CustomerSnapshot is the customer data copied into an estimate at save time.
type CustomerSnapshot struct {
	Company    string `json:"company" validate:"required"`
	Department string `json:"department"`
	Contact    string `json:"contact"`
	PostalCode string `json:"postal_code"`
	Address1   string `json:"address1"`
	Address2   string `json:"address2"`
	Address    string `json:"address"`
}

// Estimate is a quotation persisted as one document per identifier.
//
// Identifier format: YYYYMMDDnnn, where the date part is the issue date.
// Margin and MarginRatio are derived on save and never trusted on load.
type Estimate struct {
	ID             string           `json:"id"`
	ProjectName    string           `json:"project_name" validate:"required"`
	Issuer         string           `json:"issuer" validate:"required"`
	IssueDate      Date             `json:"issue_date"`
	Customer       CustomerSnapshot `json:"customer"`
	Department     string           `json:"department"`
	Items          []LineItem       `json:"-"`
	Notes          string           `json:"notes"`
	Memo           string           `json:"memo"`
	Status         EstimateStatus   `json:"status"`
	OrderDate      Date             `json:"order_date"`
	DeliveryDate   Date             `json:"delivery_date"`
	Revenue        float64          `json:"revenue"`
	Cost           float64          `json:"cost"`
	Margin         float64          `json:"margin"`
	MarginRatio    float64          `json:"margin_ratio"`
	AutoRevenue    bool             `json:"auto_revenue"`
	UseCoefficient bool             `json:"use_coefficient"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}
