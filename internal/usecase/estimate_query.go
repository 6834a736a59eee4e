package usecase

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"quotedesk/internal/domain/entities"
	"quotedesk/internal/domain/pricing"
	"quotedesk/pkg"

	"go.uber.org/zap"
)

// EstimateFilter narrows a listing. Zero values match everything.
//
// FiscalYear and Month apply to the delivery date; a fiscal year N runs from
// April N to March N+1. Estimates without a delivery date are excluded when
// either is set.
type EstimateFilter struct {
	FiscalYear      int
	Month           int
	Customer        string
	Issuer          string
	Department      string
	Statuses        []entities.EstimateStatus
	ExcludeStatuses []entities.EstimateStatus
	Keyword         string
}

// EstimateSummary is one listing row.
type EstimateSummary struct {
	ID            string                  `json:"id"`
	ProjectName   string                  `json:"project_name"`
	Company       string                  `json:"company"`
	Department    string                  `json:"customer_department"`
	Contact       string                  `json:"contact"`
	Issuer        string                  `json:"issuer"`
	AssignedDept  string                  `json:"department"`
	IssueDate     entities.Date           `json:"issue_date"`
	OrderDate     entities.Date           `json:"order_date"`
	DeliveryDate  entities.Date           `json:"delivery_date"`
	Status        entities.EstimateStatus `json:"status"`
	Revenue       float64                 `json:"revenue"`
	Cost          float64                 `json:"cost"`
	Margin        float64                 `json:"margin"`
	MarginRatio   float64                 `json:"margin_ratio"`
	BillableCount int                     `json:"billable_count"`
	Memo          string                  `json:"memo"`
}

// EstimateStatistics are the headline figures over a filtered listing.
// Pipeline revenue counts ordered, delivered and invoiced estimates;
// invoiced revenue counts invoiced ones only.
type EstimateStatistics struct {
	Count           int     `json:"count"`
	QuotingCount    int     `json:"quoting_count"`
	InvoicedCount   int     `json:"invoiced_count"`
	PipelineRevenue float64 `json:"pipeline_revenue"`
	InvoicedRevenue float64 `json:"invoiced_revenue"`
}

// FiscalYearOf returns the April-based fiscal year d falls in.
func FiscalYearOf(d entities.Date) int {
	if d.Month() >= 4 {
		return d.Year()
	}
	return d.Year() - 1
}

func (f EstimateFilter) matches(e entities.Estimate) bool {
	if f.FiscalYear != 0 || f.Month != 0 {
		if e.DeliveryDate.IsZero() {
			return false
		}
		if f.FiscalYear != 0 && FiscalYearOf(e.DeliveryDate) != f.FiscalYear {
			return false
		}
		if f.Month != 0 && int(e.DeliveryDate.Month()) != f.Month {
			return false
		}
	}
	if f.Customer != "" && e.Customer.Company != f.Customer {
		return false
	}
	if f.Issuer != "" && e.Issuer != f.Issuer {
		return false
	}
	if f.Department != "" && e.Department != f.Department {
		return false
	}
	if len(f.Statuses) > 0 && !containsStatus(f.Statuses, e.Status) {
		return false
	}
	if containsStatus(f.ExcludeStatuses, e.Status) {
		return false
	}
	if f.Keyword != "" && !strings.Contains(e.ProjectName, f.Keyword) {
		return false
	}
	return true
}

func containsStatus(list []entities.EstimateStatus, s entities.EstimateStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// summarize builds a listing row. Revenue is the line-item total when there
// is one, otherwise the stored revenue.
func summarize(e entities.Estimate) EstimateSummary {
	total := pricing.LineItemTotal(e.Items)
	revenue := e.Revenue
	if total > 0 {
		revenue = total
	}
	return EstimateSummary{
		ID:            e.ID,
		ProjectName:   e.ProjectName,
		Company:       e.Customer.Company,
		Department:    e.Customer.Department,
		Contact:       e.Customer.Contact,
		Issuer:        e.Issuer,
		AssignedDept:  e.Department,
		IssueDate:     e.IssueDate,
		OrderDate:     e.OrderDate,
		DeliveryDate:  e.DeliveryDate,
		Status:        e.Status,
		Revenue:       revenue,
		Cost:          e.Cost,
		Margin:        pricing.Margin(revenue, e.Cost),
		MarginRatio:   pricing.MarginRatio(revenue, e.Cost),
		BillableCount: pricing.BillableCount(e.Items),
		Memo:          e.Memo,
	}
}

// loadAll decodes every stored estimate. Documents that parse as JSON but
// not as an estimate are skipped like unreadable files.
func (u *EstimateUseCase) loadAll(ctx context.Context) ([]entities.Estimate, error) {
	docs, err := u.store.List(ctx, entities.RecordKindEstimate)
	if err != nil {
		return nil, err
	}
	out := make([]entities.Estimate, 0, len(docs))
	for _, doc := range docs {
		e, err := u.codec.decode(doc)
		if err != nil {
			u.log.Warn("skipping undecodable estimate", zap.String("id", doc.Key), zap.Error(err))
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// ListEstimates returns matching estimates, newest identifier first.
func (u *EstimateUseCase) ListEstimates(ctx context.Context, filter EstimateFilter) ([]EstimateSummary, error) {
	all, err := u.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]EstimateSummary, 0, len(all))
	for _, e := range all {
		if filter.matches(e) {
			out = append(out, summarize(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (u *EstimateUseCase) Statistics(ctx context.Context, filter EstimateFilter) (EstimateStatistics, error) {
	rows, err := u.ListEstimates(ctx, filter)
	if err != nil {
		return EstimateStatistics{}, err
	}
	return computeStatistics(rows), nil
}

func computeStatistics(rows []EstimateSummary) EstimateStatistics {
	var st EstimateStatistics
	st.Count = len(rows)
	for _, r := range rows {
		switch r.Status {
		case entities.EstimateStatusQuoting:
			st.QuotingCount++
		case entities.EstimateStatusInvoiced:
			st.InvoicedCount++
			st.InvoicedRevenue += r.Revenue
		}
		if r.Status.InPipeline() {
			st.PipelineRevenue += r.Revenue
		}
	}
	return st
}

// FiscalYears lists the fiscal years that have deliveries, newest first.
func (u *EstimateUseCase) FiscalYears(ctx context.Context) ([]int, error) {
	all, err := u.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[int]bool{}
	var years []int
	for _, e := range all {
		if e.DeliveryDate.IsZero() {
			continue
		}
		y := FiscalYearOf(e.DeliveryDate)
		if !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years, nil
}

// EstimatesForCustomer finds estimates addressed to company and contact,
// ignoring all whitespace in both.
func (u *EstimateUseCase) EstimatesForCustomer(ctx context.Context, company, contact string) ([]EstimateSummary, error) {
	wantCompany, wantContact := stripSpaces(company), stripSpaces(contact)
	if wantCompany == "" {
		return nil, ErrCustomerRequired
	}
	all, err := u.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []EstimateSummary
	for _, e := range all {
		if stripSpaces(e.Customer.Company) != wantCompany {
			continue
		}
		if wantContact != "" && stripSpaces(e.Customer.Contact) != wantContact {
			continue
		}
		out = append(out, summarize(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// stripSpaces removes every Unicode space, including the full-width one.
func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func isCorrupt(err error) bool {
	return pkg.IsKind(err, pkg.KindCorruptRecord)
}
