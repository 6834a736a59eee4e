package usecase

import (
	"context"
	"strings"

	"quotedesk/internal/clock"
	"quotedesk/internal/config"
	"quotedesk/internal/domain/address"
	"quotedesk/internal/domain/entities"
	"quotedesk/internal/domain/pricing"
	"quotedesk/internal/usecase/interfaces"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const copySuffix = "（コピー）"

// IEstimateUseCase is the estimate surface offered to the UI layer.
type IEstimateUseCase interface {
	NewSession(ctx context.Context, issueDate entities.Date) (*EditSession, error)
	LoadSession(ctx context.Context, id string) (*EditSession, error)
	LoadEstimate(ctx context.Context, id string) (entities.Estimate, error)
	ProposeIdentifier(ctx context.Context, date entities.Date) (string, error)
	ChangeIssueDate(ctx context.Context, s *EditSession, date entities.Date) error
	SetItems(s *EditSession, raw []pricing.RawLineItem)
	NewLineItem(raw pricing.RawLineItem) entities.LineItem
	SaveEstimate(ctx context.Context, s *EditSession) (entities.Estimate, error)
	DeleteEstimate(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id string, status entities.EstimateStatus) (entities.Estimate, error)
	CopyEstimate(ctx context.Context, id string) (entities.Estimate, error)
	Aggregate(e entities.Estimate) pricing.Summary
	FinalizeForExport(ctx context.Context, id string) (entities.ExportBundle, error)
	ListEstimates(ctx context.Context, filter EstimateFilter) ([]EstimateSummary, error)
	Statistics(ctx context.Context, filter EstimateFilter) (EstimateStatistics, error)
	FiscalYears(ctx context.Context) ([]int, error)
	EstimatesForCustomer(ctx context.Context, company, contact string) ([]EstimateSummary, error)
}

type EstimateUseCase struct {
	store     interfaces.IRecordStore
	codec     *estimateCodec
	generator *IdentifierGenerator
	workflow  *ReconciliationWorkflow
	settings  config.Settings
	clock     clock.Clock
	validate  *validator.Validate
	log       *zap.Logger
}

var _ IEstimateUseCase = (*EstimateUseCase)(nil)

func NewEstimateUseCase(store interfaces.IRecordStore, settings config.Settings, clk clock.Clock, log *zap.Logger) *EstimateUseCase {
	if log == nil {
		log = zap.NewNop()
	}
	codec := newEstimateCodec(settings)
	generator := NewIdentifierGenerator(store, clk, log)
	return &EstimateUseCase{
		store:     store,
		codec:     codec,
		generator: generator,
		workflow:  newReconciliationWorkflow(store, generator, codec, log),
		settings:  settings,
		clock:     clk,
		validate:  newValidator(),
		log:       log.Named("estimate"),
	}
}

func (u *EstimateUseCase) today() entities.Date {
	return entities.DateOf(u.clock.Now())
}

// NewSession starts a never-saved estimate. Its identifier is proposed for
// issueDate (today when zero) and claimed only by the first save.
func (u *EstimateUseCase) NewSession(ctx context.Context, issueDate entities.Date) (*EditSession, error) {
	if issueDate.IsZero() {
		issueDate = u.today()
	}
	id, err := u.generator.NextAvailable(ctx, issueDate)
	if err != nil {
		return nil, err
	}
	e := entities.Estimate{
		ID:          id,
		IssueDate:   issueDate,
		Issuer:      u.settings.DefaultIssuer(),
		Department:  u.settings.DefaultDepartment,
		Status:      entities.EstimateStatusQuoting,
		AutoRevenue: true,
	}
	return newEditSession(uuid.NewString(), e, false), nil
}

func (u *EstimateUseCase) LoadSession(ctx context.Context, id string) (*EditSession, error) {
	e, err := u.LoadEstimate(ctx, id)
	if err != nil {
		return nil, err
	}
	return newEditSession(uuid.NewString(), e, true), nil
}

func (u *EstimateUseCase) LoadEstimate(ctx context.Context, id string) (entities.Estimate, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Estimate{}, ErrInvalidEstimateID
	}

	doc, found, err := u.store.Get(ctx, entities.RecordKindEstimate, id)
	if err != nil {
		return entities.Estimate{}, err
	}
	if !found {
		return entities.Estimate{}, ErrEstimateNotFound.WithMessage("estimate %s not found", id)
	}
	return u.codec.decode(doc)
}

func (u *EstimateUseCase) ProposeIdentifier(ctx context.Context, date entities.Date) (string, error) {
	return u.generator.NextAvailable(ctx, date)
}

func (u *EstimateUseCase) ChangeIssueDate(ctx context.Context, s *EditSession, date entities.Date) error {
	return u.workflow.ChangeIssueDate(ctx, s, date)
}

// SetItems replaces the session's line items with normalized raw input.
func (u *EstimateUseCase) SetItems(s *EditSession, raw []pricing.RawLineItem) {
	s.Estimate.Items = u.codec.normalizer.Normalize(raw, s.Estimate.UseCoefficient)
}

// NewLineItem normalizes a single raw row, recognising fee lines by name.
// Its amount is filled in once it is placed in a session.
func (u *EstimateUseCase) NewLineItem(raw pricing.RawLineItem) entities.LineItem {
	return u.codec.normalizer.Normalize([]pricing.RawLineItem{raw}, false)[0]
}

// SaveEstimate validates the session, derives every computed figure and
// persists it, retiring a superseded identifier when a rename is scheduled.
func (u *EstimateUseCase) SaveEstimate(ctx context.Context, s *EditSession) (entities.Estimate, error) {
	if s.NeedsConfirmation() {
		return entities.Estimate{}, ErrConfirmationPending
	}

	e := s.Estimate
	e.ProjectName = strings.TrimSpace(e.ProjectName)
	e.Customer.Company = strings.TrimSpace(e.Customer.Company)
	e.Issuer = strings.TrimSpace(e.Issuer)
	e.Items = pricing.NormalizeItems(e.Items, e.UseCoefficient)

	if err := u.validateForSave(e); err != nil {
		return entities.Estimate{}, err
	}

	summary := pricing.Summarize(e)
	e.Revenue = summary.Revenue
	e.Margin = summary.Margin
	e.MarginRatio = summary.MarginRatio
	if !e.Status.HasOrderDate() {
		e.OrderDate = entities.Date{}
	}

	now := u.clock.Now()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now

	s.Estimate = e
	if err := u.workflow.Persist(ctx, s); err != nil {
		return entities.Estimate{}, err
	}
	u.log.Info("estimate saved",
		zap.String("id", s.Estimate.ID),
		zap.Float64("revenue", e.Revenue),
		zap.Int("billable_items", summary.BillableCount))
	return s.Estimate, nil
}

func (u *EstimateUseCase) validateForSave(e entities.Estimate) error {
	if e.Customer.Company == "" {
		return ErrCustomerRequired
	}
	if e.ProjectName == "" {
		return ErrProjectNameRequired
	}
	if e.IssueDate.IsZero() {
		return ErrInvalidIssueDate
	}
	if pricing.BillableCount(e.Items) == 0 {
		return ErrNoBillableItems
	}
	if !e.Status.Valid() {
		return ErrInvalidStatus.WithMessage("invalid estimate status %q", e.Status)
	}
	if err := validateStruct(u.validate, e); err != nil {
		return err
	}
	if !u.settings.IsIssuer(e.Issuer) {
		return ErrInvalidIssuer.WithMessage("issuer %q is not on the roster", e.Issuer)
	}
	return nil
}

func (u *EstimateUseCase) DeleteEstimate(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidEstimateID
	}
	_, found, err := u.store.Get(ctx, entities.RecordKindEstimate, id)
	if err != nil && !isCorrupt(err) {
		return err
	}
	if err == nil && !found {
		return ErrEstimateNotFound.WithMessage("estimate %s not found", id)
	}
	if err := u.store.Delete(ctx, entities.RecordKindEstimate, id); err != nil {
		return err
	}
	u.log.Info("estimate deleted", zap.String("id", id))
	return nil
}

// UpdateStatus moves a stored estimate through its lifecycle. Entering
// ordered without an order date stamps today.
func (u *EstimateUseCase) UpdateStatus(ctx context.Context, id string, status entities.EstimateStatus) (entities.Estimate, error) {
	s, err := u.LoadSession(ctx, id)
	if err != nil {
		return entities.Estimate{}, err
	}
	if err := s.SetStatus(status); err != nil {
		return entities.Estimate{}, err
	}
	if status.HasOrderDate() && s.Estimate.OrderDate.IsZero() {
		s.Estimate.OrderDate = u.today()
	}
	return u.SaveEstimate(ctx, s)
}

// CopyEstimate stores a duplicate of id issued today, back in quoting with
// no order or delivery date.
func (u *EstimateUseCase) CopyEstimate(ctx context.Context, id string) (entities.Estimate, error) {
	src, err := u.LoadEstimate(ctx, id)
	if err != nil {
		return entities.Estimate{}, err
	}

	today := u.today()
	newID, err := u.generator.NextAvailable(ctx, today)
	if err != nil {
		return entities.Estimate{}, err
	}

	cp := src
	cp.ID = newID
	cp.IssueDate = today
	cp.ProjectName = src.ProjectName + copySuffix
	cp.Status = entities.EstimateStatusQuoting
	cp.OrderDate = entities.Date{}
	cp.DeliveryDate = entities.Date{}
	cp.Items = append([]entities.LineItem(nil), src.Items...)
	cp.CreatedAt = u.clock.Now()
	cp.UpdatedAt = cp.CreatedAt

	if cp.Customer.PostalCode == "" && cp.Customer.Address1 == "" && cp.Customer.Address2 == "" && cp.Customer.Address != "" {
		parsed := address.Parse(cp.Customer.Address)
		cp.Customer.PostalCode = parsed.PostalCode
		cp.Customer.Address1 = parsed.Line1
		cp.Customer.Address2 = parsed.Line2
	}

	s := newEditSession(uuid.NewString(), cp, false)
	if err := u.workflow.Persist(ctx, s); err != nil {
		return entities.Estimate{}, err
	}
	u.log.Info("estimate copied", zap.String("from", src.ID), zap.String("to", newID))
	return s.Estimate, nil
}

func (u *EstimateUseCase) Aggregate(e entities.Estimate) pricing.Summary {
	e.Items = pricing.NormalizeItems(e.Items, e.UseCoefficient)
	return pricing.Summarize(e)
}

// FinalizeForExport loads id with recomputed amounts for a document
// exporter. An estimate without billable items cannot be exported.
func (u *EstimateUseCase) FinalizeForExport(ctx context.Context, id string) (entities.ExportBundle, error) {
	e, err := u.LoadEstimate(ctx, id)
	if err != nil {
		return entities.ExportBundle{}, err
	}
	summary := pricing.Summarize(e)
	if summary.BillableCount == 0 {
		return entities.ExportBundle{}, ErrNoBillableItems.WithMessage("estimate %s has no billable line items", e.ID)
	}
	return entities.ExportBundle{
		Estimate:        e,
		Subtotal:        summary.LineItemTotal,
		BillableCount:   summary.BillableCount,
		UsesCoefficient: e.UseCoefficient,
	}, nil
}
