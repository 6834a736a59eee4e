package usecase

import (
	"context"
	"sort"
	"strings"

	"quotedesk/internal/clock"
	"quotedesk/internal/domain/entities"
	"quotedesk/internal/usecase/interfaces"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type ICustomerUseCase interface {
	List(ctx context.Context) ([]entities.Customer, error)
	Create(ctx context.Context, c entities.Customer) (entities.Customer, error)
	Update(ctx context.Context, key entities.CustomerKey, changes entities.Customer, applyAddressToCompany bool) (entities.Customer, error)
	Delete(ctx context.Context, key entities.CustomerKey) error
	Search(ctx context.Context, query string) ([]entities.Customer, error)
}

type CustomerUseCase struct {
	catalog  catalog[entities.Customer]
	clock    clock.Clock
	validate *validator.Validate
	log      *zap.Logger
}

var _ ICustomerUseCase = (*CustomerUseCase)(nil)

func NewCustomerUseCase(store interfaces.IRecordStore, clk clock.Clock, log *zap.Logger) *CustomerUseCase {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("customer")
	return &CustomerUseCase{
		catalog:  catalog[entities.Customer]{store: store, kind: entities.RecordKindCustomer, log: log},
		clock:    clk,
		validate: newValidator(),
		log:      log,
	}
}

// List returns customers ordered by number, company and contact.
func (u *CustomerUseCase) List(ctx context.Context) ([]entities.Customer, error) {
	all, err := u.catalog.load(ctx)
	if err != nil {
		return nil, err
	}
	sortCustomers(all)
	return all, nil
}

func sortCustomers(cs []entities.Customer) {
	sort.SliceStable(cs, func(i, j int) bool {
		a, b := cs[i], cs[j]
		if a.Number != b.Number {
			return a.Number < b.Number
		}
		if a.Company != b.Company {
			return a.Company < b.Company
		}
		return a.Contact < b.Contact
	})
}

// Create registers a customer. Contacts of an existing company share its
// number; a new company is numbered after the companies already known.
func (u *CustomerUseCase) Create(ctx context.Context, c entities.Customer) (entities.Customer, error) {
	c = cleanCustomer(c)
	if err := validateStruct(u.validate, c); err != nil {
		return entities.Customer{}, err
	}

	all, err := u.catalog.load(ctx)
	if err != nil {
		return entities.Customer{}, err
	}
	if indexOfCustomer(all, c.Key()) >= 0 {
		return entities.Customer{}, ErrCustomerAlreadyExists.WithMessage("customer %s / %s / %s already exists", c.Company, c.Department, c.Contact)
	}

	c.Number = companyNumber(all, c.Company, -1)
	today := entities.DateOf(u.clock.Now())
	c.RegisteredAt = today
	c.UpdatedAt = today

	all = append(all, c)
	if err := u.catalog.save(ctx, all); err != nil {
		return entities.Customer{}, err
	}
	u.log.Info("customer created", zap.String("company", c.Company), zap.String("contact", c.Contact), zap.Int("number", c.Number))
	return c, nil
}

// Update replaces the customer identified by key. When applyAddressToCompany
// is set, every other contact of the same company receives the new address.
func (u *CustomerUseCase) Update(ctx context.Context, key entities.CustomerKey, changes entities.Customer, applyAddressToCompany bool) (entities.Customer, error) {
	changes = cleanCustomer(changes)
	if err := validateStruct(u.validate, changes); err != nil {
		return entities.Customer{}, err
	}

	all, err := u.catalog.load(ctx)
	if err != nil {
		return entities.Customer{}, err
	}
	idx := indexOfCustomer(all, key)
	if idx < 0 {
		return entities.Customer{}, ErrCustomerNotFound
	}
	if other := indexOfCustomer(all, changes.Key()); other >= 0 && other != idx {
		return entities.Customer{}, ErrCustomerAlreadyExists.WithMessage("customer %s / %s / %s already exists", changes.Company, changes.Department, changes.Contact)
	}

	prev := all[idx]
	changes.RegisteredAt = prev.RegisteredAt
	changes.Number = prev.Number
	if changes.Company != prev.Company {
		changes.Number = companyNumber(all, changes.Company, idx)
	}
	today := entities.DateOf(u.clock.Now())
	changes.UpdatedAt = today
	all[idx] = changes

	if applyAddressToCompany {
		for i := range all {
			if i == idx || all[i].Company != changes.Company {
				continue
			}
			all[i].PostalCode = changes.PostalCode
			all[i].Address1 = changes.Address1
			all[i].Address2 = changes.Address2
			all[i].Address = changes.Address
			all[i].UpdatedAt = today
		}
	}

	if err := u.catalog.save(ctx, all); err != nil {
		return entities.Customer{}, err
	}
	u.log.Info("customer updated", zap.String("company", changes.Company), zap.String("contact", changes.Contact), zap.Bool("company_address", applyAddressToCompany))
	return changes, nil
}

func (u *CustomerUseCase) Delete(ctx context.Context, key entities.CustomerKey) error {
	all, err := u.catalog.load(ctx)
	if err != nil {
		return err
	}
	idx := indexOfCustomer(all, trimKey(key))
	if idx < 0 {
		return ErrCustomerNotFound
	}
	all = append(all[:idx], all[idx+1:]...)
	if err := u.catalog.save(ctx, all); err != nil {
		return err
	}
	u.log.Info("customer deleted", zap.String("company", key.Company), zap.String("contact", key.Contact))
	return nil
}

// Search matches query against company and contact with all whitespace
// removed from both sides. An empty query returns everything.
func (u *CustomerUseCase) Search(ctx context.Context, query string) ([]entities.Customer, error) {
	all, err := u.List(ctx)
	if err != nil {
		return nil, err
	}
	q := stripSpaces(query)
	if q == "" {
		return all, nil
	}
	var out []entities.Customer
	for _, c := range all {
		if strings.Contains(stripSpaces(c.Company+c.Contact), q) {
			out = append(out, c)
		}
	}
	return out, nil
}

// cleanCustomer trims input, turns full-width spaces in the contact name
// into ASCII ones and refreshes the legacy single-line address.
func cleanCustomer(c entities.Customer) entities.Customer {
	c.Company = strings.TrimSpace(c.Company)
	c.Department = strings.TrimSpace(c.Department)
	c.Contact = strings.TrimSpace(strings.ReplaceAll(c.Contact, "　", " "))
	c.PostalCode = strings.TrimSpace(c.PostalCode)
	c.Address1 = strings.TrimSpace(c.Address1)
	c.Address2 = strings.TrimSpace(c.Address2)
	c.Address = strings.TrimSpace(c.Address)
	if c.HasStructuredAddress() {
		c.Address = entities.ComposeAddress(c.PostalCode, c.Address1, c.Address2)
	}
	return c
}

func trimKey(k entities.CustomerKey) entities.CustomerKey {
	return entities.CustomerKey{
		Company:    strings.TrimSpace(k.Company),
		Department: strings.TrimSpace(k.Department),
		Contact:    strings.TrimSpace(strings.ReplaceAll(k.Contact, "　", " ")),
	}
}

func indexOfCustomer(all []entities.Customer, key entities.CustomerKey) int {
	key = trimKey(key)
	for i, c := range all {
		if c.Key() == key {
			return i
		}
	}
	return -1
}

// companyNumber returns the number shared by company's contacts, ignoring the
// entry at skip. A company not yet listed gets the count of distinct
// companies plus one, moved past the highest number if that one is taken.
func companyNumber(all []entities.Customer, company string, skip int) int {
	companies := map[string]int{}
	used := map[int]bool{}
	maxNumber := 0
	for i, c := range all {
		if i == skip {
			continue
		}
		if _, ok := companies[c.Company]; !ok {
			companies[c.Company] = c.Number
		}
		used[c.Number] = true
		if c.Number > maxNumber {
			maxNumber = c.Number
		}
	}
	if n, ok := companies[company]; ok {
		return n
	}
	n := len(companies) + 1
	if used[n] {
		n = maxNumber + 1
	}
	return n
}
