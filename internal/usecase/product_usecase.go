package usecase

import (
	"context"
	"strings"

	"quotedesk/internal/clock"
	"quotedesk/internal/domain/entities"
	"quotedesk/internal/usecase/interfaces"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// MoveDirection is the direction a catalog entry moves in its list.
type MoveDirection int

const (
	MoveUp MoveDirection = iota
	MoveDown
)

type IProductUseCase interface {
	List(ctx context.Context) ([]entities.Product, error)
	Create(ctx context.Context, p entities.Product) (entities.Product, error)
	Update(ctx context.Context, name string, changes entities.Product) (entities.Product, error)
	Delete(ctx context.Context, name string) error
	Move(ctx context.Context, name string, dir MoveDirection) error
}

type ProductUseCase struct {
	catalog  catalog[entities.Product]
	clock    clock.Clock
	validate *validator.Validate
	log      *zap.Logger
}

var _ IProductUseCase = (*ProductUseCase)(nil)

func NewProductUseCase(store interfaces.IRecordStore, clk clock.Clock, log *zap.Logger) *ProductUseCase {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("product")
	return &ProductUseCase{
		catalog:  catalog[entities.Product]{store: store, kind: entities.RecordKindProduct, log: log},
		clock:    clk,
		validate: newValidator(),
		log:      log,
	}
}

// List returns products in their stored order.
func (u *ProductUseCase) List(ctx context.Context) ([]entities.Product, error) {
	return u.catalog.load(ctx)
}

func (u *ProductUseCase) Create(ctx context.Context, p entities.Product) (entities.Product, error) {
	p = cleanProduct(p)
	if err := validateStruct(u.validate, p); err != nil {
		return entities.Product{}, err
	}
	all, err := u.catalog.load(ctx)
	if err != nil {
		return entities.Product{}, err
	}
	if indexOfProduct(all, p.Name) >= 0 {
		return entities.Product{}, ErrProductAlreadyExists.WithMessage("product %q already exists", p.Name)
	}

	today := entities.DateOf(u.clock.Now())
	p.RegisteredAt = today
	p.UpdatedAt = today
	all = append(all, p)
	if err := u.catalog.save(ctx, all); err != nil {
		return entities.Product{}, err
	}
	u.log.Info("product created", zap.String("name", p.Name), zap.Float64("unit_price", p.UnitPrice))
	return p, nil
}

// Update replaces the product called name. A rename must not collide with
// another product.
func (u *ProductUseCase) Update(ctx context.Context, name string, changes entities.Product) (entities.Product, error) {
	changes = cleanProduct(changes)
	if err := validateStruct(u.validate, changes); err != nil {
		return entities.Product{}, err
	}
	all, err := u.catalog.load(ctx)
	if err != nil {
		return entities.Product{}, err
	}
	idx := indexOfProduct(all, name)
	if idx < 0 {
		return entities.Product{}, ErrProductNotFound.WithMessage("product %q not found", strings.TrimSpace(name))
	}
	if other := indexOfProduct(all, changes.Name); other >= 0 && other != idx {
		return entities.Product{}, ErrProductAlreadyExists.WithMessage("product %q already exists", changes.Name)
	}

	changes.RegisteredAt = all[idx].RegisteredAt
	changes.UpdatedAt = entities.DateOf(u.clock.Now())
	all[idx] = changes
	if err := u.catalog.save(ctx, all); err != nil {
		return entities.Product{}, err
	}
	u.log.Info("product updated", zap.String("name", changes.Name))
	return changes, nil
}

func (u *ProductUseCase) Delete(ctx context.Context, name string) error {
	all, err := u.catalog.load(ctx)
	if err != nil {
		return err
	}
	idx := indexOfProduct(all, name)
	if idx < 0 {
		return ErrProductNotFound.WithMessage("product %q not found", strings.TrimSpace(name))
	}
	all = append(all[:idx], all[idx+1:]...)
	if err := u.catalog.save(ctx, all); err != nil {
		return err
	}
	u.log.Info("product deleted", zap.String("name", strings.TrimSpace(name)))
	return nil
}

// Move swaps the product with its neighbour. Moving the first entry up or
// the last entry down is ErrInvalidMove.
func (u *ProductUseCase) Move(ctx context.Context, name string, dir MoveDirection) error {
	all, err := u.catalog.load(ctx)
	if err != nil {
		return err
	}
	idx := indexOfProduct(all, name)
	if idx < 0 {
		return ErrProductNotFound.WithMessage("product %q not found", strings.TrimSpace(name))
	}
	target := idx - 1
	if dir == MoveDown {
		target = idx + 1
	}
	if target < 0 || target >= len(all) {
		return ErrInvalidMove
	}
	all[idx], all[target] = all[target], all[idx]
	return u.catalog.save(ctx, all)
}

func cleanProduct(p entities.Product) entities.Product {
	p.Name = strings.TrimSpace(p.Name)
	p.Unit = strings.TrimSpace(p.Unit)
	p.Note = strings.TrimSpace(p.Note)
	return p
}

func indexOfProduct(all []entities.Product, name string) int {
	name = strings.TrimSpace(name)
	for i, p := range all {
		if p.Name == name {
			return i
		}
	}
	return -1
}
