package cli

import (
	"context"
	"flag"
	"strings"

	"quotedesk/internal/adapter/cli/dto/request"
	"quotedesk/internal/domain/entities"
	"quotedesk/internal/usecase"
)

func subcommand(args []string, name string) (string, []string, error) {
	if len(args) == 0 {
		return "", nil, usageError("%s: missing subcommand", name)
	}
	return args[0], args[1:], nil
}

// visited reports which flags were set explicitly.
func visited(fs *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

type customerFlags struct {
	company, department, contact, postal, address1, address2 *string
}

func addCustomerFlags(fs *flag.FlagSet, prefix string) customerFlags {
	return customerFlags{
		company:    fs.String(prefix+"company", "", "company name"),
		department: fs.String(prefix+"department", "", "department"),
		contact:    fs.String(prefix+"contact", "", "contact person"),
		postal:     fs.String(prefix+"postal", "", "postal code"),
		address1:   fs.String(prefix+"address1", "", "address line 1"),
		address2:   fs.String(prefix+"address2", "", "address line 2 (building, floor)"),
	}
}

func (f customerFlags) command() request.CustomerCommand {
	return request.CustomerCommand{
		Company:    *f.company,
		Department: *f.department,
		Contact:    *f.contact,
		PostalCode: *f.postal,
		Address1:   *f.address1,
		Address2:   *f.address2,
	}
}

func (h *Handler) customersCmd(ctx context.Context, args []string) error {
	sub, rest, err := subcommand(args, "customers")
	if err != nil {
		return err
	}
	switch sub {
	case "list":
		if _, err := parseFlags(h.flagSet("customers list"), rest, 0); err != nil {
			return err
		}
		list, err := h.customers.List(ctx)
		if err != nil {
			return err
		}
		return h.print(nonNil(list))

	case "add":
		fs := h.flagSet("customers add")
		cf := addCustomerFlags(fs, "")
		if _, err := parseFlags(fs, rest, 0); err != nil {
			return err
		}
		c, err := h.customers.Create(ctx, cf.command().ToEntity())
		if err != nil {
			return err
		}
		return h.print(c)

	case "update":
		fs := h.flagSet("customers update")
		key := addCustomerFlags(fs, "key-")
		cf := addCustomerFlags(fs, "")
		companyWide := fs.Bool("company-address", false, "apply the address to every contact of the company")
		if _, err := parseFlags(fs, rest, 0); err != nil {
			return err
		}
		return h.updateCustomer(ctx, key.command().Key(), cf, visited(fs), *companyWide)

	case "delete":
		fs := h.flagSet("customers delete")
		cf := addCustomerFlags(fs, "")
		if _, err := parseFlags(fs, rest, 0); err != nil {
			return err
		}
		key := cf.command().Key()
		if err := h.customers.Delete(ctx, key); err != nil {
			return err
		}
		return h.print(map[string]string{"deleted": key.Company + " / " + key.Contact})

	case "search":
		fs := h.flagSet("customers search")
		args, err := parseFlags(fs, rest, 1)
		if err != nil {
			return err
		}
		list, err := h.customers.Search(ctx, args[0])
		if err != nil {
			return err
		}
		return h.print(nonNil(list))

	case "estimates":
		fs := h.flagSet("customers estimates")
		company := fs.String("company", "", "company name")
		contact := fs.String("contact", "", "contact person")
		if _, err := parseFlags(fs, rest, 0); err != nil {
			return err
		}
		rows, err := h.estimates.EstimatesForCustomer(ctx, *company, *contact)
		if err != nil {
			return err
		}
		return h.print(nonNil(rows))
	}
	return usageError("customers: unknown subcommand %q", sub)
}

// updateCustomer starts from the stored customer and overrides only the
// fields given on the command line.
func (h *Handler) updateCustomer(ctx context.Context, key entities.CustomerKey, cf customerFlags, set map[string]bool, companyWide bool) error {
	changes, err := h.findCustomer(ctx, key)
	if err != nil {
		return err
	}

	overrides := map[string]*string{
		"company":    &changes.Company,
		"department": &changes.Department,
		"contact":    &changes.Contact,
		"postal":     &changes.PostalCode,
		"address1":   &changes.Address1,
		"address2":   &changes.Address2,
	}
	values := map[string]*string{
		"company":    cf.company,
		"department": cf.department,
		"contact":    cf.contact,
		"postal":     cf.postal,
		"address1":   cf.address1,
		"address2":   cf.address2,
	}
	for name, dst := range overrides {
		if set[name] {
			*dst = *values[name]
		}
	}

	updated, err := h.customers.Update(ctx, key, changes, companyWide)
	if err != nil {
		return err
	}
	return h.print(updated)
}

func (h *Handler) findCustomer(ctx context.Context, key entities.CustomerKey) (entities.Customer, error) {
	list, err := h.customers.List(ctx)
	if err != nil {
		return entities.Customer{}, err
	}
	for _, c := range list {
		k := c.Key()
		if k.Company == strings.TrimSpace(key.Company) && k.Department == strings.TrimSpace(key.Department) && k.Contact == strings.TrimSpace(key.Contact) {
			return c, nil
		}
	}
	return entities.Customer{}, usecase.ErrCustomerNotFound
}

func (h *Handler) findProduct(ctx context.Context, name string) (entities.Product, error) {
	list, err := h.products.List(ctx)
	if err != nil {
		return entities.Product{}, err
	}
	for _, p := range list {
		if p.Name == strings.TrimSpace(name) {
			return p, nil
		}
	}
	return entities.Product{}, usecase.ErrProductNotFound.WithMessage("product %q not found", name)
}

func (h *Handler) productsCmd(ctx context.Context, args []string) error {
	sub, rest, err := subcommand(args, "products")
	if err != nil {
		return err
	}
	switch sub {
	case "list":
		if _, err := parseFlags(h.flagSet("products list"), rest, 0); err != nil {
			return err
		}
		list, err := h.products.List(ctx)
		if err != nil {
			return err
		}
		return h.print(nonNil(list))

	case "add":
		fs := h.flagSet("products add")
		name := fs.String("name", "", "product name")
		unit := fs.String("unit", "", "unit")
		price := fs.Float64("price", 0, "unit price, negative for discounts")
		note := fs.String("note", "", "note")
		if _, err := parseFlags(fs, rest, 0); err != nil {
			return err
		}
		p, err := h.products.Create(ctx, entities.Product{Name: *name, Unit: *unit, UnitPrice: *price, Note: *note})
		if err != nil {
			return err
		}
		return h.print(p)

	case "update":
		fs := h.flagSet("products update")
		name := fs.String("name", "", "current product name")
		newName := fs.String("new-name", "", "new product name")
		unit := fs.String("unit", "", "unit")
		price := fs.Float64("price", 0, "unit price")
		note := fs.String("note", "", "note")
		if _, err := parseFlags(fs, rest, 0); err != nil {
			return err
		}
		current, err := h.findProduct(ctx, *name)
		if err != nil {
			return err
		}
		changes := &current
		set := visited(fs)
		if set["new-name"] {
			changes.Name = *newName
		}
		if set["unit"] {
			changes.Unit = *unit
		}
		if set["price"] {
			changes.UnitPrice = *price
		}
		if set["note"] {
			changes.Note = *note
		}
		p, err := h.products.Update(ctx, *name, *changes)
		if err != nil {
			return err
		}
		return h.print(p)

	case "delete", "up", "down":
		fs := h.flagSet("products " + sub)
		name := fs.String("name", "", "product name")
		if _, err := parseFlags(fs, rest, 0); err != nil {
			return err
		}
		switch sub {
		case "delete":
			err = h.products.Delete(ctx, *name)
		case "up":
			err = h.products.Move(ctx, *name, usecase.MoveUp)
		default:
			err = h.products.Move(ctx, *name, usecase.MoveDown)
		}
		if err != nil {
			return err
		}
		return h.print(map[string]string{sub: strings.TrimSpace(*name)})
	}
	return usageError("products: unknown subcommand %q", sub)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
