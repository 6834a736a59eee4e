package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"quotedesk/internal/domain/pricing"
	"quotedesk/internal/usecase"
)

// parsePosition reads a 1-based row number as shown to the user.
func parsePosition(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, invalidInput(fmt.Errorf("position %q is not a number", s))
	}
	return n - 1, nil
}

// editSession loads a stored estimate, applies edit and saves the result.
func (h *Handler) editSession(ctx context.Context, id string, edit func(s *usecase.EditSession) error) error {
	s, err := h.estimates.LoadSession(ctx, id)
	if err != nil {
		return err
	}
	if err := edit(s); err != nil {
		return err
	}
	saved, err := h.estimates.SaveEstimate(ctx, s)
	if err != nil {
		return err
	}
	return h.printEstimate(saved)
}

func (h *Handler) itemsCmd(ctx context.Context, args []string) error {
	sub, rest, err := subcommand(args, "items")
	if err != nil {
		return err
	}
	switch sub {
	case "add":
		return h.addItem(ctx, rest)

	case "fee":
		fs := h.flagSet("items fee")
		pos := fs.Int("pos", 0, "row to insert at (default: append)")
		label := fs.String("label", "管理費", "fee label")
		percent := fs.Float64("percent", 10, "percentage of the rows above")
		args, err := parseFlags(fs, rest, 1)
		if err != nil {
			return err
		}
		if *percent <= 0 {
			return invalidInput(fmt.Errorf("percent must be positive, got %v", *percent))
		}
		fee := pricing.FeeLine(strings.TrimSpace(*label), *percent)
		return h.editSession(ctx, args[0], func(s *usecase.EditSession) error {
			if *pos == 0 {
				s.AppendItem(fee)
				return nil
			}
			return s.InsertItem(*pos-1, fee)
		})

	case "remove", "up", "down":
		args, err := parseFlags(h.flagSet("items "+sub), rest, 2)
		if err != nil {
			return err
		}
		pos, err := parsePosition(args[1])
		if err != nil {
			return err
		}
		return h.editSession(ctx, args[0], func(s *usecase.EditSession) error {
			switch sub {
			case "remove":
				return s.RemoveItem(pos)
			case "up":
				return s.MoveItem(pos, pos-1)
			default:
				return s.MoveItem(pos, pos+1)
			}
		})

	case "move":
		args, err := parseFlags(h.flagSet("items move"), rest, 3)
		if err != nil {
			return err
		}
		from, err := parsePosition(args[1])
		if err != nil {
			return err
		}
		to, err := parsePosition(args[2])
		if err != nil {
			return err
		}
		return h.editSession(ctx, args[0], func(s *usecase.EditSession) error {
			return s.MoveItem(from, to)
		})

	case "languages":
		args, err := parseFlags(h.flagSet("items languages"), rest, 1)
		if err != nil {
			return err
		}
		return h.print(languageOptions(args[0]))

	case "coefficient":
		args, err := parseFlags(h.flagSet("items coefficient"), rest, 2)
		if err != nil {
			return err
		}
		var on bool
		switch strings.ToLower(strings.TrimSpace(args[1])) {
		case "on":
			on = true
		case "off":
		default:
			return usageError("items coefficient: expected on or off, got %q", args[1])
		}
		return h.editSession(ctx, args[0], func(s *usecase.EditSession) error {
			s.SetUseCoefficient(on)
			return nil
		})
	}
	return usageError("items: unknown subcommand %q", sub)
}

type languageOptionsResponse struct {
	Name     string   `json:"name"`
	Kind     string   `json:"kind"`
	Base     string   `json:"base"`
	Language string   `json:"language,omitempty"`
	Options  []string `json:"options"`
}

// languageOptions tells which language annotations a product name accepts.
func languageOptions(name string) languageOptionsResponse {
	base, lang := pricing.SplitLanguage(strings.TrimSpace(name))
	res := languageOptionsResponse{Name: name, Kind: "none", Base: base, Language: lang, Options: []string{}}
	switch pricing.LanguageKindOf(base) {
	case pricing.LanguagePair:
		res.Kind, res.Options = "pair", pricing.LanguagePairs
	case pricing.LanguageSingle:
		res.Kind, res.Options = "single", pricing.SingleLanguages
	}
	return res
}

// addItem inserts a billable row or a category header. With -product the
// row starts from the catalog entry and explicit flags override it.
func (h *Handler) addItem(ctx context.Context, rest []string) error {
	fs := h.flagSet("items add")
	pos := fs.Int("pos", 0, "row to insert at (default: append)")
	product := fs.String("product", "", "start from a catalog product")
	category := fs.Bool("category", false, "add a category header instead of a billable row")
	name := fs.String("name", "", "item name")
	qty := fs.Int("qty", 1, "quantity")
	price := fs.Float64("price", 0, "unit price")
	coefficient := fs.Float64("coefficient", 1, "coefficient")
	unit := fs.String("unit", "", "unit")
	note := fs.String("note", "", "note")
	department := fs.String("department", "", "department credited with the amount")
	language := fs.String("language", "", "language or language pair for translation products")
	args, err := parseFlags(fs, rest, 1)
	if err != nil {
		return err
	}

	raw := pricing.RawLineItem{
		pricing.FieldName:        *name,
		pricing.FieldQuantity:    *qty,
		pricing.FieldUnitPrice:   *price,
		pricing.FieldCoefficient: *coefficient,
		pricing.FieldUnit:        *unit,
		pricing.FieldNote:        *note,
		pricing.FieldDepartment:  *department,
	}
	if *category {
		raw = pricing.RawLineItem{pricing.FieldIsCategory: true, pricing.FieldName: *name}
	} else if *product != "" {
		p, err := h.findProduct(ctx, *product)
		if err != nil {
			return err
		}
		set := visited(fs)
		if !set["name"] {
			raw[pricing.FieldName] = p.Name
		}
		if !set["price"] {
			raw[pricing.FieldUnitPrice] = p.UnitPrice
		}
		if !set["unit"] {
			raw[pricing.FieldUnit] = p.Unit
		}
		if !set["note"] {
			raw[pricing.FieldNote] = p.Note
		}
	}
	itemName := strings.TrimSpace(fmt.Sprint(raw[pricing.FieldName]))
	if itemName == "" {
		return invalidInput(fmt.Errorf("item name is required"))
	}
	if *language != "" {
		if *category || pricing.LanguageKindOf(itemName) == pricing.LanguageNone {
			return invalidInput(fmt.Errorf("%q does not take a language", itemName))
		}
		raw[pricing.FieldName] = pricing.WithLanguage(itemName, *language)
	}

	item := h.estimates.NewLineItem(raw)
	return h.editSession(ctx, args[0], func(s *usecase.EditSession) error {
		if *pos == 0 {
			s.AppendItem(item)
			return nil
		}
		return s.InsertItem(*pos-1, item)
	})
}

// setCustomer copies a catalog customer into a stored estimate.
func (h *Handler) setCustomer(ctx context.Context, args []string) error {
	fs := h.flagSet("set-customer")
	cf := addCustomerFlags(fs, "")
	rest, err := parseFlags(fs, args, 1)
	if err != nil {
		return err
	}
	c, err := h.findCustomer(ctx, cf.command().Key())
	if err != nil {
		return err
	}
	return h.editSession(ctx, rest[0], func(s *usecase.EditSession) error {
		s.SetCustomer(c)
		return nil
	})
}
