package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"quotedesk/internal/clock"
	"quotedesk/internal/usecase"
	"quotedesk/internal/usecase/interfaces"

	"go.uber.org/zap"
)

type command struct {
	usage string
	run   func(ctx context.Context, args []string) error
}

// Handler dispatches quotedesk subcommands to the use cases. Results are
// written to out as JSON; diagnostics go to errOut.
type Handler struct {
	estimates usecase.IEstimateUseCase
	customers usecase.ICustomerUseCase
	products  usecase.IProductUseCase
	exporter  interfaces.IEstimateExporter
	clock     clock.Clock
	log       *zap.Logger

	in     io.Reader
	out    io.Writer
	errOut io.Writer

	commands map[string]command
}

func NewHandler(
	estimates usecase.IEstimateUseCase,
	customers usecase.ICustomerUseCase,
	products usecase.IProductUseCase,
	exporter interfaces.IEstimateExporter,
	clk clock.Clock,
	log *zap.Logger,
) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	h := &Handler{
		estimates: estimates,
		customers: customers,
		products:  products,
		exporter:  exporter,
		clock:     clk,
		log:       log.Named("cli"),
		in:        os.Stdin,
		out:       os.Stdout,
		errOut:    os.Stderr,
	}
	h.commands = map[string]command{
		"next-id":      {"next-id [-date YYYY-MM-DD]", h.nextID},
		"list":         {"list [filter flags]", h.list},
		"stats":        {"stats [filter flags]", h.stats},
		"show":         {"show <id>", h.show},
		"import":       {"import [-accept] -file <path|->", h.importEstimate},
		"set-date":     {"set-date [-reject] [-dry-run] <id> <date>", h.setDate},
		"status":       {"status <id> <status>", h.status},
		"copy":         {"copy <id>", h.copyEstimate},
		"delete":       {"delete <id>", h.deleteEstimate},
		"export":       {"export [-o path|-] <id>", h.export},
		"items":        {"items <add|fee|remove|move|up|down|coefficient|languages> [flags] <id> [rows]", h.itemsCmd},
		"set-customer": {"set-customer -company <name> [-department] [-contact] <id>", h.setCustomer},
		"customers":    {"customers <list|add|update|delete|search|estimates> [flags]", h.customersCmd},
		"products":     {"products <list|add|update|delete|up|down> [flags]", h.productsCmd},
	}
	return h
}

// WithIO replaces the handler's standard streams.
func (h *Handler) WithIO(in io.Reader, out, errOut io.Writer) *Handler {
	h.in, h.out, h.errOut = in, out, errOut
	return h
}

// Run executes one subcommand and returns the process exit code.
func (h *Handler) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		h.usage()
		return ExitValidation
	}
	cmd, ok := h.commands[args[0]]
	if !ok {
		if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
			h.usage()
			return ExitOK
		}
		h.reportError(usageError("unknown command %q", args[0]))
		h.usage()
		return ExitValidation
	}

	if err := cmd.run(ctx, args[1:]); err != nil {
		h.log.Debug("command failed", zap.String("command", args[0]), zap.Error(err))
		h.reportError(err)
		return ExitCode(err)
	}
	return ExitOK
}

func (h *Handler) usage() {
	names := make([]string, 0, len(h.commands))
	for name := range h.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(h.errOut, "usage: quotedesk <command> [flags] [args]")
	fmt.Fprintln(h.errOut)
	for _, name := range names {
		fmt.Fprintf(h.errOut, "  %s\n", h.commands[name].usage)
	}
}

func (h *Handler) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(h.errOut)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string, positional int) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		return nil, usageError("%s: %v", fs.Name(), err)
	}
	if fs.NArg() != positional {
		return nil, usageError("%s: expected %d argument(s), got %d", fs.Name(), positional, fs.NArg())
	}
	return fs.Args(), nil
}

func (h *Handler) print(v any) error {
	enc := json.NewEncoder(h.out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
