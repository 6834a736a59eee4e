package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"io"
	"os"
	"strings"

	"quotedesk/internal/adapter/cli/dto/request"
	"quotedesk/internal/adapter/cli/dto/response"
	"quotedesk/internal/domain/entities"
	"quotedesk/internal/usecase"
	"quotedesk/pkg"

	"go.uber.org/zap"
)

func parseDateArg(s string) (entities.Date, error) {
	d, err := entities.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return entities.Date{}, invalidInput(err)
	}
	return d, nil
}

func (h *Handler) today() entities.Date {
	return entities.DateOf(h.clock.Now())
}

func (h *Handler) nextID(ctx context.Context, args []string) error {
	fs := h.flagSet("next-id")
	dateArg := fs.String("date", "", "issue date (default today)")
	if _, err := parseFlags(fs, args, 0); err != nil {
		return err
	}
	date := h.today()
	if *dateArg != "" {
		d, err := parseDateArg(*dateArg)
		if err != nil {
			return err
		}
		date = d
	}
	id, err := h.estimates.ProposeIdentifier(ctx, date)
	if err != nil {
		return err
	}
	return h.print(response.NextIDResponse{Date: date.String(), ID: id})
}

type filterFlags struct {
	fiscalYear *int
	month      *int
	customer   *string
	issuer     *string
	department *string
	statuses   *string
	exclude    *string
	keyword    *string
}

func addFilterFlags(fs *flag.FlagSet) filterFlags {
	return filterFlags{
		fiscalYear: fs.Int("fy", 0, "fiscal year (April start) of the delivery date"),
		month:      fs.Int("month", 0, "delivery month 1-12"),
		customer:   fs.String("customer", "", "customer company"),
		issuer:     fs.String("issuer", "", "issuer name"),
		department: fs.String("department", "", "assigned department"),
		statuses:   fs.String("status", "", "comma separated statuses to include"),
		exclude:    fs.String("exclude", "", "comma separated statuses to exclude"),
		keyword:    fs.String("keyword", "", "substring of the project name"),
	}
}

func parseStatuses(csv string) ([]entities.EstimateStatus, error) {
	var out []entities.EstimateStatus
	for _, part := range strings.Split(csv, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		st, ok := entities.ParseEstimateStatus(part)
		if !ok {
			return nil, usecase.ErrInvalidStatus.WithMessage("unknown status %q", part)
		}
		out = append(out, st)
	}
	return out, nil
}

func (f filterFlags) toFilter() (usecase.EstimateFilter, error) {
	if *f.month < 0 || *f.month > 12 {
		return usecase.EstimateFilter{}, usageError("month must be between 1 and 12")
	}
	include, err := parseStatuses(*f.statuses)
	if err != nil {
		return usecase.EstimateFilter{}, err
	}
	exclude, err := parseStatuses(*f.exclude)
	if err != nil {
		return usecase.EstimateFilter{}, err
	}
	return usecase.EstimateFilter{
		FiscalYear:      *f.fiscalYear,
		Month:           *f.month,
		Customer:        strings.TrimSpace(*f.customer),
		Issuer:          strings.TrimSpace(*f.issuer),
		Department:      strings.TrimSpace(*f.department),
		Statuses:        include,
		ExcludeStatuses: exclude,
		Keyword:         strings.TrimSpace(*f.keyword),
	}, nil
}

func (h *Handler) list(ctx context.Context, args []string) error {
	fs := h.flagSet("list")
	ff := addFilterFlags(fs)
	if _, err := parseFlags(fs, args, 0); err != nil {
		return err
	}
	filter, err := ff.toFilter()
	if err != nil {
		return err
	}
	rows, err := h.estimates.ListEstimates(ctx, filter)
	if err != nil {
		return err
	}
	if rows == nil {
		rows = []usecase.EstimateSummary{}
	}
	return h.print(rows)
}

func (h *Handler) stats(ctx context.Context, args []string) error {
	fs := h.flagSet("stats")
	ff := addFilterFlags(fs)
	if _, err := parseFlags(fs, args, 0); err != nil {
		return err
	}
	filter, err := ff.toFilter()
	if err != nil {
		return err
	}
	st, err := h.estimates.Statistics(ctx, filter)
	if err != nil {
		return err
	}
	return h.print(st)
}

func (h *Handler) printEstimate(e entities.Estimate) error {
	return h.print(response.FromEstimate(e, h.estimates.Aggregate(e)))
}

func (h *Handler) show(ctx context.Context, args []string) error {
	rest, err := parseFlags(h.flagSet("show"), args, 1)
	if err != nil {
		return err
	}
	e, err := h.estimates.LoadEstimate(ctx, rest[0])
	if err != nil {
		return err
	}
	return h.printEstimate(e)
}

// importEstimate saves a JSON payload as a new estimate, or over the stored
// one when the payload carries a known id. Moving a stored estimate to
// another day needs -accept.
func (h *Handler) importEstimate(ctx context.Context, args []string) error {
	fs := h.flagSet("import")
	file := fs.String("file", "", "payload path, or - for stdin")
	accept := fs.Bool("accept", false, "accept an identifier change caused by the issue date")
	if _, err := parseFlags(fs, args, 0); err != nil {
		return err
	}
	if *file == "" {
		return usageError("import: -file is required")
	}

	req, err := h.readRequest(*file)
	if err != nil {
		return err
	}
	issueDate, err := req.ResolveIssueDate()
	if err != nil {
		return invalidInput(err)
	}

	var s *usecase.EditSession
	if id := req.ResolveID(); id != "" {
		s, err = h.estimates.LoadSession(ctx, id)
		switch {
		case errors.Is(err, usecase.ErrEstimateNotFound):
			h.log.Info("imported id not stored, assigning a new one", zap.String("id", id))
			s = nil
		case err != nil:
			return err
		}
	}

	if s == nil {
		if s, err = h.estimates.NewSession(ctx, issueDate); err != nil {
			return err
		}
	} else if !issueDate.IsZero() {
		if err := h.estimates.ChangeIssueDate(ctx, s, issueDate); err != nil {
			return err
		}
		if s.NeedsConfirmation() {
			if !*accept {
				change, _ := s.Change()
				return usecase.ErrConfirmationPending.WithMessage("issue date moves %s to %s; rerun with -accept", change.OldID, change.NewID)
			}
			if err := s.Accept(); err != nil {
				return err
			}
		}
	}

	if err := req.Apply(&s.Estimate); err != nil {
		return invalidInput(err)
	}
	h.estimates.SetItems(s, req.Items)

	saved, err := h.estimates.SaveEstimate(ctx, s)
	if err != nil {
		return err
	}
	return h.printEstimate(saved)
}

func (h *Handler) readRequest(path string) (request.EstimateRequest, error) {
	var r io.Reader = h.in
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return request.EstimateRequest{}, pkg.IOError("open "+path, err)
		}
		defer f.Close()
		r = f
	}
	var req request.EstimateRequest
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		return request.EstimateRequest{}, invalidInput(err)
	}
	return req, nil
}

func (h *Handler) setDate(ctx context.Context, args []string) error {
	fs := h.flagSet("set-date")
	reject := fs.Bool("reject", false, "keep the current identifier and date")
	dryRun := fs.Bool("dry-run", false, "show the proposal without saving")
	rest, err := parseFlags(fs, args, 2)
	if err != nil {
		return err
	}
	date, err := parseDateArg(rest[1])
	if err != nil {
		return err
	}

	s, err := h.estimates.LoadSession(ctx, rest[0])
	if err != nil {
		return err
	}
	if err := h.estimates.ChangeIssueDate(ctx, s, date); err != nil {
		return err
	}

	res := response.IdentifierChangeResponse{ID: s.Estimate.ID, Phase: string(s.Phase())}
	if change, ok := s.Change(); ok {
		res.OldID, res.NewID = change.OldID, change.NewID
		res.OldDate, res.NewDate = change.OldDate.String(), change.NewDate.String()
	}
	if *dryRun {
		return h.print(res)
	}

	if s.NeedsConfirmation() {
		if *reject {
			err = s.Reject()
		} else {
			err = s.Accept()
			res.Confirmed = true
		}
		if err != nil {
			return err
		}
	}

	saved, err := h.estimates.SaveEstimate(ctx, s)
	if err != nil {
		return err
	}
	res.ID = saved.ID
	res.Phase = string(s.Phase())
	res.Saved = true
	return h.print(res)
}

func (h *Handler) status(ctx context.Context, args []string) error {
	rest, err := parseFlags(h.flagSet("status"), args, 2)
	if err != nil {
		return err
	}
	st, ok := entities.ParseEstimateStatus(strings.TrimSpace(rest[1]))
	if !ok {
		return usecase.ErrInvalidStatus.WithMessage("unknown status %q", rest[1])
	}
	e, err := h.estimates.UpdateStatus(ctx, rest[0], st)
	if err != nil {
		return err
	}
	return h.printEstimate(e)
}

func (h *Handler) copyEstimate(ctx context.Context, args []string) error {
	rest, err := parseFlags(h.flagSet("copy"), args, 1)
	if err != nil {
		return err
	}
	e, err := h.estimates.CopyEstimate(ctx, rest[0])
	if err != nil {
		return err
	}
	return h.printEstimate(e)
}

func (h *Handler) deleteEstimate(ctx context.Context, args []string) error {
	rest, err := parseFlags(h.flagSet("delete"), args, 1)
	if err != nil {
		return err
	}
	if err := h.estimates.DeleteEstimate(ctx, rest[0]); err != nil {
		return err
	}
	return h.print(map[string]string{"deleted": strings.TrimSpace(rest[0])})
}

func (h *Handler) export(ctx context.Context, args []string) error {
	fs := h.flagSet("export")
	output := fs.String("o", "", "output path, - for stdout (default: generated file name)")
	rest, err := parseFlags(fs, args, 1)
	if err != nil {
		return err
	}

	bundle, err := h.estimates.FinalizeForExport(ctx, rest[0])
	if err != nil {
		return err
	}
	if *output == "-" {
		return h.exporter.Export(ctx, bundle, h.out)
	}

	path := *output
	if path == "" {
		path = h.exporter.FileName(bundle)
	}
	f, err := os.Create(path)
	if err != nil {
		return pkg.IOError("create "+path, err)
	}
	if err := h.exporter.Export(ctx, bundle, f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return pkg.IOError("close "+path, err)
	}
	return h.print(map[string]string{"id": bundle.Estimate.ID, "file": path})
}
