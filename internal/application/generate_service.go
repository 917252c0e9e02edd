package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/invoicer/invoicer/internal/domain"
)

// GenerateOptions narrows a generation run.
type GenerateOptions struct {
	// Recreate regenerates invoices whose file already exists.
	Recreate bool
	// Month restricts the run to one month. Zero means every planned month.
	Month domain.Month
	// Until ends the plan. Zero means the current month.
	Until domain.Month
	// Kinds overrides the kinds enabled in the config.
	Kinds []domain.Kind
}

// GenerateService plans, prices, renders and writes invoices, one period at a
// time, recording an outcome for each.
type GenerateService struct {
	cfg      domain.Config
	planner  *PlanService
	builder  *Builder
	renderer domain.InvoiceRenderer
	store    domain.OutputStore
	logger   *zap.Logger
	revision string
}

// NewGenerateService creates a GenerateService with all required dependencies.
func NewGenerateService(
	cfg domain.Config,
	planner *PlanService,
	builder *Builder,
	renderer domain.InvoiceRenderer,
	store domain.OutputStore,
	logger *zap.Logger,
) *GenerateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GenerateService{
		cfg: cfg, planner: planner, builder: builder,
		renderer: renderer, store: store, logger: logger,
	}
}

// WithConfigRevision stamps rev on every invoice and report the service
// produces.
func (s *GenerateService) WithConfigRevision(rev string) *GenerateService {
	s.revision = rev
	return s
}

// Run generates every requested invoice. A failure on one period is recorded
// in the report and does not stop the others; the returned error is reserved
// for planning problems and cancellation, and comes with the outcomes recorded
// so far.
func (s *GenerateService) Run(ctx context.Context, opts GenerateOptions) (*domain.RunReport, error) {
	recreate := s.cfg.Recreate || opts.Recreate
	kinds := opts.Kinds
	if len(kinds) == 0 {
		kinds = s.cfg.EnabledKinds()
	}

	report := &domain.RunReport{ConfigRevision: s.revision}
	s.builder.BeginRun()
	if err := s.checkMonth(kinds, opts.Month); err != nil {
		return report, err
	}
	for _, kind := range kinds {
		periods, err := s.periods(kind, opts)
		if err != nil {
			return report, fmt.Errorf("planning %s invoices: %w", kind, err)
		}
		if len(periods) == 0 {
			s.logger.Info("no billing periods yet", zap.String("kind", string(kind)))
			continue
		}

		for _, p := range periods {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			report.Add(s.generate(ctx, kind, p, recreate))
		}
	}

	s.logger.Info("run finished",
		zap.Int("generated", report.Count(domain.StatusGenerated)),
		zap.Int("skipped", report.Count(domain.StatusSkipped)),
		zap.Int("failed", report.Count(domain.StatusFailed)))

	return report, nil
}

// checkMonth rejects a single month that precedes the start of every
// requested series. A series that starts later than month is skipped.
func (s *GenerateService) checkMonth(kinds []domain.Kind, month domain.Month) error {
	if month.IsZero() || len(kinds) == 0 {
		return nil
	}
	var first error
	for _, kind := range kinds {
		_, err := s.planner.Period(kind, month)
		if err == nil {
			return nil
		}
		if first == nil {
			first = fmt.Errorf("planning %s invoices: %w", kind, err)
		}
	}
	return first
}

func (s *GenerateService) periods(kind domain.Kind, opts GenerateOptions) ([]domain.BillingPeriod, error) {
	if !opts.Month.IsZero() {
		if opts.Month.Before(s.cfg.StartFor(kind)) {
			return nil, nil
		}
		p, err := s.planner.Period(kind, opts.Month)
		if err != nil {
			return nil, err
		}
		return []domain.BillingPeriod{p}, nil
	}
	return s.planner.Plan(kind, opts.Until)
}

func (s *GenerateService) generate(ctx context.Context, kind domain.Kind, p domain.BillingPeriod, recreate bool) domain.Outcome {
	out := domain.Outcome{Kind: kind, Period: p, Path: s.store.Path(kind, p)}
	log := s.logger.With(
		zap.String("kind", string(kind)),
		zap.Int("invoice", p.Sequence),
		zap.String("month", p.Month.String()))

	exists, err := s.store.Exists(kind, p)
	if err != nil {
		return s.fail(log, out, fmt.Errorf("checking %s: %w", out.Path, err))
	}
	if exists && !recreate {
		log.Debug("invoice exists, skipping", zap.String("path", out.Path))
		out.Status = domain.StatusSkipped
		out.Err = &domain.OutputExistsError{Path: out.Path}
		return out
	}

	inv, err := s.builder.Build(ctx, kind, p, s.cfg.USDAmountFor(kind), recreate)
	if err != nil {
		return s.fail(log, out, err)
	}
	if !s.planner.Issued(p) {
		log.Warn("invoice priced before its issue date; later runs keep these rates unless recreated",
			zap.String("issue_date", p.IssueDate.Format(domain.DateLayout)))
	}
	inv.ConfigRevision = s.revision
	out.Invoice = inv

	data, err := s.renderer.Render(inv)
	if err != nil {
		return s.fail(log, out, fmt.Errorf("rendering: %w", err))
	}

	path, err := s.store.Write(kind, p, data)
	if err != nil {
		return s.fail(log, out, fmt.Errorf("writing: %w", err))
	}

	log.Info("invoice written", zap.String("path", path))
	out.Path = path
	out.Status = domain.StatusGenerated
	return out
}

func (s *GenerateService) fail(log *zap.Logger, out domain.Outcome, err error) domain.Outcome {
	log.Error("invoice failed", zap.Error(err))
	out.Status = domain.StatusFailed
	out.Err = err
	return out
}
