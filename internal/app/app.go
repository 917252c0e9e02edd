// Package app wires the invoicer services from a config file. The CLI and
// the MCP server both start here.
package app

import (
	"time"

	"go.uber.org/zap"

	"github.com/invoicer/invoicer/internal/adapters/outbound/config"
	"github.com/invoicer/invoicer/internal/adapters/outbound/gitinfo"
	"github.com/invoicer/invoicer/internal/adapters/outbound/output"
	"github.com/invoicer/invoicer/internal/adapters/outbound/pdf"
	"github.com/invoicer/invoicer/internal/adapters/outbound/ratesource"
	"github.com/invoicer/invoicer/internal/adapters/outbound/render"
	"github.com/invoicer/invoicer/internal/application"
	"github.com/invoicer/invoicer/internal/domain"
)

// App holds the services built for one invoicer run.
type App struct {
	Config    domain.Config
	Logger    *zap.Logger
	Resolver  *application.Resolver
	Planner   *application.PlanService
	Generator *application.GenerateService
	Store     *output.Store

	converter *pdf.Converter
	pdf       *application.PDFService
}

// Option customizes how an App is built.
type Option func(*options)

type options struct {
	now        func() time.Time
	configPath string
}

// WithClock replaces time.Now for planning.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithConfigPath records where the config was read from, so invoices can be
// stamped with its git revision.
func WithConfigPath(path string) Option {
	return func(o *options) { o.configPath = path }
}

// Load reads the config at path and builds every service from it.
func Load(path string, logger *zap.Logger, opts ...Option) (*App, error) {
	cfg, err := config.New().Load(path)
	if err != nil {
		return nil, err
	}
	return New(cfg, logger, append([]Option{WithConfigPath(path)}, opts...)...)
}

// New builds the services for an already validated config.
func New(cfg domain.Config, logger *zap.Logger, opts ...Option) (*App, error) {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	rs := cfg.RateSources
	resolver := application.NewResolver(logger,
		ratesource.NewECB(rs.ECBURL, rs.Timeout),
		ratesource.NewCoinMarketCap(rs.CMCURL, rs.Timeout, cfg.Token.Symbol, cfg.Token.CMCID, cfg.Token.EURCMCID),
	)

	renderer, err := render.New(cfg)
	if err != nil {
		return nil, err
	}

	planner := application.NewPlanService(cfg, o.now)
	store := output.New(cfg.OutputDir, cfg.Prefix())
	builder := application.NewBuilder(resolver, cfg.Token.Symbol)
	revision := application.ConfigRevision(gitinfo.New(), o.configPath, logger)

	return &App{
		Config:    cfg,
		Logger:    logger,
		Resolver:  resolver,
		Planner:   planner,
		Generator: application.NewGenerateService(cfg, planner, builder, renderer, store, logger).WithConfigRevision(revision),
		Store:     store,
	}, nil
}

// PDF returns the PDF service. The browser allocator is created on first use
// and released by Close.
func (a *App) PDF() *application.PDFService {
	if a.pdf == nil {
		a.converter = pdf.New(pdf.FromDomain(a.Config.PDF, a.Logger))
		a.pdf = application.NewPDFService(a.Store, a.converter, a.Logger)
	}
	return a.pdf
}

// Close releases the browser, if one was started, and flushes the logger.
func (a *App) Close() error {
	if a.converter != nil {
		if err := a.converter.Close(); err != nil {
			return err
		}
	}
	_ = a.Logger.Sync()
	return nil
}
