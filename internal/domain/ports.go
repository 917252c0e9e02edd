package domain

import (
	"context"
	"time"
)

// RateSource fetches published daily rates from an external API.
type RateSource interface {
	Name() string
	// Supports reports whether the source can quote pair in either orientation.
	Supports(pair Pair) bool
	// Series returns the observations published between start and end, both
	// inclusive, in the source's own orientation.
	Series(ctx context.Context, pair Pair, start, end time.Time) (*Series, error)
}

// RateResolver resolves the rate for a pair on a date, falling back up to
// LookbackDays earlier.
type RateResolver interface {
	Resolve(ctx context.Context, pair Pair, date time.Time) (ExchangeRate, error)
	// Refresh is Resolve without reusing rates resolved earlier in the run.
	Refresh(ctx context.Context, pair Pair, date time.Time) (ExchangeRate, error)
}

// ConfigLoader reads and validates the invoicing config.
type ConfigLoader interface {
	Load(path string) (Config, error)
}

// InvoiceRenderer turns a priced invoice into a document.
type InvoiceRenderer interface {
	Render(inv *Invoice) ([]byte, error)
}

// OutputStore owns the on-disk layout of generated invoices.
type OutputStore interface {
	Path(kind Kind, period BillingPeriod) string
	Exists(kind Kind, period BillingPeriod) (bool, error)
	Write(kind Kind, period BillingPeriod, data []byte) (string, error)
	List(kind Kind) ([]string, error)
}

// PDFConverter prints an HTML file to PDF.
type PDFConverter interface {
	Convert(ctx context.Context, htmlPath, pdfPath string) error
	Close() error
}
