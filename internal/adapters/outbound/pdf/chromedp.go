// Package pdf prints rendered invoices to PDF through headless Chrome.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/invoicer/invoicer/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second

	// A4 in inches, the unit Chrome expects.
	a4Width  = 210 / 25.4
	a4Height = 297 / 25.4
	margin   = 10 / 25.4
)

// Error codes for conversion failures.
const (
	ErrCodeInvalidHTML = "INVALID_HTML"
	ErrCodeTimeout     = "RENDER_TIMEOUT"
	ErrCodeFailed      = "RENDER_FAILED"
	ErrCodeWrite       = "WRITE_FAILED"
)

// ConvertError carries a failure code alongside its cause.
type ConvertError struct {
	Code    string
	Message string
	Cause   error
}

func (e *ConvertError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ConvertError) Unwrap() error { return e.Cause }

func newConvertError(code, message string, cause error) *ConvertError {
	return &ConvertError{Code: code, Message: message, Cause: cause}
}

// Config configures the browser.
type Config struct {
	// RemoteURL attaches to a running Chrome (ws://host:port) instead of
	// launching one.
	RemoteURL string
	Timeout   time.Duration
	// NoSandbox is required when Chrome runs as root, e.g. in containers.
	NoSandbox bool
	Logger    *zap.Logger
}

// FromDomain maps the invoicer PDF settings onto a Config.
func FromDomain(c domain.PDFConfig, logger *zap.Logger) Config {
	return Config{RemoteURL: c.RemoteURL, Timeout: c.Timeout, NoSandbox: c.NoSandbox, Logger: logger}
}

// Converter implements domain.PDFConverter with chromedp. Every conversion
// gets its own tab context from a shared allocator that lives until Close.
type Converter struct {
	config      Config
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// New creates a Converter. Chrome is not started until the first conversion.
func New(cfg Config) *Converter {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Converter{config: cfg, logger: logger}
	if cfg.RemoteURL != "" {
		c.allocCtx, c.allocCancel = chromedp.NewRemoteAllocator(context.Background(), cfg.RemoteURL)
	} else {
		c.allocCtx, c.allocCancel = chromedp.NewExecAllocator(context.Background(), c.allocatorOptions()...)
	}
	return c
}

func (c *Converter) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if c.config.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}
	return opts
}

// Convert prints htmlPath to pdfPath on A4 with backgrounds.
func (c *Converter) Convert(ctx context.Context, htmlPath, pdfPath string) error {
	html, err := os.ReadFile(htmlPath)
	if err != nil {
		return newConvertError(ErrCodeInvalidHTML, "reading "+htmlPath, err)
	}
	if strings.TrimSpace(string(html)) == "" {
		return newConvertError(ErrCodeInvalidHTML, htmlPath+" is empty", nil)
	}

	start := time.Now()
	data, err := c.print(ctx, string(html))
	if err != nil {
		return err
	}

	if err := os.WriteFile(pdfPath, data, 0644); err != nil {
		return newConvertError(ErrCodeWrite, "writing "+pdfPath, err)
	}

	c.logger.Debug("pdf rendered",
		zap.String("path", pdfPath),
		zap.Int("bytes", len(data)),
		zap.Duration("duration", time.Since(start)))
	return nil
}

func (c *Converter) print(ctx context.Context, html string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	tabCtx, tabCancel := chromedp.NewContext(c.allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			c.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer tabCancel()

	// Stop the tab when the caller's deadline passes.
	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	var data []byte
	err := chromedp.Run(tabCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := printParams().Do(ctx)
			if err != nil {
				return err
			}
			data = buf
			return nil
		}),
	)
	if err != nil {
		switch {
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			return nil, newConvertError(ErrCodeTimeout, fmt.Sprintf("pdf rendering timed out after %v", c.config.Timeout), err)
		case errors.Is(ctx.Err(), context.Canceled):
			return nil, newConvertError(ErrCodeTimeout, "pdf rendering was cancelled", err)
		}
		return nil, newConvertError(ErrCodeFailed, "chrome failed", err)
	}
	if len(data) == 0 {
		return nil, newConvertError(ErrCodeFailed, "generated PDF is empty", nil)
	}
	return data, nil
}

func printParams() *page.PrintToPDFParams {
	return page.PrintToPDF().
		WithPrintBackground(true).
		WithPreferCSSPageSize(true).
		WithPaperWidth(a4Width).
		WithPaperHeight(a4Height).
		WithMarginTop(margin).
		WithMarginRight(margin).
		WithMarginBottom(margin).
		WithMarginLeft(margin)
}

// Close shuts the browser down.
func (c *Converter) Close() error {
	if c.allocCancel != nil {
		c.allocCancel()
	}
	return nil
}

var _ domain.PDFConverter = (*Converter)(nil)
