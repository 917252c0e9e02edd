package application

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/invoicer/invoicer/internal/domain"
)

// PDFService batch-converts generated invoices to PDF.
type PDFService struct {
	store     domain.OutputStore
	converter domain.PDFConverter
	logger    *zap.Logger
}

// NewPDFService creates a PDFService.
func NewPDFService(store domain.OutputStore, converter domain.PDFConverter, logger *zap.Logger) *PDFService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PDFService{store: store, converter: converter, logger: logger}
}

// ConvertKinds converts every HTML invoice on disk for the given kinds.
func (s *PDFService) ConvertKinds(ctx context.Context, kinds []domain.Kind) ([]domain.Conversion, error) {
	var paths []string
	for _, k := range kinds {
		files, err := s.store.List(k)
		if err != nil {
			return nil, fmt.Errorf("listing %s invoices: %w", k, err)
		}
		paths = append(paths, files...)
	}
	return s.Convert(ctx, paths), nil
}

// Convert prints each HTML file next to itself with a .pdf extension. Every
// file is attempted; failures are carried in the result.
func (s *PDFService) Convert(ctx context.Context, htmlPaths []string) []domain.Conversion {
	results := make([]domain.Conversion, 0, len(htmlPaths))
	for _, html := range htmlPaths {
		c := domain.Conversion{HTMLPath: html, PDFPath: PDFPath(html)}
		if err := s.converter.Convert(ctx, c.HTMLPath, c.PDFPath); err != nil {
			s.logger.Error("pdf conversion failed", zap.String("html", html), zap.Error(err))
			c.Err = err
			c.Error = err.Error()
		} else {
			s.logger.Info("pdf written", zap.String("path", c.PDFPath))
		}
		results = append(results, c)
	}
	return results
}

// AttachPDFs records successful conversions on the matching report outcomes.
func AttachPDFs(report *domain.RunReport, convs []domain.Conversion) {
	byHTML := make(map[string]string, len(convs))
	for _, c := range convs {
		if c.Err == nil {
			byHTML[c.HTMLPath] = c.PDFPath
		}
	}
	for i := range report.Outcomes {
		if pdf, ok := byHTML[report.Outcomes[i].Path]; ok {
			report.Outcomes[i].PDFPath = pdf
		}
	}
}

// ConversionsFailed reports whether any conversion failed.
func ConversionsFailed(convs []domain.Conversion) bool {
	for _, c := range convs {
		if c.Err != nil {
			return true
		}
	}
	return false
}

// PDFPath swaps an .html extension for .pdf.
func PDFPath(htmlPath string) string {
	return strings.TrimSuffix(htmlPath, ".html") + ".pdf"
}
