package application_test

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/invoicer/invoicer/internal/domain"
)

var (
	usdEUR = domain.NewPair(domain.USD, domain.EUR)
	eurNTX = domain.NewPair(domain.EUR, "NTX")
	ntxEUR = domain.NewPair("NTX", domain.EUR)
)

// fakeSource publishes rates on a fixed pair. When every is set it quotes that
// rate on any day; otherwise only the days in rates.
type fakeSource struct {
	name      string
	published domain.Pair
	every     decimal.Decimal
	rates     map[time.Time]decimal.Decimal
	err       error
	calls     int
}

func newSource(name string, published domain.Pair, every string) *fakeSource {
	s := &fakeSource{name: name, published: published, rates: map[time.Time]decimal.Decimal{}}
	if every != "" {
		s.every = decimal.RequireFromString(every)
	}
	return s
}

func (s *fakeSource) on(d time.Time, rate string) *fakeSource {
	s.rates[domain.Day(d)] = decimal.RequireFromString(rate)
	return s
}

func (s *fakeSource) Name() string { return s.name }

func (s *fakeSource) Supports(p domain.Pair) bool {
	return p == s.published || p == s.published.Inverse()
}

func (s *fakeSource) Series(_ context.Context, _ domain.Pair, start, end time.Time) (*domain.Series, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	series := &domain.Series{Source: s.name, Published: s.published}
	for d := domain.Day(start); !d.After(end); d = d.AddDate(0, 0, 1) {
		switch {
		case !s.every.IsZero():
			series.Observations = append(series.Observations, domain.Observation{Date: d, Rate: s.every})
		case s.rates[d].IsPositive():
			series.Observations = append(series.Observations, domain.Observation{Date: d, Rate: s.rates[d]})
		}
	}
	return series, nil
}

// countingResolver records which resolver method the builder used.
type countingResolver struct {
	rate     decimal.Decimal
	resolves int
	refreshs int
}

func (r *countingResolver) answer(pair domain.Pair, date time.Time) domain.ExchangeRate {
	return domain.ExchangeRate{
		Pair: pair, Published: pair, RequestedDate: date, ResolvedDate: date,
		Rate: r.rate, Source: "counting",
	}
}

func (r *countingResolver) Resolve(_ context.Context, pair domain.Pair, date time.Time) (domain.ExchangeRate, error) {
	r.resolves++
	return r.answer(pair, date), nil
}

func (r *countingResolver) Refresh(_ context.Context, pair domain.Pair, date time.Time) (domain.ExchangeRate, error) {
	r.refreshs++
	return r.answer(pair, date), nil
}

type stubRenderer struct{}

func (stubRenderer) Render(inv *domain.Invoice) ([]byte, error) {
	return []byte(fmt.Sprintf("<html>%s #%d %s</html>", inv.Kind, inv.Period.Sequence, inv.Amount(domain.EUR))), nil
}

// fakeConverter writes a marker PDF unless the HTML path is listed in fail.
type fakeConverter struct {
	fail      map[string]bool
	converted []string
	closed    bool
}

func (c *fakeConverter) Convert(_ context.Context, htmlPath, pdfPath string) error {
	if c.fail[htmlPath] {
		return fmt.Errorf("chrome crashed on %s", htmlPath)
	}
	c.converted = append(c.converted, pdfPath)
	return nil
}

func (c *fakeConverter) Close() error {
	c.closed = true
	return nil
}

// fixedVersion answers CommitHash with hash, or err when set.
type fixedVersion struct {
	hash  string
	err   error
	asked []string
}

func (v *fixedVersion) CommitHash(path string) (string, error) {
	v.asked = append(v.asked, path)
	return v.hash, v.err
}
