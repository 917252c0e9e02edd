package application

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/invoicer/invoicer/internal/domain"
)

// Builder prices invoices from resolved exchange rates.
type Builder struct {
	rates     domain.RateResolver
	token     domain.Currency
	refreshed map[rateKey]struct{}
}

// NewBuilder creates a Builder converting EUR onward into token for token invoices.
func NewBuilder(rates domain.RateResolver, token domain.Currency) *Builder {
	return &Builder{rates: rates, token: token, refreshed: make(map[rateKey]struct{})}
}

// BeginRun forgets which rates were refreshed, so the next forced Build
// fetches them again.
func (b *Builder) BeginRun() {
	clear(b.refreshed)
}

// Build prices a kind invoice for period. With force set, each rate is
// fetched again the first time it is needed after BeginRun.
func (b *Builder) Build(ctx context.Context, kind domain.Kind, period domain.BillingPeriod, usd decimal.Decimal, force bool) (*domain.Invoice, error) {
	if kind != domain.KindFiat && kind != domain.KindToken {
		return nil, fmt.Errorf("unknown invoice kind %q", kind)
	}
	if !usd.IsPositive() {
		return nil, &domain.ConfigError{Field: "usd_amount", Reason: fmt.Sprintf("%s is not positive", usd)}
	}

	resolve := b.rates.Resolve
	if force {
		resolve = b.refreshOnce
	}

	usdEUR, err := resolve(ctx, domain.NewPair(domain.USD, domain.EUR), period.IssueDate)
	if err != nil {
		return nil, fmt.Errorf("resolving USD/EUR: %w", err)
	}
	eur := usdEUR.Convert(usd)

	inv := &domain.Invoice{
		Kind:      kind,
		Period:    period,
		USDAmount: usd,
		Rates:     []domain.ExchangeRate{usdEUR},
		Converted: map[domain.Currency]decimal.Decimal{domain.EUR: eur},
	}

	if kind == domain.KindToken {
		pair := domain.NewPair(domain.EUR, b.token)
		eurToken, err := resolve(ctx, pair, period.IssueDate)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", pair, err)
		}
		inv.Rates = append(inv.Rates, eurToken)
		inv.Converted[b.token] = eurToken.Convert(eur)
	}

	return inv, nil
}

func (b *Builder) refreshOnce(ctx context.Context, pair domain.Pair, date time.Time) (domain.ExchangeRate, error) {
	key := rateKey{pair: pair, date: domain.Day(date)}
	if _, ok := b.refreshed[key]; ok {
		return b.rates.Resolve(ctx, pair, date)
	}
	rate, err := b.rates.Refresh(ctx, pair, date)
	if err != nil {
		return rate, err
	}
	b.refreshed[key] = struct{}{}
	return rate, nil
}
