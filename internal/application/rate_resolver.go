package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/invoicer/invoicer/internal/domain"
)

type rateKey struct {
	pair domain.Pair
	date time.Time
}

// Resolver implements domain.RateResolver over a list of rate sources. Rates
// resolved during a run are memoized per (pair, date).
type Resolver struct {
	sources []domain.RateSource
	logger  *zap.Logger
	memo    map[rateKey]domain.ExchangeRate
}

// NewResolver creates a Resolver that asks the first source supporting a pair.
func NewResolver(logger *zap.Logger, sources ...domain.RateSource) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		sources: sources,
		logger:  logger,
		memo:    make(map[rateKey]domain.ExchangeRate),
	}
}

// Resolve returns the rate for pair on date, or the most recent one published
// at most domain.LookbackDays earlier.
func (r *Resolver) Resolve(ctx context.Context, pair domain.Pair, date time.Time) (domain.ExchangeRate, error) {
	key := rateKey{pair: pair, date: domain.Day(date)}
	if rate, ok := r.memo[key]; ok {
		return rate, nil
	}
	return r.Refresh(ctx, pair, date)
}

// Refresh resolves pair on date from the source and replaces any memoized rate.
func (r *Resolver) Refresh(ctx context.Context, pair domain.Pair, date time.Time) (domain.ExchangeRate, error) {
	date = domain.Day(date)

	src := r.sourceFor(pair)
	if src == nil {
		return domain.ExchangeRate{}, &domain.RateUnavailableError{
			Pair: pair, Date: date, Cause: errors.New("no source for pair"),
		}
	}

	start := date.AddDate(0, 0, -domain.LookbackDays)
	series, err := src.Series(ctx, pair, start, date)
	if err != nil {
		var netErr *domain.NetworkError
		if errors.As(err, &netErr) {
			return domain.ExchangeRate{}, err
		}
		return domain.ExchangeRate{}, &domain.NetworkError{Source: src.Name(), Pair: pair, Date: date, Cause: err}
	}
	if series == nil {
		return domain.ExchangeRate{}, &domain.RateUnavailableError{Pair: pair, Date: date}
	}
	if series.Published != pair && series.Published != pair.Inverse() {
		return domain.ExchangeRate{}, &domain.NetworkError{
			Source: src.Name(), Pair: pair, Date: date,
			Reason: fmt.Sprintf("source quoted %s", series.Published),
		}
	}

	for back := 0; back <= domain.LookbackDays; back++ {
		day := date.AddDate(0, 0, -back)
		obs, ok := series.On(day)
		if !ok || !obs.Rate.IsPositive() {
			continue
		}

		rate := domain.ExchangeRate{
			Pair:          pair,
			Published:     series.Published,
			RequestedDate: date,
			ResolvedDate:  day,
			Rate:          obs.Rate,
			Source:        src.Name(),
		}
		if rate.Fallback() {
			r.logger.Info("using earlier rate",
				zap.String("pair", pair.String()),
				zap.String("requested", date.Format(domain.DateLayout)),
				zap.String("resolved", day.Format(domain.DateLayout)))
		}
		r.logger.Debug("rate resolved",
			zap.String("pair", pair.String()),
			zap.String("published", series.Published.String()),
			zap.String("rate", obs.Rate.String()),
			zap.String("source", src.Name()))

		r.memo[rateKey{pair: pair, date: date}] = rate
		return rate, nil
	}

	return domain.ExchangeRate{}, &domain.RateUnavailableError{Pair: pair, Date: date}
}

func (r *Resolver) sourceFor(pair domain.Pair) domain.RateSource {
	for _, s := range r.sources {
		if s.Supports(pair) {
			return s
		}
	}
	return nil
}
