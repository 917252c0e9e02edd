package ratesource

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/invoicer/invoicer/internal/domain"
)

const cmcName = "coinmarketcap"

// CoinMarketCap reads daily historical token quotes converted to EUR. Rates
// are published on <TOKEN>/EUR using each day's opening price.
type CoinMarketCap struct {
	client  *resty.Client
	token   domain.Currency
	tokenID int
	eurID   int
}

// NewCoinMarketCap creates a source quoting token (CoinMarketCap id tokenID)
// in EUR (CoinMarketCap id eurID).
func NewCoinMarketCap(baseURL string, timeout time.Duration, token domain.Currency, tokenID, eurID int) *CoinMarketCap {
	return &CoinMarketCap{
		client:  newClient(baseURL, timeout),
		token:   token,
		tokenID: tokenID,
		eurID:   eurID,
	}
}

func (c *CoinMarketCap) Name() string { return cmcName }

func (c *CoinMarketCap) published() domain.Pair {
	return domain.NewPair(c.token, domain.EUR)
}

// Supports reports whether pair is the token against EUR, either way round.
func (c *CoinMarketCap) Supports(pair domain.Pair) bool {
	return pair == c.published() || pair == c.published().Inverse()
}

type cmcHistorical struct {
	Data *struct {
		Symbol string `json:"symbol"`
		Quotes []struct {
			TimeOpen string `json:"timeOpen"`
			Quote    struct {
				Open decimal.Decimal `json:"open"`
			} `json:"quote"`
		} `json:"quotes"`
	} `json:"data"`
	Status struct {
		ErrorMessage string `json:"error_message"`
	} `json:"status"`
}

// Series fetches daily quotes opening between start and end.
func (c *CoinMarketCap) Series(ctx context.Context, pair domain.Pair, start, end time.Time) (*domain.Series, error) {
	if !c.Supports(pair) {
		return nil, fmt.Errorf("coinmarketcap does not quote %s", pair)
	}

	var payload cmcHistorical
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParams(c.query(start, end)).
		ForceContentType("application/json").
		SetResult(&payload).
		Get("/data-api/v3.1/cryptocurrency/historical")
	if err != nil {
		if answered(resp) && resp.IsSuccess() {
			return nil, c.netErr(pair, end, "malformed response", err)
		}
		return nil, c.netErr(pair, end, "", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, c.netErr(pair, end, "", statusError(resp))
	}
	if payload.Data == nil {
		reason := "malformed response"
		if payload.Status.ErrorMessage != "" {
			reason = payload.Status.ErrorMessage
		}
		return nil, c.netErr(pair, end, reason, nil)
	}

	series := &domain.Series{Source: cmcName, Published: c.published()}
	for _, q := range payload.Data.Quotes {
		day, _, _ := strings.Cut(q.TimeOpen, "T")
		date, err := time.Parse(domain.DateLayout, day)
		if err != nil {
			return nil, c.netErr(pair, end, "malformed response", fmt.Errorf("timeOpen %q: %w", q.TimeOpen, err))
		}
		if !q.Quote.Open.IsPositive() {
			continue
		}
		series.Observations = append(series.Observations, domain.Observation{Date: date, Rate: q.Quote.Open})
	}
	return series, nil
}

// query asks for quotes from start up to the end of the end day.
func (c *CoinMarketCap) query(start, end time.Time) map[string]string {
	return map[string]string{
		"id":        strconv.Itoa(c.tokenID),
		"convertId": strconv.Itoa(c.eurID),
		"timeStart": strconv.FormatInt(domain.Day(start).Unix(), 10),
		"timeEnd":   strconv.FormatInt(domain.Day(end).AddDate(0, 0, 1).Unix(), 10),
		"interval":  "1d",
	}
}

func (c *CoinMarketCap) netErr(pair domain.Pair, date time.Time, reason string, cause error) error {
	return &domain.NetworkError{Source: cmcName, Pair: pair, Date: date, Reason: reason, Cause: cause}
}
