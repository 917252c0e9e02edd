package ratesource

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/invoicer/invoicer/internal/domain"
)

const ecbName = "ecb"

// ECB reads daily euro reference rates from the ECB SDMX data API. A series
// D.<CUR>.EUR.SP00.A quotes how many CUR one euro buys, so rates are
// published on EUR/<CUR>.
type ECB struct {
	client *resty.Client
}

// NewECB creates an ECB source for the API at baseURL.
func NewECB(baseURL string, timeout time.Duration) *ECB {
	return &ECB{client: newClient(baseURL, timeout)}
}

func (e *ECB) Name() string { return ecbName }

// Supports reports whether pair is EUR against another ISO 4217 currency.
func (e *ECB) Supports(pair domain.Pair) bool {
	if !pair.Has(domain.EUR) {
		return false
	}
	other := pair.Other(domain.EUR)
	return other != domain.EUR && domain.IsISOCurrency(other)
}

// Series fetches the reference rates between start and end. The ECB answers
// 404 when no rate was published in the window, which yields an empty series.
func (e *ECB) Series(ctx context.Context, pair domain.Pair, start, end time.Time) (*domain.Series, error) {
	if !e.Supports(pair) {
		return nil, fmt.Errorf("ecb does not quote %s", pair)
	}
	cur := pair.Other(domain.EUR)
	series := &domain.Series{Source: ecbName, Published: domain.NewPair(domain.EUR, cur)}

	resp, err := e.client.R().
		SetContext(ctx).
		SetHeader("Accept", "text/csv").
		SetQueryParams(map[string]string{
			"format":      "csvdata",
			"startPeriod": start.Format(domain.DateLayout),
			"endPeriod":   end.Format(domain.DateLayout),
		}).
		Get(fmt.Sprintf("/service/data/EXR/D.%s.EUR.SP00.A", cur))
	if err != nil {
		return nil, e.netErr(pair, end, "", err)
	}
	switch resp.StatusCode() {
	case http.StatusOK:
	case http.StatusNotFound:
		return series, nil
	default:
		return nil, e.netErr(pair, end, "", statusError(resp))
	}

	obs, err := parseECBCSV(resp.Body())
	if err != nil {
		return nil, e.netErr(pair, end, "malformed response", err)
	}
	series.Observations = obs
	return series, nil
}

func (e *ECB) netErr(pair domain.Pair, date time.Time, reason string, cause error) error {
	return &domain.NetworkError{Source: ecbName, Pair: pair, Date: date, Reason: reason, Cause: cause}
}

// parseECBCSV reads TIME_PERIOD and OBS_VALUE from an SDMX csvdata body.
// Rows without a usable positive value (the ECB writes "NaN" for gaps) are
// dropped.
func parseECBCSV(body []byte) ([]domain.Observation, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	r := csv.NewReader(bytes.NewReader(body))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	timeCol, obsCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) {
		case "TIME_PERIOD":
			timeCol = i
		case "OBS_VALUE":
			obsCol = i
		}
	}
	if timeCol < 0 || obsCol < 0 {
		return nil, errors.New("missing TIME_PERIOD or OBS_VALUE column")
	}

	var obs []domain.Observation
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}
		if len(rec) <= timeCol || len(rec) <= obsCol {
			return nil, fmt.Errorf("short row with %d fields", len(rec))
		}

		date, err := time.Parse(domain.DateLayout, strings.TrimSpace(rec[timeCol]))
		if err != nil {
			return nil, fmt.Errorf("TIME_PERIOD %q: %w", rec[timeCol], err)
		}
		value, err := decimal.NewFromString(strings.TrimSpace(rec[obsCol]))
		if err != nil || !value.IsPositive() {
			continue
		}
		obs = append(obs, domain.Observation{Date: date, Rate: value})
	}
	return obs, nil
}
