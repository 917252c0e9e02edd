package ratesource_test

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoicer/invoicer/internal/adapters/outbound/ratesource"
	"github.com/invoicer/invoicer/internal/domain"
)

const ntx domain.Currency = "NTX"

func newCMC(url string) *ratesource.CoinMarketCap {
	return ratesource.NewCoinMarketCap(url, time.Second, ntx, 13198, 2790)
}

func TestCoinMarketCap_Supports(t *testing.T) {
	cmc := newCMC("http://unused")
	assert.True(t, cmc.Supports(domain.NewPair(ntx, domain.EUR)))
	assert.True(t, cmc.Supports(domain.NewPair(domain.EUR, ntx)))
	assert.False(t, cmc.Supports(domain.NewPair(domain.USD, ntx)))
	assert.False(t, cmc.Supports(domain.NewPair(domain.USD, domain.EUR)))
}

func TestCoinMarketCap_SeriesParsesQuotes(t *testing.T) {
	var req http.Request
	srv := serve(t, http.StatusOK, fixture(t, "cmc_ntx_eur.json"), &req)
	cmc := newCMC(srv.URL)

	start, end := domain.Date(2024, time.March, 18), domain.Date(2024, time.March, 20)
	series, err := cmc.Series(context.Background(), domain.NewPair(domain.EUR, ntx), start, end)
	require.NoError(t, err)

	q := req.URL.Query()
	assert.Equal(t, "/data-api/v3.1/cryptocurrency/historical", req.URL.Path)
	assert.Equal(t, "13198", q.Get("id"))
	assert.Equal(t, "2790", q.Get("convertId"))
	assert.Equal(t, "1d", q.Get("interval"))
	assert.Equal(t, strconv.FormatInt(start.Unix(), 10), q.Get("timeStart"))
	assert.Equal(t, strconv.FormatInt(domain.Date(2024, time.March, 21).Unix(), 10), q.Get("timeEnd"))

	assert.Equal(t, domain.NewPair(ntx, domain.EUR), series.Published)
	require.Len(t, series.Observations, 3)
	assert.Equal(t, domain.Date(2024, time.March, 20), series.Observations[2].Date)
	assert.Equal(t, "0.0371204551", series.Observations[2].Rate.String())
}

func TestCoinMarketCap_SendsClientHeaders(t *testing.T) {
	var req http.Request
	srv := serve(t, http.StatusOK, fixture(t, "cmc_ntx_eur.json"), &req)

	_, err := newCMC(srv.URL).Series(context.Background(), domain.NewPair(ntx, domain.EUR),
		domain.Date(2024, time.March, 18), domain.Date(2024, time.March, 20))
	require.NoError(t, err, "body is decoded even without a JSON content type")

	assert.Contains(t, req.Header.Get("User-Agent"), "invoicer")
	assert.Equal(t, "application/json", req.Header.Get("Accept"))
}

func TestCoinMarketCap_MissingDataUsesStatusMessage(t *testing.T) {
	body := []byte(`{"status":{"error_code":"500","error_message":"Invalid value for \"id\""}}`)
	srv := serve(t, http.StatusOK, body, nil)

	_, err := newCMC(srv.URL).Series(context.Background(), domain.NewPair(domain.EUR, ntx), domain.Date(2024, 3, 18), domain.Date(2024, 3, 20))
	require.Error(t, err)

	var netErr *domain.NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Contains(t, netErr.Reason, "Invalid value")
}

func TestCoinMarketCap_MalformedJSON(t *testing.T) {
	srv := serve(t, http.StatusOK, []byte(`{"data": [`), nil)

	_, err := newCMC(srv.URL).Series(context.Background(), domain.NewPair(domain.EUR, ntx), domain.Date(2024, 3, 18), domain.Date(2024, 3, 20))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.Contains(t, err.Error(), "malformed response")
}

func TestCoinMarketCap_BadTimeOpen(t *testing.T) {
	body := []byte(`{"data":{"quotes":[{"timeOpen":"yesterday","quote":{"open":1.5}}]}}`)
	srv := serve(t, http.StatusOK, body, nil)

	_, err := newCMC(srv.URL).Series(context.Background(), domain.NewPair(domain.EUR, ntx), domain.Date(2024, 3, 18), domain.Date(2024, 3, 20))
	assert.ErrorIs(t, err, domain.ErrNetwork)
}

func TestCoinMarketCap_RateLimited(t *testing.T) {
	srv := serve(t, http.StatusTooManyRequests, []byte(`{"status":{"error_message":"rate limited"}}`), nil)

	_, err := newCMC(srv.URL).Series(context.Background(), domain.NewPair(domain.EUR, ntx), domain.Date(2024, 3, 18), domain.Date(2024, 3, 20))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.Contains(t, err.Error(), "429")
}
