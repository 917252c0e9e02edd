package cli_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoicer/invoicer/internal/adapters/outbound/ratesource/ratesourcetest"
	"github.com/invoicer/invoicer/internal/domain"
)

func TestRateCmd_Direct(t *testing.T) {
	srv := ratesourcetest.New(t)
	path := writeConfig(t, srv, "")

	out, _, err := run(t, "rate", "USD/EUR", "--config", path, "--date", "2024-03-20")
	require.NoError(t, err)
	assert.Contains(t, out, "USD/EUR")
	assert.Contains(t, out, "0.8")
	assert.Contains(t, out, "EUR/USD 1.25")
	assert.Contains(t, out, "2024-03-20")
	assert.Contains(t, out, "ecb")
	assert.NotContains(t, out, "earlier")
}

func TestRateCmd_FallbackShowsBothDates(t *testing.T) {
	srv := ratesourcetest.New(t)
	srv.Gap("2024-03-20")
	path := writeConfig(t, srv, "")

	out, _, err := run(t, "rate", "ntx/eur", "--config", path, "--date", "2024-03-20")
	require.NoError(t, err)
	assert.Contains(t, out, "NTX/EUR")
	assert.Contains(t, out, "0.04")
	assert.Contains(t, out, "2024-03-19")
	assert.Contains(t, out, "1 day(s) earlier")
	assert.Contains(t, out, "coinmarketcap")
}

func TestRateCmd_JSON(t *testing.T) {
	srv := ratesourcetest.New(t)
	path := writeConfig(t, srv, "")

	out, _, err := run(t, "rate", "EUR/NTX", "--config", path, "--date", "2024-03-20", "--json")
	require.NoError(t, err)

	var rate struct {
		Pair         string `json:"pair"`
		Published    string `json:"published"`
		Rate         string `json:"rate"`
		ResolvedDate string `json:"resolved_date"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rate))
	assert.Equal(t, "EUR/NTX", rate.Pair)
	assert.Equal(t, "NTX/EUR", rate.Published)
	assert.Equal(t, "0.04", rate.Rate)
	assert.Contains(t, rate.ResolvedDate, "2024-03-20")
}

func TestRateCmd_Unavailable(t *testing.T) {
	srv := ratesourcetest.New(t)
	srv.Gap("2024-03-18", "2024-03-19", "2024-03-20")
	path := writeConfig(t, srv, "")

	_, _, err := run(t, "rate", "USD/EUR", "--config", path, "--date", "2024-03-20")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRateUnavailable)
}

func TestRateCmd_BadInput(t *testing.T) {
	srv := ratesourcetest.New(t)
	path := writeConfig(t, srv, "")

	_, _, err := run(t, "rate", "USDEUR", "--config", path)
	assert.ErrorContains(t, err, "invalid currency pair")

	_, _, err = run(t, "rate", "USD/EUR", "--config", path, "--date", "20/03/2024")
	assert.ErrorContains(t, err, "--date")

	_, _, err = run(t, "rate", "--config", path)
	assert.Error(t, err, "a pair is required")
}
