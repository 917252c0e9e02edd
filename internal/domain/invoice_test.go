package domain_test

import (
	"testing"

	"github.com/invoicer/invoicer/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseKind(t *testing.T) {
	k, err := domain.ParseKind("Token")
	assert.NoError(t, err)
	assert.Equal(t, domain.KindToken, k)

	_, err = domain.ParseKind("crypto")
	assert.Error(t, err)
}

func TestDisplayPrecision(t *testing.T) {
	assert.Equal(t, int32(2), domain.DisplayPrecision(domain.EUR, 4))
	assert.Equal(t, int32(2), domain.DisplayPrecision(domain.USD, 4))
	assert.Equal(t, int32(0), domain.DisplayPrecision("JPY", 4))
	assert.Equal(t, int32(4), domain.DisplayPrecision("NTX", 4))
}

func TestFormatAmount(t *testing.T) {
	cases := map[string]struct {
		in     string
		places int32
	}{
		"3,220.00":     {"3220", 2},
		"999.99":       {"999.994", 2},
		"1,000.00":     {"999.995", 2},
		"1,234,567.1":  {"1234567.12", 1},
		"-12,345.6789": {"-12345.6789", 4},
		"0.0001":       {"0.00005", 4},
	}
	for want, c := range cases {
		assert.Equal(t, want, domain.FormatAmount(decimal.RequireFromString(c.in), c.places), c.in)
	}
}

func TestInvoice_RateLookup(t *testing.T) {
	pair := domain.NewPair(domain.USD, domain.EUR)
	inv := &domain.Invoice{
		Rates:     []domain.ExchangeRate{{Pair: pair, Rate: decimal.RequireFromString("0.92")}},
		Converted: map[domain.Currency]decimal.Decimal{domain.EUR: decimal.NewFromInt(10)},
	}

	r, ok := inv.Rate(pair)
	assert.True(t, ok)
	assert.Equal(t, "0.92", r.Rate.String())

	_, ok = inv.Rate(pair.Inverse())
	assert.False(t, ok)
	assert.True(t, inv.Amount("NTX").IsZero())
}
