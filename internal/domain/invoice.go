package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Kind selects the invoice series.
type Kind string

const (
	KindFiat  Kind = "fiat"
	KindToken Kind = "token"
)

// Kinds lists every invoice kind in generation order.
var Kinds = []Kind{KindFiat, KindToken}

// ParseKind parses "fiat" or "token".
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindFiat, KindToken:
		return k, nil
	default:
		return "", fmt.Errorf("unknown invoice kind %q (valid: fiat, token)", s)
	}
}

// Invoice is a fully priced invoice for one billing period.
type Invoice struct {
	Kind      Kind                         `json:"kind"`
	Period    BillingPeriod                `json:"billing_period"`
	USDAmount decimal.Decimal              `json:"usd_amount"`
	Rates     []ExchangeRate               `json:"rates"`
	Converted map[Currency]decimal.Decimal `json:"converted_amounts"`
	// ConfigRevision is the git HEAD of the repository holding the config the
	// invoice was priced from. Empty outside a repository.
	ConfigRevision string `json:"config_revision,omitempty"`
}

// Amount returns the converted amount in c, or zero when c was not computed.
func (inv *Invoice) Amount(c Currency) decimal.Decimal {
	return inv.Converted[c]
}

// Rate returns the rate used for pair.
func (inv *Invoice) Rate(pair Pair) (ExchangeRate, bool) {
	for _, r := range inv.Rates {
		if r.Pair == pair {
			return r, true
		}
	}
	return ExchangeRate{}, false
}

// DisplayPrecision is the number of fractional digits an amount in c is shown
// with: ISO 4217 minor units for real currencies, tokenPrecision otherwise.
func DisplayPrecision(c Currency, tokenPrecision int) int32 {
	if unit, err := currency.ParseISO(string(c)); err == nil {
		scale, _ := currency.Standard.Rounding(unit)
		return int32(scale)
	}
	return int32(tokenPrecision)
}

// IsISOCurrency reports whether c is a recognized ISO 4217 code.
func IsISOCurrency(c Currency) bool {
	_, err := currency.ParseISO(string(c))
	return err == nil
}

// FormatAmount rounds d half-up to places digits and groups thousands with commas.
func FormatAmount(d decimal.Decimal, places int32) string {
	s := d.StringFixed(places)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	var b strings.Builder
	b.WriteString(sign)
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteString(frac)
	return b.String()
}
