package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// LookbackDays is how far before the requested date a missing rate may be
// taken from.
const LookbackDays = 2

// DivisionPrecision is the number of fractional digits kept when an amount is
// divided by a rate quoted in the opposite orientation.
const DivisionPrecision = 18

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Currency is an upper-case currency or token code.
type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
)

// Pair is a currency pair. A rate on a pair means 1 Base = rate Quote.
type Pair struct {
	Base  Currency
	Quote Currency
}

// NewPair builds a pair from two codes.
func NewPair(base, quote Currency) Pair {
	return Pair{Base: base, Quote: quote}
}

// ParsePair parses BASE/QUOTE. "-" and ":" are accepted as separators too.
func ParsePair(s string) (Pair, error) {
	parts := strings.FieldsFunc(strings.ToUpper(strings.TrimSpace(s)), func(r rune) bool {
		return r == '/' || r == '-' || r == ':'
	})
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Pair{}, fmt.Errorf("invalid currency pair %q (expected BASE/QUOTE)", s)
	}
	if parts[0] == parts[1] {
		return Pair{}, fmt.Errorf("invalid currency pair %q: base and quote are equal", s)
	}
	return NewPair(Currency(parts[0]), Currency(parts[1])), nil
}

func (p Pair) String() string {
	return string(p.Base) + "/" + string(p.Quote)
}

// Inverse swaps base and quote.
func (p Pair) Inverse() Pair {
	return Pair{Base: p.Quote, Quote: p.Base}
}

// Has reports whether c is either side of the pair.
func (p Pair) Has(c Currency) bool {
	return p.Base == c || p.Quote == c
}

// Other returns the side of the pair that is not c.
func (p Pair) Other(c Currency) Currency {
	if p.Base == c {
		return p.Quote
	}
	return p.Base
}

func (p Pair) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Pair) UnmarshalText(text []byte) error {
	parsed, err := ParsePair(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Observation is one daily rate as published by a source.
type Observation struct {
	Date time.Time       `json:"date"`
	Rate decimal.Decimal `json:"rate"`
}

// Series is the set of observations a source returned for a window, in the
// orientation the source publishes them.
type Series struct {
	Source       string        `json:"source"`
	Published    Pair          `json:"published"`
	Observations []Observation `json:"observations"`
}

// On returns the observation for day d, if any.
func (s *Series) On(d time.Time) (Observation, bool) {
	d = Day(d)
	for _, o := range s.Observations {
		if Day(o.Date).Equal(d) {
			return o, true
		}
	}
	return Observation{}, false
}

// ExchangeRate is a resolved rate for a requested pair and date.
//
// Rate is kept in the published orientation so that no reciprocal is ever
// rounded and stored; Convert divides when Published is the inverse of Pair.
type ExchangeRate struct {
	Pair          Pair            `json:"pair"`
	Published     Pair            `json:"published"`
	RequestedDate time.Time       `json:"requested_date"`
	ResolvedDate  time.Time       `json:"resolved_date"`
	Rate          decimal.Decimal `json:"rate"`
	Source        string          `json:"source"`
}

// Inverted reports whether Rate is quoted on the reciprocal of Pair.
func (r ExchangeRate) Inverted() bool {
	return r.Published != r.Pair
}

// Convert turns an amount of Pair.Base into Pair.Quote.
func (r ExchangeRate) Convert(amount decimal.Decimal) decimal.Decimal {
	if r.Inverted() {
		return amount.DivRound(r.Rate, DivisionPrecision)
	}
	return amount.Mul(r.Rate)
}

// Fallback reports whether the rate came from an earlier day than requested.
func (r ExchangeRate) Fallback() bool {
	return !Day(r.ResolvedDate).Equal(Day(r.RequestedDate))
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Date is a shorthand for a UTC calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return t, nil
}
