package domain

import (
	"fmt"
	"strings"
	"time"
)

// MaxIssueDay keeps the issue date valid in every month, February included.
const MaxIssueDay = 28

// Month is a calendar month.
type Month struct {
	Year  int
	Month time.Month
}

// ParseMonth parses YYYY-MM.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q (expected YYYY-MM)", s)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// IsZero reports whether m is unset.
func (m Month) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

// First returns the first day of the month.
func (m Month) First() time.Time {
	return Date(m.Year, m.Month, 1)
}

// Last returns the last day of the month.
func (m Month) Last() time.Time {
	return m.First().AddDate(0, 1, -1)
}

// Next returns the following month.
func (m Month) Next() Month {
	return MonthOf(m.First().AddDate(0, 1, 0))
}

// Before reports whether m is strictly earlier than o.
func (m Month) Before(o Month) bool {
	return m.index() < o.index()
}

// MonthsSince returns how many months m is after start. Negative when m is earlier.
func (m Month) MonthsSince(start Month) int {
	return m.index() - start.index()
}

func (m Month) index() int {
	return m.Year*12 + int(m.Month) - 1
}

func (m Month) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Month) UnmarshalText(text []byte) error {
	parsed, err := ParseMonth(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// BillingPeriod is one month of a numbered invoice series.
type BillingPeriod struct {
	Sequence    int       `json:"sequence_number"`
	Month       Month     `json:"month"`
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
	IssueDate   time.Time `json:"issue_date"`
}

// SequenceFor returns the invoice number of month in a series starting at start.
func SequenceFor(start, month Month) (int, error) {
	if month.Before(start) {
		return 0, &ConfigError{Field: "month", Reason: fmt.Sprintf("%s is before the first invoice month %s", month, start)}
	}
	return month.MonthsSince(start) + 1, nil
}

// PeriodFor builds the billing period for a single month of a series.
func PeriodFor(start, month Month, issueDay int) (BillingPeriod, error) {
	if err := validateIssueDay(issueDay); err != nil {
		return BillingPeriod{}, err
	}
	seq, err := SequenceFor(start, month)
	if err != nil {
		return BillingPeriod{}, err
	}
	return BillingPeriod{
		Sequence:    seq,
		Month:       month,
		PeriodStart: month.First(),
		PeriodEnd:   month.Last(),
		IssueDate:   Date(month.Year, month.Month, issueDay),
	}, nil
}

// Plan returns one billing period per month from start through end, both
// inclusive. Sequence numbers are derived from each month's distance to start,
// so re-planning the same range always yields the same numbers.
func Plan(start, end Month, issueDay int) ([]BillingPeriod, error) {
	if err := validateIssueDay(issueDay); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, &ConfigError{Field: "until", Reason: fmt.Sprintf("%s is before the first invoice month %s", end, start)}
	}

	periods := make([]BillingPeriod, 0, end.MonthsSince(start)+1)
	for m := start; !end.Before(m); m = m.Next() {
		p, err := PeriodFor(start, m, issueDay)
		if err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}
	return periods, nil
}

func validateIssueDay(day int) error {
	if day < 1 || day > MaxIssueDay {
		return &ConfigError{Field: "invoice_issue_day", Reason: fmt.Sprintf("%d is outside 1..%d", day, MaxIssueDay)}
	}
	return nil
}
