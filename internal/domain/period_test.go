package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/invoicer/invoicer/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func month(t *testing.T, s string) domain.Month {
	t.Helper()
	m, err := domain.ParseMonth(s)
	require.NoError(t, err)
	return m
}

func TestPlan_ThreeMonths(t *testing.T) {
	periods, err := domain.Plan(month(t, "2024-01"), month(t, "2024-03"), 20)
	require.NoError(t, err)
	require.Len(t, periods, 3)

	for i, want := range []time.Time{
		domain.Date(2024, time.January, 20),
		domain.Date(2024, time.February, 20),
		domain.Date(2024, time.March, 20),
	} {
		assert.Equal(t, i+1, periods[i].Sequence)
		assert.Equal(t, want, periods[i].IssueDate)
	}
}

func TestPlan_PeriodBounds(t *testing.T) {
	periods, err := domain.Plan(month(t, "2024-02"), month(t, "2024-02"), 1)
	require.NoError(t, err)
	require.Len(t, periods, 1)

	p := periods[0]
	assert.Equal(t, domain.Date(2024, time.February, 1), p.PeriodStart)
	assert.Equal(t, domain.Date(2024, time.February, 29), p.PeriodEnd, "leap year")
	assert.True(t, p.PeriodEnd.After(p.PeriodStart))
}

func TestPlan_Idempotent(t *testing.T) {
	start, end := month(t, "2023-11"), month(t, "2024-04")

	first, err := domain.Plan(start, end, 15)
	require.NoError(t, err)
	second, err := domain.Plan(start, end, 15)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPlan_CrossesYearAndIncreases(t *testing.T) {
	periods, err := domain.Plan(month(t, "2023-11"), month(t, "2024-02"), 5)
	require.NoError(t, err)
	require.Len(t, periods, 4)

	for i := 1; i < len(periods); i++ {
		assert.Equal(t, periods[i-1].Sequence+1, periods[i].Sequence)
		assert.True(t, periods[i].PeriodStart.After(periods[i-1].PeriodStart))
	}
	assert.Equal(t, domain.Date(2024, time.January, 5), periods[2].IssueDate)
}

func TestPlan_EndBeforeStart(t *testing.T) {
	_, err := domain.Plan(month(t, "2024-03"), month(t, "2024-01"), 20)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfigInvalid))
}

func TestPlan_InvalidIssueDay(t *testing.T) {
	for _, day := range []int{0, 29, 31} {
		_, err := domain.Plan(month(t, "2024-01"), month(t, "2024-03"), day)
		assert.ErrorIs(t, err, domain.ErrConfigInvalid, "day %d", day)
	}
}

func TestSequenceFor_MatchesPlanPosition(t *testing.T) {
	start := month(t, "2024-03")
	periods, err := domain.Plan(start, month(t, "2025-02"), 20)
	require.NoError(t, err)

	for _, p := range periods {
		seq, err := domain.SequenceFor(start, p.Month)
		require.NoError(t, err)
		assert.Equal(t, p.Sequence, seq)
	}
}

func TestSequenceFor_BeforeStart(t *testing.T) {
	_, err := domain.SequenceFor(month(t, "2024-03"), month(t, "2024-02"))
	assert.ErrorIs(t, err, domain.ErrConfigInvalid)
}

func TestParseMonth(t *testing.T) {
	m, err := domain.ParseMonth("2024-07")
	require.NoError(t, err)
	assert.Equal(t, domain.Month{Year: 2024, Month: time.July}, m)
	assert.Equal(t, "2024-07", m.String())

	_, err = domain.ParseMonth("2024-13")
	assert.Error(t, err)
	_, err = domain.ParseMonth("July 2024")
	assert.Error(t, err)
}

func TestMonth_Navigation(t *testing.T) {
	dec := month(t, "2023-12")
	assert.Equal(t, month(t, "2024-01"), dec.Next())
	assert.Equal(t, 2, month(t, "2024-02").MonthsSince(dec))
	assert.True(t, dec.Before(month(t, "2024-01")))
	assert.False(t, dec.Before(dec))
	assert.Equal(t, domain.Date(2023, time.December, 31), dec.Last())
}
