package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrRateUnavailable = errors.New("rate unavailable")
	ErrConfigInvalid   = errors.New("invalid config")
	ErrOutputExists    = errors.New("output exists")
	ErrNetwork         = errors.New("rate source unreachable")
)

// RateUnavailableError means no rate was published for Pair within the
// lookback window ending at Date.
type RateUnavailableError struct {
	Pair  Pair
	Date  time.Time
	Cause error
}

func (e *RateUnavailableError) Error() string {
	msg := fmt.Sprintf("no %s rate between %s and %s",
		e.Pair, e.Date.AddDate(0, 0, -LookbackDays).Format(DateLayout), e.Date.Format(DateLayout))
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *RateUnavailableError) Is(target error) bool { return target == ErrRateUnavailable }

func (e *RateUnavailableError) Unwrap() error { return e.Cause }

// NetworkError wraps a failed or unusable response from a rate source.
type NetworkError struct {
	Source string
	Pair   Pair
	Date   time.Time
	Reason string
	Cause  error
}

func (e *NetworkError) Error() string {
	msg := fmt.Sprintf("%s: %s rate for %s", e.Source, e.Pair, e.Date.Format(DateLayout))
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

func (e *NetworkError) Unwrap() error { return e.Cause }

// ConfigError reports a missing or malformed configuration value.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Is(target error) bool { return target == ErrConfigInvalid }

// OutputExistsError marks an invoice that is already on disk and was not
// asked to be recreated. It is a skip, never a failure.
type OutputExistsError struct {
	Path string
}

func (e *OutputExistsError) Error() string {
	return fmt.Sprintf("%s already exists (use --recreate to overwrite)", e.Path)
}

func (e *OutputExistsError) Is(target error) bool { return target == ErrOutputExists }
