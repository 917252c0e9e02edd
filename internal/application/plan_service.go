package application

import (
	"time"

	"github.com/invoicer/invoicer/internal/domain"
)

// PlanService lays out the billing periods of each invoice series.
type PlanService struct {
	cfg domain.Config
	now func() time.Time
}

// NewPlanService creates a PlanService. A nil clock means time.Now.
func NewPlanService(cfg domain.Config, now func() time.Time) *PlanService {
	if now == nil {
		now = time.Now
	}
	return &PlanService{cfg: cfg, now: now}
}

// CurrentMonth is the month containing now, the default end of every plan.
func (s *PlanService) CurrentMonth() domain.Month {
	return domain.MonthOf(s.now().UTC())
}

// Plan returns kind's periods from its first month through until, or through
// the current month when until is zero. A series that starts after until has
// no periods yet.
func (s *PlanService) Plan(kind domain.Kind, until domain.Month) ([]domain.BillingPeriod, error) {
	if until.IsZero() {
		until = s.CurrentMonth()
	}
	start := s.cfg.StartFor(kind)
	if until.Before(start) {
		return nil, nil
	}
	return domain.Plan(start, until, s.cfg.IssueDay)
}

// Period returns kind's billing period for a single month, numbered by its
// position in the series.
func (s *PlanService) Period(kind domain.Kind, month domain.Month) (domain.BillingPeriod, error) {
	return domain.PeriodFor(s.cfg.StartFor(kind), month, s.cfg.IssueDay)
}

// Issued reports whether p's issue date has been reached.
func (s *PlanService) Issued(p domain.BillingPeriod) bool {
	return !p.IssueDate.After(domain.Day(s.now().UTC()))
}
