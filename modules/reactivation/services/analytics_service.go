package services

import (
	"context"

	"github.com/velocity-exotics/crm-platform/modules/reactivation/domain/aggregates/contact"
)

// AnalyticsService backs the reactivation dashboard: who lapsed when, and
// how much of the pool is actually reachable.
type AnalyticsService struct {
	contacts contact.Repository
}

func NewAnalyticsService(contacts contact.Repository) *AnalyticsService {
	return &AnalyticsService{contacts: contacts}
}

func (s *AnalyticsService) MonthlyLapse(ctx context.Context, months int) ([]contact.MonthBucket, error) {
	return s.contacts.MonthlyLapse(ctx, months)
}

func (s *AnalyticsService) Summarize(ctx context.Context) (contact.Summary, error) {
	return s.contacts.Summarize(ctx)
}
