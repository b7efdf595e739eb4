package services

import (
	"context"

	"github.com/velocity-exotics/crm-platform/modules/crm/domain/entities/activity"
)

type ActivityService struct {
	repo activity.Repository
}

func NewActivityService(repo activity.Repository) *ActivityService {
	return &ActivityService{repo: repo}
}

func (s *ActivityService) List(ctx context.Context, params *activity.FindParams) ([]activity.Activity, error) {
	return s.repo.List(ctx, params)
}
