package service

import (
	"context"

	"go-crm-api/internal/domain"
)

type AnalyticsService struct {
	leads      domain.LeadRepository
	activities domain.ActivityRepository
}

func NewAnalyticsService(leads domain.LeadRepository, activities domain.ActivityRepository) *AnalyticsService {
	return &AnalyticsService{leads: leads, activities: activities}
}

type LeadStats struct {
	Total    int64                        `json:"total"`
	ByStatus map[domain.LeadStatus]int64 `json:"by_status"`
}

type Summary struct {
	Leads            LeadStats         `json:"leads"`
	RecentActivities []domain.Activity `json:"recent_activities"`
}

// Summary 每次请求现算，不做任何缓存。仅统计活跃 lead；
// by_status 只含实际出现的状态。
func (s *AnalyticsService) Summary(ctx context.Context, ownerID string) (*Summary, error) {
	total, err := s.leads.CountActive(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.leads.CountByStatus(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	recent, err := s.activities.RecentByOwner(ctx, ownerID, recentLimit)
	if err != nil {
		return nil, err
	}
	return &Summary{
		Leads:            LeadStats{Total: total, ByStatus: byStatus},
		RecentActivities: recent,
	}, nil
}
