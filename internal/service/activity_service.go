package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"go-crm-api/internal/domain"
	"go-crm-api/pkg/utils"
)

const recentLimit = 10

type ActivityService struct {
	leads      domain.LeadRepository
	activities domain.ActivityRepository
	log        *zap.Logger
}

func NewActivityService(leads domain.LeadRepository, activities domain.ActivityRepository, log *zap.Logger) *ActivityService {
	return &ActivityService{leads: leads, activities: activities, log: log}
}

// resolveLead 所有活动操作的入口守卫：父 lead 必须是 caller 的且活跃，
// 否则一律 404，不暴露他人 lead 的存在性。
func (s *ActivityService) resolveLead(ctx context.Context, ownerID, leadID string) (*domain.Lead, error) {
	return s.leads.FindOwnedActive(ctx, ownerID, leadID)
}

func (s *ActivityService) ListForLead(ctx context.Context, ownerID, leadID string) ([]domain.Activity, error) {
	lead, err := s.resolveLead(ctx, ownerID, leadID)
	if err != nil {
		return nil, err
	}
	return s.activities.ListByLead(ctx, lead.ID)
}

type ActivityCreateInput struct {
	ActivityType domain.ActivityType
	Title        string
	Notes        string
	Duration     *int
	ActivityDate time.Time
}

// Create lead 和 user 都由服务端指定，客户端字段不可信
func (s *ActivityService) Create(ctx context.Context, ownerID, leadID string, in ActivityCreateInput) (*domain.Activity, error) {
	lead, err := s.resolveLead(ctx, ownerID, leadID)
	if err != nil {
		return nil, err
	}
	if !in.ActivityType.Valid() {
		return nil, domain.Invalid("activity_type", "not a valid choice")
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, domain.Invalid("title", "this field is required")
	}
	if in.ActivityDate.IsZero() {
		return nil, domain.Invalid("activity_date", "this field is required")
	}
	if in.Duration != nil && *in.Duration <= 0 {
		return nil, domain.Invalid("duration", "Duration must be a positive number of minutes.")
	}

	a := &domain.Activity{
		ID:           utils.NewID(),
		LeadID:       lead.ID,
		UserID:       ownerID,
		ActivityType: in.ActivityType,
		Title:        strings.TrimSpace(in.Title),
		Notes:        in.Notes,
		Duration:     in.Duration,
		ActivityDate: in.ActivityDate,
	}
	if err := s.activities.Create(ctx, a); err != nil {
		return nil, err
	}
	s.log.Info("activity created",
		zap.String("activity_id", a.ID),
		zap.String("lead_id", lead.ID),
		zap.String("type", string(a.ActivityType)),
	)
	return a, nil
}

func (s *ActivityService) Get(ctx context.Context, ownerID, leadID, id string) (*domain.Activity, error) {
	lead, err := s.resolveLead(ctx, ownerID, leadID)
	if err != nil {
		return nil, err
	}
	return s.activities.FindByLead(ctx, lead.ID, id)
}

func (s *ActivityService) Update(ctx context.Context, ownerID, leadID, id string, p domain.ActivityPatch) (*domain.Activity, error) {
	lead, err := s.resolveLead(ctx, ownerID, leadID)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if p.ActivityType != nil {
		if !p.ActivityType.Valid() {
			return nil, domain.Invalid("activity_type", "not a valid choice")
		}
		fields["activity_type"] = *p.ActivityType
	}
	if p.Title != nil {
		if strings.TrimSpace(*p.Title) == "" {
			return nil, domain.Invalid("title", "this field may not be blank")
		}
		fields["title"] = strings.TrimSpace(*p.Title)
	}
	if p.Notes != nil {
		fields["notes"] = *p.Notes
	}
	if p.Duration != nil {
		if *p.Duration <= 0 {
			return nil, domain.Invalid("duration", "Duration must be a positive number of minutes.")
		}
		fields["duration"] = *p.Duration
	}
	if p.ActivityDate != nil {
		fields["activity_date"] = *p.ActivityDate
	}
	if len(fields) == 0 {
		return s.activities.FindByLead(ctx, lead.ID, id)
	}

	rows, err := s.activities.Update(ctx, lead.ID, id, fields)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, domain.ErrNotFound
	}
	return s.activities.FindByLead(ctx, lead.ID, id)
}

// Delete 硬删，无软删语义
func (s *ActivityService) Delete(ctx context.Context, ownerID, leadID, id string) error {
	lead, err := s.resolveLead(ctx, ownerID, leadID)
	if err != nil {
		return err
	}
	rows, err := s.activities.Delete(ctx, lead.ID, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Recent caller 全部活跃 lead 上最近的活动，上限固定
func (s *ActivityService) Recent(ctx context.Context, ownerID string) ([]domain.Activity, error) {
	return s.activities.RecentByOwner(ctx, ownerID, recentLimit)
}
