package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"go-crm-api/internal/domain"
)

// 活动默认排序：最近发生优先，同一时刻后录入优先
const activityOrder = "activity_date DESC, created_at DESC"

type ActivityRepo struct{ db *gorm.DB }

func NewActivityRepo(db *gorm.DB) *ActivityRepo { return &ActivityRepo{db: db} }

func (r *ActivityRepo) Create(ctx context.Context, a *domain.Activity) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *ActivityRepo) ListByLead(ctx context.Context, leadID string) ([]domain.Activity, error) {
	var items []domain.Activity
	err := r.db.WithContext(ctx).
		Where("lead_id = ?", leadID).
		Order(activityOrder).
		Find(&items).Error
	return items, err
}

func (r *ActivityRepo) FindByLead(ctx context.Context, leadID, id string) (*domain.Activity, error) {
	var a domain.Activity
	err := r.db.WithContext(ctx).First(&a, "lead_id = ? AND id = ?", leadID, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ActivityRepo) Update(ctx context.Context, leadID, id string, fields map[string]any) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.Activity{}).
		Where("lead_id = ? AND id = ?", leadID, id).
		Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *ActivityRepo) Delete(ctx context.Context, leadID, id string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("lead_id = ? AND id = ?", leadID, id).
		Delete(&domain.Activity{})
	return res.RowsAffected, res.Error
}

func (r *ActivityRepo) RecentByOwner(ctx context.Context, ownerID string, limit int) ([]domain.Activity, error) {
	if limit <= 0 {
		limit = 10
	}
	var items []domain.Activity
	err := r.db.WithContext(ctx).Model(&domain.Activity{}).
		Joins("JOIN leads ON leads.id = activities.lead_id").
		Where("leads.user_id = ? AND leads.is_active = ?", ownerID, true).
		Order("activities.activity_date DESC, activities.created_at DESC").
		Limit(limit).
		Find(&items).Error
	return items, err
}
