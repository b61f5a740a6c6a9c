package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"go-crm-api/internal/domain"
)

// PageSize 列表固定分页大小
const PageSize = 20

type LeadRepo struct{ db *gorm.DB }

func NewLeadRepo(db *gorm.DB) *LeadRepo { return &LeadRepo{db: db} }

func (r *LeadRepo) Create(ctx context.Context, l *domain.Lead) error {
	return r.db.WithContext(ctx).Create(l).Error
}

// FindOwned 含软删记录；查不到（或不是自己的）一律 ErrNotFound
func (r *LeadRepo) FindOwned(ctx context.Context, ownerID, id string) (*domain.Lead, error) {
	var l domain.Lead
	err := r.db.WithContext(ctx).First(&l, "user_id = ? AND id = ?", ownerID, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LeadRepo) FindOwnedActive(ctx context.Context, ownerID, id string) (*domain.Lead, error) {
	var l domain.Lead
	err := r.db.WithContext(ctx).
		First(&l, "user_id = ? AND id = ? AND is_active = ?", ownerID, id, true).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LeadRepo) List(ctx context.Context, ownerID string, f domain.LeadFilter) ([]domain.Lead, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Lead{}).Where("user_id = ?", ownerID)
	if f.IsActive != nil {
		q = q.Where("is_active = ?", *f.IsActive)
	} else {
		// 缺省仅活跃；显式传参才可翻出软删记录
		q = q.Where("is_active = ?", true)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + s + "%"
		q = q.Where("first_name LIKE ? OR last_name LIKE ? OR email LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := f.Page
	if page <= 0 {
		page = 1
	}
	var leads []domain.Lead
	err := q.Order("created_at DESC, id DESC").
		Limit(PageSize).Offset((page - 1) * PageSize).
		Find(&leads).Error
	if err != nil {
		return nil, 0, err
	}
	return leads, total, nil
}

func (r *LeadRepo) Update(ctx context.Context, ownerID, id string, fields map[string]any) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.Lead{}).
		Where("user_id = ? AND id = ?", ownerID, id).
		Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *LeadRepo) SetActive(ctx context.Context, ownerID, id string, active bool) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.Lead{}).
		Where("user_id = ? AND id = ?", ownerID, id).
		Update("is_active", active)
	return res.RowsAffected, res.Error
}

func (r *LeadRepo) CountByStatus(ctx context.Context, ownerID string) (map[domain.LeadStatus]int64, error) {
	var rows []struct {
		Status domain.LeadStatus
		N      int64
	}
	err := r.db.WithContext(ctx).Model(&domain.Lead{}).
		Select("status, COUNT(*) AS n").
		Where("user_id = ? AND is_active = ?", ownerID, true).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	// 只含实际出现的状态，不做零填充
	out := make(map[domain.LeadStatus]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.N
	}
	return out, nil
}

func (r *LeadRepo) CountActive(ctx context.Context, ownerID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Lead{}).
		Where("user_id = ? AND is_active = ?", ownerID, true).
		Count(&n).Error
	return n, err
}
