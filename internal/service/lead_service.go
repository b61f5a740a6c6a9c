package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"go-crm-api/internal/domain"
	"go-crm-api/pkg/utils"
)

type LeadService struct {
	leads domain.LeadRepository
	log   *zap.Logger
}

func NewLeadService(leads domain.LeadRepository, log *zap.Logger) *LeadService {
	return &LeadService{leads: leads, log: log}
}

type LeadCreateInput struct {
	FirstName        string
	LastName         string
	Email            string
	Phone            string
	Status           domain.LeadStatus
	Source           string
	BudgetMin        *int
	BudgetMax        *int
	PropertyInterest string
}

// Create 归属强制为 caller，客户端传的 owner 一律无视
func (s *LeadService) Create(ctx context.Context, ownerID string, in LeadCreateInput) (*domain.Lead, error) {
	if strings.TrimSpace(in.FirstName) == "" {
		return nil, domain.Invalid("first_name", "this field is required")
	}
	if strings.TrimSpace(in.LastName) == "" {
		return nil, domain.Invalid("last_name", "this field is required")
	}
	if strings.TrimSpace(in.Email) == "" {
		return nil, domain.Invalid("email", "this field is required")
	}
	status := in.Status
	if status == "" {
		status = domain.LeadStatusNew
	}
	if !status.Valid() {
		return nil, domain.Invalid("status", "not a valid choice")
	}

	l := &domain.Lead{
		ID:               utils.NewID(),
		UserID:           ownerID,
		FirstName:        strings.TrimSpace(in.FirstName),
		LastName:         strings.TrimSpace(in.LastName),
		Email:            strings.TrimSpace(in.Email),
		Phone:            in.Phone,
		Status:           status,
		Source:           in.Source,
		BudgetMin:        in.BudgetMin,
		BudgetMax:        in.BudgetMax,
		PropertyInterest: in.PropertyInterest,
		IsActive:         true,
	}
	if err := s.leads.Create(ctx, l); err != nil {
		return nil, err
	}
	s.log.Info("lead created", zap.String("lead_id", l.ID), zap.String("user_id", ownerID))
	return l, nil
}

func (s *LeadService) List(ctx context.Context, ownerID string, f domain.LeadFilter) ([]domain.Lead, int64, error) {
	if f.Status != nil && !f.Status.Valid() {
		return nil, 0, domain.Invalid("status", "not a valid choice")
	}
	return s.leads.List(ctx, ownerID, f)
}

// Get 按 id 取自己的 lead，软删的也能取到（恢复页需要）
func (s *LeadService) Get(ctx context.Context, ownerID, id string) (*domain.Lead, error) {
	return s.leads.FindOwned(ctx, ownerID, id)
}

// Update 只对活跃 lead 生效；id/owner/active/时间戳不可被客户端改动
func (s *LeadService) Update(ctx context.Context, ownerID, id string, p domain.LeadPatch) (*domain.Lead, error) {
	if _, err := s.leads.FindOwnedActive(ctx, ownerID, id); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if p.FirstName != nil {
		if strings.TrimSpace(*p.FirstName) == "" {
			return nil, domain.Invalid("first_name", "this field may not be blank")
		}
		fields["first_name"] = strings.TrimSpace(*p.FirstName)
	}
	if p.LastName != nil {
		if strings.TrimSpace(*p.LastName) == "" {
			return nil, domain.Invalid("last_name", "this field may not be blank")
		}
		fields["last_name"] = strings.TrimSpace(*p.LastName)
	}
	if p.Email != nil {
		if strings.TrimSpace(*p.Email) == "" {
			return nil, domain.Invalid("email", "this field may not be blank")
		}
		fields["email"] = strings.TrimSpace(*p.Email)
	}
	if p.Phone != nil {
		fields["phone"] = *p.Phone
	}
	if p.Status != nil {
		if !p.Status.Valid() {
			return nil, domain.Invalid("status", "not a valid choice")
		}
		fields["status"] = *p.Status
	}
	if p.Source != nil {
		fields["source"] = *p.Source
	}
	if p.BudgetMin != nil {
		fields["budget_min"] = *p.BudgetMin
	}
	if p.BudgetMax != nil {
		fields["budget_max"] = *p.BudgetMax
	}
	if p.PropertyInterest != nil {
		fields["property_interest"] = *p.PropertyInterest
	}
	if len(fields) == 0 {
		return s.leads.FindOwned(ctx, ownerID, id)
	}

	rows, err := s.leads.Update(ctx, ownerID, id, fields)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, domain.ErrNotFound
	}
	return s.leads.FindOwned(ctx, ownerID, id)
}

// SoftDelete 置 is_active=false。重复删除幂等成功。
func (s *LeadService) SoftDelete(ctx context.Context, ownerID, id string) error {
	l, err := s.leads.FindOwned(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if !l.IsActive {
		return nil
	}
	_, err = s.leads.SetActive(ctx, ownerID, id, false)
	return err
}

// Restore 只允许 Inactive → Active；已激活报冲突而不是静默成功
func (s *LeadService) Restore(ctx context.Context, ownerID, id string) (*domain.Lead, error) {
	l, err := s.leads.FindOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if l.IsActive {
		return nil, domain.Conflict("Lead is already active")
	}
	if _, err := s.leads.SetActive(ctx, ownerID, id, true); err != nil {
		return nil, err
	}
	return s.leads.FindOwned(ctx, ownerID, id)
}
