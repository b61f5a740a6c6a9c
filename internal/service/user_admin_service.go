package service

import (
	"context"

	"go.uber.org/zap"

	"go-crm-api/internal/domain"
)

// UserAdminService 后台用户管理（cmd/admin 专用）
type UserAdminService struct {
	users domain.UserRepository
	log   *zap.Logger
}

func NewUserAdminService(users domain.UserRepository, log *zap.Logger) *UserAdminService {
	return &UserAdminService{users: users, log: log}
}

func (s *UserAdminService) List(ctx context.Context, f domain.UserListFilter) ([]domain.User, int64, error) {
	return s.users.List(ctx, f)
}

// Deactivate 封禁：置 is_active=false，被封用户无法再登录
func (s *UserAdminService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return err
	}
	if _, err := s.users.SetActive(ctx, id, false); err != nil {
		return err
	}
	s.log.Info("user deactivated", zap.String("user_id", id))
	return nil
}

func (s *UserAdminService) Reactivate(ctx context.Context, id string) error {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return err
	}
	if _, err := s.users.SetActive(ctx, id, true); err != nil {
		return err
	}
	s.log.Info("user reactivated", zap.String("user_id", id))
	return nil
}
