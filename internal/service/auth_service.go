package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"go-crm-api/internal/core/auth"
	"go-crm-api/internal/domain"
	"go-crm-api/pkg/utils"
)

// dummyHash 给不存在的邮箱走一次同样的 bcrypt 比较，
// 让“邮箱不存在”和“密码错误”耗时与返回完全一致，防用户枚举。
var dummyHash = utils.HashPassword("3f1c0b7e-nonexistent-credential")

type AuthService struct {
	users domain.UserRepository
	jwter *auth.JWTer
	log   *zap.Logger
}

func NewAuthService(users domain.UserRepository, jwter *auth.JWTer, log *zap.Logger) *AuthService {
	return &AuthService{users: users, jwter: jwter, log: log}
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Register 创建账号并直接签发 token（注册即登录）。登录名强制等于邮箱。
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, auth.TokenPair, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return nil, auth.TokenPair{}, domain.Invalid("email", "this field is required")
	}
	if err := utils.ValidatePassword(in.Password); err != nil {
		return nil, auth.TokenPair{}, err
	}
	taken, err := s.users.EmailTaken(ctx, email, "")
	if err != nil {
		return nil, auth.TokenPair{}, err
	}
	if taken {
		return nil, auth.TokenPair{}, domain.Invalid("email", "a user with this email already exists")
	}

	u := &domain.User{
		ID:           utils.NewID(),
		Username:     email, // 与邮箱同步
		Email:        email,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PasswordHash: utils.HashPassword(in.Password),
		IsActive:     true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		// 并发注册撞唯一索引也按重复邮箱报
		if isDupKey(err) {
			return nil, auth.TokenPair{}, domain.Invalid("email", "a user with this email already exists")
		}
		return nil, auth.TokenPair{}, err
	}

	pair, err := s.jwter.IssuePair(u.ID, u.Role())
	if err != nil {
		return nil, auth.TokenPair{}, err
	}
	s.log.Info("user registered", zap.String("user_id", u.ID))
	return u, pair, nil
}

// Login 按邮箱认证。失败路径统一，不区分“邮箱不存在”与“密码错误”。
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, auth.TokenPair, error) {
	u, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			utils.CheckPassword(password, dummyHash)
			return nil, auth.TokenPair{}, domain.ErrInvalidCredentials
		}
		return nil, auth.TokenPair{}, err
	}
	if !u.IsActive || !utils.CheckPassword(password, u.PasswordHash) {
		return nil, auth.TokenPair{}, domain.ErrInvalidCredentials
	}
	pair, err := s.jwter.IssuePair(u.ID, u.Role())
	if err != nil {
		return nil, auth.TokenPair{}, err
	}
	return u, pair, nil
}

// Refresh 用有效的 refresh token 换新 access token
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	c, err := s.jwter.ParseRefresh(refreshToken)
	if err != nil {
		return "", domain.ErrInvalidCredentials
	}
	u, err := s.users.FindByID(ctx, c.UID)
	if err != nil || !u.IsActive {
		return "", domain.ErrInvalidCredentials
	}
	return s.jwter.IssueAccess(u.ID, u.Role())
}

func (s *AuthService) Me(ctx context.Context, uid string) (*domain.User, error) {
	return s.users.FindByID(ctx, uid)
}

// UpdateMe 只更新提供的字段；改邮箱时登录名在同一次更新里改写，两者永不分叉。
// 邮箱唯一性在更新时同样校验（排除自己）。
func (s *AuthService) UpdateMe(ctx context.Context, uid string, p domain.UserPatch) (*domain.User, error) {
	fields := map[string]any{}
	if p.FirstName != nil {
		fields["first_name"] = strings.TrimSpace(*p.FirstName)
	}
	if p.LastName != nil {
		fields["last_name"] = strings.TrimSpace(*p.LastName)
	}
	if p.Email != nil {
		email := strings.TrimSpace(*p.Email)
		if email == "" {
			return nil, domain.Invalid("email", "this field may not be blank")
		}
		taken, err := s.users.EmailTaken(ctx, email, uid)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domain.Invalid("email", "a user with this email already exists")
		}
		fields["email"] = email
		fields["username"] = email
	}
	if len(fields) == 0 {
		return s.users.FindByID(ctx, uid)
	}
	if err := s.users.Update(ctx, uid, fields); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, uid)
}

func isDupKey(err error) bool {
	// 不依赖 gorm.ErrDuplicatedKey，避免驱动差异
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "unique failed")
}
