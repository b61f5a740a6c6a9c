package domain

import (
	"context"
	"strings"
	"time"
)

type User struct {
	ID           string `gorm:"primaryKey;type:varchar(32)" json:"id"`
	Username     string `gorm:"uniqueIndex;size:255;not null" json:"username"` // 登录名，永远与 Email 保持一致
	Email        string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	FirstName    string `gorm:"size:100" json:"first_name"`
	LastName     string `gorm:"size:100" json:"last_name"`
	PasswordHash string `gorm:"size:100;not null" json:"-"`

	IsActive    bool `gorm:"not null;default:true" json:"is_active"`
	IsStaff     bool `gorm:"not null;default:false" json:"-"`
	IsSuperuser bool `gorm:"not null;default:false" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }

// DisplayName 展示名：First Last → 单边 → 邮箱兜底
func (u *User) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name == "" {
		return u.Email
	}
	return name
}

func (u *User) Role() string {
	if u.IsStaff {
		return "admin"
	}
	return "user"
}

// UserPatch 稀疏更新：nil 表示未提供该字段
type UserPatch struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
}

type UserListFilter struct {
	Offset       int
	Limit        int
	Search       string // email/name 模糊搜
	WithInactive bool
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	EmailTaken(ctx context.Context, email, excludeID string) (bool, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	List(ctx context.Context, f UserListFilter) ([]User, int64, error)
	SetActive(ctx context.Context, id string, active bool) (int64, error)
}
