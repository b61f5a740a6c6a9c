package domain

import (
	"context"
	"strings"
	"time"
)

type LeadStatus string

const (
	LeadStatusNew         LeadStatus = "new"
	LeadStatusContacted   LeadStatus = "contacted"
	LeadStatusQualified   LeadStatus = "qualified"
	LeadStatusNegotiation LeadStatus = "negotiation"
	LeadStatusClosed      LeadStatus = "closed"
	LeadStatusLost        LeadStatus = "lost"
)

func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified,
		LeadStatusNegotiation, LeadStatusClosed, LeadStatusLost:
		return true
	}
	return false
}

type Lead struct {
	ID     string `gorm:"primaryKey;type:varchar(32)" json:"id"`
	UserID string `gorm:"index;type:varchar(32);not null" json:"-"`
	User   *User  `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	FirstName string     `gorm:"size:100;not null" json:"first_name"`
	LastName  string     `gorm:"size:100;not null" json:"last_name"`
	Email     string     `gorm:"size:255;not null" json:"email"` // 不唯一：不同用户可录同一联系人
	Phone     string     `gorm:"size:30" json:"phone"`
	Status    LeadStatus `gorm:"size:20;not null;default:new" json:"status"`
	Source    string     `gorm:"size:50" json:"source"` // website/referral/zillow/other

	BudgetMin        *int   `json:"budget_min"`
	BudgetMax        *int   `json:"budget_max"`
	PropertyInterest string `gorm:"type:text" json:"property_interest"`

	IsActive  bool      `gorm:"not null;default:true" json:"is_active"` // 软删标记
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Lead) TableName() string { return "leads" }

func (l *Lead) FullName() string {
	return strings.TrimSpace(l.FirstName + " " + l.LastName)
}

// LeadPatch 稀疏更新：nil 表示未提供该字段
type LeadPatch struct {
	FirstName        *string     `json:"first_name"`
	LastName         *string     `json:"last_name"`
	Email            *string     `json:"email"`
	Phone            *string     `json:"phone"`
	Status           *LeadStatus `json:"status"`
	Source           *string     `json:"source"`
	BudgetMin        *int        `json:"budget_min"`
	BudgetMax        *int        `json:"budget_max"`
	PropertyInterest *string     `json:"property_interest"`
}

// LeadFilter 列表筛选。IsActive 为 nil 时默认仅活跃。
type LeadFilter struct {
	Status   *LeadStatus
	IsActive *bool
	Search   string
	Page     int
}

type LeadRepository interface {
	Create(ctx context.Context, l *Lead) error
	// FindOwned 按 owner+id 查找，含软删（恢复场景要能拿到）
	FindOwned(ctx context.Context, ownerID, id string) (*Lead, error)
	FindOwnedActive(ctx context.Context, ownerID, id string) (*Lead, error)
	List(ctx context.Context, ownerID string, f LeadFilter) ([]Lead, int64, error)
	Update(ctx context.Context, ownerID, id string, fields map[string]any) (int64, error)
	SetActive(ctx context.Context, ownerID, id string, active bool) (int64, error)
	CountByStatus(ctx context.Context, ownerID string) (map[LeadStatus]int64, error)
	CountActive(ctx context.Context, ownerID string) (int64, error)
}
