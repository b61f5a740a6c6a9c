package domain

import (
	"context"
	"time"
)

type ActivityType string

const (
	ActivityTypeCall    ActivityType = "call"
	ActivityTypeEmail   ActivityType = "email"
	ActivityTypeMeeting ActivityType = "meeting"
	ActivityTypeNote    ActivityType = "note"
)

func (t ActivityType) Valid() bool {
	switch t {
	case ActivityTypeCall, ActivityTypeEmail, ActivityTypeMeeting, ActivityTypeNote:
		return true
	}
	return false
}

type Activity struct {
	ID     string `gorm:"primaryKey;type:varchar(32)" json:"id"`
	LeadID string `gorm:"index;type:varchar(32);not null" json:"lead_id"`
	Lead   *Lead  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UserID string `gorm:"index;type:varchar(32);not null" json:"user_id"`
	User   *User  `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	ActivityType ActivityType `gorm:"size:20;not null" json:"activity_type"`
	Title        string       `gorm:"size:200;not null" json:"title"`
	Notes        string       `gorm:"type:text" json:"notes"`
	Duration     *int         `json:"duration"` // 分钟；有值必须为正
	ActivityDate time.Time    `gorm:"not null;index" json:"activity_date"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Activity) TableName() string { return "activities" }

// ActivityPatch 稀疏更新：nil 表示未提供该字段
type ActivityPatch struct {
	ActivityType *ActivityType `json:"activity_type"`
	Title        *string       `json:"title"`
	Notes        *string       `json:"notes"`
	Duration     *int          `json:"duration"`
	ActivityDate *time.Time    `json:"activity_date"`
}

// 默认排序恒为 activity_date DESC, created_at DESC
type ActivityRepository interface {
	Create(ctx context.Context, a *Activity) error
	ListByLead(ctx context.Context, leadID string) ([]Activity, error)
	FindByLead(ctx context.Context, leadID, id string) (*Activity, error)
	Update(ctx context.Context, leadID, id string, fields map[string]any) (int64, error)
	Delete(ctx context.Context, leadID, id string) (int64, error)
	// RecentByOwner 跨 owner 的全部活跃 lead 汇总最近活动
	RecentByOwner(ctx context.Context, ownerID string, limit int) ([]Activity, error)
}
