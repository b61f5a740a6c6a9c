package repo

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"go-crm-api/internal/domain"
	"go-crm-api/pkg/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// :memory: 跟连接走，多开连接会各自一个库
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db(): %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&domain.User{}, &domain.Lead{}, &domain.Activity{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *domain.User {
	t.Helper()
	u := &domain.User{
		ID:           utils.NewID(),
		Username:     email,
		Email:        email,
		PasswordHash: "x",
		IsActive:     true,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func seedLead(t *testing.T, db *gorm.DB, userID string, mut func(*domain.Lead)) *domain.Lead {
	t.Helper()
	l := &domain.Lead{
		ID:        utils.NewID(),
		UserID:    userID,
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Status:    domain.LeadStatusNew,
		IsActive:  true,
	}
	if mut != nil {
		mut(l)
	}
	if err := db.Create(l).Error; err != nil {
		t.Fatalf("seed lead: %v", err)
	}
	// is_active 带列默认值，零值在 INSERT 里会被跳过，只能事后改
	if !l.IsActive {
		if err := db.Model(l).Update("is_active", false).Error; err != nil {
			t.Fatalf("seed lead inactive: %v", err)
		}
	}
	return l
}

func seedActivity(t *testing.T, db *gorm.DB, leadID, userID string, date, created time.Time) *domain.Activity {
	t.Helper()
	a := &domain.Activity{
		ID:           utils.NewID(),
		LeadID:       leadID,
		UserID:       userID,
		ActivityType: domain.ActivityTypeCall,
		Title:        "call",
		ActivityDate: date,
		CreatedAt:    created, // 非零值时 gorm 不覆盖，方便控制并列排序
	}
	if err := db.Create(a).Error; err != nil {
		t.Fatalf("seed activity: %v", err)
	}
	return a
}
