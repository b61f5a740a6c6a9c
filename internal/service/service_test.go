package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"go-crm-api/internal/core/auth"
	"go-crm-api/internal/domain"
	"go-crm-api/internal/repo"
)

type testEnv struct {
	db         *gorm.DB
	auth       *AuthService
	leads      *LeadService
	activities *ActivityService
	analytics  *AnalyticsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db(): %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&domain.User{}, &domain.Lead{}, &domain.Activity{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	jwter := &auth.JWTer{
		Secret:     []byte("test-secret"),
		Issuer:     "crm-test",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 24 * time.Hour,
	}
	log := zap.NewNop()

	users := repo.NewUserRepo(db)
	leads := repo.NewLeadRepo(db)
	acts := repo.NewActivityRepo(db)

	return &testEnv{
		db:         db,
		auth:       NewAuthService(users, jwter, log),
		leads:      NewLeadService(leads, log),
		activities: NewActivityService(leads, acts, log),
		analytics:  NewAnalyticsService(leads, acts),
	}
}

func (e *testEnv) register(t *testing.T, email string) *domain.User {
	t.Helper()
	u, _, err := e.auth.Register(context.Background(), RegisterInput{
		Email:     email,
		Password:  "newpass123",
		FirstName: "Test",
		LastName:  "User",
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return u
}

func (e *testEnv) createLead(t *testing.T, ownerID string, in LeadCreateInput) *domain.Lead {
	t.Helper()
	if in.FirstName == "" {
		in.FirstName = "Jane"
	}
	if in.LastName == "" {
		in.LastName = "Doe"
	}
	if in.Email == "" {
		in.Email = "jane@example.com"
	}
	l, err := e.leads.Create(context.Background(), ownerID, in)
	if err != nil {
		t.Fatalf("create lead: %v", err)
	}
	return l
}
