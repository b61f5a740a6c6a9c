package router

import (
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-crm-api/internal/core/auth"
	"go-crm-api/internal/repo"
	"go-crm-api/internal/service"
	"go-crm-api/internal/transport/http/handler"
	mdw "go-crm-api/internal/transport/http/middleware"
)

func NewAdminEngine(l *zap.Logger, db *gorm.DB, jwter *auth.JWTer) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(50, 100),
		mdw.ConcurrencyLimit(100),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		ginzap.RecoveryWithZap(l, true),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })

	adminSvc := service.NewUserAdminService(repo.NewUserRepo(db), l)

	reg := NewRegistry()
	reg.Register(handler.NewAdminHandler(adminSvc))

	// 管理端 v1（整组要求 admin 角色）
	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(jwter, "admin"))
	reg.MountAdmin(admin)

	return r
}
