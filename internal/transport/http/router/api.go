package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-crm-api/internal/core/auth"
	"go-crm-api/internal/repo"
	"go-crm-api/internal/service"
	"go-crm-api/internal/transport/http/handler"
	mdw "go-crm-api/internal/transport/http/middleware"
)

func NewAPIEngine(l *zap.Logger, db *gorm.DB, jwter *auth.JWTer) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		ginzap.RecoveryWithZap(l, true),
		mdw.Metrics(),
		mdw.AccessLog(l),
		cors.Default(),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 依赖装配
	userRepo := repo.NewUserRepo(db)
	leadRepo := repo.NewLeadRepo(db)
	activityRepo := repo.NewActivityRepo(db)

	authSvc := service.NewAuthService(userRepo, jwter, l)
	leadSvc := service.NewLeadService(leadRepo, l)
	activitySvc := service.NewActivityService(leadRepo, activityRepo, l)
	analyticsSvc := service.NewAnalyticsService(leadRepo, activityRepo)

	reg := NewRegistry()
	reg.Register(handler.NewAuthHandler(authSvc))
	reg.Register(handler.NewLeadHandler(leadSvc))
	reg.Register(handler.NewActivityHandler(activitySvc))
	reg.Register(handler.NewAnalyticsHandler(analyticsSvc))

	api := r.Group("/api/v1")
	authed := api.Group("")
	authed.Use(mdw.AuthJWT(jwter, ""))

	reg.MountAPI(api, authed)

	return r
}
