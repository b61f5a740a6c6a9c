package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-crm-api/internal/service"
	httpez "go-crm-api/internal/transport/http/ez"
)

type AnalyticsHandler struct {
	svc *service.AnalyticsService
}

func NewAnalyticsHandler(svc *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

func (h *AnalyticsHandler) MountAPI(_, authed *gin.RouterGroup) {
	e := httpez.New(authed)

	httpez.Register(e, httpez.Action[struct{}, *service.Summary]{
		Method: http.MethodGet,
		Path:   "/analytics",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*service.Summary, error) {
			return h.svc.Summary(c.Request.Context(), callerID(c))
		},
	})
}
