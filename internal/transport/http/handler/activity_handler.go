package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-crm-api/internal/domain"
	"go-crm-api/internal/service"
	httpez "go-crm-api/internal/transport/http/ez"
)

type ActivityHandler struct {
	svc *service.ActivityService
}

func NewActivityHandler(svc *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{svc: svc}
}

func (h *ActivityHandler) MountAPI(_, authed *gin.RouterGroup) {
	e := httpez.New(authed)

	httpez.Register(e, httpez.Action[struct{}, []domain.Activity]{
		Method: http.MethodGet,
		Path:   "/leads/:id/activities",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Activity, error) {
			return h.svc.ListForLead(c.Request.Context(), callerID(c), c.Param("id"))
		},
	})

	type activityIn struct {
		ActivityType string    `json:"activity_type" binding:"required,max=20"`
		Title        string    `json:"title"         binding:"required,max=200"`
		Notes        string    `json:"notes"`
		Duration     *int      `json:"duration"`
		ActivityDate time.Time `json:"activity_date" binding:"required"`
	}
	httpez.Register(e, httpez.Action[activityIn, domain.Activity]{
		Method: http.MethodPost,
		Path:   "/leads/:id/activities",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *activityIn) (domain.Activity, error) {
			a, err := h.svc.Create(c.Request.Context(), callerID(c), c.Param("id"), service.ActivityCreateInput{
				ActivityType: domain.ActivityType(in.ActivityType),
				Title:        in.Title,
				Notes:        in.Notes,
				Duration:     in.Duration,
				ActivityDate: in.ActivityDate,
			})
			if err != nil {
				return domain.Activity{}, err
			}
			return *a, nil
		},
	})

	httpez.Register(e, httpez.Action[struct{}, domain.Activity]{
		Method: http.MethodGet,
		Path:   "/leads/:id/activities/:aid",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (domain.Activity, error) {
			a, err := h.svc.Get(c.Request.Context(), callerID(c), c.Param("id"), c.Param("aid"))
			if err != nil {
				return domain.Activity{}, err
			}
			return *a, nil
		},
	})

	httpez.Register(e, httpez.Action[domain.ActivityPatch, domain.Activity]{
		Method: http.MethodPatch,
		Path:   "/leads/:id/activities/:aid",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *domain.ActivityPatch) (domain.Activity, error) {
			a, err := h.svc.Update(c.Request.Context(), callerID(c), c.Param("id"), c.Param("aid"), *in)
			if err != nil {
				return domain.Activity{}, err
			}
			return *a, nil
		},
	})

	// 活动是硬删
	httpez.Register(e, httpez.Action[struct{}, struct{}]{
		Method: http.MethodDelete,
		Path:   "/leads/:id/activities/:aid",
		Binder: httpez.BindNone,
		Status: http.StatusNoContent,
		Handler: func(c *gin.Context, _ *struct{}) (struct{}, error) {
			return struct{}{}, h.svc.Delete(c.Request.Context(), callerID(c), c.Param("id"), c.Param("aid"))
		},
	})

	httpez.Register(e, httpez.Action[struct{}, []domain.Activity]{
		Method: http.MethodGet,
		Path:   "/activities/recent",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Activity, error) {
			return h.svc.Recent(c.Request.Context(), callerID(c))
		},
	})
}
