package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-crm-api/internal/domain"
	"go-crm-api/internal/repo"
	"go-crm-api/internal/service"
	httpez "go-crm-api/internal/transport/http/ez"
)

type LeadHandler struct {
	svc *service.LeadService
}

func NewLeadHandler(svc *service.LeadService) *LeadHandler { return &LeadHandler{svc: svc} }

func (h *LeadHandler) MountAPI(_, authed *gin.RouterGroup) {
	e := httpez.New(authed)

	// 列表：owner 固定为 caller；is_active 不传时默认只看活跃的
	type listQ struct {
		Page     int    `form:"page,default=1"`
		Status   string `form:"status"`
		IsActive *bool  `form:"is_active"`
		Search   string `form:"search"`
	}
	httpez.Register(e, httpez.Action[listQ, gin.H]{
		Method: http.MethodGet,
		Path:   "/leads",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *listQ) (gin.H, error) {
			f := domain.LeadFilter{
				IsActive: in.IsActive,
				Search:   in.Search,
				Page:     in.Page,
			}
			if s := strings.TrimSpace(in.Status); s != "" {
				st := domain.LeadStatus(s)
				f.Status = &st
			}
			leads, total, err := h.svc.List(c.Request.Context(), callerID(c), f)
			if err != nil {
				return nil, err
			}
			page := in.Page
			if page <= 0 {
				page = 1
			}
			return gin.H{
				"list": toLeadViews(leads), "total": total,
				"page": page, "size": repo.PageSize,
			}, nil
		},
	})

	type leadIn struct {
		FirstName        string `json:"first_name" binding:"required,max=100"`
		LastName         string `json:"last_name"  binding:"required,max=100"`
		Email            string `json:"email"      binding:"required,email"`
		Phone            string `json:"phone"      binding:"omitempty,max=30"`
		Status           string `json:"status"     binding:"omitempty,max=20"`
		Source           string `json:"source"     binding:"omitempty,max=50"`
		BudgetMin        *int   `json:"budget_min"`
		BudgetMax        *int   `json:"budget_max"`
		PropertyInterest string `json:"property_interest"`
	}
	httpez.Register(e, httpez.Action[leadIn, leadView]{
		Method: http.MethodPost,
		Path:   "/leads",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *leadIn) (leadView, error) {
			l, err := h.svc.Create(c.Request.Context(), callerID(c), service.LeadCreateInput{
				FirstName:        in.FirstName,
				LastName:         in.LastName,
				Email:            in.Email,
				Phone:            in.Phone,
				Status:           domain.LeadStatus(in.Status),
				Source:           in.Source,
				BudgetMin:        in.BudgetMin,
				BudgetMax:        in.BudgetMax,
				PropertyInterest: in.PropertyInterest,
			})
			if err != nil {
				return leadView{}, err
			}
			return toLeadView(l), nil
		},
	})

	httpez.Register(e, httpez.Action[struct{}, leadView]{
		Method: http.MethodGet,
		Path:   "/leads/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (leadView, error) {
			l, err := h.svc.Get(c.Request.Context(), callerID(c), c.Param("id"))
			if err != nil {
				return leadView{}, err
			}
			return toLeadView(l), nil
		},
	})

	httpez.Register(e, httpez.Action[domain.LeadPatch, leadView]{
		Method: http.MethodPatch,
		Path:   "/leads/:id",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *domain.LeadPatch) (leadView, error) {
			l, err := h.svc.Update(c.Request.Context(), callerID(c), c.Param("id"), *in)
			if err != nil {
				return leadView{}, err
			}
			return toLeadView(l), nil
		},
	})

	// DELETE 是软删；重复删仍然 204
	httpez.Register(e, httpez.Action[struct{}, struct{}]{
		Method: http.MethodDelete,
		Path:   "/leads/:id",
		Binder: httpez.BindNone,
		Status: http.StatusNoContent,
		Handler: func(c *gin.Context, _ *struct{}) (struct{}, error) {
			return struct{}{}, h.svc.SoftDelete(c.Request.Context(), callerID(c), c.Param("id"))
		},
	})

	httpez.Register(e, httpez.Action[struct{}, leadView]{
		Method: http.MethodPost,
		Path:   "/leads/:id/restore",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (leadView, error) {
			l, err := h.svc.Restore(c.Request.Context(), callerID(c), c.Param("id"))
			if err != nil {
				return leadView{}, err
			}
			return toLeadView(l), nil
		},
	})
}
