package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-crm-api/internal/domain"
	"go-crm-api/internal/service"
	httpez "go-crm-api/internal/transport/http/ez"
)

// AdminHandler 后台端用户管理，分组整体要求 admin 角色
type AdminHandler struct {
	svc *service.UserAdminService
}

func NewAdminHandler(svc *service.UserAdminService) *AdminHandler { return &AdminHandler{svc: svc} }

func (h *AdminHandler) MountAdmin(admin *gin.RouterGroup) {
	e := httpez.New(admin)

	type listQ struct {
		Offset       int    `form:"offset,default=0"`
		Limit        int    `form:"limit,default=20"`
		Q            string `form:"q"`             // 按 email/name 模糊搜
		WithInactive bool   `form:"with_inactive"` // 是否包含已封禁
	}
	type row struct {
		ID        string `json:"id"`
		Email     string `json:"email"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		IsActive  bool   `json:"is_active"`
		IsStaff   bool   `json:"is_staff"`
	}
	type listOut struct {
		Total int64 `json:"total"`
		Items []row `json:"items"`
	}
	httpez.Register(e, httpez.Action[listQ, listOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *listQ) (listOut, error) {
			users, total, err := h.svc.List(c.Request.Context(), domain.UserListFilter{
				Offset:       in.Offset,
				Limit:        in.Limit,
				Search:       in.Q,
				WithInactive: in.WithInactive,
			})
			if err != nil {
				return listOut{}, err
			}
			out := listOut{Total: total, Items: make([]row, 0, len(users))}
			for _, u := range users {
				out.Items = append(out.Items, row{
					ID: u.ID, Email: u.Email,
					FirstName: u.FirstName, LastName: u.LastName,
					IsActive: u.IsActive, IsStaff: u.IsStaff,
				})
			}
			return out, nil
		},
	})

	httpez.Register(e, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/users/:id/ban",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if err := h.svc.Deactivate(c.Request.Context(), id); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})

	httpez.Register(e, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/users/:id/unban",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if err := h.svc.Reactivate(c.Request.Context(), id); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})
}
