package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-crm-api/internal/domain"
	"go-crm-api/internal/service"
	httpez "go-crm-api/internal/transport/http/ez"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

func (h *AuthHandler) MountAPI(public, authed *gin.RouterGroup) {
	ezPublic := httpez.New(public)

	// 注册即登录：201 + token 对 + 公开档案
	type registerIn struct {
		Email     string `json:"email"      binding:"required,email"`
		Password  string `json:"password"   binding:"required"`
		FirstName string `json:"first_name" binding:"omitempty,max=100"`
		LastName  string `json:"last_name"  binding:"omitempty,max=100"`
	}
	httpez.Register(ezPublic, httpez.Action[registerIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *registerIn) (gin.H, error) {
			u, pair, err := h.svc.Register(c.Request.Context(), service.RegisterInput{
				Email:     in.Email,
				Password:  in.Password,
				FirstName: in.FirstName,
				LastName:  in.LastName,
			})
			if err != nil {
				return nil, err
			}
			return gin.H{"access": pair.Access, "refresh": pair.Refresh, "user": toUserView(u)}, nil
		},
	})

	type loginIn struct {
		Email    string `json:"email"    binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	httpez.Register(ezPublic, httpez.Action[loginIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (gin.H, error) {
			u, pair, err := h.svc.Login(c.Request.Context(), in.Email, in.Password)
			if err != nil {
				return nil, err
			}
			return gin.H{"access": pair.Access, "refresh": pair.Refresh, "user": toUserView(u)}, nil
		},
	})

	type refreshIn struct {
		Refresh string `json:"refresh" binding:"required"`
	}
	httpez.Register(ezPublic, httpez.Action[refreshIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/auth/refresh",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *refreshIn) (gin.H, error) {
			access, err := h.svc.Refresh(c.Request.Context(), in.Refresh)
			if err != nil {
				return nil, err
			}
			return gin.H{"access": access}, nil
		},
	})

	ezAuth := httpez.New(authed)

	httpez.Register(ezAuth, httpez.Action[struct{}, userView]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (userView, error) {
			u, err := h.svc.Me(c.Request.Context(), callerID(c))
			if err != nil {
				return userView{}, err
			}
			return toUserView(u), nil
		},
	})

	httpez.Register(ezAuth, httpez.Action[domain.UserPatch, userView]{
		Method: http.MethodPatch,
		Path:   "/me",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *domain.UserPatch) (userView, error) {
			u, err := h.svc.UpdateMe(c.Request.Context(), callerID(c), *in)
			if err != nil {
				return userView{}, err
			}
			return toUserView(u), nil
		},
	})
}
