package handler

import (
	"github.com/gin-gonic/gin"

	"go-crm-api/internal/domain"
)

type userView struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DisplayName string `json:"display_name"`
}

func toUserView(u *domain.User) userView {
	return userView{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		DisplayName: u.DisplayName(),
	}
}

// leadView 在实体外带上计算出的 full_name
type leadView struct {
	domain.Lead
	FullName string `json:"full_name"`
}

func toLeadView(l *domain.Lead) leadView {
	return leadView{Lead: *l, FullName: l.FullName()}
}

func toLeadViews(ls []domain.Lead) []leadView {
	out := make([]leadView, 0, len(ls))
	for i := range ls {
		out = append(out, toLeadView(&ls[i]))
	}
	return out
}

// callerID 鉴权中间件写入的当前用户
func callerID(c *gin.Context) string { return c.GetString("userId") }
