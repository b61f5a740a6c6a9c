package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"go-crm-api/internal/core/auth"
	resp "go-crm-api/internal/transport/http/response"
)

// AuthJWT 解析 Bearer access token，把 userId/role 放进上下文。
// requireRole 非空时额外校验角色（后台端用 "admin"）。
func AuthJWT(j *auth.JWTer, requireRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			resp.AbortFail(c, resp.CodeUnauthorized, "missing token")
			return
		}
		claims, err := j.ParseAccess(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			resp.AbortFail(c, resp.CodeUnauthorized, "invalid token")
			return
		}
		if requireRole != "" && claims.Role != requireRole {
			resp.AbortFail(c, resp.CodeForbidden, "forbidden")
			return
		}
		c.Set("userId", claims.UID)
		c.Set("role", claims.Role)
		c.Set("claims", claims)
		c.Next()
	}
}
