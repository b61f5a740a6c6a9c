package ez

import (
	"errors"
	"net/http"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"go-crm-api/internal/domain"
	resp "go-crm-api/internal/transport/http/response"
)

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON body 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param 取
)

// Action 一行注册一个接口：I 入参，O 出参。
// 路由参数（:id 等）handler 内自取；域错误在这里统一映射到 HTTP 状态码。
type Action[I any, O any] struct {
	Method  string // "GET" | "POST" | "PATCH" | "DELETE"
	Path    string // 例："/leads/:id/restore"
	Binder  Binder
	Status  int // 成功状态码，0 视为 200；204 不写响应体
	Handler func(c *gin.Context, in *I) (O, error)
}

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

func Register[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		default: // BindNone
		}
		if bindErr != nil {
			msg, fields := bindError(bindErr)
			resp.Fail(c, resp.CodeBadRequest, msg, fields)
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			Abort(c, err)
			return
		}

		switch a.Status {
		case http.StatusNoContent:
			resp.NoContent(c)
		case http.StatusCreated:
			resp.Created(c, out)
		default:
			resp.OK(c, out)
		}
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPatch:
		e.g.PATCH(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default:
		e.g.POST(a.Path, h)
	}
}

// Abort 域错误 → HTTP 映射。
// 404 覆盖“资源不存在”和“不是自己的资源”两种情况，绝不回 403。
func Abort(c *gin.Context, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		resp.Fail(c, resp.CodeBadRequest, "validation failed", ve.Fields)
		return
	}
	var ce *domain.ConflictError
	if errors.As(err, &ce) {
		resp.Fail(c, resp.CodeBadRequest, ce.Msg, nil)
		return
	}
	if errors.Is(err, domain.ErrNotFound) {
		resp.Fail(c, resp.CodeNotFound, "not found", nil)
		return
	}
	if errors.Is(err, domain.ErrInvalidCredentials) {
		resp.Fail(c, resp.CodeUnauthorized, "invalid credentials", nil)
		return
	}
	_ = c.Error(err) // 进访问日志
	resp.Fail(c, resp.CodeServerError, "internal error", nil)
}

// bindError 把 binding 校验错误转成 字段→消息 映射
func bindError(err error) (string, map[string]string) {
	var ves validator.ValidationErrors
	if errors.As(err, &ves) {
		fields := make(map[string]string, len(ves))
		for _, fe := range ves {
			fields[toSnake(fe.Field())] = "failed '" + fe.Tag() + "' validation"
		}
		return "validation failed", fields
	}
	return err.Error(), nil
}

func toSnake(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
