package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Resp struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data"`
}

// New 构造函数（保证 data 不为 null）
func New(code int, msg string, data interface{}) Resp {
	if data == nil {
		data = struct{}{}
	}
	return Resp{Code: code, Msg: msg, Data: data}
}

// OK 200 成功
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, New(CodeOK, CodeMsgMap[CodeOK], data))
}

// Created 201 创建成功
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, New(CodeOK, CodeMsgMap[CodeOK], data))
}

// NoContent 204 无响应体
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Fail 失败：HTTP 状态码与业务码一致；data 可携带字段级错误映射
func Fail(c *gin.Context, code int, customMsg string, data interface{}) {
	msg := CodeMsgMap[code]
	if customMsg != "" {
		msg = customMsg
	}
	c.JSON(code, New(code, msg, data))
}

// AbortFail 中间件里用：失败并终止后续 handler
func AbortFail(c *gin.Context, code int, customMsg string) {
	msg := CodeMsgMap[code]
	if customMsg != "" {
		msg = customMsg
	}
	c.AbortWithStatusJSON(code, New(code, msg, nil))
}
