package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 通用返回结构里的 data 使用 map
type Response map[string]interface{}

// 业务错误码
const (
	CodeOK                = 0
	CodeInvalidParam      = 40001
	CodeInvalidAmount     = 40002
	CodeInsufficientFunds = 40003
	CodeGoalNotFunded     = 40004
	CodeGoalPurchased     = 40005
	CodeAuth              = 40101
	CodeForbidden         = 40301
	CodeNotFound          = 40401
	CodeGoalNotFound      = 40402
	CodeConflict          = 40901
	CodeUnreachable       = 42201
	CodeServerErr         = 50001
)

// Success 统一成功返回
func Success(c *gin.Context, data Response) {
	c.JSON(http.StatusOK, gin.H{
		"code": CodeOK,
		"data": data,
	})
}

// Error 统一错误返回
func Error(c *gin.Context, httpStatus int, code int, msg string) {
	c.JSON(httpStatus, gin.H{
		"code":    code,
		"message": msg,
	})
}

// ErrorWith 错误返回，附带额外数据（例如请求金额与可用余额）
func ErrorWith(c *gin.Context, httpStatus int, code int, msg string, data Response) {
	c.JSON(httpStatus, gin.H{
		"code":    code,
		"message": msg,
		"data":    data,
	})
}
