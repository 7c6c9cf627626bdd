package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alvstore/muscle-garage-gym-management/internal/error/code"
)

// Response 定义统一的响应格式
// 每个接口都返回该信封：success 必有，data/error/errorCode 按需出现
type Response struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	ErrorCode string      `json:"errorCode,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// Fail 失败响应（按应用错误码）
func Fail(c *gin.Context, errorCode int) {
	c.JSON(code.GetStatus(errorCode), Response{
		Success: false,
		Error:   code.GetMessage(errorCode),
	})
}

// FailWithMessage 失败响应（自定义消息）
func FailWithMessage(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, Response{
		Success: false,
		Error:   message,
	})
}

// FailWithVendorError 失败响应（海康调用失败）
func FailWithVendorError(c *gin.Context, vendorErr *code.VendorError) {
	c.JSON(vendorErr.Status, Response{
		Success:   false,
		Error:     vendorErr.Message,
		ErrorCode: vendorErr.VendorCode,
	})
}

// ParamError 参数错误响应
func ParamError(c *gin.Context, message string) {
	c.JSON(code.StatusBadRequest, Response{
		Success: false,
		Error:   message,
	})
}

// ServerError 服务器错误响应
func ServerError(c *gin.Context, message string) {
	if message == "" {
		message = code.GetMessage(code.ErrUnknown)
	}
	c.JSON(code.StatusInternalServerError, Response{
		Success: false,
		Error:   message,
	})
}

// Unauthorized 未授权响应
func Unauthorized(c *gin.Context) {
	Fail(c, code.ErrTokenInvalid)
}
