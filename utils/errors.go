package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/BerniceZTT/crm_followup/models"

	"github.com/gin-gonic/gin"
)

// 错误码
const (
	ErrCodeNotFound     = "RESOURCE_NOT_FOUND"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// ApiError 自定义API错误
type ApiError struct {
	StatusCode int
	Message    string
	ErrorCode  string
}

// Error 实现error接口
func (e *ApiError) Error() string {
	return e.Message
}

// NewApiError 创建API错误
func NewApiError(message string, statusCode int, errorCode string) *ApiError {
	return &ApiError{
		StatusCode: statusCode,
		Message:    message,
		ErrorCode:  errorCode,
	}
}

// CreateNotFoundError 创建资源不存在错误
func CreateNotFoundError(resource string) *ApiError {
	return NewApiError(resource+" not found", http.StatusNotFound, ErrCodeNotFound)
}

// CreateUnauthorizedError 创建未授权错误
func CreateUnauthorizedError() *ApiError {
	return NewApiError("Not logged in", http.StatusUnauthorized, ErrCodeUnauthorized)
}

// CreateForbiddenError 创建权限不足错误
func CreateForbiddenError() *ApiError {
	return NewApiError("Not permitted", http.StatusForbidden, ErrCodeForbidden)
}

// CreateBadRequestError 创建错误请求错误
func CreateBadRequestError(message string) *ApiError {
	return NewApiError(message, http.StatusBadRequest, ErrCodeBadRequest)
}

// excMeta 错误码对应的异常类型与提示标题
var excMeta = map[string]struct{ excType, title string }{
	ErrCodeNotFound:     {"DoesNotExistError", "Not Found"},
	ErrCodeUnauthorized: {"AuthenticationError", "Not Permitted"},
	ErrCodeForbidden:    {"PermissionError", "Not Permitted"},
	ErrCodeBadRequest:   {"ValidationError", "Validation Error"},
	ErrCodeInternal:     {"Exception", "Error"},
}

// ErrorBody 生成错误响应体，同时携带 exception/exc_type/_server_messages 三种格式，
// 前端错误归一化可以按任一格式解析
func ErrorBody(message, code string) gin.H {
	meta, ok := excMeta[code]
	if !ok {
		meta = excMeta[ErrCodeInternal]
	}
	body := gin.H{
		"success":   false,
		"error":     message,
		"exc_type":  meta.excType,
		"exception": fmt.Sprintf("%s: %s", meta.excType, message),
		"_server_messages": models.EncodeServerMessages(models.ServerMessage{
			Message:   message,
			Title:     meta.title,
			Indicator: models.IndicatorRed,
		}),
	}
	if code != "" {
		body["code"] = code
	}
	return body
}

// HandleError 处理错误并返回适当的响应
func HandleError(c *gin.Context, err error) {
	if c == nil || err == nil {
		return
	}
	// 记录错误
	errorMessage := err.Error()
	LogError(err, map[string]interface{}{
		"path":   c.Request.URL.Path,
		"method": c.Request.Method,
	}, "API错误: "+errorMessage)

	// 处理API错误
	var apiErr *ApiError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.StatusCode, ErrorBody(apiErr.Message, apiErr.ErrorCode))
		return
	}

	// 其他未预期的错误
	c.JSON(http.StatusInternalServerError, ErrorBody(errorMessage, ErrCodeInternal))
}

// SuccessResponse 成功响应
func SuccessResponse(c *gin.Context, data interface{}, message string, statusCode ...int) {
	code := http.StatusOK
	if len(statusCode) > 0 {
		code = statusCode[0]
	}

	response := gin.H{"success": true}
	if data != nil {
		response["data"] = data
	}
	if message != "" {
		response["message"] = message
	}

	c.JSON(code, response)
}

// ErrorResponse 错误响应
func ErrorResponse(c *gin.Context, message string, statusCode int) {
	code := ErrCodeInternal
	switch statusCode {
	case http.StatusBadRequest:
		code = ErrCodeBadRequest
	case http.StatusUnauthorized:
		code = ErrCodeUnauthorized
	case http.StatusForbidden:
		code = ErrCodeForbidden
	case http.StatusNotFound:
		code = ErrCodeNotFound
	}
	c.JSON(statusCode, ErrorBody(message, code))
}
