package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/BerniceZTT/crm_followup/models"
	"github.com/BerniceZTT/crm_followup/utils"

	"github.com/gin-gonic/gin"
)

// OperationLogSink 操作日志的存储
type OperationLogSink interface {
	InsertOperationLog(ctx context.Context, entry models.OperationLog) error
}

// 需要记录的HTTP方法
var loggedMethods = map[string]bool{
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodDelete: true,
	http.MethodPatch:  true,
}

// 不需要记录的路径
var excludedPaths = map[string]bool{
	"/api/auth/login":              true,
	"/api/auth/validate":           true,
	"/api/health":                  true,
	"/api/notifications/normalize": true,
}

// OperationLoggerMiddleware 记录写操作（标记跟进、生成记录、创建报价单等）
func OperationLoggerMiddleware(sink OperationLogSink) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sink == nil || !shouldLogOperation(c) {
			c.Next()
			return
		}

		startTime := time.Now()
		requestBytes := readBody(c)
		requestBody := decodeBody(requestBytes, c.Request.Header.Get("Content-Type"))

		blw := &bodyLogWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = blw

		c.Next()

		operatorID, operatorName, operatorRole := extractUserInfo(c)
		status := c.Writer.Status()

		entry := models.OperationLog{
			Method:        c.Request.Method,
			Path:          c.Request.URL.Path,
			Route:         c.FullPath(),
			OperatorID:    operatorID,
			OperatorName:  operatorName,
			OperatorRole:  operatorRole,
			RequestBody:   sanitizeData(requestBody),
			RequestHeader: sanitizeHeaders(c.Request.Header),
			ResponseData:  sanitizeData(decodeBody(blw.body.Bytes(), c.Writer.Header().Get("Content-Type"))),
			StatusCode:    status,
			Success:       status < http.StatusBadRequest,
			OperationTime: startTime,
			ResponseTime:  time.Since(startTime).Milliseconds(),
			IPAddress:     getClientIP(c),
			UserAgent:     c.Request.UserAgent(),
		}
		if len(c.Errors) > 0 {
			entry.ErrorMessage = c.Errors.String()
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := sink.InsertOperationLog(ctx, entry); err != nil {
			utils.Logger.Error().Err(err).Msg("保存操作日志失败")
			// 退而保存不含请求/响应内容的最小日志
			entry.RequestBody = nil
			entry.RequestHeader = nil
			entry.ResponseData = nil
			entry.ErrorMessage = fmt.Sprintf("保存详细日志失败: %v", err)
			if saveErr := sink.InsertOperationLog(ctx, entry); saveErr != nil {
				utils.Logger.Error().Err(saveErr).Msg("保存最小日志失败")
			}
		}
	}
}

// shouldLogOperation 检查是否需要记录此操作
func shouldLogOperation(c *gin.Context) bool {
	if excludedPaths[c.Request.URL.Path] {
		return false
	}
	return loggedMethods[c.Request.Method]
}

func decodeBody(data []byte, contentType string) interface{} {
	if len(data) == 0 {
		return nil
	}
	if strings.Contains(contentType, "application/json") {
		var v interface{}
		if err := json.Unmarshal(data, &v); err == nil {
			return v
		}
	}
	return string(data)
}

// extractUserInfo 从上下文中提取用户信息
func extractUserInfo(c *gin.Context) (id, name, role string) {
	user, err := utils.GetUser(c)
	if err != nil {
		return "anonymous", "匿名用户", "UNKNOWN"
	}
	return user.ID, user.Username, user.Role
}

// sanitizeData 清理数据中的敏感信息
func sanitizeData(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		sanitized := make(map[string]interface{}, len(v))
		for k, val := range v {
			switch strings.ToLower(k) {
			case "password", "token", "authorization", "secret", "key":
				sanitized[k] = "******"
			default:
				sanitized[k] = sanitizeData(val)
			}
		}
		return sanitized
	case []interface{}:
		sanitized := make([]interface{}, len(v))
		for i, val := range v {
			sanitized[i] = sanitizeData(val)
		}
		return sanitized
	}
	return data
}

// sanitizeHeaders 清理请求头中的敏感信息
func sanitizeHeaders(headers http.Header) map[string]interface{} {
	sanitized := make(map[string]interface{})
	for k, v := range headers {
		switch strings.ToLower(k) {
		case "authorization":
			if len(v) > 0 {
				sanitized[k] = getShortAuthHeader(v[0])
			}
		case "cookie", "x-api-key":
			sanitized[k] = "******"
		default:
			sanitized[k] = v
		}
	}
	return sanitized
}

// getClientIP 获取客户端IP地址
func getClientIP(c *gin.Context) string {
	if ip := c.Request.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := c.Request.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return c.ClientIP()
}
