package middleware

import (
	"net/http"
	"strings"

	"github.com/BerniceZTT/crm_followup/utils"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware 认证中间件，校验 Bearer token 并把用户信息写入上下文
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		utils.Logger.Debug().
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Str("authorization", getShortAuthHeader(authHeader)).
			Msg("验证请求")

		if !strings.HasPrefix(authHeader, "Bearer ") {
			utils.Logger.Info().Msg("缺少Authorization头或格式错误")
			abortUnauthorized(c, "Not logged in")
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			abortUnauthorized(c, "Not logged in")
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			utils.Logger.Warn().Err(err).Msg("Token验证失败")
			abortUnauthorized(c, "Invalid token: "+err.Error())
			return
		}

		// 检查必要字段
		if _, ok := claims["id"].(string); !ok {
			abortUnauthorized(c, "Token is missing required claims")
			return
		}
		if _, ok := claims["role"].(string); !ok {
			abortUnauthorized(c, "Token is missing required claims")
			return
		}
		username, ok := claims["username"].(string)
		if !ok {
			abortUnauthorized(c, "Token is missing required claims")
			return
		}

		c.Set("user", claims)
		utils.Logger.Debug().Str("username", username).Msg("验证成功")
		c.Next()
	}
}

// AdminOnly 仅管理员可访问，需在 AuthMiddleware 之后使用
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.GetUser(c)
		if err != nil {
			abortUnauthorized(c, "Not logged in")
			return
		}
		if !user.IsAdministrator() {
			utils.Logger.Info().
				Str("username", user.Username).
				Str("role", user.Role).
				Str("path", c.Request.URL.Path).
				Msg("权限不足")
			c.AbortWithStatusJSON(http.StatusForbidden, utils.ErrorBody("Not permitted", utils.ErrCodeForbidden))
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorBody(message, utils.ErrCodeUnauthorized))
}

// getShortAuthHeader 获取截断的授权头，保护敏感信息
func getShortAuthHeader(header string) string {
	if len(header) > 15 {
		return header[:15] + "..."
	}
	return header
}
