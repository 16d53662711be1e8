package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/BerniceZTT/crm_followup/models"
	"github.com/BerniceZTT/crm_followup/repository"
	"github.com/BerniceZTT/crm_followup/utils"

	"github.com/gin-gonic/gin"
)

// UserStore 登录所需的用户查询
type UserStore interface {
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUserByID(ctx context.Context, id string) (*models.User, error)
}

// AuthController 登录与 token 校验
type AuthController struct {
	users UserStore
}

// NewAuthController 创建控制器
func NewAuthController(users UserStore) *AuthController {
	return &AuthController{users: users}
}

// Login 用户登录
func (ctl *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, "Invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}

	utils.Logger.Info().Str("username", req.Username).Msg("登录尝试")

	user, err := ctl.users.FindUserByUsername(c.Request.Context(), req.Username)
	if errors.Is(err, repository.ErrNotFound) {
		utils.Logger.Info().Str("username", req.Username).Msg("登录失败: 用户名不存在")
		utils.ErrorResponse(c, "Invalid username or password", http.StatusUnauthorized)
		return
	}
	if err != nil {
		utils.Logger.Error().Err(err).Msg("查询用户出错")
		utils.ErrorResponse(c, "Login failed", http.StatusInternalServerError)
		return
	}

	if !user.Enabled {
		utils.Logger.Info().Str("username", req.Username).Msg("登录失败: 账户已停用")
		utils.ErrorResponse(c, "Account is disabled", http.StatusForbidden)
		return
	}

	if !utils.VerifyPassword(req.Password, user.Password) {
		utils.Logger.Info().Str("username", req.Username).Msg("登录失败: 密码错误")
		utils.ErrorResponse(c, "Invalid username or password", http.StatusUnauthorized)
		return
	}

	token, err := utils.GenerateToken(utils.LoginUser{
		ID:       user.ID.Hex(),
		Role:     string(user.Role),
		Username: user.Username,
	})
	if err != nil {
		utils.Logger.Error().Err(err).Msg("生成token失败")
		utils.ErrorResponse(c, "Unable to issue token", http.StatusInternalServerError)
		return
	}

	utils.Logger.Info().Str("username", user.Username).Msg("用户登录成功")
	utils.SuccessResponse(c, models.LoginResponse{Token: token, User: *user}, "")
}

// Validate 校验 token 并返回当前用户
func (ctl *AuthController) Validate(c *gin.Context) {
	current, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, utils.CreateUnauthorizedError())
		return
	}

	user, err := ctl.users.FindUserByID(c.Request.Context(), current.ID)
	if errors.Is(err, repository.ErrNotFound) {
		utils.HandleError(c, utils.CreateUnauthorizedError())
		return
	}
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	if !user.Enabled {
		utils.ErrorResponse(c, "Account is disabled", http.StatusForbidden)
		return
	}

	utils.SuccessResponse(c, gin.H{"user": user}, "")
}
