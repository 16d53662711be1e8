package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/crm_followup/models"
	"github.com/BerniceZTT/crm_followup/service"
	"github.com/BerniceZTT/crm_followup/utils"
)

// FollowUpController 待跟进列表与标记完成
type FollowUpController struct {
	svc *service.FollowUpService
}

// NewFollowUpController 创建控制器
func NewFollowUpController(svc *service.FollowUpService) *FollowUpController {
	return &FollowUpController{svc: svc}
}

// List 获取当前用户的待跟进客户
func (ctl *FollowUpController) List(c *gin.Context) {
	user, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, utils.CreateUnauthorizedError())
		return
	}

	customers, err := ctl.svc.ListForUser(c.Request.Context(), user)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.LogInfo(map[string]interface{}{
		"username":  user.Username,
		"customers": len(customers),
	}, "获取待跟进列表成功")

	c.JSON(http.StatusOK, models.FollowUpListResponse{Customers: customers})
}

// MarkDone 标记单条跟进记录完成
func (ctl *FollowUpController) MarkDone(c *gin.Context) {
	logID := c.Param("logId")
	if err := ctl.svc.MarkDone(c.Request.Context(), logID); err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.FollowUpAck{Success: true, Message: "Marked as followed up"})
}

// MarkCustomerDone 标记客户的全部跟进记录完成
func (ctl *FollowUpController) MarkCustomerDone(c *gin.Context) {
	n, err := ctl.svc.MarkCustomerDone(c.Request.Context(), c.Param("customerCode"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.FollowUpAck{
		Success: true,
		Message: fmt.Sprintf("Marked %d items as followed up", n),
	})
}
