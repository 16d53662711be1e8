package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/crm_followup/service"
	"github.com/BerniceZTT/crm_followup/utils"
)

// FrequencyController 下单频率计算与待跟进记录生成
type FrequencyController struct {
	svc *service.FrequencyService
}

// NewFrequencyController 创建控制器
func NewFrequencyController(svc *service.FrequencyService) *FrequencyController {
	return &FrequencyController{svc: svc}
}

// CalculateCustomer 重新计算单个客户的物料下单频率
func (ctl *FrequencyController) CalculateCustomer(c *gin.Context) {
	doc, err := ctl.svc.CalculateCustomerFrequency(c.Request.Context(), c.Param("customerId"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	if doc == nil {
		utils.SuccessResponse(c, nil, "No submitted orders in tracked item groups")
		return
	}
	utils.SuccessResponse(c, doc, "Frequency updated")
}

// GenerateLogs 重新计算全部频率并生成待跟进记录（仅管理员）
func (ctl *FrequencyController) GenerateLogs(c *gin.Context) {
	ctx := c.Request.Context()

	processed, err := ctl.svc.CalculateAllFrequencies(ctx)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	created, err := ctl.svc.GenerateFollowUpLogs(ctx)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"customers": processed,
		"created":   created,
	}, "Follow-up logs generated", http.StatusOK)
}
