package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/crm_followup/models"
	"github.com/BerniceZTT/crm_followup/service"
	"github.com/BerniceZTT/crm_followup/utils"
)

// QuotationController 报价单
type QuotationController struct {
	svc *service.QuotationService
}

// NewQuotationController 创建控制器
func NewQuotationController(svc *service.QuotationService) *QuotationController {
	return &QuotationController{svc: svc}
}

// Create 根据预填数据创建报价单草稿
func (ctl *QuotationController) Create(c *gin.Context) {
	var draft models.QuotationDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		utils.HandleError(c, utils.CreateBadRequestError("Invalid request body: "+err.Error()))
		return
	}

	user, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, utils.CreateUnauthorizedError())
		return
	}

	q, err := ctl.svc.Create(c.Request.Context(), user, draft)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, q, "Quotation created", http.StatusCreated)
}
