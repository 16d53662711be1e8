package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/crm_followup/models"
	"github.com/BerniceZTT/crm_followup/service"
	"github.com/BerniceZTT/crm_followup/utils"
)

// DashboardController 下单频率金额区间看板
type DashboardController struct {
	svc   *service.FollowUpService
	chart service.ChartOptions
}

// NewDashboardController 创建看板控制器
func NewDashboardController(svc *service.FollowUpService, chart service.ChartOptions) *DashboardController {
	return &DashboardController{svc: svc, chart: chart}
}

// FrequencyBuckets 区间汇总
func (ctl *DashboardController) FrequencyBuckets(c *gin.Context) {
	user, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, utils.CreateUnauthorizedError())
		return
	}

	buckets, err := ctl.svc.Buckets(c.Request.Context(), user)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.FrequencyBucketsResponse{
		Buckets:        service.SummarizeBuckets(buckets),
		ChartAvailable: service.HasBucketData(buckets),
	})
}

// BucketDetail 区间下钻
func (ctl *DashboardController) BucketDetail(c *gin.Context) {
	segment := c.Param("index")
	index, err := strconv.Atoi(segment)
	if err != nil {
		utils.HandleError(c, utils.CreateBadRequestError("Invalid bucket index: "+segment))
		return
	}

	user, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, utils.CreateUnauthorizedError())
		return
	}

	detail, err := ctl.svc.BucketDetail(c.Request.Context(), user, index)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Chart 区间饼图，无数据时返回 204
func (ctl *DashboardController) Chart(c *gin.Context) {
	user, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, utils.CreateUnauthorizedError())
		return
	}

	buckets, err := ctl.svc.Buckets(c.Request.Context(), user)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	png, err := service.RenderPieChart(buckets, ctl.chart)
	if errors.Is(err, service.ErrNoChartData) {
		c.Status(http.StatusNoContent)
		return
	}
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}
