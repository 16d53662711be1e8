package controllers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/crm_followup/models"
	"github.com/BerniceZTT/crm_followup/notify"
	"github.com/BerniceZTT/crm_followup/utils"
)

// NormalizeResponse 错误归一化结果
type NormalizeResponse struct {
	Kind    string                `json:"kind"`
	Toasts  []models.Notification `json:"toasts"`
	Dialogs []models.Notification `json:"dialogs"`
}

// NormalizeError 将任意错误负载归一化为通知列表。
// 查询参数：critical、suppress_toast、fallback、context
func NormalizeError(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.HandleError(c, utils.CreateBadRequestError("Unable to read request body"))
		return
	}

	opts := notify.Options{
		Critical:        queryBool(c, "critical"),
		SuppressToast:   queryBool(c, "suppress_toast"),
		FallbackMessage: c.Query("fallback"),
		Context:         c.Query("context"),
	}

	toasts, dialogs := notify.Normalize(raw, opts)
	if toasts == nil {
		toasts = []models.Notification{}
	}
	if dialogs == nil {
		dialogs = []models.Notification{}
	}

	c.JSON(http.StatusOK, NormalizeResponse{
		Kind:    notify.Classify(raw).Kind.String(),
		Toasts:  toasts,
		Dialogs: dialogs,
	})
}

func queryBool(c *gin.Context, key string) bool {
	v, err := strconv.ParseBool(c.Query(key))
	return err == nil && v
}
