// Package widget 跟进看板与频率区间看板的视图模型
package widget

import (
	"context"

	"github.com/BerniceZTT/crm_followup/models"
)

// Status 看板加载状态
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusEmpty
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusEmpty:
		return "empty"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// FollowUpSource 待跟进数据来源，client.Client 实现该接口
type FollowUpSource interface {
	FollowUps(ctx context.Context) ([]models.FollowUpCustomer, error)
	MarkFollowUpDone(ctx context.Context, logID string) (models.FollowUpAck, error)
}

// ChartSource 饼图来源
type ChartSource interface {
	Chart(ctx context.Context) ([]byte, error)
}

// Navigator 打开新建报价单页面
type Navigator interface {
	CreateDocument(ctx context.Context, draft models.QuotationDraft) error
}

// NavigatorFunc 函数适配 Navigator
type NavigatorFunc func(ctx context.Context, draft models.QuotationDraft) error

func (f NavigatorFunc) CreateDocument(ctx context.Context, draft models.QuotationDraft) error {
	return f(ctx, draft)
}

// accordion 同一时间最多展开一个分组
type accordion struct {
	expanded *string
}

func (a *accordion) toggle(id string) {
	if a.expanded != nil && *a.expanded == id {
		a.expanded = nil
		return
	}
	a.expanded = &id
}

func (a *accordion) current() (string, bool) {
	if a.expanded == nil {
		return "", false
	}
	return *a.expanded, true
}
