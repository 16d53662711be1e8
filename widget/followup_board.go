package widget

import (
	"context"
	"errors"
	"sync"

	"github.com/BerniceZTT/crm_followup/client"
	"github.com/BerniceZTT/crm_followup/models"
	"github.com/BerniceZTT/crm_followup/notify"
	"github.com/BerniceZTT/crm_followup/utils"
)

const (
	LabelMarkDone   = "Mark as Followed Up"
	LabelProcessing = "Processing..."

	msgMarkedDone     = "Marked as followed up"
	msgMarkDoneFailed = "Failed to mark as followed up"
)

var (
	_ FollowUpSource = (*client.Client)(nil)
	_ ChartSource    = (*client.Client)(nil)
	_ Navigator      = (*client.Client)(nil)
)

// FollowUpBoard 按客户分组的待跟进看板
type FollowUpBoard struct {
	source   FollowUpSource
	notifier *notify.Normalizer

	mu        sync.Mutex
	status    Status
	customers []models.FollowUpCustomer
	pending   map[string]bool
	accordion accordion
}

// NewFollowUpBoard 创建跟进看板
func NewFollowUpBoard(source FollowUpSource, notifier *notify.Normalizer) *FollowUpBoard {
	return &FollowUpBoard{
		source:   source,
		notifier: notifier,
		pending:  make(map[string]bool),
	}
}

// Load 拉取当前用户的待跟进数据
func (b *FollowUpBoard) Load(ctx context.Context) error {
	b.mu.Lock()
	b.status = StatusLoading
	b.mu.Unlock()

	customers, err := b.source.FollowUps(ctx)
	if err != nil {
		b.mu.Lock()
		b.status = StatusFailed
		b.mu.Unlock()
		reportError(b.notifier, err, "followup.load")
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.customers = customers
	b.pending = make(map[string]bool)
	if len(customers) == 0 {
		b.status = StatusEmpty
	} else {
		b.status = StatusReady
	}
	return nil
}

// Status 当前状态
func (b *FollowUpBoard) Status() Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status
}

// Customers 返回客户卡片的副本
func (b *FollowUpBoard) Customers() []models.FollowUpCustomer {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.FollowUpCustomer, len(b.customers))
	for i, c := range b.customers {
		c.Items = append([]models.FollowUpItem(nil), c.Items...)
		out[i] = c
	}
	return out
}

// Toggle 展开或收起客户卡片，展开一个会收起其他
func (b *FollowUpBoard) Toggle(customerCode string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.accordion.toggle(customerCode)
}

// Expanded 当前展开的客户
func (b *FollowUpBoard) Expanded() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.accordion.current()
}

// IsExpanded 客户卡片是否展开
func (b *FollowUpBoard) IsExpanded(customerCode string) bool {
	id, ok := b.Expanded()
	return ok && id == customerCode
}

// ButtonLabel 标记按钮文字
func (b *FollowUpBoard) ButtonLabel(logID string) string {
	if b.Disabled(logID) {
		return LabelProcessing
	}
	return LabelMarkDone
}

// Disabled 标记请求进行中时按钮禁用
func (b *FollowUpBoard) Disabled(logID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pending[logID]
}

// MarkDone 标记单条记录已跟进。仅当服务端明确返回 success 时才移除该行
func (b *FollowUpBoard) MarkDone(ctx context.Context, logID string) error {
	b.mu.Lock()
	if b.pending[logID] {
		b.mu.Unlock()
		return nil
	}
	b.pending[logID] = true
	b.mu.Unlock()

	ack, err := b.source.MarkFollowUpDone(ctx, logID)

	b.mu.Lock()
	delete(b.pending, logID)
	if err == nil && ack.Success {
		b.removeRow(logID)
		b.mu.Unlock()
		b.notifier.Notify(models.Notification{Severity: models.SeveritySuccess, Body: msgMarkedDone})
		return nil
	}
	b.mu.Unlock()

	if err == nil {
		err = errors.New(msgMarkDoneFailed)
		if ack.Error != "" {
			err = errors.New(ack.Error)
		}
	}
	utils.Logger.Error().Err(err).Str("logId", logID).Msg("标记跟进失败")
	b.notifier.Notify(models.Notification{Severity: models.SeverityError, Body: msgMarkDoneFailed})
	return err
}

// removeRow 移除一行；客户下没有剩余物料时移除整张卡片。调用方持有锁
func (b *FollowUpBoard) removeRow(logID string) {
	for ci := range b.customers {
		items := b.customers[ci].Items
		for ii := range items {
			if items[ii].LogID != logID {
				continue
			}
			removed := items[ii]
			b.customers[ci].Items = append(items[:ii:ii], items[ii+1:]...)
			b.customers[ci].TotalValue -= removed.Value
			if len(b.customers[ci].Items) == 0 {
				code := b.customers[ci].CustomerCode
				b.customers = append(b.customers[:ci:ci], b.customers[ci+1:]...)
				if id, ok := b.accordion.current(); ok && id == code {
					b.accordion.expanded = nil
				}
			}
			if len(b.customers) == 0 {
				b.status = StatusEmpty
			}
			return
		}
	}
}

// reportError 远端错误交给 Normalizer 解析，其余按网络错误处理
func reportError(n *notify.Normalizer, err error, caller string) {
	var remote *client.RemoteError
	if errors.As(err, &remote) {
		n.Handle(remote.Body, notify.Options{Context: caller})
		return
	}
	n.HandleTransportError(err, notify.Options{Context: caller})
}
