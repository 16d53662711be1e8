package widget

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/BerniceZTT/crm_followup/models"
	"github.com/BerniceZTT/crm_followup/notify"
	"github.com/BerniceZTT/crm_followup/service"
	"github.com/BerniceZTT/crm_followup/utils"
)

// DefaultReenableAfter 新建报价单按钮禁用时长
const DefaultReenableAfter = 3 * time.Second

const (
	PlaceholderNoData      = "No data available"
	PlaceholderUnavailable = "Chart unavailable"
)

// ChartView 饼图或占位文字，二者只有一个非空
type ChartView struct {
	PNG         []byte
	Placeholder string
}

// DrillDown 区间下钻视图
type DrillDown struct {
	Index     int
	Title     string
	Customers []models.BucketDetailCustomer
}

// BucketBoard 按金额区间汇总客户的看板
type BucketBoard struct {
	source    FollowUpSource
	charts    ChartSource
	navigator Navigator
	notifier  *notify.Normalizer
	defs      []models.BucketDefinition

	// ReenableAfter 为 0 时使用 DefaultReenableAfter
	ReenableAfter time.Duration
	Now           func() time.Time

	mu        sync.Mutex
	status    Status
	buckets   []models.Bucket
	drill     *DrillDown
	disabled  map[string]bool
	accordion accordion
}

// BucketBoardOption 配置 BucketBoard
type BucketBoardOption func(*BucketBoard)

// WithChartSource 设置饼图来源
func WithChartSource(src ChartSource) BucketBoardOption {
	return func(b *BucketBoard) { b.charts = src }
}

// WithNavigator 设置新建报价单的跳转
func WithNavigator(nav Navigator) BucketBoardOption {
	return func(b *BucketBoard) { b.navigator = nav }
}

// WithBucketDefinitions 覆盖默认区间
func WithBucketDefinitions(defs []models.BucketDefinition) BucketBoardOption {
	return func(b *BucketBoard) { b.defs = defs }
}

// NewBucketBoard 创建区间看板
func NewBucketBoard(source FollowUpSource, notifier *notify.Normalizer, opts ...BucketBoardOption) *BucketBoard {
	b := &BucketBoard{
		source:   source,
		notifier: notifier,
		defs:     service.DefaultBucketDefinitions(),
		Now:      time.Now,
		disabled: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.buckets = service.BucketCustomers(nil, b.defs)
	return b
}

// Load 重新拉取数据并分组。并发刷新时以最后返回的结果为准
func (b *BucketBoard) Load(ctx context.Context) error {
	b.mu.Lock()
	b.status = StatusLoading
	b.mu.Unlock()

	customers, err := b.source.FollowUps(ctx)
	if err != nil {
		b.mu.Lock()
		b.status = StatusFailed
		b.mu.Unlock()
		reportError(b.notifier, err, "buckets.load")
		return err
	}

	buckets := service.BucketCustomers(customers, b.defs)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.buckets = buckets
	b.drill = nil
	b.accordion = accordion{}
	if service.HasBucketData(buckets) {
		b.status = StatusReady
	} else {
		b.status = StatusEmpty
	}
	return nil
}

// Status 当前状态
func (b *BucketBoard) Status() Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status
}

// Summary 每个区间一行，数量为 0 的区间也保留
func (b *BucketBoard) Summary() []models.BucketSummary {
	b.mu.Lock()
	defer b.mu.Unlock()
	return service.SummarizeBuckets(b.buckets)
}

// Chart 尽力获取饼图，失败时返回占位文字，不影响汇总
func (b *BucketBoard) Chart(ctx context.Context) ChartView {
	b.mu.Lock()
	hasData := service.HasBucketData(b.buckets)
	b.mu.Unlock()

	if !hasData {
		return ChartView{Placeholder: PlaceholderNoData}
	}
	if b.charts == nil {
		return ChartView{Placeholder: PlaceholderUnavailable}
	}
	png, err := b.charts.Chart(ctx)
	if err != nil || len(png) == 0 {
		if err != nil {
			utils.Logger.Warn().Err(err).Msg("获取饼图失败")
		}
		return ChartView{Placeholder: PlaceholderUnavailable}
	}
	return ChartView{PNG: png}
}

// Open 按区间名称下钻
func (b *BucketBoard) Open(label string) (*DrillDown, bool) {
	b.mu.Lock()
	index := -1
	for i, bucket := range b.buckets {
		if bucket.Label == label {
			index = i
			break
		}
	}
	b.mu.Unlock()

	if index < 0 {
		return nil, false
	}
	return b.OpenSegment(index)
}

// OpenSegment 按饼图扇区下标下钻。空区间提示后不打开
func (b *BucketBoard) OpenSegment(index int) (*DrillDown, bool) {
	b.mu.Lock()
	if index < 0 || index >= len(b.buckets) {
		b.mu.Unlock()
		return nil, false
	}
	bucket := b.buckets[index]
	if bucket.Count == 0 {
		b.mu.Unlock()
		b.notifier.Notify(models.Notification{
			Severity: models.SeverityWarning,
			Body:     "No data in " + bucket.Label,
		})
		return nil, false
	}

	detail := service.DetailOf(index, bucket, b.Now())
	drill := &DrillDown{
		Index:     index,
		Title:     "Frequency Data: " + bucket.Label,
		Customers: detail.Customers,
	}
	b.drill = drill
	b.accordion = accordion{}
	b.mu.Unlock()
	return drill, true
}

// Close 关闭下钻
func (b *BucketBoard) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.drill = nil
	b.accordion = accordion{}
}

// Current 当前打开的下钻
func (b *BucketBoard) Current() (*DrillDown, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.drill, b.drill != nil
}

// Toggle 下钻中展开或收起客户
func (b *BucketBoard) Toggle(customerCode string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.accordion.toggle(customerCode)
}

// Expanded 当前展开的客户
func (b *BucketBoard) Expanded() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.accordion.current()
}

// CreateDisabled 新建报价单按钮是否禁用
func (b *BucketBoard) CreateDisabled(customerCode string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.disabled[customerCode]
}

// CreateDocument 用客户的待跟进物料预填报价单并跳转，按钮在固定时长后恢复
func (b *BucketBoard) CreateDocument(ctx context.Context, customerCode string) error {
	if b.navigator == nil {
		return errors.New("no navigator configured")
	}

	b.mu.Lock()
	if b.disabled[customerCode] {
		b.mu.Unlock()
		return nil
	}
	customer, ok := b.findCustomer(customerCode)
	if !ok {
		b.mu.Unlock()
		return fmt.Errorf("customer %s not found", customerCode)
	}
	b.disabled[customerCode] = true
	b.mu.Unlock()

	delay := b.ReenableAfter
	if delay <= 0 {
		delay = DefaultReenableAfter
	}
	time.AfterFunc(delay, func() {
		b.mu.Lock()
		delete(b.disabled, customerCode)
		b.mu.Unlock()
	})

	draft := service.BuildQuotationDraft(customer)
	if err := b.navigator.CreateDocument(ctx, draft); err != nil {
		reportError(b.notifier, err, "buckets.create_document")
		return err
	}
	return nil
}

// findCustomer 调用方持有锁
func (b *BucketBoard) findCustomer(code string) (models.FollowUpCustomer, bool) {
	for _, bucket := range b.buckets {
		for _, c := range bucket.Customers {
			if c.CustomerCode == code {
				return c, true
			}
		}
	}
	return models.FollowUpCustomer{}, false
}
