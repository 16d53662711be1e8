package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/BerniceZTT/crm_followup/models"
	"github.com/BerniceZTT/crm_followup/repository"
	"github.com/BerniceZTT/crm_followup/utils"
)

// FollowUpService 跟进列表、标记完成与金额区间看板
type FollowUpService struct {
	store   FollowUpStore
	buckets []models.BucketDefinition
	Now     func() time.Time
}

// NewFollowUpService 创建跟进服务，buckets 为空时使用默认区间
func NewFollowUpService(store FollowUpStore, buckets []models.BucketDefinition) *FollowUpService {
	if len(buckets) == 0 {
		buckets = DefaultBucketDefinitions()
	}
	return &FollowUpService{store: store, buckets: buckets, Now: time.Now}
}

// BucketDefinitions 当前使用的区间定义
func (s *FollowUpService) BucketDefinitions() []models.BucketDefinition {
	return s.buckets
}

// ListForUser 返回当前用户可见的待跟进客户：管理员可见全部，
// 其他用户只能看到销售团队中包含自己的客户
func (s *FollowUpService) ListForUser(ctx context.Context, user *utils.LoginUser) ([]models.FollowUpCustomer, error) {
	var codes []string
	if !user.IsAdministrator() {
		var err error
		codes, err = s.store.CustomersForSalesPerson(ctx, user.Username)
		if err != nil {
			return nil, fmt.Errorf("查询用户负责的客户失败: %w", err)
		}
		if len(codes) == 0 {
			return []models.FollowUpCustomer{}, nil
		}
	}

	logs, err := s.store.FindOpenLogs(ctx, codes)
	if err != nil {
		return nil, fmt.Errorf("查询跟进记录失败: %w", err)
	}

	customers, err := s.store.FindCustomers(ctx, distinctCustomerCodes(logs))
	if err != nil {
		// 客户资料缺失时仍返回跟进记录，币种与分支留空
		utils.LogError(err, map[string]interface{}{"logs": len(logs)}, "查询客户资料失败")
		customers = map[string]models.CustomerRecord{}
	}

	return GroupLogs(logs, customers), nil
}

// MarkDone 标记单条跟进记录完成
func (s *FollowUpService) MarkDone(ctx context.Context, logID string) error {
	if logID == "" {
		return utils.CreateBadRequestError("Log ID is required")
	}
	if err := s.store.MarkLogDone(ctx, logID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.CreateNotFoundError("Follow-up log " + logID)
		}
		return fmt.Errorf("标记跟进记录失败: %w", err)
	}
	utils.LogInfo(map[string]interface{}{"logId": logID}, "跟进记录已标记完成")
	return nil
}

// MarkCustomerDone 标记客户的全部跟进记录完成，返回更新条数
func (s *FollowUpService) MarkCustomerDone(ctx context.Context, customerCode string) (int64, error) {
	if customerCode == "" {
		return 0, utils.CreateBadRequestError("Customer Code is required")
	}
	n, err := s.store.MarkCustomerLogsDone(ctx, customerCode)
	if err != nil {
		return 0, fmt.Errorf("标记客户跟进记录失败: %w", err)
	}
	utils.LogInfo(map[string]interface{}{"customerCode": customerCode, "count": n}, "客户跟进记录已全部标记完成")
	return n, nil
}

// Buckets 将当前用户可见的客户按金额分组
func (s *FollowUpService) Buckets(ctx context.Context, user *utils.LoginUser) ([]models.Bucket, error) {
	customers, err := s.ListForUser(ctx, user)
	if err != nil {
		return nil, err
	}
	return BucketCustomers(customers, s.buckets), nil
}

// BucketDetail 区间下钻，附带每个物料的紧急程度
func (s *FollowUpService) BucketDetail(ctx context.Context, user *utils.LoginUser, index int) (*models.BucketDetailResponse, error) {
	buckets, err := s.Buckets(ctx, user)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(buckets) {
		return nil, utils.CreateNotFoundError(fmt.Sprintf("Bucket %d", index))
	}
	return DetailOf(index, buckets[index], s.Now()), nil
}

// DetailOf 生成区间明细
func DetailOf(index int, bucket models.Bucket, today time.Time) *models.BucketDetailResponse {
	detail := &models.BucketDetailResponse{
		Index:     index,
		Label:     bucket.Label,
		Count:     bucket.Count,
		Customers: make([]models.BucketDetailCustomer, 0, len(bucket.Customers)),
	}
	for _, c := range bucket.Customers {
		dc := models.BucketDetailCustomer{
			CustomerCode:    c.CustomerCode,
			CustomerName:    c.CustomerName,
			DefaultCurrency: c.DefaultCurrency,
			CustomBranch:    c.CustomBranch,
			TotalValue:      c.TotalValue,
			Items:           make([]models.BucketDetailItem, 0, len(c.Items)),
		}
		for _, item := range c.Items {
			u := ClassifyUrgency(item.NextOrderDate, today)
			dc.Items = append(dc.Items, models.BucketDetailItem{
				FollowUpItem: item,
				Urgency:      u,
				UrgencyColor: UrgencyColor(u),
			})
		}
		detail.Customers = append(detail.Customers, dc)
	}
	return detail
}

// GroupLogs 按客户分组跟进记录，物料金额 = 单价 × 数量，
// 结果按客户总金额降序（相同金额保持原顺序）
func GroupLogs(logs []models.FrequencyLog, customers map[string]models.CustomerRecord) []models.FollowUpCustomer {
	index := make(map[string]int)
	grouped := make([]models.FollowUpCustomer, 0)

	for _, log := range logs {
		i, ok := index[log.CustomerCode]
		if !ok {
			entry := models.FollowUpCustomer{
				Name:         log.CustomerCode,
				CustomerCode: log.CustomerCode,
				CustomerName: log.CustomerName,
				Items:        []models.FollowUpItem{},
			}
			if rec, found := customers[log.CustomerCode]; found {
				entry.Name = rec.Code
				entry.DefaultCurrency = rec.DefaultCurrency
				entry.CustomBranch = rec.FirstBranch()
			}
			grouped = append(grouped, entry)
			i = len(grouped) - 1
			index[log.CustomerCode] = i
		}

		value := log.Value * log.Qty
		grouped[i].TotalValue += value
		grouped[i].Items = append(grouped[i].Items, models.FollowUpItem{
			LogID:         log.ID.Hex(),
			Item:          log.Item,
			Qty:           log.Qty,
			Rate:          log.Value,
			Value:         value,
			FrequencyDay:  log.FrequencyDay,
			NextOrderDate: log.NextOrderDate,
		})
	}

	sort.SliceStable(grouped, func(a, b int) bool {
		return grouped[a].TotalValue > grouped[b].TotalValue
	})
	return grouped
}

func distinctCustomerCodes(logs []models.FrequencyLog) []string {
	seen := make(map[string]bool)
	var codes []string
	for _, log := range logs {
		if !seen[log.CustomerCode] {
			seen[log.CustomerCode] = true
			codes = append(codes, log.CustomerCode)
		}
	}
	return codes
}
