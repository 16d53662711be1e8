package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/BerniceZTT/crm_followup/models"
	"github.com/BerniceZTT/crm_followup/utils"
)

// recentOrderLimit 计算频率时参考的最近订单数
const recentOrderLimit = 10

// FrequencyService 物料下单频率计算与待跟进记录生成
type FrequencyService struct {
	store         FrequencyStore
	allowedGroups map[string]bool
	Now           func() time.Time
}

// NewFrequencyService 创建频率服务
func NewFrequencyService(store FrequencyStore) *FrequencyService {
	groups := make(map[string]bool, len(models.AllowedItemGroups))
	for _, g := range models.AllowedItemGroups {
		groups[g] = true
	}
	return &FrequencyService{store: store, allowedGroups: groups, Now: time.Now}
}

// CalculateCustomerFrequency 根据客户最近 10 张已提交订单计算物料下单频率
func (s *FrequencyService) CalculateCustomerFrequency(ctx context.Context, customerID string) (*models.CustomerOrderFrequency, error) {
	if customerID == "" {
		return nil, utils.CreateBadRequestError("Customer ID is required")
	}

	orders, err := s.store.RecentSubmittedOrders(ctx, customerID, recentOrderLimit)
	if err != nil {
		return nil, fmt.Errorf("查询客户订单失败: %w", err)
	}
	if len(orders) == 0 {
		return nil, nil
	}

	items := ComputeItemFrequencies(orders, s.allowedGroups)
	if len(items) == 0 {
		return nil, nil
	}

	doc := models.CustomerOrderFrequency{
		CustomerID:        customerID,
		CustomerName:      orders[0].CustomerName,
		ItemWiseFrequency: items,
		UpdatedAt:         s.Now(),
	}
	if err := s.store.UpsertFrequency(ctx, doc); err != nil {
		return nil, fmt.Errorf("保存客户下单频率失败: %w", err)
	}

	utils.LogInfo(map[string]interface{}{
		"customerId": customerID,
		"items":      len(items),
	}, "客户下单频率已更新")
	return &doc, nil
}

// CalculateAllFrequencies 计算所有有已提交订单的客户，单个客户失败只记录日志
func (s *FrequencyService) CalculateAllFrequencies(ctx context.Context) (int, error) {
	customers, err := s.store.CustomersWithSubmittedOrders(ctx)
	if err != nil {
		return 0, fmt.Errorf("查询客户列表失败: %w", err)
	}

	utils.LogInfo(map[string]interface{}{"customers": len(customers)}, "开始计算客户下单频率")

	processed := 0
	for _, customerID := range customers {
		if _, err := s.CalculateCustomerFrequency(ctx, customerID); err != nil {
			utils.LogError(err, map[string]interface{}{"customerId": customerID}, "计算客户下单频率失败")
			continue
		}
		processed++
	}
	return processed, nil
}

// GenerateFollowUpLogs 重新生成待跟进记录：物料上次下单日期加上频率天数
// 不晚于今天时生成一条记录。返回生成条数
func (s *FrequencyService) GenerateFollowUpLogs(ctx context.Context) (int, error) {
	utils.Logger.Info().Msg("开始生成待跟进记录")

	if err := s.store.DeleteAllLogs(ctx); err != nil {
		return 0, fmt.Errorf("清理待跟进记录失败: %w", err)
	}

	docs, err := s.store.ListFrequencies(ctx)
	if err != nil {
		return 0, fmt.Errorf("查询客户下单频率失败: %w", err)
	}

	now := s.Now()
	today := DateOf(now)
	created := 0
	for _, doc := range docs {
		for _, item := range doc.ItemWiseFrequency {
			if item.FrequencyDay <= 0 {
				continue
			}

			last, err := s.store.LastSubmittedOrder(ctx, doc.CustomerID, item.Item)
			if err != nil {
				utils.LogError(err, map[string]interface{}{
					"customerId": doc.CustomerID,
					"item":       item.Item,
				}, "查询最近订单失败")
				continue
			}
			if last == nil {
				continue
			}

			lastDate, err := ParseDate(last.TransactionDate)
			if err != nil {
				utils.LogError(err, map[string]interface{}{
					"customerId": doc.CustomerID,
					"item":       item.Item,
					"date":       last.TransactionDate,
				}, "订单日期格式错误")
				continue
			}

			next := lastDate.AddDate(0, 0, item.FrequencyDay)
			if today.Before(next) {
				continue
			}

			log := models.FrequencyLog{
				CustomerCode:  doc.CustomerID,
				CustomerName:  doc.CustomerName,
				Item:          item.Item,
				Qty:           item.Quantity,
				Value:         last.BasePriceListRate,
				FrequencyDay:  item.FrequencyDay,
				NextOrderDate: next.Format(models.DateLayout),
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			if err := s.store.InsertLog(ctx, log); err != nil {
				utils.LogError(err, map[string]interface{}{
					"customerId": doc.CustomerID,
					"item":       item.Item,
				}, "创建待跟进记录失败")
				continue
			}
			created++
		}
	}

	utils.LogInfo(map[string]interface{}{"created": created}, "待跟进记录生成完成")
	return created, nil
}

type orderLine struct {
	item  string
	qty   float64
	date  time.Time
	order string
}

// ComputeItemFrequencies 计算每个物料的下单频率：数量取最近一次订单，
// 频率为相邻不同订单之间的平均天数（四舍六入五成双），只有一张订单时为 0
func ComputeItemFrequencies(orders []models.SalesOrder, allowedGroups map[string]bool) []models.ItemFrequency {
	var lines []orderLine
	for _, so := range orders {
		date, err := ParseDate(so.TransactionDate)
		if err != nil {
			continue
		}
		for _, it := range so.Items {
			if allowedGroups != nil && !allowedGroups[it.ItemGroup] {
				continue
			}
			lines = append(lines, orderLine{item: it.ItemCode, qty: it.Qty, date: date, order: so.Name})
		}
	}
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].date.After(lines[j].date) })

	var order []string
	byItem := make(map[string][]orderLine)
	for _, l := range lines {
		if _, ok := byItem[l.item]; !ok {
			order = append(order, l.item)
		}
		byItem[l.item] = append(byItem[l.item], l)
	}

	result := make([]models.ItemFrequency, 0, len(order))
	for _, item := range order {
		rows := byItem[item]
		result = append(result, models.ItemFrequency{
			Item:         item,
			Quantity:     rows[0].qty,
			FrequencyDay: frequencyDays(rows),
		})
	}
	return result
}

func frequencyDays(rows []orderLine) int {
	if len(rows) < 2 {
		return 0
	}

	seen := make(map[string]bool)
	var dates []time.Time
	for _, r := range rows {
		if seen[r.order] {
			continue
		}
		seen[r.order] = true
		dates = append(dates, r.date)
	}
	if len(dates) < 2 {
		return 0
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	span := DaysBetween(dates[0], dates[len(dates)-1])
	return int(math.RoundToEven(float64(span) / float64(len(dates)-1)))
}
