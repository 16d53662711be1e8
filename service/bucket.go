package service

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/BerniceZTT/crm_followup/models"
	"github.com/BerniceZTT/crm_followup/utils"
)

// BucketPalette 区间颜色，按下标循环使用
var BucketPalette = []string{"#10b981", "#3b82f6", "#f59e0b", "#6b7280"}

// BucketColor 返回第 i 个区间的颜色
func BucketColor(i int) string {
	return BucketPalette[i%len(BucketPalette)]
}

// DefaultBucketDefinitions 默认的客户金额区间
func DefaultBucketDefinitions() []models.BucketDefinition {
	return []models.BucketDefinition{
		{Label: "< 10K", Min: 0, Max: 10000},
		{Label: "10K - 50K", Min: 10000, Max: 50000},
		{Label: "50K - 1L", Min: 50000, Max: 100000},
		{Label: "> 1L", Min: 100000, Max: math.MaxFloat64},
	}
}

// ParseBucketDefinitions 解析 JSON 格式的区间定义，为空时返回默认值
func ParseBucketDefinitions(raw string) ([]models.BucketDefinition, error) {
	if raw == "" {
		return DefaultBucketDefinitions(), nil
	}
	var defs []models.BucketDefinition
	if err := json.Unmarshal([]byte(raw), &defs); err != nil {
		return nil, fmt.Errorf("解析区间定义失败: %w", err)
	}
	if err := ValidateBucketDefinitions(defs); err != nil {
		return nil, err
	}
	return defs, nil
}

// ValidateBucketDefinitions 校验区间定义：至少一个区间，每个区间 Max > Min，且按 Min 递增
func ValidateBucketDefinitions(defs []models.BucketDefinition) error {
	if len(defs) == 0 {
		return utils.CreateBadRequestError("at least one bucket definition is required")
	}
	for i := range defs {
		if err := utils.ValidateStruct(defs[i]); err != nil {
			return fmt.Errorf("bucket %d: %w", i, err)
		}
		if i > 0 && defs[i].Min < defs[i-1].Min {
			return utils.CreateBadRequestError(fmt.Sprintf("bucket %q starts before bucket %q", defs[i].Label, defs[i-1].Label))
		}
	}
	return nil
}

// BucketIndex 返回金额所属区间的下标：第一个满足 Min <= v < Max 的区间，
// 都不满足时归入最后一个区间
func BucketIndex(value float64, defs []models.BucketDefinition) int {
	for i, def := range defs {
		if def.Min <= value && value < def.Max {
			return i
		}
	}
	return len(defs) - 1
}

// BucketCustomers 按总金额对客户分组。每个定义都会生成一个区间（包括数量为 0 的），
// 每个客户恰好落入一个区间
func BucketCustomers(customers []models.FollowUpCustomer, defs []models.BucketDefinition) []models.Bucket {
	buckets := make([]models.Bucket, len(defs))
	for i, def := range defs {
		buckets[i] = models.Bucket{BucketDefinition: def, Customers: []models.FollowUpCustomer{}}
	}
	if len(defs) == 0 {
		return buckets
	}

	for _, customer := range customers {
		i := BucketIndex(customer.TotalValue, defs)
		buckets[i].Customers = append(buckets[i].Customers, customer)
		buckets[i].Count++
	}
	return buckets
}

// SummarizeBuckets 生成不含明细的区间汇总
func SummarizeBuckets(buckets []models.Bucket) []models.BucketSummary {
	out := make([]models.BucketSummary, 0, len(buckets))
	for i, b := range buckets {
		out = append(out, models.BucketSummary{
			Index: i,
			Label: b.Label,
			Min:   b.Min,
			Max:   b.Max,
			Count: b.Count,
			Color: BucketColor(i),
		})
	}
	return out
}

// HasBucketData 是否至少有一个非空区间
func HasBucketData(buckets []models.Bucket) bool {
	for _, b := range buckets {
		if b.Count > 0 {
			return true
		}
	}
	return false
}
