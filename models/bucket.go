package models

// BucketDefinition 金额区间定义，区间为 [Min, Max)
type BucketDefinition struct {
	Label string  `json:"label" validate:"required"`
	Min   float64 `json:"min" validate:"gte=0"`
	Max   float64 `json:"max" validate:"gtfield=Min"`
}

// Bucket 区间统计结果，每次刷新重新生成
type Bucket struct {
	BucketDefinition
	Count     int                `json:"count"`
	Customers []FollowUpCustomer `json:"customers"`
}

// BucketSummary 区间汇总（不含明细）
type BucketSummary struct {
	Index int     `json:"index"`
	Label string  `json:"label"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
	Color string  `json:"color"`
}

// FrequencyBucketsResponse 频率区间看板响应
type FrequencyBucketsResponse struct {
	Buckets        []BucketSummary `json:"buckets"`
	ChartAvailable bool            `json:"chart_available"`
}

// BucketDetailItem 明细行（含紧急程度）
type BucketDetailItem struct {
	FollowUpItem
	Urgency      Urgency `json:"urgency"`
	UrgencyColor string  `json:"urgency_color"`
}

// BucketDetailCustomer 明细中的客户
type BucketDetailCustomer struct {
	CustomerCode    string             `json:"customer_code"`
	CustomerName    string             `json:"customer_name"`
	DefaultCurrency string             `json:"default_currency"`
	CustomBranch    string             `json:"custom_branch"`
	TotalValue      float64            `json:"total_value"`
	Items           []BucketDetailItem `json:"items"`
}

// BucketDetailResponse 区间下钻响应
type BucketDetailResponse struct {
	Index     int                    `json:"index"`
	Label     string                 `json:"label"`
	Count     int                    `json:"count"`
	Customers []BucketDetailCustomer `json:"customers"`
}
