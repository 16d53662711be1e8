package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DateLayout 日期字段统一使用的格式
const DateLayout = "2006-01-02"

// FrequencyLog 待跟进记录（某客户某物料已到下单周期）
type FrequencyLog struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	CustomerCode  string             `bson:"customerCode" json:"customer_code"`
	CustomerName  string             `bson:"customerName" json:"customer_name"`
	Item          string             `bson:"item" json:"item"`
	Qty           float64            `bson:"qty" json:"qty"`
	Value         float64            `bson:"value" json:"value"`
	FrequencyDay  int                `bson:"frequencyDay" json:"frequency_day"`
	NextOrderDate string             `bson:"nextOrderDate" json:"next_order_date"`
	DoneFollowUp  bool               `bson:"doneFollowUp" json:"done_follow_up"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// FollowUpItem 客户下的单条待跟进物料
type FollowUpItem struct {
	LogID         string  `json:"log_id"`
	Item          string  `json:"item"`
	Qty           float64 `json:"qty"`
	Rate          float64 `json:"rate"`
	Value         float64 `json:"value"`
	FrequencyDay  int     `json:"frequency_day"`
	NextOrderDate string  `json:"next_order_date"`
}

// FollowUpCustomer 按客户分组后的待跟进数据
type FollowUpCustomer struct {
	Name            string         `json:"name"`
	CustomerCode    string         `json:"customer_code"`
	CustomerName    string         `json:"customer_name"`
	DefaultCurrency string         `json:"default_currency"`
	CustomBranch    string         `json:"custom_branch"`
	TotalValue      float64        `json:"total_value"`
	Items           []FollowUpItem `json:"items"`
}

// FollowUpListResponse 跟进列表响应
type FollowUpListResponse struct {
	Customers []FollowUpCustomer `json:"customers"`
}

// FollowUpAck 标记完成的响应
type FollowUpAck struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
