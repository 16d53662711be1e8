package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ItemFrequency 物料下单频率
type ItemFrequency struct {
	Item         string  `bson:"item" json:"item"`
	Quantity     float64 `bson:"quantity" json:"quantity"`
	FrequencyDay int     `bson:"frequencyDay" json:"frequency_day"`
}

// CustomerOrderFrequency 客户的物料下单频率表
type CustomerOrderFrequency struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	CustomerID        string             `bson:"customerId" json:"customer_id"`
	CustomerName      string             `bson:"customerName" json:"customer_name"`
	ItemWiseFrequency []ItemFrequency    `bson:"itemWiseFrequency" json:"item_wise_frequency"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// SalesOrderItem 销售订单行
type SalesOrderItem struct {
	ItemCode          string  `bson:"itemCode" json:"item_code"`
	ItemGroup         string  `bson:"itemGroup" json:"item_group"`
	Qty               float64 `bson:"qty" json:"qty"`
	BasePriceListRate float64 `bson:"basePriceListRate" json:"base_price_list_rate"`
}

// SalesOrder 销售订单，DocStatus 为 1 表示已提交
type SalesOrder struct {
	Name            string           `bson:"_id" json:"name"`
	Customer        string           `bson:"customer" json:"customer"`
	CustomerName    string           `bson:"customerName" json:"customer_name"`
	TransactionDate string           `bson:"transactionDate" json:"transaction_date"`
	DocStatus       int              `bson:"docStatus" json:"docstatus"`
	Items           []SalesOrderItem `bson:"items" json:"items"`
}

// LastOrder 某客户某物料最近一次已提交订单
type LastOrder struct {
	TransactionDate   string
	BasePriceListRate float64
}

// AllowedItemGroups 参与频率计算的物料组
var AllowedItemGroups = []string{
	"Bronze", "Casting Machine", "Consumable", "Furnace",
	"Investment Mixer", "Master-Ag", "Ni Based", "Ni Free",
	"Ni Safe", "Pink", "Plating Ag", "Plating Au",
	"Plating Other", "Plating Pd", "Plating Pt", "Plating Rh",
	"RTU-Ag", "RTU-Pd", "RTU-Pt", "Semi Finished",
	"Solder-Pink", "Solder-Silver", "Solder-White", "Solder-Yellow",
	"Spares", "Yellow",
}
