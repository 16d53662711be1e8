package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QuotationItem 报价单行
type QuotationItem struct {
	ItemCode string  `bson:"itemCode" json:"item_code" validate:"required"`
	Qty      float64 `bson:"qty" json:"qty" validate:"gt=0"`
}

// QuotationDraft 创建报价单时的预填数据
type QuotationDraft struct {
	Party    string          `json:"party" validate:"required"`
	Currency string          `json:"currency"`
	Branch   string          `json:"branch"`
	Items    []QuotationItem `json:"items" validate:"required,min=1,dive"`
}

// QuotationStatusDraft 报价单草稿状态
const QuotationStatusDraft = "Draft"

// Quotation 报价单
type Quotation struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	QuotationTo string             `bson:"quotationTo" json:"quotation_to"`
	PartyName   string             `bson:"partyName" json:"party_name"`
	Currency    string             `bson:"currency" json:"currency"`
	Branch      string             `bson:"branch" json:"branch"`
	Items       []QuotationItem    `bson:"items" json:"items"`
	Status      string             `bson:"status" json:"status"`
	OwnerID     string             `bson:"ownerId" json:"owner_id"`
	OwnerName   string             `bson:"ownerName" json:"owner_name"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
