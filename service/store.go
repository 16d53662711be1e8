package service

import (
	"context"

	"github.com/BerniceZTT/crm_followup/models"
)

// FollowUpStore 跟进记录与客户数据的存取
type FollowUpStore interface {
	// FindOpenLogs 查询未完成的跟进记录，customerCodes 为 nil 时查询全部
	FindOpenLogs(ctx context.Context, customerCodes []string) ([]models.FrequencyLog, error)
	MarkLogDone(ctx context.Context, logID string) error
	MarkCustomerLogsDone(ctx context.Context, customerCode string) (int64, error)
	CustomersForSalesPerson(ctx context.Context, salesPerson string) ([]string, error)
	FindCustomers(ctx context.Context, codes []string) (map[string]models.CustomerRecord, error)
}

// FrequencyStore 下单频率计算所需的存取
type FrequencyStore interface {
	CustomersWithSubmittedOrders(ctx context.Context) ([]string, error)
	RecentSubmittedOrders(ctx context.Context, customerID string, limit int) ([]models.SalesOrder, error)
	LastSubmittedOrder(ctx context.Context, customerID, itemCode string) (*models.LastOrder, error)
	UpsertFrequency(ctx context.Context, doc models.CustomerOrderFrequency) error
	ListFrequencies(ctx context.Context) ([]models.CustomerOrderFrequency, error)
	DeleteAllLogs(ctx context.Context) error
	InsertLog(ctx context.Context, log models.FrequencyLog) error
}

// QuotationStore 报价单存取
type QuotationStore interface {
	InsertQuotation(ctx context.Context, q *models.Quotation) error
	MarkCustomerLogsDone(ctx context.Context, customerCode string) (int64, error)
}
