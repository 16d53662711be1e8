package service

import (
	"context"
	"fmt"
	"time"

	"github.com/BerniceZTT/crm_followup/models"
	"github.com/BerniceZTT/crm_followup/utils"
)

// QuotationService 报价单创建
type QuotationService struct {
	store QuotationStore
	Now   func() time.Time
}

// NewQuotationService 创建报价单服务
func NewQuotationService(store QuotationStore) *QuotationService {
	return &QuotationService{store: store, Now: time.Now}
}

// BuildQuotationDraft 根据客户及其待跟进物料生成报价单预填数据
func BuildQuotationDraft(customer models.FollowUpCustomer) models.QuotationDraft {
	party := customer.Name
	if party == "" {
		party = customer.CustomerCode
	}
	draft := models.QuotationDraft{
		Party:    party,
		Currency: customer.DefaultCurrency,
		Branch:   customer.CustomBranch,
		Items:    make([]models.QuotationItem, 0, len(customer.Items)),
	}
	for _, item := range customer.Items {
		draft.Items = append(draft.Items, models.QuotationItem{ItemCode: item.Item, Qty: item.Qty})
	}
	return draft
}

// Create 保存报价单草稿，随后将该客户的跟进记录标记完成（失败只记录日志）
func (s *QuotationService) Create(ctx context.Context, user *utils.LoginUser, draft models.QuotationDraft) (*models.Quotation, error) {
	if err := utils.ValidateStruct(draft); err != nil {
		return nil, err
	}

	q := &models.Quotation{
		QuotationTo: "Customer",
		PartyName:   draft.Party,
		Currency:    draft.Currency,
		Branch:      draft.Branch,
		Items:       draft.Items,
		Status:      models.QuotationStatusDraft,
		CreatedAt:   s.Now(),
	}
	if user != nil {
		q.OwnerID = user.ID
		q.OwnerName = user.Username
	}

	if err := s.store.InsertQuotation(ctx, q); err != nil {
		return nil, fmt.Errorf("创建报价单失败: %w", err)
	}

	s.markFollowUpsOnQuotation(ctx, q)
	return q, nil
}

func (s *QuotationService) markFollowUpsOnQuotation(ctx context.Context, q *models.Quotation) {
	if q.QuotationTo != "Customer" || q.PartyName == "" {
		return
	}
	n, err := s.store.MarkCustomerLogsDone(ctx, q.PartyName)
	if err != nil {
		utils.LogError(err, map[string]interface{}{
			"quotation": q.ID.Hex(),
			"party":     q.PartyName,
		}, "报价单关联跟进记录更新失败")
		return
	}
	utils.LogInfo(map[string]interface{}{
		"quotation": q.ID.Hex(),
		"party":     q.PartyName,
		"count":     n,
	}, "报价单已创建，跟进记录已标记完成")
}
