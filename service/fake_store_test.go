package service

import (
	"context"
	"sync"

	"github.com/BerniceZTT/crm_followup/models"
	"github.com/BerniceZTT/crm_followup/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memoryStore 内存实现，用于服务层测试
type memoryStore struct {
	mu sync.Mutex

	logs        []models.FrequencyLog
	customers   map[string]models.CustomerRecord
	orders      []models.SalesOrder
	frequencies []models.CustomerOrderFrequency
	quotations  []models.Quotation

	deleteCalls int
	err         error
	markErr     error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{customers: map[string]models.CustomerRecord{}}
}

func (m *memoryStore) addLog(code, name, item string, qty, rate float64, next string) primitive.ObjectID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := primitive.NewObjectID()
	m.logs = append(m.logs, models.FrequencyLog{
		ID:            id,
		CustomerCode:  code,
		CustomerName:  name,
		Item:          item,
		Qty:           qty,
		Value:         rate,
		FrequencyDay:  30,
		NextOrderDate: next,
	})
	return id
}

func (m *memoryStore) FindOpenLogs(_ context.Context, codes []string) ([]models.FrequencyLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	allowed := map[string]bool{}
	for _, c := range codes {
		allowed[c] = true
	}
	var out []models.FrequencyLog
	for _, l := range m.logs {
		if l.DoneFollowUp {
			continue
		}
		if codes != nil && !allowed[l.CustomerCode] {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (m *memoryStore) MarkLogDone(_ context.Context, logID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.markErr != nil {
		return m.markErr
	}
	for i := range m.logs {
		if m.logs[i].ID.Hex() == logID {
			m.logs[i].DoneFollowUp = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memoryStore) MarkCustomerLogsDone(_ context.Context, code string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.markErr != nil {
		return 0, m.markErr
	}
	var n int64
	for i := range m.logs {
		if m.logs[i].CustomerCode == code && !m.logs[i].DoneFollowUp {
			m.logs[i].DoneFollowUp = true
			n++
		}
	}
	return n, nil
}

func (m *memoryStore) CustomersForSalesPerson(_ context.Context, salesPerson string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var codes []string
	for code, c := range m.customers {
		for _, member := range c.SalesTeam {
			if member.SalesPerson == salesPerson {
				codes = append(codes, code)
				break
			}
		}
	}
	return codes, nil
}

func (m *memoryStore) FindCustomers(_ context.Context, codes []string) (map[string]models.CustomerRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]models.CustomerRecord{}
	for _, c := range codes {
		if rec, ok := m.customers[c]; ok {
			out[c] = rec
		}
	}
	return out, nil
}

func (m *memoryStore) CustomersWithSubmittedOrders(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, o := range m.orders {
		if o.DocStatus == 1 && !seen[o.Customer] {
			seen[o.Customer] = true
			out = append(out, o.Customer)
		}
	}
	return out, nil
}

func (m *memoryStore) RecentSubmittedOrders(_ context.Context, customerID string, limit int) ([]models.SalesOrder, error) {
	var out []models.SalesOrder
	for _, o := range m.orders {
		if o.Customer == customerID && o.DocStatus == 1 {
			out = append(out, o)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryStore) LastSubmittedOrder(_ context.Context, customerID, itemCode string) (*models.LastOrder, error) {
	var last *models.LastOrder
	for _, o := range m.orders {
		if o.Customer != customerID || o.DocStatus != 1 {
			continue
		}
		for _, it := range o.Items {
			if it.ItemCode == itemCode && (last == nil || o.TransactionDate > last.TransactionDate) {
				last = &models.LastOrder{TransactionDate: o.TransactionDate, BasePriceListRate: it.BasePriceListRate}
			}
		}
	}
	return last, nil
}

func (m *memoryStore) UpsertFrequency(_ context.Context, doc models.CustomerOrderFrequency) error {
	for i := range m.frequencies {
		if m.frequencies[i].CustomerID == doc.CustomerID {
			m.frequencies[i] = doc
			return nil
		}
	}
	m.frequencies = append(m.frequencies, doc)
	return nil
}

func (m *memoryStore) ListFrequencies(_ context.Context) ([]models.CustomerOrderFrequency, error) {
	return m.frequencies, nil
}

func (m *memoryStore) DeleteAllLogs(_ context.Context) error {
	m.deleteCalls++
	m.logs = nil
	return nil
}

func (m *memoryStore) InsertLog(_ context.Context, log models.FrequencyLog) error {
	log.ID = primitive.NewObjectID()
	m.logs = append(m.logs, log)
	return nil
}

func (m *memoryStore) InsertQuotation(_ context.Context, q *models.Quotation) error {
	if m.err != nil {
		return m.err
	}
	q.ID = primitive.NewObjectID()
	m.quotations = append(m.quotations, *q)
	return nil
}
