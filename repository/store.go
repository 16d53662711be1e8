package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BerniceZTT/crm_followup/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// docStatusSubmitted 已提交订单
const docStatusSubmitted = 1

// Store 基于 MongoDB 的数据存取
type Store struct {
	db      *mongo.Database
	retries int
}

// NewStore 创建存取对象
func NewStore(database *mongo.Database) *Store {
	return &Store{db: database, retries: 3}
}

func (s *Store) coll(name string) *mongo.Collection {
	return s.db.Collection(name)
}

// FindOpenLogs 查询未完成的跟进记录，按客户名与物料排序
func (s *Store) FindOpenLogs(ctx context.Context, customerCodes []string) ([]models.FrequencyLog, error) {
	filter := bson.M{"doneFollowUp": false}
	if customerCodes != nil {
		filter["customerCode"] = bson.M{"$in": customerCodes}
	}
	opts := options.Find().SetSort(bson.D{{Key: "customerName", Value: 1}, {Key: "item", Value: 1}})

	return ExecuteDbOperation(ctx, s.retries, func() ([]models.FrequencyLog, error) {
		cursor, err := s.coll(FrequencyLogsCollection).Find(ctx, filter, opts)
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)

		logs := []models.FrequencyLog{}
		if err := cursor.All(ctx, &logs); err != nil {
			return nil, err
		}
		return logs, nil
	})
}

// MarkLogDone 标记单条跟进记录完成，记录不存在时返回 ErrNotFound
func (s *Store) MarkLogDone(ctx context.Context, logID string) error {
	objID, err := primitive.ObjectIDFromHex(logID)
	if err != nil {
		return fmt.Errorf("无效的ID格式 %q: %w", logID, ErrNotFound)
	}

	res, err := ExecuteDbOperation(ctx, s.retries, func() (*mongo.UpdateResult, error) {
		return s.coll(FrequencyLogsCollection).UpdateOne(ctx,
			bson.M{"_id": objID},
			bson.M{"$set": bson.M{"doneFollowUp": true, "updatedAt": time.Now()}},
		)
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkCustomerLogsDone 标记客户的全部未完成跟进记录，返回更新条数
func (s *Store) MarkCustomerLogsDone(ctx context.Context, customerCode string) (int64, error) {
	res, err := ExecuteDbOperation(ctx, s.retries, func() (*mongo.UpdateResult, error) {
		return s.coll(FrequencyLogsCollection).UpdateMany(ctx,
			bson.M{"customerCode": customerCode, "doneFollowUp": false},
			bson.M{"$set": bson.M{"doneFollowUp": true, "updatedAt": time.Now()}},
		)
	})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// CustomersForSalesPerson 销售团队中包含该用户的客户编码
func (s *Store) CustomersForSalesPerson(ctx context.Context, salesPerson string) ([]string, error) {
	values, err := s.coll(CustomersCollection).Distinct(ctx, "_id", bson.M{"salesTeam.salesPerson": salesPerson})
	if err != nil {
		return nil, err
	}
	return toStrings(values), nil
}

// FindCustomers 按编码批量查询客户资料
func (s *Store) FindCustomers(ctx context.Context, codes []string) (map[string]models.CustomerRecord, error) {
	result := make(map[string]models.CustomerRecord, len(codes))
	if len(codes) == 0 {
		return result, nil
	}

	cursor, err := s.coll(CustomersCollection).Find(ctx, bson.M{"_id": bson.M{"$in": codes}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.CustomerRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	for _, r := range records {
		result[r.Code] = r
	}
	return result, nil
}

// CustomersWithSubmittedOrders 有已提交订单的客户
func (s *Store) CustomersWithSubmittedOrders(ctx context.Context) ([]string, error) {
	values, err := s.coll(SalesOrdersCollection).Distinct(ctx, "customer", bson.M{"docStatus": docStatusSubmitted})
	if err != nil {
		return nil, err
	}
	return toStrings(values), nil
}

// RecentSubmittedOrders 客户最近的已提交订单，按日期倒序
func (s *Store) RecentSubmittedOrders(ctx context.Context, customerID string, limit int) ([]models.SalesOrder, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "transactionDate", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := s.coll(SalesOrdersCollection).Find(ctx,
		bson.M{"customer": customerID, "docStatus": docStatusSubmitted}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.SalesOrder
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// LastSubmittedOrder 某客户某物料最近一次已提交订单，没有时返回 nil
func (s *Store) LastSubmittedOrder(ctx context.Context, customerID, itemCode string) (*models.LastOrder, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "transactionDate", Value: -1}})

	var order models.SalesOrder
	err := s.coll(SalesOrdersCollection).FindOne(ctx, bson.M{
		"customer":       customerID,
		"docStatus":      docStatusSubmitted,
		"items.itemCode": itemCode,
	}, opts).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	last := &models.LastOrder{TransactionDate: order.TransactionDate}
	for _, it := range order.Items {
		if it.ItemCode == itemCode {
			last.BasePriceListRate = it.BasePriceListRate
			break
		}
	}
	return last, nil
}

// UpsertFrequency 按客户覆盖保存下单频率
func (s *Store) UpsertFrequency(ctx context.Context, doc models.CustomerOrderFrequency) error {
	_, err := ExecuteDbOperation(ctx, s.retries, func() (*mongo.UpdateResult, error) {
		return s.coll(CustomerOrderFrequencyCollection).UpdateOne(ctx,
			bson.M{"customerId": doc.CustomerID},
			bson.M{"$set": bson.M{
				"customerName":      doc.CustomerName,
				"itemWiseFrequency": doc.ItemWiseFrequency,
				"updatedAt":         doc.UpdatedAt,
			}},
			options.Update().SetUpsert(true),
		)
	})
	return err
}

// ListFrequencies 全部客户的下单频率
func (s *Store) ListFrequencies(ctx context.Context) ([]models.CustomerOrderFrequency, error) {
	cursor, err := s.coll(CustomerOrderFrequencyCollection).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []models.CustomerOrderFrequency
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// DeleteAllLogs 清空待跟进记录
func (s *Store) DeleteAllLogs(ctx context.Context) error {
	_, err := ExecuteDbOperation(ctx, s.retries, func() (*mongo.DeleteResult, error) {
		return s.coll(FrequencyLogsCollection).DeleteMany(ctx, bson.M{})
	})
	return err
}

// InsertLog 新增一条待跟进记录
func (s *Store) InsertLog(ctx context.Context, log models.FrequencyLog) error {
	_, err := s.coll(FrequencyLogsCollection).InsertOne(ctx, log)
	return err
}

// InsertQuotation 保存报价单并回填ID
func (s *Store) InsertQuotation(ctx context.Context, q *models.Quotation) error {
	res, err := s.coll(QuotationsCollection).InsertOne(ctx, q)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		q.ID = id
	}
	return nil
}

// FindUserByUsername 按用户名查找用户
func (s *Store) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.coll(UsersCollection).FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindUserByID 根据ID查找用户
func (s *Store) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("无效的ID格式 %q: %w", id, ErrNotFound)
	}

	var user models.User
	err = s.coll(UsersCollection).FindOne(ctx, bson.M{"_id": objID}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// InsertOperationLog 写入接口操作日志
func (s *Store) InsertOperationLog(ctx context.Context, entry models.OperationLog) error {
	_, err := s.coll(OperationLogsCollection).InsertOne(ctx, entry)
	return err
}

func toStrings(values []interface{}) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
