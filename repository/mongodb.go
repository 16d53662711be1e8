package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BerniceZTT/crm_followup/models"
	"github.com/BerniceZTT/crm_followup/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	// 集合名
	UsersCollection                  = "users"
	CustomersCollection              = "customers"
	SalesOrdersCollection            = "salesOrders"
	FrequencyLogsCollection          = "frequencyLogs"
	CustomerOrderFrequencyCollection = "customerOrderFrequency"
	QuotationsCollection             = "quotations"
	OperationLogsCollection          = "operationLogs"
)

var allCollections = []string{
	UsersCollection,
	CustomersCollection,
	SalesOrdersCollection,
	FrequencyLogsCollection,
	CustomerOrderFrequencyCollection,
	QuotationsCollection,
	OperationLogsCollection,
}

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("document not found")

var (
	client *mongo.Client
	db     *mongo.Database
)

// InitMongoDB 初始化MongoDB连接
func InitMongoDB(ctx context.Context, uri, dbName string) error {
	// 设置连接超时
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var err error
	client, err = mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return fmt.Errorf("连接MongoDB失败: %w", err)
	}

	// 检查连接
	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return fmt.Errorf("ping MongoDB失败: %w", err)
	}

	db = client.Database(dbName)
	utils.Logger.Info().Str("database", dbName).Msg("已连接到MongoDB")
	return nil
}

// CloseMongoDB 关闭MongoDB连接
func CloseMongoDB(ctx context.Context) {
	if client == nil {
		return
	}
	if err := client.Disconnect(ctx); err != nil {
		utils.Logger.Error().Err(err).Msg("断开MongoDB连接失败")
		return
	}
	utils.Logger.Info().Msg("已断开MongoDB连接")
}

// DB 返回当前数据库，未初始化时为 nil
func DB() *mongo.Database {
	return db
}

// ExecuteDbOperation 执行数据库操作，对网络类错误进行重试
func ExecuteDbOperation[T any](ctx context.Context, retries int, operation func() (T, error)) (T, error) {
	if retries <= 0 {
		retries = 3
	}

	var zero T
	var lastErr error
	for i := 0; i < retries; i++ {
		result, err := operation()
		if err == nil {
			return result, nil
		}

		lastErr = err
		if !isRetryableError(err) {
			break
		}
		utils.Logger.Warn().Err(err).Msgf("数据库操作失败，重试 (%d/%d)", i+1, retries)

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(time.Duration(500*(i+1)) * time.Millisecond):
		}
	}

	return zero, lastErr
}

// isRetryableError 判断错误是否可重试
func isRetryableError(err error) bool {
	if err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, mongo.ErrNoDocuments) {
		return false
	}

	// MongoDB可重试错误代码
	retryableCodes := map[int32]bool{
		6:     true, // HostUnreachable
		7:     true, // HostNotFound
		89:    true, // NetworkTimeout
		91:    true, // ShutdownInProgress
		189:   true, // PrimarySteppedDown
		10107: true, // NotMaster
		13436: true, // NotMasterNoSlaveOk
		11600: true, // InterruptedAtShutdown
		11602: true, // InterruptedDueToReplStateChange
		10058: true, // ConnectionReset
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return retryableCodes[cmdErr.Code]
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return true
	}

	return isNetworkError(err)
}

// isNetworkError 按错误信息判断网络错误
func isNetworkError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, ne := range []string{
		"connection refused",
		"connection reset",
		"connection closed",
		"no reachable servers",
		"server selection error",
	} {
		if strings.Contains(msg, ne) {
			return true
		}
	}
	return false
}

// InitializeCollections 初始化数据库集合与索引
func InitializeCollections(ctx context.Context) error {
	existing, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("检查集合失败: %w", err)
	}
	have := make(map[string]bool, len(existing))
	for _, name := range existing {
		have[name] = true
	}

	for _, collName := range allCollections {
		if have[collName] {
			utils.Logger.Debug().Str("collection", collName).Msg("集合已存在")
			continue
		}
		if err := db.CreateCollection(ctx, collName); err != nil {
			return fmt.Errorf("创建集合失败: %w", err)
		}
		utils.Logger.Info().Str("collection", collName).Msg("创建集合成功")
	}

	indexes := map[string][]mongo.IndexModel{
		FrequencyLogsCollection: {
			{Keys: bson.D{{Key: "customerCode", Value: 1}, {Key: "doneFollowUp", Value: 1}}},
		},
		CustomerOrderFrequencyCollection: {
			{Keys: bson.D{{Key: "customerId", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		SalesOrdersCollection: {
			{Keys: bson.D{{Key: "customer", Value: 1}, {Key: "docStatus", Value: 1}, {Key: "transactionDate", Value: -1}}},
		},
		CustomersCollection: {
			{Keys: bson.D{{Key: "salesTeam.salesPerson", Value: 1}}},
		},
		UsersCollection: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}
	for collName, idx := range indexes {
		if _, err := db.Collection(collName).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("创建索引失败 %s: %w", collName, err)
		}
	}
	return nil
}

// InitializeAdminAccount 初始化管理员账户
func InitializeAdminAccount(ctx context.Context) error {
	usersCollection := db.Collection(UsersCollection)

	count, err := usersCollection.CountDocuments(ctx, bson.M{"role": models.UserRoleADMINISTRATOR})
	if err != nil {
		return fmt.Errorf("检查管理员账户失败: %w", err)
	}
	if count > 0 {
		utils.Logger.Info().Msg("管理员账户已存在，跳过创建")
		return nil
	}

	now := time.Now()
	adminUser := models.User{
		Username:  "admin",
		Password:  utils.HashPassword("admin123"),
		FullName:  "Administrator",
		Role:      models.UserRoleADMINISTRATOR,
		Enabled:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := usersCollection.InsertOne(ctx, adminUser); err != nil {
		return fmt.Errorf("创建管理员账户失败: %w", err)
	}

	utils.Logger.Info().Msg("已创建默认管理员账户")
	return nil
}

// GetDatabaseStatus 获取各集合的文档数
func GetDatabaseStatus(ctx context.Context) map[string]interface{} {
	result := make(map[string]interface{}, len(allCollections))
	for _, collName := range allCollections {
		count, err := db.Collection(collName).CountDocuments(ctx, bson.M{})
		if err != nil {
			utils.Logger.Error().Err(err).Str("collection", collName).Msg("获取集合计数失败")
			result[collName] = map[string]interface{}{"count": 0, "error": err.Error()}
			continue
		}
		result[collName] = map[string]interface{}{"count": count}
	}
	return result
}
