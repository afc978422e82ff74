package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BerniceZTT/cbam_end/models"
	"github.com/BerniceZTT/cbam_end/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	// 集合名称
	UsersCollection            = "users"
	SuppliersCollection        = "suppliers"
	GoodsImportsCollection     = "goodsImports"
	ApiOperationLogsCollection = "apiOperationLogs"
)

var collections = []string{
	UsersCollection,
	SuppliersCollection,
	GoodsImportsCollection,
	ApiOperationLogsCollection,
}

const (
	operationTimeout = 10 * time.Second
	writeRetries     = 3
)

// MongoStore 基于MongoDB的存储
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoStore 连接MongoDB并初始化集合和索引
func NewMongoStore(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect MongoDB: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}

	store := &MongoStore{client: client, db: client.Database(dbName)}
	utils.Logger.Info().Str("database", dbName).Msg("connected to MongoDB")

	if err := store.initializeCollections(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// Close 断开连接
func (s *MongoStore) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		utils.Logger.Error().Err(err).Msg("disconnect MongoDB failed")
		return err
	}
	utils.Logger.Info().Msg("disconnected from MongoDB")
	return nil
}

// initializeCollections 创建缺失的集合和索引
func (s *MongoStore) initializeCollections(ctx context.Context) error {
	existing, err := s.db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}
	have := make(map[string]bool, len(existing))
	for _, name := range existing {
		have[name] = true
	}

	for _, name := range collections {
		if have[name] {
			utils.Logger.Debug().Str("collection", name).Msg("collection exists")
			continue
		}
		if err := s.db.CreateCollection(ctx, name); err != nil {
			return fmt.Errorf("create collection %s: %w", name, err)
		}
		utils.Logger.Info().Str("collection", name).Msg("created collection")
	}

	indexes := map[string][]mongo.IndexModel{
		UsersCollection: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		SuppliersCollection: {
			{Keys: bson.D{{Key: "name", Value: 1}}},
		},
		GoodsImportsCollection: {
			{Keys: bson.D{{Key: "supplierId", Value: 1}}},
			{Keys: bson.D{{Key: "quarter", Value: 1}, {Key: "date", Value: 1}}},
		},
	}
	for name, idx := range indexes {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// Status 返回各集合文档数
func (s *MongoStore) Status(ctx context.Context) (map[string]interface{}, error) {
	result := make(map[string]interface{})
	for _, name := range collections {
		count, err := s.db.Collection(name).CountDocuments(ctx, bson.M{})
		if err != nil {
			utils.Logger.Error().Err(err).Str("collection", name).Msg("count collection failed")
			result[name] = map[string]interface{}{"count": 0, "error": err.Error()}
			continue
		}
		result[name] = map[string]interface{}{"count": count}
	}
	result["backend"] = "mongodb"
	return result, nil
}

// ListSuppliers 按名称获取全部供应商
func (s *MongoStore) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	cursor, err := s.db.Collection(SuppliersCollection).Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find suppliers: %w", err)
	}
	defer cursor.Close(ctx)

	suppliers := []models.Supplier{}
	if err := cursor.All(ctx, &suppliers); err != nil {
		return nil, fmt.Errorf("decode suppliers: %w", err)
	}
	return suppliers, nil
}

// GetSupplier 根据ID获取供应商
func (s *MongoStore) GetSupplier(ctx context.Context, id string) (*models.Supplier, error) {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	var supplier models.Supplier
	err := s.db.Collection(SuppliersCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&supplier)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find supplier: %w", err)
	}
	return &supplier, nil
}

// CreateSuppliers 批量创建供应商，补全ID和时间戳
func (s *MongoStore) CreateSuppliers(ctx context.Context, suppliers []models.Supplier) ([]models.Supplier, error) {
	if len(suppliers) == 0 {
		return []models.Supplier{}, nil
	}
	now := time.Now()
	docs := make([]interface{}, len(suppliers))
	created := make([]models.Supplier, len(suppliers))
	for i, supplier := range suppliers {
		if supplier.ID == "" {
			supplier.ID = primitive.NewObjectID().Hex()
		}
		if supplier.Status == "" {
			supplier.Status = models.SupplierStatusNone
		}
		stampCreated(&supplier.CreatedAt, &supplier.UpdatedAt, now)
		created[i] = supplier
		docs[i] = supplier
	}

	err := executeWithRetry(func() error {
		ctx, cancel := context.WithTimeout(ctx, operationTimeout)
		defer cancel()
		_, err := s.db.Collection(SuppliersCollection).InsertMany(ctx, docs)
		return err
	}, writeRetries)
	if err != nil {
		return nil, translateWriteError("insert suppliers", err)
	}
	return created, nil
}

// UpdateSupplier 更新非nil字段
func (s *MongoStore) UpdateSupplier(ctx context.Context, id string, update models.SupplierUpdate) (*models.Supplier, error) {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	set := bson.M{"updatedAt": time.Now()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Country != nil {
		set["country"] = *update.Country
	}
	if update.ContactPerson != nil {
		set["contactPerson"] = *update.ContactPerson
	}
	if update.ContactEmail != nil {
		set["contactEmail"] = *update.ContactEmail
	}
	if update.Status != nil {
		set["status"] = *update.Status
	}
	if update.Notes != nil {
		set["notes"] = *update.Notes
	}

	var supplier models.Supplier
	err := s.db.Collection(SuppliersCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&supplier)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update supplier: %w", err)
	}
	return &supplier, nil
}

// DeleteSupplier 删除没有进口记录的供应商
// 删除后再次统计进口记录，如有并发写入则恢复供应商
func (s *MongoStore) DeleteSupplier(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	imports := s.db.Collection(GoodsImportsCollection)
	refs, err := imports.CountDocuments(ctx, bson.M{"supplierId": id})
	if err != nil {
		return fmt.Errorf("count supplier imports: %w", err)
	}
	if refs > 0 {
		return fmt.Errorf("%w: supplier has %d imports", ErrConflict, refs)
	}

	var deleted models.Supplier
	err = s.db.Collection(SuppliersCollection).FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&deleted)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete supplier: %w", err)
	}

	refs, err = imports.CountDocuments(ctx, bson.M{"supplierId": id})
	if err == nil && refs == 0 {
		return nil
	}
	if _, insertErr := s.db.Collection(SuppliersCollection).InsertOne(ctx, deleted); insertErr != nil {
		utils.Logger.Error().Err(insertErr).Str("supplierId", id).Msg("restore deleted supplier failed")
	}
	if err != nil {
		return fmt.Errorf("recount supplier imports: %w", err)
	}
	return fmt.Errorf("%w: supplier has %d imports", ErrConflict, refs)
}

// ListImports 按日期获取进口记录
func (s *MongoStore) ListImports(ctx context.Context, filter models.ImportFilter) ([]models.GoodsImport, error) {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	query := bson.M{}
	if filter.SupplierID != "" {
		query["supplierId"] = filter.SupplierID
	}
	if filter.Quarter != "" {
		query["quarter"] = filter.Quarter
	}

	cursor, err := s.db.Collection(GoodsImportsCollection).Find(ctx, query, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find imports: %w", err)
	}
	defer cursor.Close(ctx)

	imports := []models.GoodsImport{}
	if err := cursor.All(ctx, &imports); err != nil {
		return nil, fmt.Errorf("decode imports: %w", err)
	}
	return imports, nil
}

// CreateImports 批量写入进口记录，补全ID和时间戳
func (s *MongoStore) CreateImports(ctx context.Context, imports []models.GoodsImport) ([]models.GoodsImport, error) {
	if len(imports) == 0 {
		return []models.GoodsImport{}, nil
	}
	now := time.Now()
	docs := make([]interface{}, len(imports))
	created := make([]models.GoodsImport, len(imports))
	for i, row := range imports {
		if row.ID == "" {
			row.ID = primitive.NewObjectID().Hex()
		}
		stampCreated(&row.CreatedAt, &row.UpdatedAt, now)
		created[i] = row
		docs[i] = row
	}

	err := executeWithRetry(func() error {
		ctx, cancel := context.WithTimeout(ctx, operationTimeout)
		defer cancel()
		_, err := s.db.Collection(GoodsImportsCollection).InsertMany(ctx, docs)
		return err
	}, writeRetries)
	if err != nil {
		return nil, translateWriteError("insert imports", err)
	}
	return created, nil
}

// CreateSupplierImports 写入进口记录后检查供应商是否仍存在，不存在则删除已写入的行
func (s *MongoStore) CreateSupplierImports(ctx context.Context, imports []models.GoodsImport) ([]models.GoodsImport, error) {
	created, err := s.CreateImports(ctx, imports)
	if err != nil || len(created) == 0 {
		return created, err
	}

	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	ids := make([]string, len(created))
	wanted := make(map[string]bool)
	for i, row := range created {
		ids[i] = row.ID
		wanted[row.SupplierID] = true
	}
	supplierIDs := make([]string, 0, len(wanted))
	for id := range wanted {
		supplierIDs = append(supplierIDs, id)
	}

	found, err := s.db.Collection(SuppliersCollection).CountDocuments(ctx, bson.M{"_id": bson.M{"$in": supplierIDs}})
	if err == nil && found == int64(len(supplierIDs)) {
		return created, nil
	}
	if _, delErr := s.db.Collection(GoodsImportsCollection).DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}}); delErr != nil {
		utils.Logger.Error().Err(delErr).Int("count", len(ids)).Msg("remove unlinked imports failed")
	}
	if err != nil {
		return nil, fmt.Errorf("check suppliers: %w", err)
	}
	return nil, fmt.Errorf("%w: %d of %d suppliers", ErrNotFound, int64(len(supplierIDs))-found, len(supplierIDs))
}

// DeleteImport 删除进口记录
func (s *MongoStore) DeleteImport(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	result, err := s.db.Collection(GoodsImportsCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete import: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Reset 删除全部供应商和进口记录
func (s *MongoStore) Reset(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	for _, name := range []string{GoodsImportsCollection, SuppliersCollection} {
		if _, err := s.db.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			return fmt.Errorf("clear %s: %w", name, err)
		}
	}
	return nil
}

// FindUserByUsername 根据用户名查找用户
func (s *MongoStore) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	var user models.User
	err := s.db.Collection(UsersCollection).FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// CreateUser 创建用户
func (s *MongoStore) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	if user.ID == "" {
		user.ID = primitive.NewObjectID().Hex()
	}
	stampCreated(&user.CreatedAt, &user.UpdatedAt, time.Now())
	if _, err := s.db.Collection(UsersCollection).InsertOne(ctx, user); err != nil {
		return nil, translateWriteError("insert user", err)
	}
	return &user, nil
}

// CountUsersByRole 统计角色用户数
func (s *MongoStore) CountUsersByRole(ctx context.Context, role models.UserRole) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()
	return s.db.Collection(UsersCollection).CountDocuments(ctx, bson.M{"role": role})
}

// InsertOperationLog 保存操作日志
func (s *MongoStore) InsertOperationLog(ctx context.Context, log models.OperationLog) error {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	if log.ID == "" {
		log.ID = primitive.NewObjectID().Hex()
	}
	_, err := s.db.Collection(ApiOperationLogsCollection).InsertOne(ctx, log)
	return err
}

// executeWithRetry 执行数据库写操作，临时错误时重试
func executeWithRetry(operation func() error, retries int) error {
	if retries <= 0 {
		retries = 1
	}

	var lastErr error
	for i := 0; i < retries; i++ {
		err := operation()
		if err == nil {
			return nil
		}

		lastErr = err
		if !isRetryableError(err) {
			break
		}
		utils.Logger.Warn().Err(err).Msgf("database operation failed, retrying (%d/%d)", i+1, retries)
		time.Sleep(time.Duration(500*(i+1)) * time.Millisecond)
	}
	return lastErr
}

// isRetryableError 判断是否为可重试错误
func isRetryableError(err error) bool {
	retryableCodes := map[int32]bool{
		6:     true, // HostUnreachable
		7:     true, // HostNotFound
		89:    true, // NetworkTimeout
		91:    true, // ShutdownInProgress
		189:   true, // PrimarySteppedDown
		10107: true, // NotWritablePrimary
		13436: true, // NotPrimaryNoSecondaryOk
		11600: true, // InterruptedAtShutdown
		11602: true, // InterruptedDueToReplStateChange
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return retryableCodes[cmdErr.Code]
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, ne := range []string{"connection refused", "connection reset", "no reachable servers", "server selection error"} {
		if strings.Contains(msg, ne) {
			return true
		}
	}
	return false
}

func translateWriteError(operation string, err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%s: %w: duplicate key", operation, ErrConflict)
	}
	return fmt.Errorf("%s: %w", operation, err)
}

func stampCreated(createdAt, updatedAt *time.Time, now time.Time) {
	if createdAt.IsZero() {
		*createdAt = now
	}
	if updatedAt.IsZero() {
		*updatedAt = now
	}
}
