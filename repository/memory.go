package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/BerniceZTT/cbam_end/models"
)

// MemoryStore 内存存储，用于本地示例数据和测试
type MemoryStore struct {
	mu        sync.RWMutex
	suppliers map[string]models.Supplier
	imports   map[string]models.GoodsImport
	users     map[string]models.User // 按用户名
	logs      []models.OperationLog
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		suppliers: make(map[string]models.Supplier),
		imports:   make(map[string]models.GoodsImport),
		users:     make(map[string]models.User),
	}
}

// Close 无操作
func (m *MemoryStore) Close(ctx context.Context) error {
	return nil
}

// Status 返回记录数
func (m *MemoryStore) Status(ctx context.Context) (map[string]interface{}, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return map[string]interface{}{
		"backend":                  "memory",
		UsersCollection:            map[string]interface{}{"count": len(m.users)},
		SuppliersCollection:        map[string]interface{}{"count": len(m.suppliers)},
		GoodsImportsCollection:     map[string]interface{}{"count": len(m.imports)},
		ApiOperationLogsCollection: map[string]interface{}{"count": len(m.logs)},
	}, nil
}

// ListSuppliers 按名称获取全部供应商
func (m *MemoryStore) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	suppliers := make([]models.Supplier, 0, len(m.suppliers))
	for _, s := range m.suppliers {
		suppliers = append(suppliers, s)
	}
	sort.Slice(suppliers, func(i, j int) bool {
		if suppliers[i].Name != suppliers[j].Name {
			return suppliers[i].Name < suppliers[j].Name
		}
		return suppliers[i].ID < suppliers[j].ID
	})
	return suppliers, nil
}

// GetSupplier 根据ID获取供应商
func (m *MemoryStore) GetSupplier(ctx context.Context, id string) (*models.Supplier, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.suppliers[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

// CreateSuppliers 批量创建供应商，ID重复时整批拒绝
func (m *MemoryStore) CreateSuppliers(ctx context.Context, suppliers []models.Supplier) ([]models.Supplier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	created := make([]models.Supplier, len(suppliers))
	seen := make(map[string]bool, len(suppliers))
	for i, s := range suppliers {
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		if _, exists := m.suppliers[s.ID]; exists || seen[s.ID] {
			return nil, fmt.Errorf("insert suppliers: %w: duplicate id %s", ErrConflict, s.ID)
		}
		seen[s.ID] = true
		if s.Status == "" {
			s.Status = models.SupplierStatusNone
		}
		stampCreated(&s.CreatedAt, &s.UpdatedAt, now)
		created[i] = s
	}
	for _, s := range created {
		m.suppliers[s.ID] = s
	}
	return created, nil
}

// UpdateSupplier 更新非nil字段
func (m *MemoryStore) UpdateSupplier(ctx context.Context, id string, update models.SupplierUpdate) (*models.Supplier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.suppliers[id]
	if !ok {
		return nil, ErrNotFound
	}
	if update.Name != nil {
		s.Name = *update.Name
	}
	if update.Country != nil {
		s.Country = *update.Country
	}
	if update.ContactPerson != nil {
		s.ContactPerson = *update.ContactPerson
	}
	if update.ContactEmail != nil {
		s.ContactEmail = *update.ContactEmail
	}
	if update.Status != nil {
		s.Status = *update.Status
	}
	if update.Notes != nil {
		s.Notes = *update.Notes
	}
	s.UpdatedAt = time.Now()
	m.suppliers[id] = s
	return &s, nil
}

// DeleteSupplier 删除没有进口记录的供应商
func (m *MemoryStore) DeleteSupplier(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.suppliers[id]; !ok {
		return ErrNotFound
	}
	refs := 0
	for _, row := range m.imports {
		if row.SupplierID == id {
			refs++
		}
	}
	if refs > 0 {
		return fmt.Errorf("%w: supplier has %d imports", ErrConflict, refs)
	}
	delete(m.suppliers, id)
	return nil
}

// ListImports 按日期获取进口记录
func (m *MemoryStore) ListImports(ctx context.Context, filter models.ImportFilter) ([]models.GoodsImport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	imports := []models.GoodsImport{}
	for _, row := range m.imports {
		if filter.SupplierID != "" && row.SupplierID != filter.SupplierID {
			continue
		}
		if filter.Quarter != "" && !strings.EqualFold(row.Quarter, filter.Quarter) {
			continue
		}
		imports = append(imports, row)
	}
	sort.Slice(imports, func(i, j int) bool {
		if !imports[i].Date.Equal(imports[j].Date) {
			return imports[i].Date.Before(imports[j].Date)
		}
		return imports[i].ID < imports[j].ID
	})
	return imports, nil
}

// CreateImports 批量写入进口记录，ID重复时整批拒绝
func (m *MemoryStore) CreateImports(ctx context.Context, imports []models.GoodsImport) ([]models.GoodsImport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertImports(imports)
}

// CreateSupplierImports 写入供应商均存在的进口记录
func (m *MemoryStore) CreateSupplierImports(ctx context.Context, imports []models.GoodsImport) ([]models.GoodsImport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, row := range imports {
		if _, ok := m.suppliers[row.SupplierID]; !ok {
			return nil, fmt.Errorf("%w: supplier %s", ErrNotFound, row.SupplierID)
		}
	}
	return m.insertImports(imports)
}

// insertImports 调用方需持有m.mu
func (m *MemoryStore) insertImports(imports []models.GoodsImport) ([]models.GoodsImport, error) {
	now := time.Now()
	created := make([]models.GoodsImport, len(imports))
	seen := make(map[string]bool, len(imports))
	for i, row := range imports {
		if row.ID == "" {
			row.ID = uuid.NewString()
		}
		if _, exists := m.imports[row.ID]; exists || seen[row.ID] {
			return nil, fmt.Errorf("insert imports: %w: duplicate id %s", ErrConflict, row.ID)
		}
		seen[row.ID] = true
		stampCreated(&row.CreatedAt, &row.UpdatedAt, now)
		created[i] = row
	}
	for _, row := range created {
		m.imports[row.ID] = row
	}
	return created, nil
}

// DeleteImport 删除进口记录
func (m *MemoryStore) DeleteImport(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.imports[id]; !ok {
		return ErrNotFound
	}
	delete(m.imports, id)
	return nil
}

// Reset 删除全部供应商和进口记录
func (m *MemoryStore) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.suppliers = make(map[string]models.Supplier)
	m.imports = make(map[string]models.GoodsImport)
	return nil
}

// FindUserByUsername 根据用户名查找用户
func (m *MemoryStore) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[username]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

// CreateUser 创建用户，用户名唯一
func (m *MemoryStore) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[user.Username]; exists {
		return nil, fmt.Errorf("insert user: %w: duplicate username %s", ErrConflict, user.Username)
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	stampCreated(&user.CreatedAt, &user.UpdatedAt, time.Now())
	m.users[user.Username] = user
	return &user, nil
}

// CountUsersByRole 统计角色用户数
func (m *MemoryStore) CountUsersByRole(ctx context.Context, role models.UserRole) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var count int64
	for _, u := range m.users {
		if u.Role == role {
			count++
		}
	}
	return count, nil
}

// InsertOperationLog 保存操作日志
func (m *MemoryStore) InsertOperationLog(ctx context.Context, log models.OperationLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	m.logs = append(m.logs, log)
	return nil
}

// OperationLogs 返回操作日志副本
func (m *MemoryStore) OperationLogs() []models.OperationLog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.OperationLog(nil), m.logs...)
}
