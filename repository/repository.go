package repository

import (
	"context"
	"errors"

	"github.com/BerniceZTT/cbam_end/models"
)

var (
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("not found")
	// ErrConflict 与已有数据冲突
	ErrConflict = errors.New("conflict")
)

// SupplierRepository 供应商存储
type SupplierRepository interface {
	ListSuppliers(ctx context.Context) ([]models.Supplier, error)
	GetSupplier(ctx context.Context, id string) (*models.Supplier, error)
	CreateSuppliers(ctx context.Context, suppliers []models.Supplier) ([]models.Supplier, error)
	UpdateSupplier(ctx context.Context, id string, update models.SupplierUpdate) (*models.Supplier, error)
	// DeleteSupplier 供应商仍有进口记录时返回ErrConflict
	DeleteSupplier(ctx context.Context, id string) error
}

// ImportRepository 进口记录存储
type ImportRepository interface {
	ListImports(ctx context.Context, filter models.ImportFilter) ([]models.GoodsImport, error)
	CreateImports(ctx context.Context, imports []models.GoodsImport) ([]models.GoodsImport, error)
	// CreateSupplierImports 仅当引用的供应商全部存在时写入，否则返回ErrNotFound且不保留任何行
	CreateSupplierImports(ctx context.Context, imports []models.GoodsImport) ([]models.GoodsImport, error)
	DeleteImport(ctx context.Context, id string) error
}

// UserRepository 用户存储
type UserRepository interface {
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	CountUsersByRole(ctx context.Context, role models.UserRole) (int64, error)
}

// OperationLogRepository 操作日志存储
type OperationLogRepository interface {
	InsertOperationLog(ctx context.Context, log models.OperationLog) error
}

// Store 服务使用的全部存储
type Store interface {
	SupplierRepository
	ImportRepository
	UserRepository
	OperationLogRepository

	// Reset 删除全部供应商和进口记录
	Reset(ctx context.Context) error
	Status(ctx context.Context) (map[string]interface{}, error)
	Close(ctx context.Context) error
}
