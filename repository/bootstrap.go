package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/BerniceZTT/cbam_end/models"
	"github.com/BerniceZTT/cbam_end/utils"
)

// InitializeAdminAccount 初始化超级管理员账号
func InitializeAdminAccount(ctx context.Context, store UserRepository, password string) error {
	count, err := store.CountUsersByRole(ctx, models.UserRoleSUPER_ADMIN)
	if err != nil {
		return fmt.Errorf("check admin account: %w", err)
	}
	if count > 0 {
		utils.Logger.Info().Msg("super admin account exists, skipping creation")
		return nil
	}

	now := time.Now()
	_, err = store.CreateUser(ctx, models.User{
		Username:  "admin",
		Password:  utils.HashPassword(password),
		Role:      models.UserRoleSUPER_ADMIN,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return fmt.Errorf("create admin account: %w", err)
	}

	utils.Logger.Info().Msg("created default super admin account")
	return nil
}

// SeedData 写入供应商和进口记录，可选先清空现有数据
func SeedData(ctx context.Context, store Store, suppliers []models.Supplier, imports []models.GoodsImport, replace bool) error {
	if replace {
		if err := store.Reset(ctx); err != nil {
			return fmt.Errorf("reset data: %w", err)
		}
	}
	if _, err := store.CreateSuppliers(ctx, suppliers); err != nil {
		return fmt.Errorf("insert suppliers: %w", err)
	}
	if _, err := store.CreateImports(ctx, imports); err != nil {
		return fmt.Errorf("insert imports: %w", err)
	}
	utils.Logger.Info().
		Int("suppliers", len(suppliers)).
		Int("imports", len(imports)).
		Bool("replace", replace).
		Msg("seeded data")
	return nil
}
