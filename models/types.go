package models

import "time"

// UserRole 用户角色枚举
type UserRole string

const (
	UserRoleSUPER_ADMIN        UserRole = "SUPER_ADMIN"        // 全部权限
	UserRoleCOMPLIANCE_MANAGER UserRole = "COMPLIANCE_MANAGER" // 管理供应商和进口记录
	UserRoleVIEWER             UserRole = "VIEWER"             // 只读
)

// User 用户
type User struct {
	ID        string    `bson:"_id,omitempty" json:"_id,omitempty"`
	Username  string    `bson:"username" json:"username"`
	Password  string    `bson:"password" json:"-"` // 不返回
	Role      UserRole  `bson:"role" json:"role"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

type (
	// LoginRequest 登录请求
	LoginRequest struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	// LoginResponse 登录响应
	LoginResponse struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}
)

// CreateUserRequest 创建用户请求，仅超级管理员
type CreateUserRequest struct {
	Username string   `json:"username" binding:"required,min=3"`
	Password string   `json:"password" binding:"required,min=6"`
	Role     UserRole `json:"role" binding:"required"`
}
