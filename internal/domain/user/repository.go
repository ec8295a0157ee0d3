package user

import (
	"context"
)

// Repository 用户仓储接口
// 接口定义在domain层，MySQL与内存两套实现在infrastructure层
type Repository interface {
	// Create 创建用户
	// 如果邮箱已存在，返回errors.ErrEmailDuplicate
	Create(ctx context.Context, user *User) error

	// FindByID 根据ID查找用户
	// 如果不存在，返回errors.ErrUserNotFound
	FindByID(ctx context.Context, id uint) (*User, error)

	// FindByEmail 根据邮箱查找用户
	// 如果不存在，返回errors.ErrUserNotFound
	FindByEmail(ctx context.Context, email string) (*User, error)
}
