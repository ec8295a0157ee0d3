package user

import (
	"time"
)

// User 用户实体（聚合根）
// DDD设计说明：
// 1. 核心交易流程只使用认证后的用户ID，用户资料由认证子系统维护
// 2. 密码以bcrypt哈希存储，不提供任何暴露明文的方法
// 3. 领域实体不依赖GORM tag（Repository负责映射）
type User struct {
	ID        uint
	Username  string
	Email     string
	Password  string // bcrypt哈希值
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser 创建新用户（工厂方法）
// hashedPassword必须是bcrypt加密后的密码
func NewUser(username, email, hashedPassword string) *User {
	now := time.Now()
	return &User{
		Username:  username,
		Email:     email,
		Password:  hashedPassword,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
