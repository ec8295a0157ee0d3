package user

import (
	"context"

	"github.com/xiebiao/litshop/internal/domain/user"
	"github.com/xiebiao/litshop/pkg/logger"
)

// RegisterUseCase 用户注册用例
// 设计说明：
// 1. 校验与密码加密由领域服务完成，应用层只做编排
// 2. 返回应用层DTO，不暴露密码哈希
type RegisterUseCase struct {
	userService user.Service
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(userService user.Service) *RegisterUseCase {
	return &RegisterUseCase{
		userService: userService,
	}
}

// Execute 执行注册
func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*UserInfo, error) {
	u, err := uc.userService.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info().Uint("user_id", u.ID).Msg("用户注册成功")
	return toUserInfo(u), nil
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string
	Email    string
	Password string
}

// UserInfo 用户信息
type UserInfo struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func toUserInfo(u *user.User) *UserInfo {
	return &UserInfo{ID: u.ID, Username: u.Username, Email: u.Email}
}
