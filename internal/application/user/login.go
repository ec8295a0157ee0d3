package user

import (
	"context"
	"time"

	"github.com/xiebiao/litshop/internal/domain/user"
	"github.com/xiebiao/litshop/pkg/jwt"
	"github.com/xiebiao/litshop/pkg/logger"
)

// SessionStore 会话与Token黑名单
// Redis实现与进程内实现都满足该接口
type SessionStore interface {
	SaveSession(ctx context.Context, userID uint, data map[string]interface{}, ttl time.Duration) error
	DeleteSession(ctx context.Context, userID uint) error
	AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error
}

// LoginUseCase 用户登录用例
// 设计说明：
// 1. 验证邮箱密码
// 2. 生成JWT Token对
// 3. 保存会话（失败只记日志，不影响登录）
type LoginUseCase struct {
	userService  user.Service
	jwtManager   *jwt.Manager
	sessionStore SessionStore
}

// NewLoginUseCase 创建登录用例
func NewLoginUseCase(userService user.Service, jwtManager *jwt.Manager, sessionStore SessionStore) *LoginUseCase {
	return &LoginUseCase{
		userService:  userService,
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
	}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string
	Password string
	ClientIP string
}

// LoginResponse 登录响应
type LoginResponse struct {
	User         UserInfo `json:"user"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int64    `json:"expires_in"` // Access Token有效期（秒）
}

// Execute 执行登录
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	// 1. 验证邮箱密码
	u, err := uc.userService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	// 2. 生成Token对
	pair, err := uc.jwtManager.GenerateToken(u.ID, u.Email, u.Username)
	if err != nil {
		return nil, err
	}

	// 3. 保存会话，有效期与Refresh Token一致
	session := map[string]interface{}{
		"user_id":  u.ID,
		"email":    u.Email,
		"username": u.Username,
		"login_at": time.Now().Unix(),
		"ip":       req.ClientIP,
	}
	if err := uc.sessionStore.SaveSession(ctx, u.ID, session, uc.jwtManager.RefreshTokenExpire()); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Uint("user_id", u.ID).Msg("会话保存失败")
	}

	logger.FromContext(ctx).Info().Uint("user_id", u.ID).Str("ip", req.ClientIP).Msg("用户登录成功")

	return &LoginResponse{
		User:         *toUserInfo(u),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}

// RefreshUseCase 用Refresh Token换取新的Access Token
// 用户资料从仓储重新读取，已删除的用户无法刷新
type RefreshUseCase struct {
	userRepo   user.Repository
	jwtManager *jwt.Manager
}

func NewRefreshUseCase(userRepo user.Repository, jwtManager *jwt.Manager) *RefreshUseCase {
	return &RefreshUseCase{userRepo: userRepo, jwtManager: jwtManager}
}

// RefreshResponse 刷新结果
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (uc *RefreshUseCase) Execute(ctx context.Context, refreshToken string) (*RefreshResponse, error) {
	token, err := uc.jwtManager.RefreshAccessToken(refreshToken, func(userID uint) (string, string, error) {
		u, err := uc.userRepo.FindByID(ctx, userID)
		if err != nil {
			return "", "", err
		}
		return u.Email, u.Username, nil
	})
	if err != nil {
		return nil, err
	}
	return &RefreshResponse{
		AccessToken: token,
		ExpiresIn:   int64(uc.jwtManager.AccessTokenExpire().Seconds()),
	}, nil
}

// LogoutUseCase 用户登出用例
type LogoutUseCase struct {
	sessionStore SessionStore
	jwtManager   *jwt.Manager
}

// NewLogoutUseCase 创建登出用例
func NewLogoutUseCase(sessionStore SessionStore, jwtManager *jwt.Manager) *LogoutUseCase {
	return &LogoutUseCase{sessionStore: sessionStore, jwtManager: jwtManager}
}

// Execute 执行登出
// Access Token在剩余有效期内加入黑名单，防止登出后继续使用
func (uc *LogoutUseCase) Execute(ctx context.Context, userID uint, accessToken string) error {
	claims, err := uc.jwtManager.ParseAccessToken(accessToken)
	if err != nil {
		return err
	}

	if err := uc.sessionStore.AddToBlacklist(ctx, accessToken, uc.jwtManager.RemainingTTL(claims)); err != nil {
		return err
	}
	if err := uc.sessionStore.DeleteSession(ctx, userID); err != nil {
		return err
	}

	logger.FromContext(ctx).Info().Uint("user_id", userID).Msg("用户已登出")
	return nil
}
