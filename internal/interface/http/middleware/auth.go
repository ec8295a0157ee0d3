package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/litshop/pkg/errors"
	"github.com/xiebiao/litshop/pkg/jwt"
	"github.com/xiebiao/litshop/pkg/response"
)

const (
	ctxUserID      = "user_id"
	ctxEmail       = "email"
	ctxUsername    = "username"
	ctxAccessToken = "access_token"
)

// TokenBlacklist 已登出Token查询
type TokenBlacklist interface {
	IsInBlacklist(ctx context.Context, token string) (bool, error)
}

// AuthMiddleware JWT认证中间件
// 设计说明：
// 1. 从Header提取Bearer Token
// 2. 只接受Access Token，Refresh Token会被拒绝
// 3. 检查Token黑名单（登出后的Token立即失效）
// 4. 将用户信息注入gin.Context
type AuthMiddleware struct {
	jwtManager *jwt.Manager
	blacklist  TokenBlacklist
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(jwtManager *jwt.Manager, blacklist TokenBlacklist) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		blacklist:  blacklist,
	}
}

// RequireAuth 要求登录
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 格式：Authorization: Bearer <token>
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, apperrors.ErrUnauthorized)
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			response.Abort(c, apperrors.ErrInvalidToken.WithMessage("Token格式错误"))
			return
		}
		tokenString := parts[1]

		// 2. 验证签名、过期时间与Token类型
		claims, err := m.jwtManager.ParseAccessToken(tokenString)
		if err != nil {
			response.Abort(c, err)
			return
		}

		// 3. 黑名单
		blacklisted, err := m.blacklist.IsInBlacklist(c.Request.Context(), tokenString)
		if err != nil {
			response.Abort(c, err)
			return
		}
		if blacklisted {
			response.Abort(c, apperrors.ErrInvalidToken.WithMessage("Token已失效，请重新登录"))
			return
		}

		// 4. 注入用户信息
		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxEmail, claims.Email)
		c.Set(ctxUsername, claims.Username)
		c.Set(ctxAccessToken, tokenString)

		c.Next()
	}
}

// GetUserID 当前登录用户ID，未登录返回0
func GetUserID(c *gin.Context) uint {
	if v, ok := c.Get(ctxUserID); ok {
		if uid, ok := v.(uint); ok {
			return uid
		}
	}
	return 0
}

// GetAccessToken 当前请求携带的Access Token（登出时加入黑名单）
func GetAccessToken(c *gin.Context) string {
	return c.GetString(ctxAccessToken)
}
