package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/xiebiao/litshop/pkg/errors"
)

const issuer = "litshop"

// TokenType 区分Access Token与Refresh Token
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Manager JWT管理器
// 设计说明：
// 1. 双Token机制：Access Token（短期，用于API鉴权）+ Refresh Token（长期，只用于换取新的Access Token）
// 2. token_type写入Claims，Refresh Token不能当作Access Token使用
// 3. 只接受HMAC签名算法
type Manager struct {
	secret             []byte
	accessTokenExpire  time.Duration
	refreshTokenExpire time.Duration
	now                func() time.Time
}

// NewManager 创建JWT管理器
func NewManager(secret string, accessTokenExpire, refreshTokenExpire time.Duration) *Manager {
	return &Manager{
		secret:             []byte(secret),
		accessTokenExpire:  accessTokenExpire,
		refreshTokenExpire: refreshTokenExpire,
		now:                time.Now,
	}
}

// Claims 自定义JWT Claims
// 前端直接解码payload读取id、email、username
type Claims struct {
	UserID    uint      `json:"id"`
	Email     string    `json:"email,omitempty"`
	Username  string    `json:"username,omitempty"`
	TokenType TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenPair Token对（Access + Refresh）
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // Access Token有效期（秒）
}

// GenerateToken 生成Token对
func (m *Manager) GenerateToken(userID uint, email, username string) (*TokenPair, error) {
	access, err := m.sign(Claims{UserID: userID, Email: email, Username: username, TokenType: TokenTypeAccess}, m.accessTokenExpire)
	if err != nil {
		return nil, apperrors.WrapCode(err, apperrors.ErrCodeInternal, "生成Access Token失败")
	}

	// Refresh Token只携带UserID
	refresh, err := m.sign(Claims{UserID: userID, TokenType: TokenTypeRefresh}, m.refreshTokenExpire)
	if err != nil {
		return nil, apperrors.WrapCode(err, apperrors.ErrCodeInternal, "生成Refresh Token失败")
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(m.accessTokenExpire.Seconds()),
	}, nil
}

// ParseToken 解析并验证Token（签名、exp、nbf）
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("非法的签名算法: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(m.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken
	}
	if !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}

// ParseAccessToken 解析Access Token，Refresh Token会被拒绝
func (m *Manager) ParseAccessToken(tokenString string) (*Claims, error) {
	claims, err := m.ParseToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeAccess {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}

// RefreshAccessToken 使用Refresh Token换取新的Access Token
// email/username由调用方从用户仓储重新读取
func (m *Manager) RefreshAccessToken(refreshToken string, lookup func(userID uint) (email, username string, err error)) (string, error) {
	claims, err := m.ParseToken(refreshToken)
	if err != nil {
		return "", err
	}
	if claims.TokenType != TokenTypeRefresh {
		return "", apperrors.ErrInvalidToken
	}

	email, username, err := lookup(claims.UserID)
	if err != nil {
		return "", err
	}

	token, err := m.sign(Claims{UserID: claims.UserID, Email: email, Username: username, TokenType: TokenTypeAccess}, m.accessTokenExpire)
	if err != nil {
		return "", apperrors.WrapCode(err, apperrors.ErrCodeInternal, "刷新Token失败")
	}
	return token, nil
}

// RemainingTTL Token剩余有效期（登出时作为黑名单的过期时间）
func (m *Manager) RemainingTTL(claims *Claims) time.Duration {
	if claims.ExpiresAt == nil {
		return 0
	}
	ttl := claims.ExpiresAt.Sub(m.now())
	if ttl < 0 {
		return 0
	}
	return ttl
}

// AccessTokenExpire Access Token有效期
func (m *Manager) AccessTokenExpire() time.Duration {
	return m.accessTokenExpire
}

// RefreshTokenExpire Refresh Token有效期
func (m *Manager) RefreshTokenExpire() time.Duration {
	return m.refreshTokenExpire
}

func (m *Manager) sign(claims Claims, ttl time.Duration) (string, error) {
	now := m.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		Issuer:    issuer,
		Subject:   strconv.FormatUint(uint64(claims.UserID), 10),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}
