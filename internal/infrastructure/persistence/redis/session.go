package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/litshop/pkg/errors"
)

// SessionStore 会话存储
// 1. session:{user_id} 登录信息(Hash),过期时间与Refresh Token一致
// 2. blacklist:{token} 已登出的Access Token,过期时间为Token剩余有效期
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore 创建会话存储
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func sessionKey(userID uint) string {
	return fmt.Sprintf("%ssession:%d", keyPrefix, userID)
}

func blacklistKey(token string) string {
	return keyPrefix + "blacklist:" + token
}

// SaveSession 保存用户会话
// HSet与Expire放在同一个pipeline里,减少一次往返
func (s *SessionStore) SaveSession(ctx context.Context, userID uint, data map[string]interface{}, ttl time.Duration) error {
	key := sessionKey(userID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, data)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return apperrors.WrapCode(err, apperrors.ErrCodeRedisError, "保存会话失败")
	}
	return nil
}

// GetSession 获取用户会话,不存在返回ErrUnauthorized
func (s *SessionStore) GetSession(ctx context.Context, userID uint) (map[string]string, error) {
	result, err := s.client.HGetAll(ctx, sessionKey(userID)).Result()
	if err != nil {
		return nil, apperrors.WrapCode(err, apperrors.ErrCodeRedisError, "获取会话失败")
	}
	if len(result) == 0 {
		return nil, apperrors.ErrUnauthorized
	}
	return result, nil
}

// DeleteSession 删除用户会话(登出)
func (s *SessionStore) DeleteSession(ctx context.Context, userID uint) error {
	if err := s.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return apperrors.WrapCode(err, apperrors.ErrCodeRedisError, "删除会话失败")
	}
	return nil
}

// AddToBlacklist 将Token加入黑名单
func (s *SessionStore) AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, blacklistKey(token), "revoked", ttl).Err(); err != nil {
		return apperrors.WrapCode(err, apperrors.ErrCodeRedisError, "添加Token到黑名单失败")
	}
	return nil
}

// IsInBlacklist 检查Token是否在黑名单中
func (s *SessionStore) IsInBlacklist(ctx context.Context, token string) (bool, error) {
	exists, err := s.client.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, apperrors.WrapCode(err, apperrors.ErrCodeRedisError, "检查黑名单失败")
	}
	return exists > 0, nil
}
