package memory

import (
	"context"
	"sync"
	"time"
)

// SessionStore 进程内会话与Token黑名单
// redis.enabled=false时使用;过期条目在读取时清理
type SessionStore struct {
	mu        sync.Mutex
	sessions  map[uint]sessionEntry
	blacklist map[string]time.Time
	now       func() time.Time
}

type sessionEntry struct {
	data      map[string]interface{}
	expiresAt time.Time
}

// NewSessionStore 创建进程内会话存储
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions:  make(map[uint]sessionEntry),
		blacklist: make(map[string]time.Time),
		now:       time.Now,
	}
}

func (s *SessionStore) SaveSession(_ context.Context, userID uint, data map[string]interface{}, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = sessionEntry{data: data, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *SessionStore) DeleteSession(_ context.Context, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}

func (s *SessionStore) AddToBlacklist(_ context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blacklist[token] = s.now().Add(ttl)
	return nil
}

func (s *SessionStore) IsInBlacklist(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt, ok := s.blacklist[token]
	if !ok {
		return false, nil
	}
	if !s.now().Before(expiresAt) {
		delete(s.blacklist, token)
		return false, nil
	}
	return true, nil
}
