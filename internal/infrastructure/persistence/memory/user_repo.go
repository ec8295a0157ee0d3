package memory

import (
	"context"
	"strings"
	"time"

	"github.com/xiebiao/litshop/internal/domain/user"
	apperrors "github.com/xiebiao/litshop/pkg/errors"
)

type userRepository struct {
	store *Store
}

// NewUserRepository 创建用户仓储(内存)
func NewUserRepository(store *Store) user.Repository {
	return &userRepository{store: store}
}

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return apperrors.ErrEmailDuplicate
		}
	}

	s.nextUserID++
	u.ID = s.nextUserID
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
		u.UpdatedAt = u.CreatedAt
	}
	cp := *u
	s.users[u.ID] = &cp

	id := u.ID
	onRollback(ctx, func() {
		s.mu.Lock()
		delete(s.users, id)
		s.mu.Unlock()
	})
	return nil
}

func (r *userRepository) FindByID(_ context.Context, id uint) (*user.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *userRepository) FindByEmail(_ context.Context, email string) (*user.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}
