package memory

import (
	"context"
	"sort"

	"github.com/xiebiao/litshop/internal/domain/transaction"
	apperrors "github.com/xiebiao/litshop/pkg/errors"
)

type transactionRepository struct {
	store *Store
}

// NewTransactionRepository 创建交易仓储(内存)
func NewTransactionRepository(store *Store) transaction.Repository {
	return &transactionRepository{store: store}
}

func cloneTransaction(t *transaction.Transaction) *transaction.Transaction {
	cp := *t
	cp.Items = append([]transaction.LineItem(nil), t.Items...)
	return &cp
}

// Create 追加交易,明细ID在此分配
func (r *transactionRepository) Create(ctx context.Context, t *transaction.Transaction) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.txs[t.ID]; exists {
		return apperrors.New(apperrors.ErrCodeDuplicateEntry, "交易ID重复")
	}
	for i := range t.Items {
		s.nextItemID++
		t.Items[i].ID = s.nextItemID
		t.Items[i].TransactionID = t.ID
	}
	s.txs[t.ID] = cloneTransaction(t)

	id := t.ID
	onRollback(ctx, func() {
		s.mu.Lock()
		delete(s.txs, id)
		s.mu.Unlock()
	})
	return nil
}

func (r *transactionRepository) FindByID(_ context.Context, id string) (*transaction.Transaction, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.txs[id]
	if !ok {
		return nil, transaction.ErrTransactionNotFound
	}
	return cloneTransaction(t), nil
}

// List 按created_at DESC, id DESC排序
func (r *transactionRepository) List(_ context.Context, params transaction.ListParams) ([]*transaction.Transaction, int64, error) {
	s := r.store
	s.mu.RLock()
	matched := make([]*transaction.Transaction, 0, len(s.txs))
	for _, t := range s.txs {
		if params.UserID != nil && t.UserID != *params.UserID {
			continue
		}
		matched = append(matched, t)
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})

	start, end := pageBounds(len(matched), params.Page, params.PageSize)
	page := make([]*transaction.Transaction, 0, end-start)
	for i := start; i < end; i++ {
		page = append(page, cloneTransaction(matched[i]))
	}
	s.mu.RUnlock()

	return page, int64(len(matched)), nil
}
