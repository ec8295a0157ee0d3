package transaction

import (
	"context"

	"github.com/xiebiao/litshop/internal/domain/transaction"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// GetTransactionUseCase 查询单笔交易
// 他人的交易与不存在的交易返回同一个错误,不暴露交易是否存在
type GetTransactionUseCase struct {
	txRepo transaction.Repository
}

func NewGetTransactionUseCase(txRepo transaction.Repository) *GetTransactionUseCase {
	return &GetTransactionUseCase{txRepo: txRepo}
}

func (uc *GetTransactionUseCase) Execute(ctx context.Context, userID uint, id string) (*transaction.Transaction, error) {
	if !transaction.IsValidID(id) {
		return nil, transaction.ErrTransactionNotFound
	}

	tx, err := uc.txRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !tx.IsOwnedBy(userID) {
		return nil, transaction.ErrTransactionNotFound
	}
	return tx, nil
}

// ListTransactionsUseCase 查询当前用户的交易(最新在前)
type ListTransactionsUseCase struct {
	txRepo transaction.Repository
}

func NewListTransactionsUseCase(txRepo transaction.Repository) *ListTransactionsUseCase {
	return &ListTransactionsUseCase{txRepo: txRepo}
}

// ListTransactionsRequest 分页参数
type ListTransactionsRequest struct {
	UserID   uint
	Page     int
	PageSize int
}

// ListTransactionsResult 分页结果
type ListTransactionsResult struct {
	Transactions []*transaction.Transaction
	Total        int64
	Page         int
	PageSize     int
}

func (uc *ListTransactionsUseCase) Execute(ctx context.Context, req ListTransactionsRequest) (*ListTransactionsResult, error) {
	page, pageSize := normalisePage(req.Page, req.PageSize)

	userID := req.UserID
	txs, total, err := uc.txRepo.List(ctx, transaction.ListParams{
		UserID:   &userID,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, err
	}

	return &ListTransactionsResult{
		Transactions: txs,
		Total:        total,
		Page:         page,
		PageSize:     pageSize,
	}, nil
}

func normalisePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}
