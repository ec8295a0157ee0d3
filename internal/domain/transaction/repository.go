package transaction

import (
	"context"
)

// Repository 交易仓储接口(交易账本)
// 1. Create是创建交易的唯一途径,必须与库存扣减处于同一工作单元
// 2. 只有追加,没有Update/Delete
type Repository interface {
	// Create 创建交易(包含明细)
	Create(ctx context.Context, tx *Transaction) error

	// FindByID 根据ID查找交易(包含明细),不存在返回ErrTransactionNotFound
	FindByID(ctx context.Context, id string) (*Transaction, error)

	// List 分页查询交易,按created_at DESC, id DESC排序
	List(ctx context.Context, params ListParams) ([]*Transaction, int64, error)
}

// ListParams 交易列表查询参数
type ListParams struct {
	UserID   *uint // 只看某个用户的交易,nil表示全部
	Page     int
	PageSize int
}

// TxManager 工作单元
// 1. fn内通过ctx传递的仓储调用处于同一事务
// 2. fn返回error时全部回滚,返回nil时提交
// 3. 存储层锁冲突返回ErrLockContention,由调用方决定是否重试
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
