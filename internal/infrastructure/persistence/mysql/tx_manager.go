package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/litshop/internal/domain/transaction"
)

var _ transaction.TxManager = (*TxManager)(nil)

// txKey context中事务DB的key
type txKey struct{}

// TxManager 事务管理器
// 设计说明:
// 1. 封装GORM的Transaction方法
// 2. 通过context传递事务DB(避免全局变量)
// 3. 支持嵌套事务(GORM自动使用Savepoint)
type TxManager struct {
	db *gorm.DB
}

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction 执行事务
// 1. fn内的所有Repository操作都会在同一事务中执行
// 2. fn返回error时ROLLBACK,返回nil时COMMIT;COMMIT失败同样返回错误
// 3. 锁竞争(死锁/锁等待超时)转换为LockContention
//
// 使用示例:
//
//	err := txManager.Transaction(ctx, func(ctx context.Context) error {
//	    b, err := bookRepo.LockByID(ctx, bookID)
//	    if err != nil {
//	        return err
//	    }
//	    if err := bookRepo.UpdateStock(ctx, bookID, -quantity); err != nil {
//	        return err // 自动回滚
//	    }
//	    return txRepo.Create(ctx, tx)
//	})
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
	return translate(err, "事务执行失败")
}

// conn 从context获取事务DB,如果没有则使用默认DB
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}
