package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/litshop/internal/domain/transaction"
)

// transactionRepository 交易仓储实现(MySQL)
// 1. Transaction和LineItem是聚合关系,必须一起保存
// 2. 查询时使用Preload预加载明细,避免N+1问题
// 3. 事务通过context传递
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository 创建交易仓储
func NewTransactionRepository(db *gorm.DB) transaction.Repository {
	return &transactionRepository{db: db}
}

// Create 创建交易
// GORM会自动保存关联的Items;必须在工作单元内调用
func (r *transactionRepository) Create(ctx context.Context, t *transaction.Transaction) error {
	model := toTransactionModel(t)
	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		return translate(err, "创建交易失败")
	}

	for i := range t.Items {
		t.Items[i].ID = model.Items[i].ID
	}
	t.CreatedAt = model.CreatedAt
	return nil
}

// FindByID 根据ID查找交易
// Preload("Items")会执行:
// 1. SELECT * FROM transactions WHERE id = ?
// 2. SELECT * FROM transaction_items WHERE transaction_id IN (?)
func (r *transactionRepository) FindByID(ctx context.Context, id string) (*transaction.Transaction, error) {
	var model TransactionModel
	err := conn(ctx, r.db).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("id = ?", id).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, transaction.ErrTransactionNotFound
		}
		return nil, translate(err, "查询交易失败")
	}
	return toTransactionEntity(&model), nil
}

// List 分页查询交易
func (r *transactionRepository) List(ctx context.Context, params transaction.ListParams) ([]*transaction.Transaction, int64, error) {
	var models []TransactionModel
	var total int64

	query := conn(ctx, r.db).Model(&TransactionModel{})
	if params.UserID != nil {
		query = query.Where("user_id = ?", *params.UserID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "查询交易总数失败")
	}

	offset := (params.Page - 1) * params.PageSize
	err := query.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Order("created_at DESC").
		Order("id DESC").
		Limit(params.PageSize).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, 0, translate(err, "查询交易列表失败")
	}

	list := make([]*transaction.Transaction, len(models))
	for i := range models {
		list[i] = toTransactionEntity(&models[i])
	}
	return list, total, nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

func toTransactionModel(t *transaction.Transaction) *TransactionModel {
	items := make([]LineItemModel, len(t.Items))
	for i, item := range t.Items {
		items[i] = LineItemModel{
			TransactionID: t.ID,
			BookID:        item.BookID,
			BookTitle:     item.BookTitle,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			Subtotal:      item.Subtotal,
		}
	}
	return &TransactionModel{
		ID:            t.ID,
		UserID:        t.UserID,
		TotalQuantity: t.TotalQuantity,
		TotalPrice:    t.TotalPrice,
		Items:         items,
		CreatedAt:     t.CreatedAt,
	}
}

func toTransactionEntity(model *TransactionModel) *transaction.Transaction {
	items := make([]transaction.LineItem, len(model.Items))
	for i, item := range model.Items {
		items[i] = transaction.LineItem{
			ID:            item.ID,
			TransactionID: item.TransactionID,
			BookID:        item.BookID,
			BookTitle:     item.BookTitle,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			Subtotal:      item.Subtotal,
		}
	}
	return &transaction.Transaction{
		ID:            model.ID,
		UserID:        model.UserID,
		TotalQuantity: model.TotalQuantity,
		TotalPrice:    model.TotalPrice,
		Items:         items,
		CreatedAt:     model.CreatedAt,
	}
}
