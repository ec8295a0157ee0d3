package book

import (
	apperrors "github.com/xiebiao/litshop/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.ErrBookNotFound

	// ErrISBNDuplicate ISBN已存在
	ErrISBNDuplicate = apperrors.ErrISBNDuplicate

	// ErrInsufficientStock 库存不足(不带上下文,判断用errors.Is)
	ErrInsufficientStock = apperrors.ErrInsufficientStock

	ErrTitleRequired    = apperrors.New(apperrors.ErrCodeInvalidParams, "书名不能为空")
	ErrInvalidPrice     = apperrors.New(apperrors.ErrCodeInvalidParams, "价格不能为负数")
	ErrInvalidStock     = apperrors.New(apperrors.ErrCodeInvalidParams, "库存不能为负数")
	ErrInvalidCondition = apperrors.New(apperrors.ErrCodeInvalidParams, "成色只能是new或used")
	ErrInvalidISBN      = apperrors.New(apperrors.ErrCodeInvalidParams, "ISBN格式不正确")
)

// NewInsufficientStockError 携带图书上下文的库存不足错误
// 响应data: {book_id, title, requested, available, shortfall}
func NewInsufficientStockError(b *Book, requested int) *apperrors.AppError {
	return apperrors.ErrInsufficientStock.
		WithMessage("图书《" + b.Title + "》库存不足").
		WithDetails(map[string]interface{}{
			"book_id":   b.ID,
			"title":     b.Title,
			"requested": requested,
			"available": b.Stock,
			"shortfall": requested - b.Stock,
		})
}
