package transaction

import (
	apperrors "github.com/xiebiao/litshop/pkg/errors"
)

// 交易领域错误定义
var (
	// ErrTransactionNotFound 交易不存在(他人的交易同样视为不存在)
	ErrTransactionNotFound = apperrors.ErrTransactionNotFound

	// ErrInvalidLineItems 交易明细为空
	ErrInvalidLineItems = apperrors.ErrInvalidLineItems

	// ErrInvalidQuantity 购买数量不是正整数
	ErrInvalidQuantity = apperrors.ErrInvalidQuantity
)

// NewInvalidQuantityError 指明具体图书的数量错误
func NewInvalidQuantityError(bookID uint) *apperrors.AppError {
	return apperrors.ErrInvalidQuantity.WithDetails(map[string]interface{}{
		"book_id": bookID,
	})
}
