package dto

import (
	"encoding/json"
	"strconv"

	apptx "github.com/xiebiao/litshop/internal/application/transaction"
	"github.com/xiebiao/litshop/internal/domain/transaction"
	apperrors "github.com/xiebiao/litshop/pkg/errors"
)

// CreateTransactionRequest HTTP购买请求
// lineItems为空不在绑定阶段拦截,交给协调器返回InvalidLineItems(422)
type CreateTransactionRequest struct {
	LineItems []LineItemRequest `json:"lineItems"`
}

// LineItemRequest 购买明细
// quantity按JSON数字解码,小数或超出范围的值返回InvalidQuantity
type LineItemRequest struct {
	BookID   uint        `json:"bookId" example:"1"`
	Quantity json.Number `json:"quantity" swaggertype:"integer" example:"2"`
}

// ToItems 转换为应用层请求明细
func (r CreateTransactionRequest) ToItems() ([]apptx.LineItemRequest, error) {
	items := make([]apptx.LineItemRequest, len(r.LineItems))
	for i, it := range r.LineItems {
		q, err := strconv.ParseInt(it.Quantity.String(), 10, 32)
		if err != nil {
			return nil, transaction.NewInvalidQuantityError(it.BookID)
		}
		items[i] = apptx.LineItemRequest{BookID: it.BookID, Quantity: int(q)}
	}
	return items, nil
}

// ListTransactionsRequest 分页参数
type ListTransactionsRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// TransactionResponse 交易响应
type TransactionResponse struct {
	ID                string             `json:"id" example:"0190d4a4-7c1e-7b5e-9c61-3f0e5a0f2b11"`
	UserID            uint               `json:"user_id" example:"1"`
	TotalQuantity     int                `json:"total_quantity" example:"4"`
	TotalPrice        int64              `json:"total_price" example:"200000"`
	TotalPriceDisplay string             `json:"total_price_display" example:"2000.00"`
	Items             []LineItemResponse `json:"items"`
	CreatedAt         string             `json:"created_at"`
}

// LineItemResponse 交易明细
type LineItemResponse struct {
	ID               uint   `json:"id"`
	BookID           uint   `json:"book_id"`
	BookTitle        string `json:"book_title"`
	Quantity         int    `json:"quantity"`
	UnitPrice        int64  `json:"unit_price"`
	UnitPriceDisplay string `json:"unit_price_display"`
	Subtotal         int64  `json:"subtotal"`
}

func NewTransactionResponse(t *transaction.Transaction) *TransactionResponse {
	items := make([]LineItemResponse, len(t.Items))
	for i, it := range t.Items {
		items[i] = LineItemResponse{
			ID:               it.ID,
			BookID:           it.BookID,
			BookTitle:        it.BookTitle,
			Quantity:         it.Quantity,
			UnitPrice:        it.UnitPrice,
			UnitPriceDisplay: FormatPrice(it.UnitPrice),
			Subtotal:         it.Subtotal,
		}
	}
	return &TransactionResponse{
		ID:                t.ID,
		UserID:            t.UserID,
		TotalQuantity:     t.TotalQuantity,
		TotalPrice:        t.TotalPrice,
		TotalPriceDisplay: FormatPrice(t.TotalPrice),
		Items:             items,
		CreatedAt:         formatTime(t.CreatedAt),
	}
}

func NewTransactionList(txs []*transaction.Transaction) []*TransactionResponse {
	list := make([]*TransactionResponse, len(txs))
	for i, t := range txs {
		list[i] = NewTransactionResponse(t)
	}
	return list
}

// BindError 绑定失败统一转换为参数格式错误
func BindError(err error) error {
	return apperrors.WrapCode(err, apperrors.ErrCodeBindError, "参数格式错误: "+err.Error())
}
