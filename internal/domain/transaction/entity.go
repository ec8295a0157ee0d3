package transaction

import (
	"time"
)

// Transaction 购买交易(聚合根)
// 设计说明:
// 1. 交易一经创建不可修改、不可删除,没有状态流转
// 2. ID使用UUIDv7(全局唯一,按时间有序)
// 3. TotalQuantity/TotalPrice冗余存储,等于明细之和
type Transaction struct {
	ID            string
	UserID        uint       // 买家用户ID
	TotalQuantity int        // 总件数(>0)
	TotalPrice    int64      // 总金额(最小货币单位)
	Items         []LineItem // 交易明细(聚合内的子实体)
	CreatedAt     time.Time
}

// LineItem 交易明细
// 1. UnitPrice是工作单元内读到的价格快照,之后改价不影响历史交易
// 2. BookTitle是书名快照,图书删除后历史交易仍可读
// 3. 不直接关联Book对象,只保存BookID(避免跨聚合引用)
type LineItem struct {
	ID            uint
	TransactionID string
	BookID        uint
	BookTitle     string
	Quantity      int
	UnitPrice     int64
	Subtotal      int64 // Quantity × UnitPrice
}

// NewLineItem 创建明细并计算小计
func NewLineItem(bookID uint, title string, quantity int, unitPrice int64) LineItem {
	return LineItem{
		BookID:    bookID,
		BookTitle: title,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Subtotal:  int64(quantity) * unitPrice,
	}
}

// NewTransaction 创建交易(工厂方法)
// 汇总字段由明细计算,调用方不能直接指定
func NewTransaction(userID uint, items []LineItem) (*Transaction, error) {
	if len(items) == 0 {
		return nil, ErrInvalidLineItems
	}

	id, err := NewID()
	if err != nil {
		return nil, err
	}

	tx := &Transaction{
		ID:        id,
		UserID:    userID,
		Items:     items,
		CreatedAt: time.Now(),
	}
	for i := range tx.Items {
		if tx.Items[i].Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		tx.Items[i].TransactionID = id
		tx.TotalQuantity += tx.Items[i].Quantity
		tx.TotalPrice += tx.Items[i].Subtotal
	}
	return tx, nil
}

// IsOwnedBy 检查交易是否属于指定用户
func (t *Transaction) IsOwnedBy(userID uint) bool {
	return t.UserID == userID
}
