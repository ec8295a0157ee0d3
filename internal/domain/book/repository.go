package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现(MySQL与内存两套)
// 2. LockByID/UpdateStock必须在TxManager开启的工作单元内调用,Update也应在持锁后调用
// 3. 读接口不加锁,允许读到稍旧的数据
type Repository interface {
	// Create 创建图书
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书
	FindByID(ctx context.Context, id uint) (*Book, error)

	// Update 写入局部更新
	// 只写p中设置的列,取值来自b;未设置Stock时不会覆盖购买扣减后的库存
	Update(ctx context.Context, b *Book, p Patch) error

	// Delete 删除图书(软删除)
	Delete(ctx context.Context, id uint) error

	// List 分页查询图书列表
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// GetStock 只读查询库存
	GetStock(ctx context.Context, id uint) (int, error)

	// LockByID 排他锁定图书行,直到工作单元结束
	// 图书不存在或已删除返回ErrBookNotFound
	LockByID(ctx context.Context, id uint) (*Book, error)

	// UpdateStock 原子更新库存
	// delta为负数表示扣减;扣减后小于0时不修改,返回InsufficientStock
	UpdateStock(ctx context.Context, id uint, delta int) error

	// CountByGenre 分类下的图书数(删除分类前检查)
	CountByGenre(ctx context.Context, genreID uint) (int64, error)

	// Stats 库存统计
	Stats(ctx context.Context) (*Stats, error)
}

// ListParams 列表查询参数
type ListParams struct {
	Page     int    // 页码(从1开始)
	PageSize int    // 每页数量
	Keyword  string // 搜索关键词(搜索标题、作者、出版社)
	GenreID  uint   // 按分类过滤,0表示不过滤
	SortBy   string // 排序字段(price_asc, price_desc, created_at_desc)
}

// 排序方式
const (
	SortPriceAsc      = "price_asc"
	SortPriceDesc     = "price_desc"
	SortCreatedAtDesc = "created_at_desc"
)
