package book

import (
	"context"

	"github.com/xiebiao/litshop/internal/domain/book"
	"github.com/xiebiao/litshop/internal/domain/genre"
	"github.com/xiebiao/litshop/internal/domain/transaction"
	"github.com/xiebiao/litshop/pkg/logger"
)

// StatsCache 库存统计缓存
// Redis未启用时由空实现代替,Get永远未命中
type StatsCache interface {
	Get(ctx context.Context) (*book.Stats, bool)
	Set(ctx context.Context, stats *book.Stats)
	Invalidate(ctx context.Context)
}

// CreateBookUseCase 图书上架用例
// 设计说明:
// 1. 应用层负责用例编排:先确认分类存在,再交给领域服务校验并保存
// 2. 上架成功后统计缓存失效
type CreateBookUseCase struct {
	bookService book.Service
	genreRepo   genre.Repository
	stats       StatsCache
}

// NewCreateBookUseCase 创建上架用例
func NewCreateBookUseCase(bookService book.Service, genreRepo genre.Repository, stats StatsCache) *CreateBookUseCase {
	return &CreateBookUseCase{
		bookService: bookService,
		genreRepo:   genreRepo,
		stats:       stats,
	}
}

// CreateBookRequest 上架请求
type CreateBookRequest struct {
	Title           string
	Writer          string
	Publisher       string
	PublicationYear int
	ISBN            string
	Description     string
	Condition       book.Condition
	Price           int64 // 价格(最小货币单位)
	Stock           int   // 初始库存
	GenreID         uint
}

// Execute 执行上架
func (uc *CreateBookUseCase) Execute(ctx context.Context, req CreateBookRequest) (*book.Book, error) {
	if _, err := uc.genreRepo.FindByID(ctx, req.GenreID); err != nil {
		return nil, err
	}

	b := book.NewBook(
		req.Title,
		req.Writer,
		req.Publisher,
		req.PublicationYear,
		req.ISBN,
		req.Description,
		req.Condition,
		req.Price,
		req.Stock,
		req.GenreID,
	)
	if err := uc.bookService.CreateBook(ctx, b); err != nil {
		return nil, err
	}
	uc.stats.Invalidate(ctx)

	logger.FromContext(ctx).Info().Uint("book_id", b.ID).Str("title", b.Title).Msg("图书已上架")
	return b, nil
}

// UpdateBookUseCase 局部更新图书
// 修改分类时同样要求新分类存在;直接设置库存也走这里
// 读改写在一个工作单元内完成,持有图书锁,不会覆盖并发购买已扣减的库存
type UpdateBookUseCase struct {
	txManager   transaction.TxManager
	bookService book.Service
	genreRepo   genre.Repository
	stats       StatsCache
}

func NewUpdateBookUseCase(txManager transaction.TxManager, bookService book.Service, genreRepo genre.Repository, stats StatsCache) *UpdateBookUseCase {
	return &UpdateBookUseCase{txManager: txManager, bookService: bookService, genreRepo: genreRepo, stats: stats}
}

func (uc *UpdateBookUseCase) Execute(ctx context.Context, id uint, patch book.Patch) (*book.Book, error) {
	if patch.GenreID != nil {
		if _, err := uc.genreRepo.FindByID(ctx, *patch.GenreID); err != nil {
			return nil, err
		}
	}

	var updated *book.Book
	err := retryOnContention(ctx, "update_book", func() error {
		return uc.txManager.Transaction(ctx, func(ctx context.Context) error {
			b, err := uc.bookService.UpdateBook(ctx, id, patch)
			if err != nil {
				return err
			}
			updated = b
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	uc.stats.Invalidate(ctx)
	return updated, nil
}

// DeleteBookUseCase 删除图书(软删除)
type DeleteBookUseCase struct {
	bookService book.Service
	stats       StatsCache
}

func NewDeleteBookUseCase(bookService book.Service, stats StatsCache) *DeleteBookUseCase {
	return &DeleteBookUseCase{bookService: bookService, stats: stats}
}

func (uc *DeleteBookUseCase) Execute(ctx context.Context, id uint) error {
	err := retryOnContention(ctx, "delete_book", func() error {
		return uc.bookService.DeleteBook(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.stats.Invalidate(ctx)

	logger.FromContext(ctx).Info().Uint("book_id", id).Msg("图书已删除")
	return nil
}
