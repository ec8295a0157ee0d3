package book

import (
	"context"

	"github.com/xiebiao/litshop/internal/domain/book"
	"github.com/xiebiao/litshop/internal/domain/genre"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListBooksUseCase 图书列表查询用例
// 设计说明:
// 1. 支持分页、关键词搜索、按分类过滤、排序
// 2. 读操作不加锁,库存可能稍旧
type ListBooksUseCase struct {
	bookService book.Service
	genreRepo   genre.Repository
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(bookService book.Service, genreRepo genre.Repository) *ListBooksUseCase {
	return &ListBooksUseCase{
		bookService: bookService,
		genreRepo:   genreRepo,
	}
}

// ListBooksRequest 列表查询请求
type ListBooksRequest struct {
	Page     int    // 页码(从1开始)
	PageSize int    // 每页数量
	Keyword  string // 搜索关键词(搜索标题、作者、出版社)
	GenreID  uint   // 0表示不过滤
	SortBy   string // 排序方式(price_asc, price_desc, created_at_desc)
}

// ListBooksResult 列表查询结果
type ListBooksResult struct {
	Books    []*book.Book
	Total    int64
	Page     int
	PageSize int
}

// Execute 执行列表查询
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (*ListBooksResult, error) {
	// 1. 参数默认值与范围限制
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = defaultPageSize
	}
	if req.PageSize > maxPageSize {
		req.PageSize = maxPageSize
	}
	switch req.SortBy {
	case book.SortPriceAsc, book.SortPriceDesc, book.SortCreatedAtDesc:
	default:
		req.SortBy = book.SortCreatedAtDesc
	}

	// 2. 调用领域服务查询
	books, total, err := uc.bookService.ListBooks(ctx, book.ListParams{
		Page:     req.Page,
		PageSize: req.PageSize,
		Keyword:  req.Keyword,
		GenreID:  req.GenreID,
		SortBy:   req.SortBy,
	})
	if err != nil {
		return nil, err
	}

	return &ListBooksResult{
		Books:    books,
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}

// ExecuteByGenre 查询某个分类下的图书,分类不存在返回GenreNotFound
func (uc *ListBooksUseCase) ExecuteByGenre(ctx context.Context, genreID uint, req ListBooksRequest) (*ListBooksResult, error) {
	if _, err := uc.genreRepo.FindByID(ctx, genreID); err != nil {
		return nil, err
	}
	req.GenreID = genreID
	return uc.Execute(ctx, req)
}

// GetBookUseCase 图书详情
type GetBookUseCase struct {
	bookService book.Service
}

func NewGetBookUseCase(bookService book.Service) *GetBookUseCase {
	return &GetBookUseCase{bookService: bookService}
}

func (uc *GetBookUseCase) Execute(ctx context.Context, id uint) (*book.Book, error) {
	return uc.bookService.GetBook(ctx, id)
}

// StatsUseCase 库存统计
// 先读缓存,未命中时查存储并回填
type StatsUseCase struct {
	bookRepo book.Repository
	cache    StatsCache
}

func NewStatsUseCase(bookRepo book.Repository, cache StatsCache) *StatsUseCase {
	return &StatsUseCase{bookRepo: bookRepo, cache: cache}
}

func (uc *StatsUseCase) Execute(ctx context.Context) (*book.Stats, error) {
	if stats, ok := uc.cache.Get(ctx); ok {
		return stats, nil
	}

	stats, err := uc.bookRepo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	uc.cache.Set(ctx, stats)
	return stats, nil
}
