package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/litshop/internal/domain/book"
)

// bookRepository 图书仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 处理数据库特定的错误(ISBN重复、死锁),转换为业务错误
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Create 创建图书
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)
	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return book.ErrISBNDuplicate
		}
		return translate(err, "创建图书失败")
	}

	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	if err := conn(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, translate(err, "查询图书失败")
	}
	return toBookEntity(&model), nil
}

// Update 写入局部更新
// 只更新patch中设置的列,使用map保证零值(如库存设为0)也会写入
func (r *bookRepository) Update(ctx context.Context, b *book.Book, p book.Patch) error {
	result := conn(ctx, r.db).Model(&BookModel{ID: b.ID}).Updates(patchColumns(b, p))
	if result.Error != nil {
		if isDuplicateError(result.Error) {
			return book.ErrISBNDuplicate
		}
		return translate(result.Error, "更新图书失败")
	}
	return nil
}

// Delete 删除图书(软删除)
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	result := conn(ctx, r.db).Delete(&BookModel{}, id)
	if result.Error != nil {
		return translate(result.Error, "删除图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

// List 分页查询图书列表
func (r *bookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	var models []BookModel
	var total int64

	query := conn(ctx, r.db).Model(&BookModel{})

	// 关键词搜索(搜索标题、作者、出版社)
	if params.Keyword != "" {
		keyword := "%" + params.Keyword + "%"
		query = query.Where("title LIKE ? OR writer LIKE ? OR publisher LIKE ?", keyword, keyword, keyword)
	}
	if params.GenreID > 0 {
		query = query.Where("genre_id = ?", params.GenreID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "查询图书总数失败")
	}

	switch params.SortBy {
	case book.SortPriceAsc:
		query = query.Order("price ASC").Order("id ASC")
	case book.SortPriceDesc:
		query = query.Order("price DESC").Order("id DESC")
	default:
		query = query.Order("created_at DESC").Order("id DESC")
	}

	offset := (params.Page - 1) * params.PageSize
	if err := query.Limit(params.PageSize).Offset(offset).Find(&models).Error; err != nil {
		return nil, 0, translate(err, "查询图书列表失败")
	}

	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books, total, nil
}

// GetStock 只读查询库存(不加锁)
func (r *bookRepository) GetStock(ctx context.Context, id uint) (int, error) {
	var model BookModel
	if err := conn(ctx, r.db).Select("id", "stock").First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, book.ErrBookNotFound
		}
		return 0, translate(err, "查询库存失败")
	}
	return model.Stock, nil
}

// LockByID 悲观锁查询图书
// SELECT * FROM books WHERE id = ? AND deleted_at IS NULL FOR UPDATE
// 必须在TxManager.Transaction内调用,锁持有到事务结束
func (r *bookRepository) LockByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, translate(err, "锁定图书失败")
	}
	return toBookEntity(&model), nil
}

// UpdateStock 更新库存(原子操作)
// UPDATE books SET stock = stock + ? WHERE id = ? AND stock >= ?
// 条件不满足时不修改任何行,再查一次区分"图书不存在"和"库存不足"
func (r *bookRepository) UpdateStock(ctx context.Context, id uint, delta int) error {
	db := conn(ctx, r.db)

	query := db.Model(&BookModel{}).Where("id = ?", id)
	if delta < 0 {
		query = query.Where("stock >= ?", -delta)
	}
	result := query.Update("stock", gorm.Expr("stock + ?", delta))
	if result.Error != nil {
		return translate(result.Error, "更新库存失败")
	}
	if result.RowsAffected > 0 || delta == 0 {
		return nil
	}

	var model BookModel
	if err := db.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return book.ErrBookNotFound
		}
		return translate(err, "查询图书失败")
	}
	return book.NewInsufficientStockError(toBookEntity(&model), -delta)
}

// CountByGenre 分类下的图书数
func (r *bookRepository) CountByGenre(ctx context.Context, genreID uint) (int64, error) {
	var n int64
	if err := conn(ctx, r.db).Model(&BookModel{}).Where("genre_id = ?", genreID).Count(&n).Error; err != nil {
		return 0, translate(err, "统计分类图书失败")
	}
	return n, nil
}

// Stats 库存统计
// 单条聚合查询,软删除的图书自动排除
func (r *bookRepository) Stats(ctx context.Context) (*book.Stats, error) {
	var row struct {
		TotalBooks int64
		InStock    int64
		TotalStock int64
		Genres     int64
	}
	err := conn(ctx, r.db).Model(&BookModel{}).Select(
		"COUNT(*) AS total_books, " +
			"COALESCE(SUM(CASE WHEN stock > 0 THEN 1 ELSE 0 END), 0) AS in_stock, " +
			"COALESCE(SUM(stock), 0) AS total_stock, " +
			"COUNT(DISTINCT genre_id) AS genres",
	).Scan(&row).Error
	if err != nil {
		return nil, translate(err, "统计库存失败")
	}
	return &book.Stats{
		TotalBooks: row.TotalBooks,
		InStock:    row.InStock,
		TotalStock: row.TotalStock,
		Genres:     row.Genres,
	}, nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

func toBookModel(b *book.Book) *BookModel {
	var isbn *string
	if b.ISBN != "" {
		v := b.ISBN
		isbn = &v
	}
	return &BookModel{
		ID:              b.ID,
		Title:           b.Title,
		Writer:          b.Writer,
		Publisher:       b.Publisher,
		PublicationYear: b.PublicationYear,
		ISBN:            isbn,
		Description:     b.Description,
		Condition:       string(b.Condition),
		Price:           b.Price,
		Stock:           b.Stock,
		GenreID:         b.GenreID,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// patchColumns patch中设置的字段对应的列,取值来自已应用patch的实体
func patchColumns(b *book.Book, p book.Patch) map[string]interface{} {
	model := toBookModel(b)
	cols := map[string]interface{}{"updated_at": b.UpdatedAt}
	if p.Title != nil {
		cols["title"] = model.Title
	}
	if p.Writer != nil {
		cols["writer"] = model.Writer
	}
	if p.Publisher != nil {
		cols["publisher"] = model.Publisher
	}
	if p.PublicationYear != nil {
		cols["publication_year"] = model.PublicationYear
	}
	if p.ISBN != nil {
		cols["isbn"] = model.ISBN
	}
	if p.Description != nil {
		cols["description"] = model.Description
	}
	if p.Condition != nil {
		cols["condition"] = model.Condition
	}
	if p.Price != nil {
		cols["price"] = model.Price
	}
	if p.Stock != nil {
		cols["stock"] = model.Stock
	}
	if p.GenreID != nil {
		cols["genre_id"] = model.GenreID
	}
	return cols
}

func toBookEntity(model *BookModel) *book.Book {
	b := &book.Book{
		ID:              model.ID,
		Title:           model.Title,
		Writer:          model.Writer,
		Publisher:       model.Publisher,
		PublicationYear: model.PublicationYear,
		Description:     model.Description,
		Condition:       book.Condition(model.Condition),
		Price:           model.Price,
		Stock:           model.Stock,
		GenreID:         model.GenreID,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
	if model.ISBN != nil {
		b.ISBN = *model.ISBN
	}
	return b
}
