package book

import (
	"time"
)

// Condition 图书成色
type Condition string

const (
	ConditionNew  Condition = "new"
	ConditionUsed Condition = "used"
)

// Valid 是否为合法成色
func (c Condition) Valid() bool {
	return c == ConditionNew || c == ConditionUsed
}

// Book 图书实体(聚合根)
// DDD设计说明:
// 1. Book同时承担库存记录,Stock只能由购买流程(扣减)和图书管理(直接设置)修改
// 2. 价格使用int64存储最小货币单位(避免浮点数精度问题)
// 3. ISBN可选,填写时全局唯一(数据库层保证)
// 4. GenreID关联分类,分类下仍有图书时不允许删除分类
type Book struct {
	ID              uint
	Title           string    // 书名
	Writer          string    // 作者
	Publisher       string    // 出版社
	PublicationYear int       // 出版年份
	ISBN            string    // ISBN号(可选)
	Description     string    // 图书描述
	Condition       Condition // 成色
	Price           int64     // 价格(最小货币单位)
	Stock           int       // 库存数量,永不为负
	GenreID         uint      // 分类ID
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewBook 创建新图书(工厂方法)
// 调用方负责先通过Validate校验
func NewBook(title, writer, publisher string, year int, isbn, description string, condition Condition, price int64, stock int, genreID uint) *Book {
	now := time.Now()
	if condition == "" {
		condition = ConditionNew
	}
	return &Book{
		Title:           title,
		Writer:          writer,
		Publisher:       publisher,
		PublicationYear: year,
		ISBN:            isbn,
		Description:     description,
		Condition:       condition,
		Price:           price,
		Stock:           stock,
		GenreID:         genreID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Validate 校验实体不变式
func (b *Book) Validate() error {
	if b.Title == "" {
		return ErrTitleRequired
	}
	if b.Price < 0 {
		return ErrInvalidPrice
	}
	if b.Stock < 0 {
		return ErrInvalidStock
	}
	if !b.Condition.Valid() {
		return ErrInvalidCondition
	}
	if b.ISBN != "" && !IsValidISBN(b.ISBN) {
		return ErrInvalidISBN
	}
	return nil
}

// InStock 是否有货
func (b *Book) InStock() bool {
	return b.Stock > 0
}

// CanFulfil 当前库存能否满足购买数量
func (b *Book) CanFulfil(quantity int) bool {
	return quantity > 0 && quantity <= b.Stock
}

// Patch 图书局部更新
// nil字段表示不修改
type Patch struct {
	Title           *string
	Writer          *string
	Publisher       *string
	PublicationYear *int
	ISBN            *string
	Description     *string
	Condition       *Condition
	Price           *int64
	Stock           *int
	GenreID         *uint
}

// Apply 应用局部更新,返回更新后是否仍满足不变式
func (b *Book) Apply(p Patch) error {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Writer != nil {
		b.Writer = *p.Writer
	}
	if p.Publisher != nil {
		b.Publisher = *p.Publisher
	}
	if p.PublicationYear != nil {
		b.PublicationYear = *p.PublicationYear
	}
	if p.ISBN != nil {
		b.ISBN = *p.ISBN
	}
	if p.Description != nil {
		b.Description = *p.Description
	}
	if p.Condition != nil {
		b.Condition = *p.Condition
	}
	if p.Price != nil {
		b.Price = *p.Price
	}
	if p.Stock != nil {
		b.Stock = *p.Stock
	}
	if p.GenreID != nil {
		b.GenreID = *p.GenreID
	}
	b.UpdatedAt = time.Now()
	return b.Validate()
}

// Stats 库存统计
type Stats struct {
	TotalBooks int64 // 未删除图书数
	InStock    int64 // 库存大于0的图书数
	TotalStock int64 // 库存总件数
	Genres     int64 // 图书覆盖的分类数
}
