package dto

import (
	"time"

	"github.com/xiebiao/litshop/internal/domain/book"
)

const timeLayout = "2006-01-02 15:04:05"

// CreateBookRequest HTTP上架请求
// validator tag说明:
// - book_isbn: 自定义ISBN格式校验(RegisterValidators中注册)
// - book_condition: 只能是new或used
type CreateBookRequest struct {
	Title           string `json:"title" binding:"required,max=200" example:"Go语言实战"`
	Writer          string `json:"writer" binding:"required,max=100" example:"威廉·肯尼迪"`
	Publisher       string `json:"publisher" binding:"max=100" example:"人民邮电出版社"`
	PublicationYear int    `json:"publication_year" binding:"omitempty,min=1000,max=9999" example:"2017"`
	ISBN            string `json:"isbn" binding:"omitempty,book_isbn" example:"9787115428028"`
	Description     string `json:"description" binding:"max=5000"`
	Condition       string `json:"condition" binding:"omitempty,book_condition" example:"new"`
	Price           int64  `json:"price" binding:"min=0" example:"5900"` // 最小货币单位
	Stock           int    `json:"stock" binding:"min=0" example:"100"`
	GenreID         uint   `json:"genre_id" binding:"required" example:"1"`
}

// UpdateBookRequest HTTP局部更新请求,未出现的字段不修改
type UpdateBookRequest struct {
	Title           *string `json:"title" binding:"omitempty,min=1,max=200"`
	Writer          *string `json:"writer" binding:"omitempty,max=100"`
	Publisher       *string `json:"publisher" binding:"omitempty,max=100"`
	PublicationYear *int    `json:"publication_year" binding:"omitempty,min=1000,max=9999"`
	ISBN            *string `json:"isbn" binding:"omitempty,book_isbn"`
	Description     *string `json:"description" binding:"omitempty,max=5000"`
	Condition       *string `json:"condition" binding:"omitempty,book_condition"`
	Price           *int64  `json:"price" binding:"omitempty,min=0"`
	Stock           *int    `json:"stock" binding:"omitempty,min=0"`
	GenreID         *uint   `json:"genre_id" binding:"omitempty,min=1"`
}

// ToPatch 转换为领域层的局部更新
func (r UpdateBookRequest) ToPatch() book.Patch {
	p := book.Patch{
		Title:           r.Title,
		Writer:          r.Writer,
		Publisher:       r.Publisher,
		PublicationYear: r.PublicationYear,
		ISBN:            r.ISBN,
		Description:     r.Description,
		Price:           r.Price,
		Stock:           r.Stock,
		GenreID:         r.GenreID,
	}
	if r.Condition != nil {
		c := book.Condition(*r.Condition)
		p.Condition = &c
	}
	return p
}

// ListBooksRequest HTTP图书列表请求
type ListBooksRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
	Keyword  string `form:"keyword" binding:"omitempty,max=100" example:"Go"`
	GenreID  uint   `form:"genre_id" example:"1"`
	SortBy   string `form:"sort_by" binding:"omitempty,oneof=price_asc price_desc created_at_desc" example:"created_at_desc"`
}

// BookResponse HTTP图书响应
type BookResponse struct {
	ID              uint   `json:"id" example:"1"`
	Title           string `json:"title" example:"Go语言实战"`
	Writer          string `json:"writer" example:"威廉·肯尼迪"`
	Publisher       string `json:"publisher" example:"人民邮电出版社"`
	PublicationYear int    `json:"publication_year,omitempty" example:"2017"`
	ISBN            string `json:"isbn,omitempty" example:"9787115428028"`
	Description     string `json:"description,omitempty"`
	Condition       string `json:"condition" example:"new"`
	Price           int64  `json:"price" example:"5900"`
	PriceDisplay    string `json:"price_display" example:"59.00"`
	Stock           int    `json:"stock" example:"100"`
	GenreID         uint   `json:"genre_id" example:"1"`
	CreatedAt       string `json:"created_at" example:"2024-01-15 10:30:00"`
	UpdatedAt       string `json:"updated_at" example:"2024-01-15 10:30:00"`
}

// NewBookResponse 领域实体 → HTTP响应
func NewBookResponse(b *book.Book) *BookResponse {
	return &BookResponse{
		ID:              b.ID,
		Title:           b.Title,
		Writer:          b.Writer,
		Publisher:       b.Publisher,
		PublicationYear: b.PublicationYear,
		ISBN:            b.ISBN,
		Description:     b.Description,
		Condition:       string(b.Condition),
		Price:           b.Price,
		PriceDisplay:    FormatPrice(b.Price),
		Stock:           b.Stock,
		GenreID:         b.GenreID,
		CreatedAt:       formatTime(b.CreatedAt),
		UpdatedAt:       formatTime(b.UpdatedAt),
	}
}

// NewBookList 列表项(不返回description)
func NewBookList(books []*book.Book) []*BookResponse {
	list := make([]*BookResponse, len(books))
	for i, b := range books {
		list[i] = NewBookResponse(b)
		list[i].Description = ""
	}
	return list
}

// StatsResponse 库存统计
type StatsResponse struct {
	TotalBooks int64 `json:"totalBooks" example:"120"`
	InStock    int64 `json:"inStock" example:"98"`
	TotalStock int64 `json:"totalStock" example:"3400"`
	Genres     int64 `json:"genres" example:"12"`
}

func NewStatsResponse(s *book.Stats) *StatsResponse {
	return &StatsResponse{
		TotalBooks: s.TotalBooks,
		InStock:    s.InStock,
		TotalStock: s.TotalStock,
		Genres:     s.Genres,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeLayout)
}
