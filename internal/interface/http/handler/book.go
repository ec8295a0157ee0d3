package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/litshop/internal/application/book"
	"github.com/xiebiao/litshop/internal/domain/book"
	"github.com/xiebiao/litshop/internal/domain/genre"
	"github.com/xiebiao/litshop/internal/interface/http/dto"
	"github.com/xiebiao/litshop/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	createUseCase *appbook.CreateBookUseCase
	updateUseCase *appbook.UpdateBookUseCase
	deleteUseCase *appbook.DeleteBookUseCase
	listUseCase   *appbook.ListBooksUseCase
	getUseCase    *appbook.GetBookUseCase
	statsUseCase  *appbook.StatsUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	createUseCase *appbook.CreateBookUseCase,
	updateUseCase *appbook.UpdateBookUseCase,
	deleteUseCase *appbook.DeleteBookUseCase,
	listUseCase *appbook.ListBooksUseCase,
	getUseCase *appbook.GetBookUseCase,
	statsUseCase *appbook.StatsUseCase,
) *BookHandler {
	return &BookHandler{
		createUseCase: createUseCase,
		updateUseCase: updateUseCase,
		deleteUseCase: deleteUseCase,
		listUseCase:   listUseCase,
		getUseCase:    getUseCase,
		statsUseCase:  statsUseCase,
	}
}

// CreateBook 上架图书
// @Summary      上架图书
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateBookRequest true "图书信息"
// @Success      201 {object} response.Response{data=dto.BookResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      404 {object} response.Response "分类不存在"
// @Failure      409 {object} response.Response "ISBN已存在"
// @Router       /books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req dto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}

	b, err := h.createUseCase.Execute(c.Request.Context(), appbook.CreateBookRequest{
		Title:           req.Title,
		Writer:          req.Writer,
		Publisher:       req.Publisher,
		PublicationYear: req.PublicationYear,
		ISBN:            req.ISBN,
		Description:     req.Description,
		Condition:       book.Condition(req.Condition),
		Price:           req.Price,
		Stock:           req.Stock,
		GenreID:         req.GenreID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewBookResponse(b))
}

// ListBooks 图书列表
// @Summary      图书列表
// @Tags         图书
// @Produce      json
// @Param        page      query int    false "页码"
// @Param        page_size query int    false "每页数量(最大100)"
// @Param        keyword   query string false "标题/作者/出版社关键词"
// @Param        genre_id  query int    false "分类ID"
// @Param        sort_by   query string false "price_asc | price_desc | created_at_desc"
// @Success      200 {object} response.Response{data=response.PageData}
// @Router       /books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	var req dto.ListBooksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}

	result, err := h.listUseCase.Execute(c.Request.Context(), toListRequest(req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, dto.NewBookList(result.Books), result.Total, result.Page, result.PageSize)
}

// ListBooksByGenre 某分类下的图书
// @Summary      按分类查询图书
// @Tags         图书
// @Produce      json
// @Param        genre_id path int true "分类ID"
// @Success      200 {object} response.Response{data=response.PageData}
// @Failure      404 {object} response.Response "分类不存在"
// @Router       /books/genre/{genre_id} [get]
func (h *BookHandler) ListBooksByGenre(c *gin.Context) {
	genreID, ok := parseID(c.Param("genre_id"))
	if !ok {
		response.Error(c, genre.ErrGenreNotFound)
		return
	}
	var req dto.ListBooksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}

	result, err := h.listUseCase.ExecuteByGenre(c.Request.Context(), genreID, toListRequest(req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, dto.NewBookList(result.Books), result.Total, result.Page, result.PageSize)
}

// GetBook 图书详情
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        book_id path int true "图书ID"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /books/{book_id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, ok := parseID(c.Param("book_id"))
	if !ok {
		response.Error(c, book.ErrBookNotFound)
		return
	}
	b, err := h.getUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewBookResponse(b))
}

// UpdateBook 局部更新图书
// @Summary      更新图书
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        book_id path int                   true "图书ID"
// @Param        request body dto.UpdateBookRequest true "需要修改的字段"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /books/{book_id} [patch]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, ok := parseID(c.Param("book_id"))
	if !ok {
		response.Error(c, book.ErrBookNotFound)
		return
	}
	var req dto.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}

	b, err := h.updateUseCase.Execute(c.Request.Context(), id, req.ToPatch())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewBookResponse(b))
}

// DeleteBook 删除图书(软删除)
// @Summary      删除图书
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        book_id path int true "图书ID"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /books/{book_id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, ok := parseID(c.Param("book_id"))
	if !ok {
		response.Error(c, book.ErrBookNotFound)
		return
	}
	if err := h.deleteUseCase.Execute(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, "图书已删除", nil)
}

// Stats 库存统计
// @Summary      库存统计
// @Tags         图书
// @Produce      json
// @Success      200 {object} response.Response{data=dto.StatsResponse}
// @Router       /books/stats [get]
func (h *BookHandler) Stats(c *gin.Context) {
	stats, err := h.statsUseCase.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewStatsResponse(stats))
}

func toListRequest(req dto.ListBooksRequest) appbook.ListBooksRequest {
	return appbook.ListBooksRequest{
		Page:     req.Page,
		PageSize: req.PageSize,
		Keyword:  req.Keyword,
		GenreID:  req.GenreID,
		SortBy:   req.SortBy,
	}
}

// parseID 路径参数 → 正整数ID
func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
