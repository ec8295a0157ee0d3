package handler

import (
	"github.com/gin-gonic/gin"

	appgenre "github.com/xiebiao/litshop/internal/application/genre"
	"github.com/xiebiao/litshop/internal/domain/genre"
	"github.com/xiebiao/litshop/internal/interface/http/dto"
	"github.com/xiebiao/litshop/pkg/response"
)

// GenreHandler 分类HTTP处理器
type GenreHandler struct {
	useCase *appgenre.UseCase
}

func NewGenreHandler(useCase *appgenre.UseCase) *GenreHandler {
	return &GenreHandler{useCase: useCase}
}

// CreateGenre 创建分类
// @Summary      创建分类
// @Tags         分类
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.GenreRequest true "分类名"
// @Success      201 {object} response.Response{data=dto.GenreResponse}
// @Failure      409 {object} response.Response "分类名已存在"
// @Router       /genre [post]
func (h *GenreHandler) CreateGenre(c *gin.Context) {
	var req dto.GenreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}
	g, err := h.useCase.Create(c.Request.Context(), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewGenreResponse(g))
}

// ListGenres 全部分类
// @Summary      分类列表
// @Tags         分类
// @Produce      json
// @Success      200 {object} response.Response{data=[]dto.GenreResponse}
// @Router       /genre [get]
func (h *GenreHandler) ListGenres(c *gin.Context) {
	genres, err := h.useCase.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewGenreList(genres))
}

// GetGenre 分类详情
// @Summary      分类详情
// @Tags         分类
// @Produce      json
// @Param        genre_id path int true "分类ID"
// @Success      200 {object} response.Response{data=dto.GenreResponse}
// @Failure      404 {object} response.Response "分类不存在"
// @Router       /genre/{genre_id} [get]
func (h *GenreHandler) GetGenre(c *gin.Context) {
	id, ok := parseID(c.Param("genre_id"))
	if !ok {
		response.Error(c, genre.ErrGenreNotFound)
		return
	}
	g, err := h.useCase.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewGenreResponse(g))
}

// UpdateGenre 修改分类名
// @Summary      修改分类
// @Tags         分类
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        genre_id path int              true "分类ID"
// @Param        request  body dto.GenreRequest true "新分类名"
// @Success      200 {object} response.Response{data=dto.GenreResponse}
// @Router       /genre/{genre_id} [patch]
func (h *GenreHandler) UpdateGenre(c *gin.Context) {
	id, ok := parseID(c.Param("genre_id"))
	if !ok {
		response.Error(c, genre.ErrGenreNotFound)
		return
	}
	var req dto.GenreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}
	g, err := h.useCase.Rename(c.Request.Context(), id, req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewGenreResponse(g))
}

// DeleteGenre 删除分类
// @Summary      删除分类
// @Description  分类下仍有图书时返回409
// @Tags         分类
// @Produce      json
// @Security     BearerAuth
// @Param        genre_id path int true "分类ID"
// @Success      200 {object} response.Response
// @Failure      409 {object} response.Response "分类下仍有图书"
// @Router       /genre/{genre_id} [delete]
func (h *GenreHandler) DeleteGenre(c *gin.Context) {
	id, ok := parseID(c.Param("genre_id"))
	if !ok {
		response.Error(c, genre.ErrGenreNotFound)
		return
	}
	if err := h.useCase.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, "分类已删除", nil)
}
