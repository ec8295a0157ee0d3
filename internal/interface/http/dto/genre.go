package dto

import "github.com/xiebiao/litshop/internal/domain/genre"

// GenreRequest 创建/修改分类
type GenreRequest struct {
	Name string `json:"name" binding:"required,max=100" example:"小说"`
}

// GenreResponse 分类响应
type GenreResponse struct {
	ID        uint   `json:"id" example:"1"`
	Name      string `json:"name" example:"小说"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func NewGenreResponse(g *genre.Genre) *GenreResponse {
	return &GenreResponse{
		ID:        g.ID,
		Name:      g.Name,
		CreatedAt: formatTime(g.CreatedAt),
		UpdatedAt: formatTime(g.UpdatedAt),
	}
}

func NewGenreList(genres []*genre.Genre) []*GenreResponse {
	list := make([]*GenreResponse, len(genres))
	for i, g := range genres {
		list[i] = NewGenreResponse(g)
	}
	return list
}
