// Package genre 分类管理用例
package genre

import (
	"context"

	"github.com/xiebiao/litshop/internal/domain/book"
	"github.com/xiebiao/litshop/internal/domain/genre"
	"github.com/xiebiao/litshop/pkg/logger"
)

// UseCase 分类增删改查
// 设计说明:
// 1. 分类是简单的透传CRUD,没有单独的领域服务
// 2. 删除前检查分类下的图书数,仍有图书时返回GenreInUse
// 3. 检查与删除之间并发上架的图书不做拦截
type UseCase struct {
	genreRepo genre.Repository
	bookRepo  book.Repository
}

// NewUseCase 创建分类用例
func NewUseCase(genreRepo genre.Repository, bookRepo book.Repository) *UseCase {
	return &UseCase{genreRepo: genreRepo, bookRepo: bookRepo}
}

// Create 创建分类
func (uc *UseCase) Create(ctx context.Context, name string) (*genre.Genre, error) {
	g, err := genre.NewGenre(name)
	if err != nil {
		return nil, err
	}
	if err := uc.genreRepo.Create(ctx, g); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info().Uint("genre_id", g.ID).Str("name", g.Name).Msg("分类已创建")
	return g, nil
}

// List 全部分类
func (uc *UseCase) List(ctx context.Context) ([]*genre.Genre, error) {
	return uc.genreRepo.List(ctx)
}

// Get 分类详情
func (uc *UseCase) Get(ctx context.Context, id uint) (*genre.Genre, error) {
	return uc.genreRepo.FindByID(ctx, id)
}

// Rename 修改分类名
func (uc *UseCase) Rename(ctx context.Context, id uint, name string) (*genre.Genre, error) {
	g, err := uc.genreRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := g.Rename(name); err != nil {
		return nil, err
	}
	if err := uc.genreRepo.Update(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// Delete 删除分类
func (uc *UseCase) Delete(ctx context.Context, id uint) error {
	if _, err := uc.genreRepo.FindByID(ctx, id); err != nil {
		return err
	}

	n, err := uc.bookRepo.CountByGenre(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return genre.ErrGenreInUse.WithDetails(map[string]interface{}{
			"genre_id": id,
			"books":    n,
		})
	}

	if err := uc.genreRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.FromContext(ctx).Info().Uint("genre_id", id).Msg("分类已删除")
	return nil
}
