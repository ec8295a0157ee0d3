package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/litshop/internal/domain/genre"
)

// genreRepository 分类仓储实现(MySQL)
type genreRepository struct {
	db *gorm.DB
}

// NewGenreRepository 创建分类仓储
func NewGenreRepository(db *gorm.DB) genre.Repository {
	return &genreRepository{db: db}
}

func (r *genreRepository) Create(ctx context.Context, g *genre.Genre) error {
	model := &GenreModel{Name: g.Name}
	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return genre.ErrGenreDuplicate
		}
		return translate(err, "创建分类失败")
	}
	g.ID = model.ID
	g.CreatedAt = model.CreatedAt
	g.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *genreRepository) FindByID(ctx context.Context, id uint) (*genre.Genre, error) {
	var model GenreModel
	if err := conn(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, genre.ErrGenreNotFound
		}
		return nil, translate(err, "查询分类失败")
	}
	return toGenreEntity(&model), nil
}

func (r *genreRepository) List(ctx context.Context) ([]*genre.Genre, error) {
	var models []GenreModel
	if err := conn(ctx, r.db).Order("id ASC").Find(&models).Error; err != nil {
		return nil, translate(err, "查询分类列表失败")
	}
	genres := make([]*genre.Genre, len(models))
	for i := range models {
		genres[i] = toGenreEntity(&models[i])
	}
	return genres, nil
}

func (r *genreRepository) Update(ctx context.Context, g *genre.Genre) error {
	result := conn(ctx, r.db).Model(&GenreModel{ID: g.ID}).Updates(map[string]interface{}{
		"name":       g.Name,
		"updated_at": g.UpdatedAt,
	})
	if result.Error != nil {
		if isDuplicateError(result.Error) {
			return genre.ErrGenreDuplicate
		}
		return translate(result.Error, "更新分类失败")
	}
	return nil
}

func (r *genreRepository) Delete(ctx context.Context, id uint) error {
	result := conn(ctx, r.db).Delete(&GenreModel{}, id)
	if result.Error != nil {
		return translate(result.Error, "删除分类失败")
	}
	if result.RowsAffected == 0 {
		return genre.ErrGenreNotFound
	}
	return nil
}

func toGenreEntity(model *GenreModel) *genre.Genre {
	return &genre.Genre{
		ID:        model.ID,
		Name:      model.Name,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
