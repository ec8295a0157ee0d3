package genre

import (
	"context"
)

// Repository 分类仓储接口
type Repository interface {
	// Create 创建分类,重名返回ErrGenreDuplicate
	Create(ctx context.Context, g *Genre) error

	// FindByID 根据ID查找分类,不存在返回ErrGenreNotFound
	FindByID(ctx context.Context, id uint) (*Genre, error)

	// List 查询全部分类(按ID升序)
	List(ctx context.Context) ([]*Genre, error)

	// Update 更新分类
	Update(ctx context.Context, g *Genre) error

	// Delete 删除分类
	Delete(ctx context.Context, id uint) error
}
