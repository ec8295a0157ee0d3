package genre

import (
	"strings"
	"time"
)

// Genre 图书分类
// 一个分类下有多本图书;分类下仍有图书时不允许删除
type Genre struct {
	ID        uint
	Name      string // 分类名(唯一)
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewGenre 创建分类
func NewGenre(name string) (*Genre, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return nil, ErrInvalidName
	}
	now := time.Now()
	return &Genre{Name: name, CreatedAt: now, UpdatedAt: now}, nil
}

// Rename 修改分类名
func (g *Genre) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return ErrInvalidName
	}
	g.Name = name
	g.UpdatedAt = time.Now()
	return nil
}
