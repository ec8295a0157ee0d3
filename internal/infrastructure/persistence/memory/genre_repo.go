package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/xiebiao/litshop/internal/domain/genre"
)

type genreRepository struct {
	store *Store
}

// NewGenreRepository 创建分类仓储(内存)
func NewGenreRepository(store *Store) genre.Repository {
	return &genreRepository{store: store}
}

// nameTaken 分类名比较不区分大小写,与MySQL默认排序规则一致
func (s *Store) nameTaken(name string, exceptID uint) bool {
	for id, g := range s.genres {
		if id != exceptID && strings.EqualFold(g.Name, name) {
			return true
		}
	}
	return false
}

func (r *genreRepository) Create(ctx context.Context, g *genre.Genre) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nameTaken(g.Name, 0) {
		return genre.ErrGenreDuplicate
	}

	s.nextGenreID++
	g.ID = s.nextGenreID
	now := time.Now()
	if g.CreatedAt.IsZero() {
		g.CreatedAt = now
	}
	g.UpdatedAt = now
	cp := *g
	s.genres[g.ID] = &cp

	id := g.ID
	onRollback(ctx, func() {
		s.mu.Lock()
		delete(s.genres, id)
		s.mu.Unlock()
	})
	return nil
}

func (r *genreRepository) FindByID(_ context.Context, id uint) (*genre.Genre, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.genres[id]
	if !ok {
		return nil, genre.ErrGenreNotFound
	}
	cp := *g
	return &cp, nil
}

func (r *genreRepository) List(_ context.Context) ([]*genre.Genre, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	genres := make([]*genre.Genre, 0, len(s.genres))
	for _, g := range s.genres {
		cp := *g
		genres = append(genres, &cp)
	}
	sort.Slice(genres, func(i, j int) bool { return genres[i].ID < genres[j].ID })
	return genres, nil
}

func (r *genreRepository) Update(ctx context.Context, g *genre.Genre) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.genres[g.ID]
	if !ok {
		return genre.ErrGenreNotFound
	}
	if s.nameTaken(g.Name, g.ID) {
		return genre.ErrGenreDuplicate
	}

	old := *cur
	cur.Name = g.Name
	cur.UpdatedAt = g.UpdatedAt

	onRollback(ctx, func() {
		s.mu.Lock()
		*cur = old
		s.mu.Unlock()
	})
	return nil
}

func (r *genreRepository) Delete(ctx context.Context, id uint) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.genres[id]
	if !ok {
		return genre.ErrGenreNotFound
	}
	delete(s.genres, id)

	onRollback(ctx, func() {
		s.mu.Lock()
		s.genres[id] = g
		s.mu.Unlock()
	})
	return nil
}
