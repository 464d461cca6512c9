package memory

import (
	"context"

	"github.com/viant/posts/internal/clock"
	"github.com/viant/posts/model"
	"github.com/viant/posts/service/dao"
	"github.com/viant/posts/service/dao/store"
)

// Service implements an in-memory, thread-safe, append-only post collection.
// All API methods work with copies to eliminate data races between goroutines.
type Service struct {
	store *store.MemoryStore[model.Post]
}

var _ dao.Service[model.Post] = (*Service)(nil)

func (s *Service) Create(ctx context.Context, p *model.Post) (*model.Post, error) {
	if p == nil {
		return nil, dao.ErrNilEntity
	}
	return s.store.Create(ctx, p)
}

func (s *Service) Load(ctx context.Context, id string) (*model.Post, error) {
	return s.store.Load(ctx, id)
}

func (s *Service) FindMany(ctx context.Context, parameters ...*dao.Parameter) ([]*model.Post, error) {
	return s.store.FindMany(ctx, parameters...)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

func New() *Service {
	return &Service{store: store.NewMemoryStore[model.Post](assign)}
}

// assign stamps identity and creation time on a post entering the collection.
func assign(p *model.Post, id string) {
	p.ID = id
	p.CreatedAt = clock.Now()
}
