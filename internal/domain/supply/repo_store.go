package supply

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cabmed/cabmed/internal/platform/storage"
)

type storeRepo struct {
	mu       sync.RWMutex
	store    storage.Store
	logger   zerolog.Logger
	supplies []*Supply
}

func NewStoreRepo(ctx context.Context, store storage.Store, logger zerolog.Logger, seed []*Supply) Repository {
	r := &storeRepo{store: store, logger: logger.With().Str("repo", "supply").Logger()}
	if err := storage.LoadJSON(ctx, store, storage.KeySupplies, &r.supplies); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			r.logger.Error().Err(err).Msg("load supplies, using seed data")
		}
		r.supplies = clone(seed)
	}
	return r
}

func clone(supplies []*Supply) []*Supply {
	out := make([]*Supply, len(supplies))
	for i, s := range supplies {
		cp := *s
		out[i] = &cp
	}
	return out
}

func (r *storeRepo) persist(ctx context.Context) {
	if err := storage.SaveJSON(ctx, r.store, storage.KeySupplies, r.supplies); err != nil {
		r.logger.Error().Err(err).Msg("persist supplies")
	}
}

func (r *storeRepo) Create(ctx context.Context, s *Supply) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = uuid.New()
	s.CreatedAt = time.Now().UTC()
	r.supplies = append(r.supplies, s)
	r.persist(ctx)
	return nil
}

func (r *storeRepo) GetByID(_ context.Context, id uuid.UUID) (*Supply, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.supplies {
		if s.ID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *storeRepo) Update(ctx context.Context, id uuid.UUID, patch Patch) (*Supply, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.supplies {
		if s.ID == id {
			s.apply(patch)
			s.UpdatedAt = time.Now().UTC()
			r.persist(ctx)
			cp := *s
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *storeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.supplies {
		if s.ID == id {
			r.supplies = append(r.supplies[:i], r.supplies[i+1:]...)
			r.persist(ctx)
			return nil
		}
	}
	return ErrNotFound
}

func (r *storeRepo) List(_ context.Context) ([]*Supply, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return clone(r.supplies), nil
}

func (r *storeRepo) ReplaceAll(ctx context.Context, supplies []*Supply) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.supplies = clone(supplies)
	r.persist(ctx)
	return nil
}
