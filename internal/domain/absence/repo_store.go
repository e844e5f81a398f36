package absence

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
	absences []*Absence
}

func NewStoreRepo(ctx context.Context, store storage.Store, logger zerolog.Logger, seed []*Absence) Repository {
	r := &storeRepo{store: store, logger: logger.With().Str("repo", "absence").Logger()}
	if err := storage.LoadJSON(ctx, store, storage.KeyAbsences, &r.absences); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			r.logger.Error().Err(err).Msg("load absences, using seed data")
		}
		r.absences = clone(seed)
	}
	return r
}

func clone(absences []*Absence) []*Absence {
	out := make([]*Absence, len(absences))
	for i, a := range absences {
		cp := *a
		out[i] = &cp
	}
	return out
}

func (r *storeRepo) persist(ctx context.Context) {
	if err := storage.SaveJSON(ctx, r.store, storage.KeyAbsences, r.absences); err != nil {
		r.logger.Error().Err(err).Msg("persist absences")
	}
}

func (r *storeRepo) Create(ctx context.Context, a *Absence) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = uuid.New()
	a.CreatedAt = time.Now().UTC()
	r.absences = append(r.absences, a)
	r.persist(ctx)
	return nil
}

func (r *storeRepo) GetByID(_ context.Context, id uuid.UUID) (*Absence, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.absences {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *storeRepo) Update(ctx context.Context, id uuid.UUID, patch Patch) (*Absence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.absences {
		if a.ID == id {
			a.apply(patch)
			a.UpdatedAt = time.Now().UTC()
			r.persist(ctx)
			cp := *a
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *storeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, a := range r.absences {
		if a.ID == id {
			r.absences = append(r.absences[:i], r.absences[i+1:]...)
			r.persist(ctx)
			return nil
		}
	}
	return ErrNotFound
}

func (r *storeRepo) List(_ context.Context) ([]*Absence, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return clone(r.absences), nil
}

func (r *storeRepo) ReplaceAll(ctx context.Context, absences []*Absence) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.absences = clone(absences)
	r.persist(ctx)
	return nil
}
