package reminder

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
	mu        sync.RWMutex
	store     storage.Store
	logger    zerolog.Logger
	reminders []*Reminder
}

func NewStoreRepo(ctx context.Context, store storage.Store, logger zerolog.Logger) Repository {
	r := &storeRepo{store: store, logger: logger.With().Str("repo", "reminder").Logger()}
	if err := storage.LoadJSON(ctx, store, storage.KeyReminders, &r.reminders); err != nil && !errors.Is(err, storage.ErrNotFound) {
		r.logger.Error().Err(err).Msg("load reminders, starting empty")
	}
	return r
}

func clone(reminders []*Reminder) []*Reminder {
	out := make([]*Reminder, len(reminders))
	for i, rem := range reminders {
		cp := *rem
		out[i] = &cp
	}
	return out
}

func (r *storeRepo) persist(ctx context.Context) {
	if err := storage.SaveJSON(ctx, r.store, storage.KeyReminders, r.reminders); err != nil {
		r.logger.Error().Err(err).Msg("persist reminders")
	}
}

func (r *storeRepo) Create(ctx context.Context, rem *Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rem.ID = uuid.New()
	rem.CreatedAt = time.Now().UTC()
	r.reminders = append(r.reminders, rem)
	r.persist(ctx)
	return nil
}

func (r *storeRepo) GetByID(_ context.Context, id uuid.UUID) (*Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rem := range r.reminders {
		if rem.ID == id {
			cp := *rem
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *storeRepo) Update(ctx context.Context, id uuid.UUID, patch Patch) (*Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rem := range r.reminders {
		if rem.ID == id {
			rem.apply(patch)
			rem.UpdatedAt = time.Now().UTC()
			r.persist(ctx)
			cp := *rem
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *storeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, rem := range r.reminders {
		if rem.ID == id {
			r.reminders = append(r.reminders[:i], r.reminders[i+1:]...)
			r.persist(ctx)
			return nil
		}
	}
	return ErrNotFound
}

func (r *storeRepo) List(_ context.Context) ([]*Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return clone(r.reminders), nil
}

func (r *storeRepo) ReplaceAll(ctx context.Context, reminders []*Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reminders = clone(reminders)
	r.persist(ctx)
	return nil
}
