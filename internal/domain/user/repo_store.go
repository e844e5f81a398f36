package user

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cabmed/cabmed/internal/platform/storage"
)

type storeRepo struct {
	mu     sync.RWMutex
	store  storage.Store
	logger zerolog.Logger
	users  []*User
	roles  []string
}

func NewStoreRepo(ctx context.Context, store storage.Store, logger zerolog.Logger, seed []*User) Repository {
	r := &storeRepo{store: store, logger: logger.With().Str("repo", "user").Logger()}
	if err := storage.LoadJSON(ctx, store, storage.KeyUsers, &r.users); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			r.logger.Error().Err(err).Msg("load users, using seed data")
		}
		r.users = clone(seed)
	}
	if err := storage.LoadJSON(ctx, store, storage.KeySavedRoles, &r.roles); err != nil && !errors.Is(err, storage.ErrNotFound) {
		r.logger.Error().Err(err).Msg("load saved roles")
	}
	return r
}

func clone(users []*User) []*User {
	out := make([]*User, len(users))
	for i, u := range users {
		cp := *u
		out[i] = &cp
	}
	return out
}

func (r *storeRepo) persist(ctx context.Context) {
	if err := storage.SaveJSON(ctx, r.store, storage.KeyUsers, r.users); err != nil {
		r.logger.Error().Err(err).Msg("persist users")
	}
}

func (r *storeRepo) usernameTaken(username string, except uuid.UUID) bool {
	for _, u := range r.users {
		if u.ID != except && strings.EqualFold(u.Username, username) {
			return true
		}
	}
	return false
}

func (r *storeRepo) Create(ctx context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.usernameTaken(u.Username, uuid.Nil) {
		return ErrUsernameTaken
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now().UTC()
	r.users = append(r.users, u)
	r.persist(ctx)
	return nil
}

func (r *storeRepo) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *storeRepo) GetByUsername(_ context.Context, username string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Username, username) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *storeRepo) Update(ctx context.Context, id uuid.UUID, patch Patch) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			if patch.Username != nil && r.usernameTaken(*patch.Username, id) {
				return nil, ErrUsernameTaken
			}
			u.apply(patch)
			u.UpdatedAt = time.Now().UTC()
			r.persist(ctx)
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *storeRepo) SetPassword(ctx context.Context, id uuid.UUID, password string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			u.Password = password
			u.UpdatedAt = time.Now().UTC()
			r.persist(ctx)
			return nil
		}
	}
	return ErrNotFound
}

func (r *storeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, u := range r.users {
		if u.ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			r.persist(ctx)
			return nil
		}
	}
	return ErrNotFound
}

func (r *storeRepo) List(_ context.Context) ([]*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return clone(r.users), nil
}

func (r *storeRepo) ReplaceAll(ctx context.Context, users []*User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = clone(users)
	r.roles = nil
	r.persist(ctx)
	if err := storage.SaveJSON(ctx, r.store, storage.KeySavedRoles, r.roles); err != nil {
		r.logger.Error().Err(err).Msg("persist saved roles")
	}
	return nil
}

func (r *storeRepo) SavedRoles(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.roles))
	copy(out, r.roles)
	return out, nil
}

func (r *storeRepo) SaveRole(ctx context.Context, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.roles {
		if strings.EqualFold(existing, role) {
			return nil
		}
	}
	r.roles = append(r.roles, role)
	if err := storage.SaveJSON(ctx, r.store, storage.KeySavedRoles, r.roles); err != nil {
		r.logger.Error().Err(err).Msg("persist saved roles")
	}
	return nil
}
