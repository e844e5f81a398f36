package listsection

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cabmed/cabmed/internal/platform/storage"
)

type storeRepo struct {
	mu       sync.RWMutex
	store    storage.Store
	logger   zerolog.Logger
	sections []*Section
}

func NewStoreRepo(ctx context.Context, store storage.Store, logger zerolog.Logger, seed []*Section) Repository {
	r := &storeRepo{store: store, logger: logger.With().Str("repo", "listsection").Logger()}
	if err := storage.LoadJSON(ctx, store, storage.KeyListSections, &r.sections); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			r.logger.Error().Err(err).Msg("load list sections, using seed data")
		}
		r.sections = clone(seed)
	}
	return r
}

func clone(sections []*Section) []*Section {
	out := make([]*Section, len(sections))
	for i, s := range sections {
		cp := *s
		cp.Items = append([]Item(nil), s.Items...)
		out[i] = &cp
	}
	return out
}

func (r *storeRepo) persist(ctx context.Context) {
	if err := storage.SaveJSON(ctx, r.store, storage.KeyListSections, r.sections); err != nil {
		r.logger.Error().Err(err).Msg("persist list sections")
	}
}

func (r *storeRepo) find(id uuid.UUID) *Section {
	for _, s := range r.sections {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func (r *storeRepo) List(_ context.Context) ([]*Section, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return clone(r.sections), nil
}

func (r *storeRepo) GetByID(_ context.Context, id uuid.UUID) (*Section, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s := r.find(id)
	if s == nil {
		return nil, ErrSectionNotFound
	}
	cp := *s
	cp.Items = append([]Item(nil), s.Items...)
	return &cp, nil
}

func (r *storeRepo) Create(ctx context.Context, s *Section) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = uuid.New()
	if s.Items == nil {
		s.Items = []Item{}
	}
	r.sections = append(r.sections, s)
	r.persist(ctx)
	return nil
}

func (r *storeRepo) Rename(ctx context.Context, id uuid.UUID, title string) (*Section, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.find(id)
	if s == nil {
		return nil, ErrSectionNotFound
	}
	s.Title = title
	r.persist(ctx)
	cp := *s
	cp.Items = append([]Item(nil), s.Items...)
	return &cp, nil
}

func (r *storeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.sections {
		if s.ID == id {
			r.sections = append(r.sections[:i], r.sections[i+1:]...)
			r.persist(ctx)
			return nil
		}
	}
	return ErrSectionNotFound
}

func (r *storeRepo) ReplaceAll(ctx context.Context, sections []*Section) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sections = clone(sections)
	r.persist(ctx)
	return nil
}

func (r *storeRepo) AddItem(ctx context.Context, sectionID uuid.UUID, value string) (*Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.find(sectionID)
	if s == nil {
		return nil, ErrSectionNotFound
	}
	item := Item{ID: uuid.New(), Value: value}
	s.Items = append(s.Items, item)
	r.persist(ctx)
	return &item, nil
}

func (r *storeRepo) UpdateItem(ctx context.Context, sectionID, itemID uuid.UUID, value string) (*Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.find(sectionID)
	if s == nil {
		return nil, ErrSectionNotFound
	}
	for i := range s.Items {
		if s.Items[i].ID == itemID {
			s.Items[i].Value = value
			r.persist(ctx)
			cp := s.Items[i]
			return &cp, nil
		}
	}
	return nil, ErrItemNotFound
}

func (r *storeRepo) DeleteItem(ctx context.Context, sectionID, itemID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.find(sectionID)
	if s == nil {
		return ErrSectionNotFound
	}
	for i := range s.Items {
		if s.Items[i].ID == itemID {
			s.Items = append(s.Items[:i], s.Items[i+1:]...)
			r.persist(ctx)
			return nil
		}
	}
	return ErrItemNotFound
}
