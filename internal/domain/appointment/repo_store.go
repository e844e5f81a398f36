package appointment

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
	mu           sync.RWMutex
	store        storage.Store
	logger       zerolog.Logger
	appointments []*Appointment
}

func NewStoreRepo(ctx context.Context, store storage.Store, logger zerolog.Logger, seed []*Appointment) Repository {
	r := &storeRepo{store: store, logger: logger.With().Str("repo", "appointment").Logger()}

	if err := storage.LoadJSON(ctx, store, storage.KeyAppointments, &r.appointments); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			r.logger.Error().Err(err).Msg("load appointments, using seed data")
		}
		r.appointments = clone(seed)
	}
	return r
}

func clone(appointments []*Appointment) []*Appointment {
	out := make([]*Appointment, len(appointments))
	for i, a := range appointments {
		cp := *a
		out[i] = &cp
	}
	return out
}

func (r *storeRepo) persist(ctx context.Context) {
	if err := storage.SaveJSON(ctx, r.store, storage.KeyAppointments, r.appointments); err != nil {
		r.logger.Error().Err(err).Msg("persist appointments")
	}
}

func (r *storeRepo) Create(ctx context.Context, a *Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = uuid.New()
	a.CreatedAt = time.Now().UTC()
	r.appointments = append(r.appointments, a)
	r.persist(ctx)
	return nil
}

func (r *storeRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.appointments {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *storeRepo) Update(ctx context.Context, id uuid.UUID, patch Patch) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.appointments {
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
	for i, a := range r.appointments {
		if a.ID == id {
			r.appointments = append(r.appointments[:i], r.appointments[i+1:]...)
			r.persist(ctx)
			return nil
		}
	}
	return ErrNotFound
}

func (r *storeRepo) List(_ context.Context) ([]*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return clone(r.appointments), nil
}

func (r *storeRepo) DeleteByPatient(ctx context.Context, patientID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.appointments[:0]
	for _, a := range r.appointments {
		if a.PatientID == nil || *a.PatientID != patientID {
			kept = append(kept, a)
		}
	}
	r.appointments = kept
	r.persist(ctx)
	return nil
}

func (r *storeRepo) ReplaceAll(ctx context.Context, appointments []*Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appointments = clone(appointments)
	r.persist(ctx)
	return nil
}
