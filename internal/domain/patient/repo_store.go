package patient

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cabmed/cabmed/internal/platform/storage"
)

// storeRepo keeps the patient collection authoritative in memory and
// mirrors every mutation to the snapshot store. A persist failure is
// logged and the in-memory state keeps serving the session.
type storeRepo struct {
	mu       sync.RWMutex
	store    storage.Store
	logger   zerolog.Logger
	patients []*Patient
	seq      int
}

// NewStoreRepo loads the persisted collection, falling back to seed
// when storage has no snapshot yet. The patient-number sequence is
// loaded from its own key; legacy snapshots without one derive it from
// the highest number seen so numbers stay unique after deletions.
func NewStoreRepo(ctx context.Context, store storage.Store, logger zerolog.Logger, seed []*Patient) Repository {
	r := &storeRepo{store: store, logger: logger.With().Str("repo", "patient").Logger()}

	if err := storage.LoadJSON(ctx, store, storage.KeyPatients, &r.patients); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			r.logger.Error().Err(err).Msg("load patients, using seed data")
		}
		r.patients = clone(seed)
	}

	if err := storage.LoadJSON(ctx, store, storage.KeyPatientSeq, &r.seq); err != nil {
		r.seq = maxSeenNumber(r.patients)
	}
	return r
}

func maxSeenNumber(patients []*Patient) int {
	max := 0
	for _, p := range patients {
		n, err := strconv.Atoi(strings.TrimPrefix(p.PatientNumber, "P"))
		if err == nil && n > max {
			max = n
		}
	}
	return max
}

func clone(patients []*Patient) []*Patient {
	out := make([]*Patient, len(patients))
	for i, p := range patients {
		cp := *p
		out[i] = &cp
	}
	return out
}

func (r *storeRepo) persist(ctx context.Context) {
	if err := storage.SaveJSON(ctx, r.store, storage.KeyPatients, r.patients); err != nil {
		r.logger.Error().Err(err).Msg("persist patients")
	}
	if err := storage.SaveJSON(ctx, r.store, storage.KeyPatientSeq, r.seq); err != nil {
		r.logger.Error().Err(err).Msg("persist patient sequence")
	}
}

func (r *storeRepo) Create(ctx context.Context, p *Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p.ID = uuid.New()
	r.seq++
	p.PatientNumber = fmt.Sprintf("P%03d", r.seq)
	p.CreatedAt = time.Now().UTC()
	r.patients = append(r.patients, p)
	r.persist(ctx)
	return nil
}

func (r *storeRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.patients {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *storeRepo) Update(ctx context.Context, id uuid.UUID, patch Patch) (*Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.patients {
		if p.ID == id {
			p.apply(patch)
			p.UpdatedAt = time.Now().UTC()
			r.persist(ctx)
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *storeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.patients {
		if p.ID == id {
			r.patients = append(r.patients[:i], r.patients[i+1:]...)
			r.persist(ctx)
			return nil
		}
	}
	return ErrNotFound
}

func (r *storeRepo) List(_ context.Context) ([]*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return clone(r.patients), nil
}

func (r *storeRepo) ReplaceAll(ctx context.Context, patients []*Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.patients = clone(patients)
	if n := maxSeenNumber(r.patients); n > r.seq {
		r.seq = n
	}
	r.persist(ctx)
	return nil
}
