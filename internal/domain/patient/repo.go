package patient

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no patient exists under the given id.
var ErrNotFound = errors.New("patient not found")

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	Update(ctx context.Context, id uuid.UUID, patch Patch) (*Patient, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*Patient, error)
	// ReplaceAll swaps the whole collection (backup import / reset).
	ReplaceAll(ctx context.Context, patients []*Patient) error
}
