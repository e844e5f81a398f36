package absence

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("absence not found")

type Repository interface {
	Create(ctx context.Context, a *Absence) error
	GetByID(ctx context.Context, id uuid.UUID) (*Absence, error)
	Update(ctx context.Context, id uuid.UUID, patch Patch) (*Absence, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*Absence, error)
	ReplaceAll(ctx context.Context, absences []*Absence) error
}
