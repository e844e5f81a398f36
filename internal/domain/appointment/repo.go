package appointment

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no appointment exists under the given id.
var ErrNotFound = errors.New("appointment not found")

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, id uuid.UUID, patch Patch) (*Appointment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*Appointment, error)
	DeleteByPatient(ctx context.Context, patientID uuid.UUID) error
	ReplaceAll(ctx context.Context, appointments []*Appointment) error
}
