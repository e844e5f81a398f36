package reminder

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("reminder not found")

type Repository interface {
	Create(ctx context.Context, r *Reminder) error
	GetByID(ctx context.Context, id uuid.UUID) (*Reminder, error)
	Update(ctx context.Context, id uuid.UUID, patch Patch) (*Reminder, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*Reminder, error)
	ReplaceAll(ctx context.Context, reminders []*Reminder) error
}
