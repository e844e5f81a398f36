package supply

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("supply not found")

type Repository interface {
	Create(ctx context.Context, s *Supply) error
	GetByID(ctx context.Context, id uuid.UUID) (*Supply, error)
	Update(ctx context.Context, id uuid.UUID, patch Patch) (*Supply, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*Supply, error)
	ReplaceAll(ctx context.Context, supplies []*Supply) error
}
