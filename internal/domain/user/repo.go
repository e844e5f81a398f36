package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Update(ctx context.Context, id uuid.UUID, patch Patch) (*User, error)
	SetPassword(ctx context.Context, id uuid.UUID, password string) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*User, error)
	ReplaceAll(ctx context.Context, users []*User) error

	// SavedRoles is the locally cached list of custom role names,
	// extended whenever a user is created or updated with a role
	// outside the fixed set.
	SavedRoles(ctx context.Context) ([]string, error)
	SaveRole(ctx context.Context, role string) error
}
