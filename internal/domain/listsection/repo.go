package listsection

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrSectionNotFound = errors.New("list section not found")
	ErrItemNotFound    = errors.New("list item not found")
)

type Repository interface {
	List(ctx context.Context) ([]*Section, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Section, error)
	Create(ctx context.Context, s *Section) error
	Rename(ctx context.Context, id uuid.UUID, title string) (*Section, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ReplaceAll(ctx context.Context, sections []*Section) error

	AddItem(ctx context.Context, sectionID uuid.UUID, value string) (*Item, error)
	UpdateItem(ctx context.Context, sectionID, itemID uuid.UUID, value string) (*Item, error)
	DeleteItem(ctx context.Context, sectionID, itemID uuid.UUID) error
}
