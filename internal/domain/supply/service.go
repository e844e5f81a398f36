package supply

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/cabmed/cabmed/internal/platform/search"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, sp *Supply) error {
	if strings.TrimSpace(sp.Item) == "" {
		return fmt.Errorf("item name is required")
	}
	return s.repo.Create(ctx, sp)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Supply, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, patch Patch) (*Supply, error) {
	return s.repo.Update(ctx, id, patch)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Supply, error) {
	return s.repo.List(ctx)
}

func (s *Service) ReplaceAll(ctx context.Context, supplies []*Supply) error {
	return s.repo.ReplaceAll(ctx, supplies)
}

// Search applies the list-page filter: every query term must match
// somewhere in the visible columns, and when a full date range is set
// the purchase date must fall within it. Records whose purchase date
// does not parse are kept by the text filter but dropped by an active
// date range.
func (s *Service) Search(ctx context.Context, query string, dates search.DateRange) ([]*Supply, error) {
	supplies, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	var out []*Supply
	for _, sp := range supplies {
		if !search.MatchesTerms(query, sp.Item, sp.Price, sp.PaymentType, sp.Tax, sp.invoiceLabel()) {
			continue
		}
		if dates.IsSet() {
			purchased, err := search.ParseDMY(sp.PurchaseDate)
			if err != nil || !dates.Contains(purchased) {
				continue
			}
		}
		out = append(out, sp)
	}
	return out, nil
}
