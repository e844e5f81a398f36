package absence

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

func (s *Service) Create(ctx context.Context, a *Absence) error {
	if strings.TrimSpace(a.Employee) == "" {
		return fmt.Errorf("employee name is required")
	}
	if a.Status == "" {
		a.Status = StatusPending
	}
	if !validStatus(a.Status) {
		return fmt.Errorf("invalid status %q", a.Status)
	}
	return s.repo.Create(ctx, a)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Absence, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, patch Patch) (*Absence, error) {
	if patch.Status != nil && !validStatus(*patch.Status) {
		return nil, fmt.Errorf("invalid status %q", *patch.Status)
	}
	return s.repo.Update(ctx, id, patch)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Absence, error) {
	return s.repo.List(ctx)
}

func (s *Service) ReplaceAll(ctx context.Context, absences []*Absence) error {
	return s.repo.ReplaceAll(ctx, absences)
}

// Search applies the list-page filter. Unlike the supply list, an
// active date range keeps an absence only when its whole interval lies
// inside the window.
func (s *Service) Search(ctx context.Context, query string, dates search.DateRange) ([]*Absence, error) {
	absences, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	var out []*Absence
	for _, a := range absences {
		if !search.MatchesTerms(query, a.Employee, a.Reason, a.Status, a.StartDate, a.EndDate) {
			continue
		}
		if dates.IsSet() {
			start, err := search.ParseDMY(a.StartDate)
			if err != nil {
				continue
			}
			end, err := search.ParseDMY(a.EndDate)
			if err != nil {
				continue
			}
			if !dates.Covers(start, end) {
				continue
			}
		}
		out = append(out, a)
	}
	return out, nil
}
