package listsection

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/cabmed/cabmed/internal/platform/search"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]*Section, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Section, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) CreateSection(ctx context.Context, title string) (*Section, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("section title is required")
	}
	section := &Section{Title: title, Items: []Item{}}
	if err := s.repo.Create(ctx, section); err != nil {
		return nil, err
	}
	return section, nil
}

func (s *Service) Rename(ctx context.Context, id uuid.UUID, title string) (*Section, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("section title is required")
	}
	return s.repo.Rename(ctx, id, title)
}

func (s *Service) DeleteSection(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ReplaceAll(ctx context.Context, sections []*Section) error {
	return s.repo.ReplaceAll(ctx, sections)
}

// AddItem appends a value unless the section already holds it, compared
// case- and diacritic-insensitively. The existing item is returned on a
// duplicate.
func (s *Service) AddItem(ctx context.Context, sectionID uuid.UUID, value string) (*Item, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, fmt.Errorf("item value is required")
	}
	section, err := s.repo.GetByID(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	normalized := search.Normalize(value)
	for i := range section.Items {
		if search.Normalize(section.Items[i].Value) == normalized {
			return &section.Items[i], nil
		}
	}
	return s.repo.AddItem(ctx, sectionID, value)
}

func (s *Service) UpdateItem(ctx context.Context, sectionID, itemID uuid.UUID, value string) (*Item, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, fmt.Errorf("item value is required")
	}
	return s.repo.UpdateItem(ctx, sectionID, itemID, value)
}

func (s *Service) DeleteItem(ctx context.Context, sectionID, itemID uuid.UUID) error {
	return s.repo.DeleteItem(ctx, sectionID, itemID)
}

// ImportResult summarizes a spreadsheet import.
type ImportResult struct {
	SectionsCreated int `json:"sectionsCreated"`
	SectionsMerged  int `json:"sectionsMerged"`
	ItemsAdded      int `json:"itemsAdded"`
}

// ImportXLSX reads the first sheet of a spreadsheet. Row one holds
// column titles, matched case- and diacritic-insensitively against the
// existing section titles; an unmatched title becomes a new section.
// The remaining rows populate each column's section, deduplicated the
// same way.
func (s *Service) ImportXLSX(ctx context.Context, file io.Reader) (*ImportResult, error) {
	book, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}
	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("spreadsheet is empty")
	}

	existing, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	byTitle := make(map[string]*Section, len(existing))
	for _, section := range existing {
		byTitle[search.Normalize(section.Title)] = section
	}

	result := &ImportResult{}
	for col, title := range rows[0] {
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}

		section, ok := byTitle[search.Normalize(title)]
		if ok {
			result.SectionsMerged++
		} else {
			section = &Section{Title: title, Items: []Item{}}
			if err := s.repo.Create(ctx, section); err != nil {
				return nil, err
			}
			byTitle[search.Normalize(title)] = section
			result.SectionsCreated++
		}

		seen := make(map[string]bool, len(section.Items))
		for _, item := range section.Items {
			seen[search.Normalize(item.Value)] = true
		}
		for _, row := range rows[1:] {
			if col >= len(row) {
				continue
			}
			value := strings.TrimSpace(row[col])
			if value == "" || seen[search.Normalize(value)] {
				continue
			}
			if _, err := s.repo.AddItem(ctx, section.ID, value); err != nil {
				return nil, err
			}
			seen[search.Normalize(value)] = true
			result.ItemsAdded++
		}
	}
	return result, nil
}
