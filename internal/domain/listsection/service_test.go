package listsection

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/cabmed/cabmed/internal/platform/storage"
)

func newTestService(t *testing.T, seed []*Section) *Service {
	t.Helper()
	repo := NewStoreRepo(context.Background(), storage.NewMemoryStore(), zerolog.New(os.Stderr), seed)
	return NewService(repo)
}

func TestAddItem_DedupIgnoresCaseAndAccents(t *testing.T) {
	svc := newTestService(t, nil)
	section, err := svc.CreateSection(context.Background(), "Villes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, err := svc.AddItem(context.Background(), section.ID, "Fès")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dup, err := svc.AddItem(context.Background(), section.ID, "FES")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dup.ID != first.ID {
		t.Error("expected duplicate add to return the existing item")
	}

	got, _ := svc.Get(context.Background(), section.ID)
	if len(got.Items) != 1 {
		t.Errorf("expected 1 item, got %d", len(got.Items))
	}
}

func TestRenameAndDeleteSection(t *testing.T) {
	svc := newTestService(t, nil)
	section, _ := svc.CreateSection(context.Background(), "Typo")

	renamed, err := svc.Rename(context.Background(), section.ID, "Types de consultation")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if renamed.Title != "Types de consultation" {
		t.Errorf("unexpected title %q", renamed.Title)
	}

	if err := svc.DeleteSection(context.Background(), section.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Get(context.Background(), section.ID); err != ErrSectionNotFound {
		t.Errorf("expected ErrSectionNotFound, got %v", err)
	}
}

func buildWorkbook(t *testing.T, rows [][]string) *bytes.Buffer {
	t.Helper()
	book := excelize.NewFile()
	sheet := book.GetSheetName(0)
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := book.SetCellValue(sheet, cell, value); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}
	buf, err := book.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf
}

func TestImportXLSX_MergesAndCreatesSections(t *testing.T) {
	seed := []*Section{{Title: "Villes", Items: []Item{{Value: "Rabat"}}}}
	svc := newTestService(t, seed)

	book := buildWorkbook(t, [][]string{
		{"VILLES", "Mutuelles"},
		{"Rabat", "CNOPS"},
		{"Casablanca", "CNSS"},
		{"casablanca", ""},
	})

	result, err := svc.ImportXLSX(context.Background(), book)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SectionsMerged != 1 || result.SectionsCreated != 1 {
		t.Errorf("expected 1 merged and 1 created section, got %+v", result)
	}
	// Rabat already present, casablanca duplicated inside the file.
	if result.ItemsAdded != 3 {
		t.Errorf("expected 3 items added, got %d", result.ItemsAdded)
	}

	sections, _ := svc.List(context.Background())
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	for _, s := range sections {
		switch s.Title {
		case "Villes":
			if len(s.Items) != 2 {
				t.Errorf("expected Villes to hold 2 items, got %d", len(s.Items))
			}
		case "Mutuelles":
			if len(s.Items) != 2 {
				t.Errorf("expected Mutuelles to hold 2 items, got %d", len(s.Items))
			}
		default:
			t.Errorf("unexpected section %q", s.Title)
		}
	}
}

func TestImportXLSX_RejectsEmptyWorkbook(t *testing.T) {
	svc := newTestService(t, nil)
	if _, err := svc.ImportXLSX(context.Background(), bytes.NewReader([]byte("not a spreadsheet"))); err == nil {
		t.Error("expected error for malformed input")
	}
}
