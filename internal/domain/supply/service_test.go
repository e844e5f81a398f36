package supply

import (
	"context"
	"os"
	"testing"

	"github.com/rs/zerolog"

	"github.com/cabmed/cabmed/internal/platform/search"
	"github.com/cabmed/cabmed/internal/platform/storage"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	repo := NewStoreRepo(context.Background(), storage.NewMemoryStore(), zerolog.New(os.Stderr), nil)
	return NewService(repo)
}

func addSupply(t *testing.T, svc *Service, s *Supply) *Supply {
	t.Helper()
	if err := svc.Create(context.Background(), s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s
}

func TestCreate_RequiresItem(t *testing.T) {
	svc := newTestService(t)
	if err := svc.Create(context.Background(), &Supply{Item: "  "}); err == nil {
		t.Error("expected error for blank item name")
	}
}

func TestSearch_AllTermsMustMatch(t *testing.T) {
	svc := newTestService(t)
	addSupply(t, svc, &Supply{Item: "Gants latex", PaymentType: "Espèces"})
	addSupply(t, svc, &Supply{Item: "Compresses", PaymentType: "Chèque"})

	got, err := svc.Search(context.Background(), "gants espèces", search.DateRange{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Item != "Gants latex" {
		t.Errorf("expected only the record matching both terms, got %d", len(got))
	}

	got, _ = svc.Search(context.Background(), "gants chèque", search.DateRange{})
	if len(got) != 0 {
		t.Errorf("expected no record when terms split across records, got %d", len(got))
	}
}

func TestSearch_MatchesInvoiceLabel(t *testing.T) {
	svc := newTestService(t)
	addSupply(t, svc, &Supply{Item: "Seringues", Invoice: true})
	addSupply(t, svc, &Supply{Item: "Coton", Invoice: false})

	got, _ := svc.Search(context.Background(), "avec facture", search.DateRange{})
	if len(got) != 1 || got[0].Item != "Seringues" {
		t.Errorf("expected the invoiced record, got %d", len(got))
	}

	got, _ = svc.Search(context.Background(), "sans", search.DateRange{})
	if len(got) != 1 || got[0].Item != "Coton" {
		t.Errorf("expected the non-invoiced record, got %d", len(got))
	}
}

func TestSearch_WildcardMarkersAreInert(t *testing.T) {
	svc := newTestService(t)
	addSupply(t, svc, &Supply{Item: "Compresses"})

	got, _ := svc.Search(context.Background(), "*ompress*", search.DateRange{})
	if len(got) != 1 {
		t.Errorf("expected starred term to match as plain substring, got %d", len(got))
	}
}

func TestSearch_PurchaseDateWithinRange(t *testing.T) {
	svc := newTestService(t)
	addSupply(t, svc, &Supply{Item: "Janvier", PurchaseDate: "15/01/2025"})
	addSupply(t, svc, &Supply{Item: "Mars", PurchaseDate: "02/03/2025"})
	addSupply(t, svc, &Supply{Item: "Sans date"})

	dates := search.RangeFromQuery("2025-01-01", "2025-01-31")
	got, err := svc.Search(context.Background(), "", dates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Item != "Janvier" {
		t.Errorf("expected only the January purchase, got %d", len(got))
	}
}

func TestSearch_HalfSetRangeFiltersNothing(t *testing.T) {
	svc := newTestService(t)
	addSupply(t, svc, &Supply{Item: "Janvier", PurchaseDate: "15/01/2025"})
	addSupply(t, svc, &Supply{Item: "Mars", PurchaseDate: "02/03/2025"})

	got, _ := svc.Search(context.Background(), "", search.RangeFromQuery("2025-01-01", ""))
	if len(got) != 2 {
		t.Errorf("expected half-set range to filter nothing, got %d", len(got))
	}
}

func TestUpdate_MergesPartial(t *testing.T) {
	svc := newTestService(t)
	s := addSupply(t, svc, &Supply{Item: "Gants", Price: "120,00"})

	invoice := true
	updated, err := svc.Update(context.Background(), s.ID, Patch{Invoice: &invoice})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated.Invoice || updated.Price != "120,00" {
		t.Error("expected invoice set and price untouched")
	}
}
