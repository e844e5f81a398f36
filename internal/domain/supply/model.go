package supply

import (
	"time"

	"github.com/google/uuid"
)

// Supply is a consumable purchase line. PurchaseDate stays the
// dd/mm/yyyy text the office types in; filtering parses it on demand.
type Supply struct {
	ID           uuid.UUID `json:"id"`
	Item         string    `json:"item"`
	PurchaseDate string    `json:"purchaseDate,omitempty"`
	Price        string    `json:"price,omitempty"`
	PaymentType  string    `json:"paymentType,omitempty"`
	Tax          string    `json:"tax,omitempty"`
	Invoice      bool      `json:"invoice"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt,omitempty"`
}

// Patch carries a partial update; nil fields keep the stored value.
type Patch struct {
	Item         *string `json:"item"`
	PurchaseDate *string `json:"purchaseDate"`
	Price        *string `json:"price"`
	PaymentType  *string `json:"paymentType"`
	Tax          *string `json:"tax"`
	Invoice      *bool   `json:"invoice"`
}

func (s *Supply) apply(patch Patch) {
	if patch.Item != nil {
		s.Item = *patch.Item
	}
	if patch.PurchaseDate != nil {
		s.PurchaseDate = *patch.PurchaseDate
	}
	if patch.Price != nil {
		s.Price = *patch.Price
	}
	if patch.PaymentType != nil {
		s.PaymentType = *patch.PaymentType
	}
	if patch.Tax != nil {
		s.Tax = *patch.Tax
	}
	if patch.Invoice != nil {
		s.Invoice = *patch.Invoice
	}
}

// invoiceLabel is what the list page shows for the invoice flag, and
// therefore what free-text search matches against.
func (s *Supply) invoiceLabel() string {
	if s.Invoice {
		return "avec facture"
	}
	return "sans facture"
}
