package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient is an office patient record. PatientNumber is assigned once
// at creation from a persisted monotonic counter and never reused,
// even after deletions.
type Patient struct {
	ID            uuid.UUID `json:"id"`
	PatientNumber string    `json:"numeroPatient"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	BirthDate     string    `json:"birthDate,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Email         string    `json:"email,omitempty"`
	Address       string    `json:"address,omitempty"`
	City          string    `json:"city,omitempty"`
	Mutuelle      string    `json:"mutuelle,omitempty"`
	Antecedents   string    `json:"antecedents,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt,omitempty"`
}

// Patch carries a partial update; nil fields keep the stored value.
type Patch struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	BirthDate   *string `json:"birthDate"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	Mutuelle    *string `json:"mutuelle"`
	Antecedents *string `json:"antecedents"`
	Notes       *string `json:"notes"`
}

func (p *Patient) apply(patch Patch) {
	if patch.FirstName != nil {
		p.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		p.LastName = *patch.LastName
	}
	if patch.BirthDate != nil {
		p.BirthDate = *patch.BirthDate
	}
	if patch.Phone != nil {
		p.Phone = *patch.Phone
	}
	if patch.Email != nil {
		p.Email = *patch.Email
	}
	if patch.Address != nil {
		p.Address = *patch.Address
	}
	if patch.City != nil {
		p.City = *patch.City
	}
	if patch.Mutuelle != nil {
		p.Mutuelle = *patch.Mutuelle
	}
	if patch.Antecedents != nil {
		p.Antecedents = *patch.Antecedents
	}
	if patch.Notes != nil {
		p.Notes = *patch.Notes
	}
}
