package absence

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Absence is a staff leave request over an inclusive dd/mm/yyyy date
// range.
type Absence struct {
	ID        uuid.UUID `json:"id"`
	Employee  string    `json:"employee"`
	StartDate string    `json:"startDate"`
	EndDate   string    `json:"endDate"`
	Reason    string    `json:"reason,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// Patch carries a partial update; nil fields keep the stored value.
type Patch struct {
	Employee  *string `json:"employee"`
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
	Reason    *string `json:"reason"`
	Status    *string `json:"status"`
}

func (a *Absence) apply(patch Patch) {
	if patch.Employee != nil {
		a.Employee = *patch.Employee
	}
	if patch.StartDate != nil {
		a.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		a.EndDate = *patch.EndDate
	}
	if patch.Reason != nil {
		a.Reason = *patch.Reason
	}
	if patch.Status != nil {
		a.Status = *patch.Status
	}
}

func validStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}
