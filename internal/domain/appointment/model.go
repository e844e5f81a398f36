package appointment

import (
	"time"

	"github.com/google/uuid"
)

// Appointment is a consultation booking. PatientID is optional: a
// walk-in is recorded with only the free-text PatientName. Amount is
// the locale-formatted price string as typed ("250,00"). Cancellation
// is a soft flag; a canceled appointment is kept for the history.
type Appointment struct {
	ID          uuid.UUID  `json:"id"`
	PatientID   *uuid.UUID `json:"patientId,omitempty"`
	PatientName string     `json:"patientName,omitempty"`
	Time        time.Time  `json:"time"`
	Type        string     `json:"type,omitempty"`
	Source      string     `json:"source,omitempty"`
	Amount      string     `json:"amount,omitempty"`
	Paid        bool       `json:"paid"`
	Gratuite    bool       `json:"isGratuite"`
	Delegue     bool       `json:"isDelegue"`
	Canceled    bool       `json:"isCanceled"`
	Attended    bool       `json:"attended"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt,omitempty"`
}

// Patch carries a partial update; nil fields keep the stored value.
type Patch struct {
	PatientID   *uuid.UUID `json:"patientId"`
	PatientName *string    `json:"patientName"`
	Time        *time.Time `json:"time"`
	Type        *string    `json:"type"`
	Source      *string    `json:"source"`
	Amount      *string    `json:"amount"`
	Paid        *bool      `json:"paid"`
	Gratuite    *bool      `json:"isGratuite"`
	Delegue     *bool      `json:"isDelegue"`
	Canceled    *bool      `json:"isCanceled"`
	Attended    *bool      `json:"attended"`
}

func (a *Appointment) apply(patch Patch) {
	if patch.PatientID != nil {
		a.PatientID = patch.PatientID
	}
	if patch.PatientName != nil {
		a.PatientName = *patch.PatientName
	}
	if patch.Time != nil {
		a.Time = *patch.Time
	}
	if patch.Type != nil {
		a.Type = *patch.Type
	}
	if patch.Source != nil {
		a.Source = *patch.Source
	}
	if patch.Amount != nil {
		a.Amount = *patch.Amount
	}
	if patch.Paid != nil {
		a.Paid = *patch.Paid
	}
	if patch.Gratuite != nil {
		a.Gratuite = *patch.Gratuite
	}
	if patch.Delegue != nil {
		a.Delegue = *patch.Delegue
	}
	if patch.Canceled != nil {
		a.Canceled = *patch.Canceled
	}
	if patch.Attended != nil {
		a.Attended = *patch.Attended
	}
}

// Billable reports whether the appointment still owes a payment:
// neither paid, free of charge, third-party billed nor canceled.
func (a *Appointment) Billable() bool {
	return !a.Paid && !a.Gratuite && !a.Delegue && !a.Canceled
}

// Missed reports whether the scheduled time has passed without the
// patient attending.
func (a *Appointment) Missed(now time.Time) bool {
	return a.Time.Before(now) && !a.Canceled && !a.Attended
}
