package reminder

import (
	"time"

	"github.com/google/uuid"
)

const (
	KindPayment     = "payment"
	KindAppointment = "appointment"
	KindFollowup    = "followup"

	StatusPending   = "pending"
	StatusSent      = "sent"
	StatusCompleted = "completed"
)

// Reminder is a task derived from the appointment book. Pending is the
// only live state; completion and deletion are both terminal.
type Reminder struct {
	ID            uuid.UUID  `json:"id"`
	Kind          string     `json:"kind"`
	PatientID     uuid.UUID  `json:"patientId"`
	AppointmentID *uuid.UUID `json:"appointmentId,omitempty"`
	Message       string     `json:"message"`
	DueDate       time.Time  `json:"dueDate"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt,omitempty"`
}

// Patch carries a partial update; nil fields keep the stored value.
type Patch struct {
	Message *string    `json:"message"`
	DueDate *time.Time `json:"dueDate"`
	Status  *string    `json:"status"`
}

func (r *Reminder) apply(patch Patch) {
	if patch.Message != nil {
		r.Message = *patch.Message
	}
	if patch.DueDate != nil {
		r.DueDate = *patch.DueDate
	}
	if patch.Status != nil {
		r.Status = *patch.Status
	}
}
