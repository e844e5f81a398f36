package patient

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// AppointmentCascade removes the appointments referencing a patient
// when the patient record is deleted. Implemented by the appointment
// service; injected to keep the dependency explicit.
type AppointmentCascade interface {
	DeleteByPatient(ctx context.Context, patientID uuid.UUID) error
}

type Service struct {
	repo         Repository
	appointments AppointmentCascade
}

func NewService(repo Repository, appointments AppointmentCascade) *Service {
	return &Service{repo: repo, appointments: appointments}
}

func (s *Service) Create(ctx context.Context, p *Patient) error {
	if p.FirstName == "" && p.LastName == "" {
		return fmt.Errorf("patient name is required")
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, patch Patch) (*Patient, error) {
	return s.repo.Update(ctx, id, patch)
}

// Delete removes the patient and every appointment referencing it.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	return s.appointments.DeleteByPatient(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Patient, error) {
	return s.repo.List(ctx)
}

// Exists reports whether a patient record resolves for the given id.
// Used by the reminder engine before generating a reminder.
func (s *Service) Exists(ctx context.Context, id uuid.UUID) bool {
	_, err := s.repo.GetByID(ctx, id)
	return err == nil
}

func (s *Service) ReplaceAll(ctx context.Context, patients []*Patient) error {
	return s.repo.ReplaceAll(ctx, patients)
}
