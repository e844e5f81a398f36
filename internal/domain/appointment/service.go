package appointment

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// ChangeListener is notified after every mutation of the appointment
// collection. The reminder engine subscribes to re-run its scan rules.
type ChangeListener interface {
	AppointmentsChanged(ctx context.Context)
}

type Service struct {
	repo      Repository
	listeners []ChangeListener
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Subscribe registers a listener fired after every mutation. Wiring
// happens once at startup; Subscribe is not safe for concurrent use.
func (s *Service) Subscribe(l ChangeListener) {
	s.listeners = append(s.listeners, l)
}

func (s *Service) notify(ctx context.Context) {
	for _, l := range s.listeners {
		l.AppointmentsChanged(ctx)
	}
}

func (s *Service) Create(ctx context.Context, a *Appointment) error {
	if a.Time.IsZero() {
		return fmt.Errorf("time is required")
	}
	if a.PatientID == nil && a.PatientName == "" {
		return fmt.Errorf("patientId or patientName is required")
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return err
	}
	s.notify(ctx)
	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, patch Patch) (*Appointment, error) {
	a, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.notify(ctx)
	return a, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.notify(ctx)
	return nil
}

func (s *Service) List(ctx context.Context) ([]*Appointment, error) {
	return s.repo.List(ctx)
}

// DeleteByPatient removes every appointment referencing the patient.
// Part of the patient-deletion cascade.
func (s *Service) DeleteByPatient(ctx context.Context, patientID uuid.UUID) error {
	if err := s.repo.DeleteByPatient(ctx, patientID); err != nil {
		return err
	}
	s.notify(ctx)
	return nil
}

func (s *Service) ReplaceAll(ctx context.Context, appointments []*Appointment) error {
	if err := s.repo.ReplaceAll(ctx, appointments); err != nil {
		return err
	}
	s.notify(ctx)
	return nil
}

// ConsultationsFor returns the patient's non-canceled appointments,
// most recent first.
func (s *Service) ConsultationsFor(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []*Appointment
	for _, a := range all {
		if a.PatientID != nil && *a.PatientID == patientID && !a.Canceled {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time.After(out[j].Time) })
	return out, nil
}

// LastConsultation returns the consultation before the most recent
// one: the head of the list is treated as today's visit, so the
// previous visit sits at index 1. Nil when the patient has fewer than
// two consultations.
func (s *Service) LastConsultation(ctx context.Context, patientID uuid.UUID) (*Appointment, error) {
	consultations, err := s.ConsultationsFor(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if len(consultations) < 2 {
		return nil, nil
	}
	return consultations[1], nil
}

func (s *Service) ConsultationCount(ctx context.Context, patientID uuid.UUID) (int, error) {
	consultations, err := s.ConsultationsFor(ctx, patientID)
	if err != nil {
		return 0, err
	}
	return len(consultations), nil
}

// IsNewPatient reports whether the patient has at most one recorded
// consultation.
func (s *Service) IsNewPatient(ctx context.Context, patientID uuid.UUID) (bool, error) {
	count, err := s.ConsultationCount(ctx, patientID)
	if err != nil {
		return false, err
	}
	return count <= 1, nil
}
