package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cabmed/cabmed/internal/domain/appointment"
)

// AppointmentBook is the slice of the appointment service the engine
// scans.
type AppointmentBook interface {
	List(ctx context.Context) ([]*appointment.Appointment, error)
}

// PatientDirectory resolves appointment patient references; walk-ins
// without a resolvable patient never generate reminders.
type PatientDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) bool
}

// Service owns the reminder collection and derives new reminders from
// the appointment book. It is registered as a change listener on the
// appointment service, so every appointment mutation triggers a full
// rescan. Scans only ever add: a reminder is not retracted when its
// trigger later clears, matching how the office works the list by hand.
type Service struct {
	mu           sync.Mutex
	repo         Repository
	appointments AppointmentBook
	patients     PatientDirectory
	logger       zerolog.Logger
	now          func() time.Time
}

func NewService(repo Repository, appointments AppointmentBook, patients PatientDirectory, logger zerolog.Logger) *Service {
	return &Service{
		repo:         repo,
		appointments: appointments,
		patients:     patients,
		logger:       logger.With().Str("component", "reminder_engine").Logger(),
		now:          time.Now,
	}
}

// AppointmentsChanged implements appointment.ChangeListener.
func (s *Service) AppointmentsChanged(ctx context.Context) {
	if err := s.Scan(ctx); err != nil {
		s.logger.Error().Err(err).Msg("reminder scan")
	}
}

// Scan walks the appointment book and creates the missing reminders.
// Idempotent: a pending reminder of the same kind for the same
// appointment blocks a second one.
func (s *Service) Scan(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	appointments, err := s.appointments.List(ctx)
	if err != nil {
		return fmt.Errorf("list appointments: %w", err)
	}
	existing, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("list reminders: %w", err)
	}

	pending := make(map[string]bool)
	for _, r := range existing {
		if r.Status == StatusPending && r.AppointmentID != nil {
			pending[dedupKey(*r.AppointmentID, r.Kind)] = true
		}
	}

	now := s.now()
	created := 0
	for _, a := range appointments {
		if a.PatientID == nil || !s.patients.Exists(ctx, *a.PatientID) {
			continue
		}

		if a.Billable() && !pending[dedupKey(a.ID, KindPayment)] {
			if err := s.create(ctx, paymentReminder(a, now)); err != nil {
				return err
			}
			pending[dedupKey(a.ID, KindPayment)] = true
			created++
		}

		if a.Missed(now) && !pending[dedupKey(a.ID, KindFollowup)] {
			if err := s.create(ctx, followupReminder(a, now)); err != nil {
				return err
			}
			pending[dedupKey(a.ID, KindFollowup)] = true
			created++
		}
	}

	if created > 0 {
		s.logger.Info().Int("created", created).Msg("reminders generated")
	}
	return nil
}

func dedupKey(appointmentID uuid.UUID, kind string) string {
	return appointmentID.String() + "/" + kind
}

func paymentReminder(a *appointment.Appointment, now time.Time) *Reminder {
	id := a.ID
	return &Reminder{
		Kind:          KindPayment,
		PatientID:     *a.PatientID,
		AppointmentID: &id,
		Message:       fmt.Sprintf("Paiement en attente pour la consultation du %s", a.Time.Format("02/01/2006 15:04")),
		DueDate:       now.AddDate(0, 0, 7),
		Status:        StatusPending,
	}
}

func followupReminder(a *appointment.Appointment, now time.Time) *Reminder {
	id := a.ID
	return &Reminder{
		Kind:          KindFollowup,
		PatientID:     *a.PatientID,
		AppointmentID: &id,
		Message:       fmt.Sprintf("Relancer le patient pour le rendez-vous manqué du %s", a.Time.Format("02/01/2006 15:04")),
		DueDate:       now.AddDate(0, 0, 1),
		Status:        StatusPending,
	}
}

func (s *Service) create(ctx context.Context, r *Reminder) error {
	if err := s.repo.Create(ctx, r); err != nil {
		return fmt.Errorf("create %s reminder: %w", r.Kind, err)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Reminder, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Reminder, error) {
	return s.repo.List(ctx)
}

func (s *Service) ForPatient(ctx context.Context, patientID uuid.UUID) ([]*Reminder, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []*Reminder
	for _, r := range all {
		if r.PatientID == patientID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Service) Pending(ctx context.Context) ([]*Reminder, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []*Reminder
	for _, r := range all {
		if r.Status == StatusPending {
			out = append(out, r)
		}
	}
	return out, nil
}

// PendingCount backs the notification badge.
func (s *Service) PendingCount(ctx context.Context) (int, error) {
	pending, err := s.Pending(ctx)
	if err != nil {
		return 0, err
	}
	return len(pending), nil
}

// Complete moves a reminder to its terminal state.
func (s *Service) Complete(ctx context.Context, id uuid.UUID) (*Reminder, error) {
	status := StatusCompleted
	return s.repo.Update(ctx, id, Patch{Status: &status})
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, patch Patch) (*Reminder, error) {
	return s.repo.Update(ctx, id, patch)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ReplaceAll(ctx context.Context, reminders []*Reminder) error {
	return s.repo.ReplaceAll(ctx, reminders)
}
