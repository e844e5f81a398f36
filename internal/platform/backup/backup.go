// Package backup implements the export/import file format and the
// full reset, shared by the HTTP handlers and the CLI subcommands.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/cabmed/cabmed/internal/domain/absence"
	"github.com/cabmed/cabmed/internal/domain/appointment"
	"github.com/cabmed/cabmed/internal/domain/listsection"
	"github.com/cabmed/cabmed/internal/domain/patient"
	"github.com/cabmed/cabmed/internal/domain/reminder"
	"github.com/cabmed/cabmed/internal/domain/supply"
	"github.com/cabmed/cabmed/internal/domain/user"
	"github.com/cabmed/cabmed/internal/platform/seed"
	"github.com/cabmed/cabmed/internal/platform/storage"
)

const Version = "1.0"

// File is the backup document. Patients and appointments are the two
// required collections; a document missing either is rejected whole.
type File struct {
	Patients     []*patient.Patient         `json:"patients"`
	Appointments []*appointment.Appointment `json:"appointments"`
	ExportDate   time.Time                  `json:"exportDate"`
	Version      string                     `json:"version"`
}

type Service struct {
	patients     *patient.Service
	appointments *appointment.Service
	supplies     *supply.Service
	absences     *absence.Service
	users        *user.Service
	reminders    *reminder.Service
	lists        *listsection.Service
	store        storage.Store
	logger       zerolog.Logger
}

func NewService(
	patients *patient.Service,
	appointments *appointment.Service,
	supplies *supply.Service,
	absences *absence.Service,
	users *user.Service,
	reminders *reminder.Service,
	lists *listsection.Service,
	store storage.Store,
	logger zerolog.Logger,
) *Service {
	return &Service{
		patients:     patients,
		appointments: appointments,
		supplies:     supplies,
		absences:     absences,
		users:        users,
		reminders:    reminders,
		lists:        lists,
		store:        store,
		logger:       logger.With().Str("component", "backup").Logger(),
	}
}

// Export snapshots the patient and appointment collections.
func (s *Service) Export(ctx context.Context) (*File, error) {
	patients, err := s.patients.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	appointments, err := s.appointments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return &File{
		Patients:     patients,
		Appointments: appointments,
		ExportDate:   time.Now().UTC(),
		Version:      Version,
	}, nil
}

// Import validates and applies a backup document. Both collections
// must be present; nothing is applied on a validation failure.
func (s *Service) Import(ctx context.Context, data []byte) (*File, error) {
	var raw struct {
		Patients     json.RawMessage `json:"patients"`
		Appointments json.RawMessage `json:"appointments"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("malformed backup file: %w", err)
	}
	if raw.Patients == nil || raw.Appointments == nil {
		return nil, fmt.Errorf("backup file must contain patients and appointments")
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("malformed backup file: %w", err)
	}

	if err := s.patients.ReplaceAll(ctx, f.Patients); err != nil {
		return nil, fmt.Errorf("replace patients: %w", err)
	}
	if err := s.appointments.ReplaceAll(ctx, f.Appointments); err != nil {
		return nil, fmt.Errorf("replace appointments: %w", err)
	}
	s.logger.Info().Int("patients", len(f.Patients)).Int("appointments", len(f.Appointments)).Msg("backup imported")
	return &f, nil
}

// Reset clears persisted storage and puts every collection back to its
// seed data.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		s.logger.Error().Err(err).Msg("clear storage")
	}
	if err := s.patients.ReplaceAll(ctx, seed.Patients()); err != nil {
		return fmt.Errorf("reset patients: %w", err)
	}
	if err := s.appointments.ReplaceAll(ctx, nil); err != nil {
		return fmt.Errorf("reset appointments: %w", err)
	}
	if err := s.supplies.ReplaceAll(ctx, seed.Supplies()); err != nil {
		return fmt.Errorf("reset supplies: %w", err)
	}
	if err := s.absences.ReplaceAll(ctx, seed.Absences()); err != nil {
		return fmt.Errorf("reset absences: %w", err)
	}
	if err := s.users.ReplaceAll(ctx, seed.Users()); err != nil {
		return fmt.Errorf("reset users: %w", err)
	}
	if err := s.lists.ReplaceAll(ctx, seed.ListSections()); err != nil {
		return fmt.Errorf("reset list sections: %w", err)
	}
	if err := s.reminders.ReplaceAll(ctx, nil); err != nil {
		return fmt.Errorf("reset reminders: %w", err)
	}
	s.logger.Info().Msg("collections reset to seed data")
	return nil
}
