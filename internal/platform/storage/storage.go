// Package storage is the persistence port for the cabinet data layer.
// Every entity collection is kept authoritative in memory and mirrored
// to the store as a JSON snapshot under a fixed key; the store can be a
// directory of JSON files, a Postgres key/value table, or an in-memory
// map for tests.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Fixed key namespace for persisted snapshots.
const (
	KeyPatients     = "cabinet_medical_patients"
	KeyAppointments = "cabinet_medical_appointments"
	KeySupplies     = "cabinet_medical_supplies"
	KeyAbsences     = "cabinet_medical_absences"
	KeyUsers        = "cabinet_medical_users"
	KeyReminders    = "cabinet_medical_reminders"
	KeyLastUpdate   = "cabinet_medical_last_update"
	KeyPatientSeq   = "cabinet_medical_patient_seq"
	KeyListSections = "listSections"
	KeySavedRoles   = "savedRoles"
)

// ErrNotFound is returned by Load when no snapshot exists under a key.
var ErrNotFound = errors.New("storage: key not found")

type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	// Clear removes every persisted snapshot (full reset).
	Clear(ctx context.Context) error
}

// SaveJSON marshals v and writes it under key, stamping the last-update
// key alongside. Callers treat a returned error as best-effort: log it
// and keep serving from memory.
func SaveJSON(ctx context.Context, s Store, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := s.Save(ctx, key, data); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	stamp, _ := json.Marshal(time.Now().UTC().Format(time.RFC3339))
	if err := s.Save(ctx, KeyLastUpdate, stamp); err != nil {
		return fmt.Errorf("save %s: %w", KeyLastUpdate, err)
	}
	return nil
}

// LoadJSON reads the snapshot under key into v. A missing key returns
// ErrNotFound so callers can fall back to seed data.
func LoadJSON(ctx context.Context, s Store, key string, v interface{}) error {
	data, err := s.Load(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return nil
}
