package appointment

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cabmed/cabmed/internal/platform/storage"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	repo := NewStoreRepo(context.Background(), storage.NewMemoryStore(), zerolog.New(os.Stderr), nil)
	return NewService(repo)
}

func newConsultation(t *testing.T, svc *Service, patientID uuid.UUID, at time.Time) *Appointment {
	t.Helper()
	a := &Appointment{PatientID: &patientID, Time: at, Amount: "250,00"}
	if err := svc.Create(context.Background(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return a
}

func TestCreate_RequiresTime(t *testing.T) {
	svc := newTestService(t)
	pid := uuid.New()
	err := svc.Create(context.Background(), &Appointment{PatientID: &pid})
	if err == nil {
		t.Error("expected error for missing time")
	}
}

func TestCreate_WalkInNeedsName(t *testing.T) {
	svc := newTestService(t)
	err := svc.Create(context.Background(), &Appointment{Time: time.Now()})
	if err == nil {
		t.Error("expected error when neither patientId nor patientName is set")
	}

	err = svc.Create(context.Background(), &Appointment{Time: time.Now(), PatientName: "Mme Alaoui"})
	if err != nil {
		t.Errorf("unexpected error for walk-in: %v", err)
	}
}

func TestUpdate_MergesPartial(t *testing.T) {
	svc := newTestService(t)
	pid := uuid.New()
	a := newConsultation(t, svc, pid, time.Now())

	paid := true
	updated, err := svc.Update(context.Background(), a.ID, Patch{Paid: &paid})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated.Paid {
		t.Error("expected paid flag to be set")
	}
	if updated.Amount != "250,00" {
		t.Errorf("expected untouched fields to survive the merge, got amount %q", updated.Amount)
	}
	if updated.UpdatedAt.IsZero() {
		t.Error("expected update timestamp to be stamped")
	}
}

func TestUpdate_UnknownID(t *testing.T) {
	svc := newTestService(t)
	paid := true
	if _, err := svc.Update(context.Background(), uuid.New(), Patch{Paid: &paid}); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestConsultationsFor_ExcludesCanceledAndSortsDescending(t *testing.T) {
	svc := newTestService(t)
	pid := uuid.New()
	now := time.Now()

	oldest := newConsultation(t, svc, pid, now.Add(-48*time.Hour))
	canceled := newConsultation(t, svc, pid, now.Add(-24*time.Hour))
	latest := newConsultation(t, svc, pid, now)
	newConsultation(t, svc, uuid.New(), now) // someone else's

	yes := true
	if _, err := svc.Update(context.Background(), canceled.ID, Patch{Canceled: &yes}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	consultations, err := svc.ConsultationsFor(context.Background(), pid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(consultations) != 2 {
		t.Fatalf("expected 2 consultations, got %d", len(consultations))
	}
	if consultations[0].ID != latest.ID || consultations[1].ID != oldest.ID {
		t.Error("expected most recent consultation first")
	}
}

func TestLastConsultation_SkipsCurrentVisit(t *testing.T) {
	svc := newTestService(t)
	pid := uuid.New()
	now := time.Now()

	previous := newConsultation(t, svc, pid, now.Add(-24*time.Hour))
	newConsultation(t, svc, pid, now)

	last, err := svc.LastConsultation(context.Background(), pid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if last == nil || last.ID != previous.ID {
		t.Error("expected the consultation before the most recent one")
	}
}

func TestLastConsultation_NilBelowTwo(t *testing.T) {
	svc := newTestService(t)
	pid := uuid.New()

	last, err := svc.LastConsultation(context.Background(), pid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if last != nil {
		t.Error("expected nil with zero consultations")
	}

	newConsultation(t, svc, pid, time.Now())
	last, err = svc.LastConsultation(context.Background(), pid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if last != nil {
		t.Error("expected nil with a single consultation")
	}
}

func TestIsNewPatient(t *testing.T) {
	svc := newTestService(t)
	pid := uuid.New()

	newPatient, err := svc.IsNewPatient(context.Background(), pid)
	if err != nil || !newPatient {
		t.Errorf("expected new patient with no consultations, got %v %v", newPatient, err)
	}

	newConsultation(t, svc, pid, time.Now().Add(-24*time.Hour))
	newPatient, _ = svc.IsNewPatient(context.Background(), pid)
	if !newPatient {
		t.Error("expected new patient with one consultation")
	}

	newConsultation(t, svc, pid, time.Now())
	newPatient, _ = svc.IsNewPatient(context.Background(), pid)
	if newPatient {
		t.Error("expected returning patient with two consultations")
	}
}

func TestDeleteByPatient(t *testing.T) {
	svc := newTestService(t)
	pid := uuid.New()
	other := uuid.New()
	newConsultation(t, svc, pid, time.Now())
	newConsultation(t, svc, pid, time.Now().Add(-time.Hour))
	kept := newConsultation(t, svc, other, time.Now())

	if err := svc.DeleteByPatient(context.Background(), pid); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all, _ := svc.List(context.Background())
	if len(all) != 1 || all[0].ID != kept.ID {
		t.Errorf("expected only the other patient's appointment to survive, got %d", len(all))
	}
}

type countingListener struct {
	calls int
}

func (l *countingListener) AppointmentsChanged(context.Context) { l.calls++ }

func TestSubscribe_NotifiedOnEveryMutation(t *testing.T) {
	svc := newTestService(t)
	listener := &countingListener{}
	svc.Subscribe(listener)

	pid := uuid.New()
	a := newConsultation(t, svc, pid, time.Now())
	paid := true
	svc.Update(context.Background(), a.ID, Patch{Paid: &paid})
	svc.Delete(context.Background(), a.ID)

	if listener.calls != 3 {
		t.Errorf("expected 3 notifications, got %d", listener.calls)
	}
}

func TestPersistence_SurvivesReload(t *testing.T) {
	store := storage.NewMemoryStore()
	logger := zerolog.New(os.Stderr)
	repo := NewStoreRepo(context.Background(), store, logger, nil)
	svc := NewService(repo)

	pid := uuid.New()
	newConsultation(t, svc, pid, time.Now())

	reloaded := NewService(NewStoreRepo(context.Background(), store, logger, nil))
	all, err := reloaded.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("expected 1 appointment after reload, got %d", len(all))
	}
}
