package reminder

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cabmed/cabmed/internal/domain/appointment"
	"github.com/cabmed/cabmed/internal/platform/storage"
)

type knownPatients map[uuid.UUID]bool

func (k knownPatients) Exists(_ context.Context, id uuid.UUID) bool { return k[id] }

type fixture struct {
	engine       *Service
	appointments *appointment.Service
	patients     knownPatients
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zerolog.New(os.Stderr)
	store := storage.NewMemoryStore()
	appts := appointment.NewService(appointment.NewStoreRepo(context.Background(), store, logger, nil))
	patients := knownPatients{}
	engine := NewService(NewStoreRepo(context.Background(), store, logger), appts, patients, logger)
	appts.Subscribe(engine)
	return &fixture{engine: engine, appointments: appts, patients: patients}
}

func (f *fixture) addPatient() uuid.UUID {
	id := uuid.New()
	f.patients[id] = true
	return id
}

func (f *fixture) pending(t *testing.T) []*Reminder {
	t.Helper()
	pending, err := f.engine.Pending(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return pending
}

func TestScan_YesterdayUnpaidYieldsPaymentAndFollowup(t *testing.T) {
	f := newFixture(t)
	pid := f.addPatient()

	// Creation notifies the engine, so the scan has already run.
	a := &appointment.Appointment{PatientID: &pid, Time: time.Now().Add(-24 * time.Hour)}
	if err := f.appointments.Create(context.Background(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pending := f.pending(t)
	if len(pending) != 2 {
		t.Fatalf("expected exactly 2 pending reminders, got %d", len(pending))
	}
	kinds := map[string]bool{}
	for _, r := range pending {
		kinds[r.Kind] = true
		if r.AppointmentID == nil || *r.AppointmentID != a.ID {
			t.Error("expected reminder to reference the appointment")
		}
		if r.PatientID != pid {
			t.Error("expected reminder to reference the patient")
		}
	}
	if !kinds[KindPayment] || !kinds[KindFollowup] {
		t.Errorf("expected one payment and one followup reminder, got %v", kinds)
	}
}

func TestScan_Idempotent(t *testing.T) {
	f := newFixture(t)
	pid := f.addPatient()
	f.appointments.Create(context.Background(), &appointment.Appointment{PatientID: &pid, Time: time.Now().Add(-24 * time.Hour)})

	before := len(f.pending(t))
	if err := f.engine.Scan(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.engine.Scan(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if after := len(f.pending(t)); after != before {
		t.Errorf("expected rescans to add nothing, went from %d to %d", before, after)
	}
}

func TestScan_DueDates(t *testing.T) {
	f := newFixture(t)
	pid := f.addPatient()

	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	f.engine.now = func() time.Time { return now }
	f.appointments.Create(context.Background(), &appointment.Appointment{PatientID: &pid, Time: now.Add(-time.Hour)})

	for _, r := range f.pending(t) {
		var want time.Time
		switch r.Kind {
		case KindPayment:
			want = now.AddDate(0, 0, 7)
		case KindFollowup:
			want = now.AddDate(0, 0, 1)
		}
		if !r.DueDate.Equal(want) {
			t.Errorf("%s reminder due %v, want %v", r.Kind, r.DueDate, want)
		}
	}
}

func TestScan_SettledAppointmentsGenerateNoPaymentReminder(t *testing.T) {
	f := newFixture(t)
	pid := f.addPatient()
	future := time.Now().Add(24 * time.Hour)

	for _, a := range []*appointment.Appointment{
		{PatientID: &pid, Time: future, Paid: true},
		{PatientID: &pid, Time: future, Gratuite: true},
		{PatientID: &pid, Time: future, Delegue: true},
		{PatientID: &pid, Time: future, Canceled: true},
	} {
		if err := f.appointments.Create(context.Background(), a); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if pending := f.pending(t); len(pending) != 0 {
		t.Errorf("expected no reminders for settled appointments, got %d", len(pending))
	}
}

func TestScan_AttendedPastAppointmentGetsNoFollowup(t *testing.T) {
	f := newFixture(t)
	pid := f.addPatient()
	f.appointments.Create(context.Background(), &appointment.Appointment{
		PatientID: &pid, Time: time.Now().Add(-24 * time.Hour), Paid: true, Attended: true,
	})

	if pending := f.pending(t); len(pending) != 0 {
		t.Errorf("expected no reminders, got %d", len(pending))
	}
}

func TestScan_SkipsUnresolvablePatients(t *testing.T) {
	f := newFixture(t)
	unknown := uuid.New()

	f.appointments.Create(context.Background(), &appointment.Appointment{PatientName: "Passage", Time: time.Now().Add(-24 * time.Hour)})
	f.appointments.Create(context.Background(), &appointment.Appointment{PatientID: &unknown, Time: time.Now().Add(-24 * time.Hour)})

	if pending := f.pending(t); len(pending) != 0 {
		t.Errorf("expected no reminders without a resolvable patient, got %d", len(pending))
	}
}

func TestScan_NeverRetracts(t *testing.T) {
	f := newFixture(t)
	pid := f.addPatient()
	a := &appointment.Appointment{PatientID: &pid, Time: time.Now().Add(24 * time.Hour)}
	f.appointments.Create(context.Background(), a)

	if len(f.pending(t)) != 1 {
		t.Fatal("expected a payment reminder")
	}

	// Paying the appointment rescans but must not remove the reminder.
	paid := true
	if _, err := f.appointments.Update(context.Background(), a.ID, appointment.Patch{Paid: &paid}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pending := f.pending(t); len(pending) != 1 {
		t.Errorf("expected the reminder to survive payment, got %d", len(pending))
	}
}

func TestScan_CompletionFreesDedupSlot(t *testing.T) {
	// Completion frees the dedup slot, so the next scan recreates a
	// pending reminder while the trigger still holds.
	f := newFixture(t)
	pid := f.addPatient()
	f.appointments.Create(context.Background(), &appointment.Appointment{PatientID: &pid, Time: time.Now().Add(24 * time.Hour)})

	pending := f.pending(t)
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending reminder, got %d", len(pending))
	}
	if _, err := f.engine.Complete(context.Background(), pending[0].ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := f.engine.Scan(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pending := f.pending(t); len(pending) != 1 {
		t.Errorf("expected a fresh pending reminder after completion, got %d", len(pending))
	}
}

func TestForPatient(t *testing.T) {
	f := newFixture(t)
	pid := f.addPatient()
	other := f.addPatient()

	f.appointments.Create(context.Background(), &appointment.Appointment{PatientID: &pid, Time: time.Now().Add(24 * time.Hour)})
	f.appointments.Create(context.Background(), &appointment.Appointment{PatientID: &other, Time: time.Now().Add(24 * time.Hour)})

	mine, err := f.engine.ForPatient(context.Background(), pid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mine) != 1 || mine[0].PatientID != pid {
		t.Errorf("expected only the patient's reminders, got %d", len(mine))
	}
}

func TestPendingCount(t *testing.T) {
	f := newFixture(t)
	pid := f.addPatient()
	f.appointments.Create(context.Background(), &appointment.Appointment{PatientID: &pid, Time: time.Now().Add(-24 * time.Hour)})

	count, err := f.engine.PendingCount(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 pending, got %d", count)
	}

	pending := f.pending(t)
	if err := f.engine.Delete(context.Background(), pending[0].ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	count, _ = f.engine.PendingCount(context.Background())
	if count != 1 {
		t.Errorf("expected 1 pending after dismissal, got %d", count)
	}
}
