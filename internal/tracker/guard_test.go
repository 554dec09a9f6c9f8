package tracker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"med-tracker/internal/platform/logger"
	"med-tracker/internal/ports/store"
)

// -------------------------
// Fake store
// -------------------------

type fakeStore struct {
	mu sync.Mutex

	recordCalls       int
	recordForDayCalls int

	lastOffset  *int
	lastDayKey  string
	lastTimeArg string

	// delay simula latencia de red dentro de la escritura
	delay time.Duration
	// err hace fallar la próxima escritura
	err error
}

func (f *fakeStore) RecordDose(ctx context.Context, medicationID string, offsetMinutes *int) (store.Dose, error) {
	f.mu.Lock()
	f.recordCalls++
	f.lastOffset = offsetMinutes
	delay, err := f.delay, f.err
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if err != nil {
		return store.Dose{}, err
	}
	id := medicationID
	return store.Dose{ID: "dose-1", MedicationID: &id, TakenAt: time.Now().UTC()}, nil
}

func (f *fakeStore) RecordDoseForDay(ctx context.Context, medicationID, dayKey, timeHHMM string, offsetMinutes *int) (store.Dose, error) {
	f.mu.Lock()
	f.recordForDayCalls++
	f.lastOffset = offsetMinutes
	f.lastDayKey = dayKey
	f.lastTimeArg = timeHHMM
	err := f.err
	f.mu.Unlock()

	if err != nil {
		return store.Dose{}, err
	}
	id := medicationID
	return store.Dose{ID: "dose-2", MedicationID: &id, TakenAt: time.Now().UTC()}, nil
}

func (f *fakeStore) ListMedications(ctx context.Context, personID, dayKey string, offsetMinutes *int) ([]store.Medication, error) {
	return nil, nil
}

func (f *fakeStore) GetDailySummary(ctx context.Context, dayKey string, offsetMinutes *int, personID string) (store.DailySummary, error) {
	return store.DailySummary{Date: dayKey}, nil
}

func (f *fakeStore) GetDoseHistory(ctx context.Context, medicationID string) ([]store.Dose, error) {
	return nil, nil
}

func (f *fakeStore) GetDeletedMedicationDoseHistory(ctx context.Context, medicationName string) ([]store.Dose, error) {
	return nil, nil
}

func (f *fakeStore) DeleteDose(ctx context.Context, doseID string) error { return nil }

func (f *fakeStore) writes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.recordCalls + f.recordForDayCalls
}

func testClock() Clock {
	// Viewer en UTC−5, 17/05 14:00 locales.
	loc := time.FixedZone("", -300*60)
	return FixedClock{Instant: time.Date(2025, 5, 17, 14, 0, 0, 0, loc)}
}

// -------------------------
// Tests
// -------------------------

func TestGuard_SingleFlight_ConcurrentTriggersProduceOneWrite(t *testing.T) {
	fs := &fakeStore{delay: 30 * time.Millisecond}
	g := NewGuard(fs, testClock(), NewCounters(), logger.Nop{})

	const n = 25
	var wg sync.WaitGroup
	var mu sync.Mutex
	success, inFlight := 0, 0

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := g.Record(context.Background(), "med-1", "2025-05-17", "")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				success++
			case errors.Is(err, ErrRecordingInFlight):
				inFlight++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if success != 1 {
		t.Fatalf("expected exactly 1 successful write, got %d", success)
	}
	if inFlight != n-1 {
		t.Fatalf("expected %d in-flight rejections, got %d", n-1, inFlight)
	}
	if fs.writes() != 1 {
		t.Fatalf("expected exactly 1 store write, got %d", fs.writes())
	}
}

func TestGuard_SingleFlight_KeyedPerMedication(t *testing.T) {
	fs := &fakeStore{delay: 30 * time.Millisecond}
	g := NewGuard(fs, testClock(), NewCounters(), logger.Nop{})

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, med := range []string{"med-a", "med-b"} {
		wg.Add(1)
		go func(i int, med string) {
			defer wg.Done()
			_, errs[i] = g.Record(context.Background(), med, "2025-05-17", "")
		}(i, med)
	}
	wg.Wait()

	// A grabando nunca bloquea a B.
	if errs[0] != nil || errs[1] != nil {
		t.Fatalf("expected both medications to record, got %v / %v", errs[0], errs[1])
	}
	if fs.writes() != 2 {
		t.Fatalf("expected 2 writes, got %d", fs.writes())
	}
}

func TestGuard_FutureDay_NoNetworkCall(t *testing.T) {
	fs := &fakeStore{}
	g := NewGuard(fs, testClock(), NewCounters(), logger.Nop{})

	_, err := g.Record(context.Background(), "med-1", "2025-05-18", "08:00")
	if !errors.Is(err, ErrFutureDay) {
		t.Fatalf("expected ErrFutureDay, got %v", err)
	}
	if fs.writes() != 0 {
		t.Fatalf("future day must not reach the store, got %d writes", fs.writes())
	}
	if g.Recording("med-1") {
		t.Fatalf("guard must stay idle after a rejected request")
	}
}

func TestGuard_MaxDoses_PreflightShortCircuit(t *testing.T) {
	fs := &fakeStore{}
	counters := NewCounters()
	counters.Replace([]store.Medication{
		{ID: "med-1", Name: "Aspirin", DosesTakenToday: 3, MaxDosesPerDay: 3},
	})
	g := NewGuard(fs, testClock(), counters, logger.Nop{})

	_, err := g.Record(context.Background(), "med-1", "2025-05-17", "")
	if !errors.Is(err, ErrMaxDoses) {
		t.Fatalf("expected ErrMaxDoses, got %v", err)
	}
	if fs.writes() != 0 {
		t.Fatalf("max-dose rejection must not reach the store")
	}
}

func TestGuard_PastDay_RequiresExplicitTime_AndOmitsOffset(t *testing.T) {
	fs := &fakeStore{}
	g := NewGuard(fs, testClock(), NewCounters(), logger.Nop{})

	// sin hora => rechazo pre-flight
	_, err := g.Record(context.Background(), "med-1", "2025-05-10", "")
	if !errors.Is(err, ErrExplicitTimeRequired) {
		t.Fatalf("expected ErrExplicitTimeRequired, got %v", err)
	}
	if fs.writes() != 0 {
		t.Fatalf("missing time must not reach the store")
	}

	// con hora => escribe fecha+hora SIN offset (el par ya es inequívoco)
	if _, err := g.Record(context.Background(), "med-1", "2025-05-10", "08:30"); err != nil {
		t.Fatalf("past record error: %v", err)
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.recordForDayCalls != 1 || fs.lastDayKey != "2025-05-10" || fs.lastTimeArg != "08:30" {
		t.Fatalf("unexpected explicit write: calls=%d day=%s time=%s", fs.recordForDayCalls, fs.lastDayKey, fs.lastTimeArg)
	}
	if fs.lastOffset != nil {
		t.Fatalf("past-day write must not carry an offset, got %d", *fs.lastOffset)
	}
}

func TestGuard_Today_ImmediateCarriesViewerOffset(t *testing.T) {
	fs := &fakeStore{}
	counters := NewCounters()
	counters.Replace([]store.Medication{
		{ID: "med-1", Name: "Aspirin", DosesTakenToday: 0, MaxDosesPerDay: 3},
	})
	g := NewGuard(fs, testClock(), counters, logger.Nop{})

	dose, err := g.Record(context.Background(), "med-1", "2025-05-17", "")
	if err != nil {
		t.Fatalf("Record error: %v", err)
	}

	fs.mu.Lock()
	if fs.recordCalls != 1 {
		t.Fatalf("expected immediate-mode write, got %d", fs.recordCalls)
	}
	if fs.lastOffset == nil || *fs.lastOffset != -300 {
		t.Fatalf("expected offset -300 forwarded, got %v", fs.lastOffset)
	}
	fs.mu.Unlock()

	// éxito de hoy => contador optimista +1
	mc, _ := counters.Get("med-1")
	if mc.DosesTakenToday != 1 {
		t.Fatalf("expected optimistic counter 1, got %d", mc.DosesTakenToday)
	}
	if mc.LastTakenAt == nil || !mc.LastTakenAt.Equal(dose.TakenAt) {
		t.Fatalf("expected LastTakenAt from the write")
	}
}

func TestGuard_FailureReturnsToIdle_RetryIssuesNewWrite(t *testing.T) {
	fs := &fakeStore{err: errors.New("store exploded")}
	counters := NewCounters()
	counters.Replace([]store.Medication{
		{ID: "med-1", Name: "Aspirin", DosesTakenToday: 0, MaxDosesPerDay: 3},
	})
	g := NewGuard(fs, testClock(), counters, logger.Nop{})

	if _, err := g.Record(context.Background(), "med-1", "2025-05-17", ""); err == nil {
		t.Fatalf("expected store error")
	}

	// falla => contador intacto y guard en Idle
	if mc, _ := counters.Get("med-1"); mc.DosesTakenToday != 0 {
		t.Fatalf("failed write must not bump the counter")
	}
	if g.Recording("med-1") {
		t.Fatalf("guard must return to idle after failure")
	}

	// retry inmediato => nueva escritura real
	fs.mu.Lock()
	fs.err = nil
	fs.mu.Unlock()
	if _, err := g.Record(context.Background(), "med-1", "2025-05-17", ""); err != nil {
		t.Fatalf("retry error: %v", err)
	}
	if fs.writes() != 2 {
		t.Fatalf("expected 2 writes total (fail + retry), got %d", fs.writes())
	}
}

func TestGuard_BadExplicitTimeRejected(t *testing.T) {
	fs := &fakeStore{}
	g := NewGuard(fs, testClock(), NewCounters(), logger.Nop{})

	for _, bad := range []string{"25:00", "8am", "08:61", "ocho"} {
		if _, err := g.Record(context.Background(), "med-1", "2025-05-10", bad); !errors.Is(err, ErrExplicitTimeRequired) {
			t.Fatalf("time %q: expected ErrExplicitTimeRequired, got %v", bad, err)
		}
	}
	if fs.writes() != 0 {
		t.Fatalf("invalid times must not reach the store")
	}
}
