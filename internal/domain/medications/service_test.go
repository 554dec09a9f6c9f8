package medications

import (
	"context"
	"errors"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID map[string]Medication
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Medication{}}
}

func (r *testRepo) Create(ctx context.Context, m Medication) error {
	if m.ID == "" {
		return errors.New("repo: id required")
	}
	r.byID[m.ID] = m
	return nil
}

func (r *testRepo) Update(ctx context.Context, m Medication) error {
	if _, ok := r.byID[m.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[m.ID] = m
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return errRepoNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Medication, error) {
	m, ok := r.byID[id]
	if !ok {
		return Medication{}, errRepoNotFound
	}
	return m, nil
}

func (r *testRepo) List(ctx context.Context, personID string) ([]Medication, error) {
	out := make([]Medication, 0)
	for _, m := range r.byID {
		if personID != "" && m.PersonID != personID {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_DefaultsMaxDosesToOne(t *testing.T) {
	svc := NewService(newTestRepo())

	now := time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	m, err := svc.Create(context.Background(), CreateInput{
		PersonID: "person-1",
		Name:     "Aspirin",
		Dosage:   "100mg",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if m.MaxDosesPerDay != 1 {
		t.Fatalf("expected max_doses_per_day default 1, got %d", m.MaxDosesPerDay)
	}
	if m.CreatedAt != now || m.UpdatedAt != now {
		t.Fatalf("expected CreatedAt/UpdatedAt to be now")
	}
}

func TestService_Create_RejectsOutOfRangeMaxDoses(t *testing.T) {
	svc := NewService(newTestRepo())

	for _, bad := range []int{-1, 21, 100} {
		_, err := svc.Create(context.Background(), CreateInput{
			PersonID:       "person-1",
			Name:           "Aspirin",
			MaxDosesPerDay: bad,
		})
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("max=%d: expected ErrInvalidInput, got %v", bad, err)
		}
	}
}

func TestService_Create_RequiresPersonAndName(t *testing.T) {
	svc := NewService(newTestRepo())

	if _, err := svc.Create(context.Background(), CreateInput{Name: "Aspirin"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without person, got %v", err)
	}
	if _, err := svc.Create(context.Background(), CreateInput{PersonID: "p1", Name: "  "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without name, got %v", err)
	}
}

func TestService_List_FiltersByPerson(t *testing.T) {
	svc := NewService(newTestRepo())

	_, _ = svc.Create(context.Background(), CreateInput{PersonID: "p1", Name: "Aspirin"})
	_, _ = svc.Create(context.Background(), CreateInput{PersonID: "p1", Name: "Ibuprofen"})
	_, _ = svc.Create(context.Background(), CreateInput{PersonID: "p2", Name: "Vitamin D"})

	all, err := svc.List(context.Background(), "")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 medications, got %d", len(all))
	}

	p1, _ := svc.List(context.Background(), "p1")
	if len(p1) != 2 {
		t.Fatalf("expected 2 medications for p1, got %d", len(p1))
	}

	n, err := svc.CountByPerson(context.Background(), "p2")
	if err != nil || n != 1 {
		t.Fatalf("expected count 1 for p2, got %d (err=%v)", n, err)
	}
}

func TestService_Update_PartialFields(t *testing.T) {
	svc := NewService(newTestRepo())

	now1 := time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)
	now2 := now1.Add(time.Hour)
	svc.now = func() time.Time { return now1 }

	m, _ := svc.Create(context.Background(), CreateInput{
		PersonID:       "p1",
		Name:           "Aspirin",
		Dosage:         "100mg",
		MaxDosesPerDay: 2,
	})

	svc.now = func() time.Time { return now2 }
	newMax := 4
	got, err := svc.Update(context.Background(), m.ID, UpdateInput{MaxDosesPerDay: &newMax})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if got.MaxDosesPerDay != 4 {
		t.Fatalf("expected max updated to 4, got %d", got.MaxDosesPerDay)
	}
	if got.Name != "Aspirin" || got.Dosage != "100mg" {
		t.Fatalf("expected untouched fields to survive")
	}
	if got.UpdatedAt != now2 {
		t.Fatalf("expected UpdatedAt to move")
	}
}

func TestService_Delete_UnknownID(t *testing.T) {
	svc := NewService(newTestRepo())

	if err := svc.Delete(context.Background(), "nope"); err == nil {
		t.Fatalf("expected error deleting unknown medication")
	}
}
